package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasiri-energy/gasline-backend/api/controllers"
	"github.com/jasiri-energy/gasline-backend/api/middleware"
	"github.com/jasiri-energy/gasline-backend/internal/deposits"
	"github.com/jasiri-energy/gasline-backend/internal/pricelists"
	"github.com/jasiri-energy/gasline-backend/internal/pricing"
	"github.com/jasiri-energy/gasline-backend/internal/products"
	"github.com/jasiri-energy/gasline-backend/pkg/config"
	"github.com/jasiri-energy/gasline-backend/pkg/db"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	pkgredis "github.com/jasiri-energy/gasline-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	Registry *prometheus.Registry

	Pricing    *pricing.Service
	PriceLists *pricelists.Service
	Deposits   *deposits.Service
	Products   *products.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	var redisPinger pkgredis.Pinger
	var idempotencyStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		redisPinger = deps.Redis
		idempotencyStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/pricing", func(r chi.Router) {
			r.Post("/quote", controllers.PricingMethodQuote(deps.Pricing, logg))
			r.Post("/weight", controllers.PricingWeightQuote(deps.Pricing, logg))
			r.Post("/order-flow", controllers.PricingOrderFlow(deps.Pricing, logg))
			r.Post("/totals", controllers.PricingOrderTotals(deps.Pricing, logg))
			r.Post("/credits", controllers.PricingReturnCredit(deps.Pricing, logg))
			r.Post("/validate", controllers.PricingValidate(deps.Pricing, logg))
			r.Get("/stats", controllers.PricingStats(deps.Pricing, logg))
			r.Post("/products", controllers.ProductPriceBatch(deps.Pricing, logg))
			r.Get("/products/{productId}", controllers.ProductPriceFetch(deps.Pricing, logg))
		})

		r.Route("/price-lists", func(r chi.Router) {
			r.Post("/", controllers.PriceListCreate(deps.PriceLists, logg))
			r.Get("/", controllers.PriceListIndex(deps.PriceLists, logg))
			r.Get("/{priceListId}", controllers.PriceListFetch(deps.PriceLists, logg))
			r.Put("/{priceListId}/items", controllers.PriceListSetItem(deps.PriceLists, logg))
			r.Delete("/{priceListId}/items/{productId}", controllers.PriceListRemoveItem(deps.PriceLists, logg))
		})

		r.Route("/deposit-rates", func(r chi.Router) {
			r.Post("/", controllers.DepositRateCreate(deps.Deposits, logg))
			r.Get("/", controllers.DepositRateIndex(deps.Deposits, logg))
			r.Post("/{rateId}/deactivate", controllers.DepositRateDeactivate(deps.Deposits, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Get("/", controllers.ProductIndex(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductFetch(deps.Products, logg))
			r.Get("/{productId}/pricing", controllers.ProductPricingAttributes(deps.Products, logg))
		})

		r.Get("/customer-tiers", controllers.CustomerTierIndex())
	})

	return r
}
