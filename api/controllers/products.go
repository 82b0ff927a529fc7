package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/api/responses"
	"github.com/jasiri-energy/gasline-backend/api/validators"
	"github.com/jasiri-energy/gasline-backend/internal/products"
	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	"github.com/jasiri-energy/gasline-backend/pkg/pagination"
)

type createProductRequest struct {
	SKU             string           `json:"sku" validate:"required"`
	Name            string           `json:"name" validate:"required"`
	Description     *string          `json:"description,omitempty"`
	Variant         string           `json:"variant" validate:"required"`
	ParentProductID *string          `json:"parent_product_id,omitempty"`
	CapacityKg      *decimal.Decimal `json:"capacity_kg,omitempty"`
	CapacityL       *decimal.Decimal `json:"capacity_l,omitempty"`
	NetGasWeightKg  *decimal.Decimal `json:"net_gas_weight_kg,omitempty"`
	GrossWeightKg   *decimal.Decimal `json:"gross_weight_kg,omitempty"`
	TareWeightKg    *decimal.Decimal `json:"tare_weight_kg,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate         *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxCategory     *string          `json:"tax_category,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// ProductCreate registers a catalog product or variant.
func ProductCreate(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := enums.ParseCylinderVariant(strings.TrimSpace(payload.Variant))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cylinder variant"))
			return
		}

		product := &models.Product{
			SKU:            validators.SanitizeString(payload.SKU, 64),
			Name:           validators.SanitizeString(payload.Name, 120),
			Description:    payload.Description,
			Variant:        variant,
			CapacityKg:     payload.CapacityKg,
			CapacityL:      payload.CapacityL,
			NetGasWeightKg: payload.NetGasWeightKg,
			GrossWeightKg:  payload.GrossWeightKg,
			TareWeightKg:   payload.TareWeightKg,
			UnitPrice:      payload.UnitPrice,
			TaxRate:        payload.TaxRate,
			TaxCategory:    payload.TaxCategory,
			Tags:           payload.Tags,
			IsActive:       true,
		}
		if payload.IsActive != nil {
			product.IsActive = *payload.IsActive
		}
		if payload.ParentProductID != nil {
			parentID, parseErr := parseUUIDField(*payload.ParentProductID, "parent_product_id")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			product.ParentProductID = &parentID
		}

		created, err := svc.Create(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ProductFetch loads one product as stored.
func ProductFetch(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDField(chi.URLParam(r, "productId"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductPricingAttributes returns the product with parent attributes merged
// in, the view pricing actually consumes.
func ProductPricingAttributes(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDField(chi.URLParam(r, "productId"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetEffective(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductIndex pages through the catalog.
func ProductIndex(svc *products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := products.ListParams{
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), 64),
			ActiveOnly: strings.TrimSpace(r.URL.Query().Get("active")) == "true",
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("variant")); raw != "" {
			variant, parseErr := enums.ParseCylinderVariant(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid cylinder variant"))
				return
			}
			params.Variant = &variant
		}

		list, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": list, "next_cursor": next})
	}
}
