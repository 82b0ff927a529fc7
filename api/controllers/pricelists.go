package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/api/responses"
	"github.com/jasiri-energy/gasline-backend/api/validators"
	"github.com/jasiri-energy/gasline-backend/internal/pricelists"
	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	"github.com/jasiri-energy/gasline-backend/pkg/pagination"
)

type createPriceListRequest struct {
	Name          string     `json:"name" validate:"required"`
	Currency      *string    `json:"currency,omitempty"`
	StartsAt      time.Time  `json:"starts_at" validate:"required"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	IsDefault     bool       `json:"is_default,omitempty"`
	PricingMethod string     `json:"pricing_method" validate:"required"`
	Notes         *string    `json:"notes,omitempty"`
}

// PriceListCreate registers a new price list.
func PriceListCreate(svc *pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPriceListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePricingMethod(strings.TrimSpace(payload.PricingMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing method"))
			return
		}
		currency, err := parseOptionalCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := &models.PriceList{
			Name:          validators.SanitizeString(payload.Name, 120),
			Currency:      currency,
			StartsAt:      payload.StartsAt,
			EndsAt:        payload.EndsAt,
			IsDefault:     payload.IsDefault,
			PricingMethod: method,
			Notes:         payload.Notes,
		}

		created, err := svc.Create(r.Context(), list)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PriceListFetch loads one price list with its items.
func PriceListFetch(svc *pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := parseUUIDField(chi.URLParam(r, "priceListId"), "price_list_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Get(r.Context(), listID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// PriceListIndex pages through price lists, optionally filtered by derived
// status.
func PriceListIndex(svc *pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pricelists.ListParams{
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParsePriceListStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid price list status"))
				return
			}
			params.Status = &status
		}

		lists, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"price_lists": lists, "next_cursor": next})
	}
}

type setPriceListItemRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	PricePerKg   *decimal.Decimal `json:"price_per_kg,omitempty"`
	SurchargePct *decimal.Decimal `json:"surcharge_pct,omitempty"`
	MinQty       *int             `json:"min_qty,omitempty"`
	PriceExclTax *decimal.Decimal `json:"price_excluding_tax,omitempty"`
	TaxAmount    *decimal.Decimal `json:"tax_amount,omitempty"`
	PriceInclTax *decimal.Decimal `json:"price_including_tax,omitempty"`
}

// PriceListSetItem creates or replaces a product's entry in a list.
func PriceListSetItem(svc *pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := parseUUIDField(chi.URLParam(r, "priceListId"), "price_list_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setPriceListItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseUUIDField(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := &models.PriceListItem{
			PriceListID:  listID,
			ProductID:    productID,
			UnitPrice:    payload.UnitPrice,
			PricePerKg:   payload.PricePerKg,
			SurchargePct: payload.SurchargePct,
			MinQty:       payload.MinQty,
			PriceExclTax: payload.PriceExclTax,
			TaxAmount:    payload.TaxAmount,
			PriceInclTax: payload.PriceInclTax,
		}

		saved, err := svc.SetItem(r.Context(), item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saved)
	}
}

// PriceListRemoveItem drops a product's entry from a list.
func PriceListRemoveItem(svc *pricelists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := parseUUIDField(chi.URLParam(r, "priceListId"), "price_list_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := parseUUIDField(chi.URLParam(r, "productId"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), listID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
