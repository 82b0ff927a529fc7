package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/api/responses"
	"github.com/jasiri-energy/gasline-backend/api/validators"
	"github.com/jasiri-energy/gasline-backend/internal/deposits"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
)

type createDepositRateRequest struct {
	CapacityKg    decimal.Decimal `json:"capacity_kg" validate:"required"`
	Currency      *string         `json:"currency,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveFrom time.Time       `json:"effective_from" validate:"required"`
	EndsAt        *time.Time      `json:"ends_at,omitempty"`
}

// DepositRateCreate registers a deposit rate for a cylinder capacity.
func DepositRateCreate(svc *deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createDepositRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := parseOptionalCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Create(r.Context(), deposits.CreateParams{
			CapacityKg:    payload.CapacityKg,
			Currency:      currency,
			Amount:        payload.Amount,
			EffectiveFrom: payload.EffectiveFrom,
			EndsAt:        payload.EndsAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}

// DepositRateIndex lists deposit rates, optionally narrowed to a currency, to
// active rows, or to rates covering a given date.
func DepositRateIndex(svc *deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := deposits.ListParams{}

		if raw := strings.TrimSpace(r.URL.Query().Get("currency")); raw != "" {
			currency, err := enums.ParseCurrency(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency"))
				return
			}
			params.Currency = &currency
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw == "true" {
			params.ActiveOnly = true
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("as_of")); raw != "" {
			asOf, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "as_of must be YYYY-MM-DD"))
				return
			}
			params.CoversDate = &asOf
		}

		rates, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deposit_rates": rates})
	}
}

// DepositRateDeactivate retires a deposit rate.
func DepositRateDeactivate(svc *deposits.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rateID, err := parseUUIDField(chi.URLParam(r, "rateId"), "rate_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Deactivate(r.Context(), rateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rate)
	}
}
