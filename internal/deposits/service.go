package deposits

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
)

// Service manages cylinder deposit rates.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// ServiceParams configures a deposit rate service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// NewService constructs a deposit rate service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{repo: params.Repo, logg: params.Logger}, nil
}

// CreateParams holds the fields for a new deposit rate.
type CreateParams struct {
	CapacityKg    decimal.Decimal
	Currency      enums.Currency
	Amount        decimal.Decimal
	EffectiveFrom time.Time
	EndsAt        *time.Time
}

// Create registers a deposit rate for a cylinder capacity. Overlapping
// windows for the same capacity are allowed; resolution prefers the row
// with the latest effective date.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.CylinderDepositRate, error) {
	if !params.CapacityKg.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must be positive")
	}
	if params.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deposit amount cannot be negative")
	}
	if params.EffectiveFrom.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "effective date is required")
	}
	if params.EndsAt != nil && params.EndsAt.Before(params.EffectiveFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date cannot precede effective date").
			WithDetails(map[string]any{
				"effective_from": params.EffectiveFrom,
				"ends_at":        *params.EndsAt,
			})
	}
	currency := params.Currency
	if currency == "" {
		currency = enums.CurrencyKES
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency").
			WithDetails(map[string]any{"currency": currency})
	}

	rate := &models.CylinderDepositRate{
		CapacityKg:    params.CapacityKg,
		Currency:      currency,
		Amount:        params.Amount,
		EffectiveFrom: params.EffectiveFrom,
		EndsAt:        params.EndsAt,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, rate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create deposit rate")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"capacity_kg": rate.CapacityKg.String(),
		"amount":      rate.Amount.String(),
	}), "deposit rate created")
	return rate, nil
}

// Get loads a deposit rate by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.CylinderDepositRate, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deposit rate")
	}
	if rate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deposit rate not found")
	}
	return rate, nil
}

// ListParams filters deposit rate listings.
type ListParams struct {
	Currency   *enums.Currency
	ActiveOnly bool
	CoversDate *time.Time
}

// List returns deposit rates ordered by capacity.
func (s *Service) List(ctx context.Context, params ListParams) ([]models.CylinderDepositRate, error) {
	rates, err := s.repo.List(ctx, ListQuery{
		Currency:   params.Currency,
		ActiveOnly: params.ActiveOnly,
		CoversDate: params.CoversDate,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deposit rates")
	}
	return rates, nil
}

// Deactivate retires a deposit rate without deleting its history.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*models.CylinderDepositRate, error) {
	rate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rate.IsActive {
		return rate, nil
	}
	rate.IsActive = false
	if err := s.repo.Update(ctx, rate); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate deposit rate")
	}
	s.logg.Info(s.logg.WithField(ctx, "rate_id", rate.ID.String()), "deposit rate deactivated")
	return rate, nil
}
