package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/db"
	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	"github.com/jasiri-energy/gasline-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service orchestrates product catalog operations.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a product service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{repo: params.Repo, logg: params.Logger}, nil
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if strings.TrimSpace(product.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(product.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !product.Variant.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cylinder variant").
			WithDetails(map[string]any{"variant": product.Variant})
	}
	if product.ParentProductID != nil {
		parent, err := s.repo.FindByID(ctx, *product.ParentProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent product")
		}
		if parent == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent product does not exist").
				WithDetails(map[string]any{"parent_product_id": *product.ParentProductID})
		}
		if parent.ParentProductID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variants cannot nest more than one level")
		}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists").
				WithDetails(map[string]any{"sku": product.SKU})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.logg.Info(s.logg.WithProductID(ctx, product.ID.String()), "product created")
	return product, nil
}

// Get loads a product by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": id})
	}
	return product, nil
}

// GetEffective loads a product with any missing pricing attributes filled in
// from its parent, the view the pricing core and catalog pages consume.
func (s *Service) GetEffective(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.ParentProductID == nil {
		return product, nil
	}
	parent, err := s.repo.FindByID(ctx, *product.ParentProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent product")
	}
	if parent == nil {
		return product, nil
	}
	merged := MergeParentAttributes(*product, *parent)
	return &merged, nil
}

// ListParams configures a catalog listing.
type ListParams struct {
	Variant    *enums.CylinderVariant
	ActiveOnly bool
	Search     string
	Pagination pagination.Params
}

// List pages through the catalog, newest first.
func (s *Service) List(ctx context.Context, params ListParams) ([]models.Product, string, error) {
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	items, next, err := s.repo.List(ctx, ListQuery{
		Variant:    params.Variant,
		ActiveOnly: params.ActiveOnly,
		Search:     params.Search,
		Limit:      params.Pagination.Limit,
		Cursor:     cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return items, nextCursor, nil
}

// MergeParentAttributes overlays a variant's missing pricing attributes with
// its parent's. The variant's own values always win.
func MergeParentAttributes(product, parent models.Product) models.Product {
	merged := product
	if merged.CapacityKg == nil {
		merged.CapacityKg = parent.CapacityKg
	}
	if merged.CapacityL == nil {
		merged.CapacityL = parent.CapacityL
	}
	if merged.NetGasWeightKg == nil {
		merged.NetGasWeightKg = parent.NetGasWeightKg
	}
	if merged.GrossWeightKg == nil {
		merged.GrossWeightKg = parent.GrossWeightKg
	}
	if merged.TareWeightKg == nil {
		merged.TareWeightKg = parent.TareWeightKg
	}
	if merged.UnitPrice == nil {
		merged.UnitPrice = parent.UnitPrice
	}
	if merged.TaxRate == nil {
		merged.TaxRate = parent.TaxRate
	}
	if merged.TaxCategory == nil {
		merged.TaxCategory = parent.TaxCategory
	}
	return merged
}
