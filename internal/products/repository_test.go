package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

func mustCreateTestProduct(t *testing.T, repo Repository, variant enums.CylinderVariant) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:      fmt.Sprintf("CYL-%s", uuid.NewString()),
		Name:     "Test Cylinder",
		Variant:  variant,
		IsActive: true,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	created := mustCreateTestProduct(t, repo, enums.CylinderVariantFullExchange)
	if created.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched == nil || fetched.SKU != created.SKU {
		t.Fatalf("expected SKU %s, got %+v", created.SKU, fetched)
	}

	bySKU, err := repo.FindBySKU(ctx, created.SKU)
	if err != nil {
		t.Fatalf("find by sku: %v", err)
	}
	if bySKU == nil || bySKU.ID != created.ID {
		t.Fatalf("expected product %s, got %+v", created.ID, bySKU)
	}

	created.Name = "Updated Cylinder"
	if err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update product: %v", err)
	}

	variant := enums.CylinderVariantFullExchange
	list, _, err := repo.List(ctx, ListQuery{Variant: &variant, ActiveOnly: true})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("expected at least one product")
	}
}

func TestRepositoryFindMissingProduct(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	product, err := repo.FindByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if product != nil {
		t.Fatal("expected nil for an unknown product")
	}
}
