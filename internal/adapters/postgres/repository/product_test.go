package repository_test

import (
	"context"
	"testing"

	"products-service/internal/adapters/postgres/repository"
	"products-service/internal/core/domain"
	"products-service/internal/core/port"
)

func testProduct() *domain.Product {
	return domain.NewProduct("Test Burger", "Delicious test burger", domain.CategoryMainItem, 10.5, 5)
}

func createTestProduct(t *testing.T, repo port.ProductRepository) *domain.StoredProduct {
	t.Helper()
	stored, err := repo.Create(context.Background(), testProduct())
	if err != nil {
		t.Fatalf("setup: create product failed: %v", err)
	}
	return stored
}

func TestProductRepository_Create(t *testing.T) {
	repo := repository.NewProductRepository(testPool)
	ctx := context.Background()

	t.Run("assigns identifier and default timestamps", func(t *testing.T) {
		stored, err := repo.Create(ctx, testProduct())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if stored.ID <= 0 {
			t.Fatalf("expected positive id, got %d", stored.ID)
		}
		if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
			t.Fatal("expected both timestamps to be set")
		}
		if stored.CreatedAt.After(stored.UpdatedAt) {
			t.Fatal("expected created_at <= updated_at")
		}
	})

	t.Run("identifiers increase monotonically", func(t *testing.T) {
		first := createTestProduct(t, repo)
		second := createTestProduct(t, repo)
		if second.ID <= first.ID {
			t.Fatalf("expected id %d > %d", second.ID, first.ID)
		}
	})

	t.Run("round-trips every field", func(t *testing.T) {
		stored := createTestProduct(t, repo)

		found, err := repo.GetByID(ctx, stored.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found == nil {
			t.Fatal("expected product, got nil")
		}
		if found.Product != stored.Product {
			t.Fatalf("expected %+v, got %+v", stored.Product, found.Product)
		}
	})
}

func TestProductRepository_GetByID(t *testing.T) {
	repo := repository.NewProductRepository(testPool)
	ctx := context.Background()

	t.Run("returns stored product", func(t *testing.T) {
		created := createTestProduct(t, repo)

		found, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found == nil || found.ID != created.ID {
			t.Fatalf("expected product %d, got %+v", created.ID, found)
		}
	})

	t.Run("absent id yields nil without error", func(t *testing.T) {
		found, err := repo.GetByID(ctx, 999999)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found != nil {
			t.Fatalf("expected nil, got %+v", found)
		}
	})
}

func TestProductRepository_GetAll(t *testing.T) {
	repo := repository.NewProductRepository(testPool)
	ctx := context.Background()

	t.Run("returns every stored record ordered by id", func(t *testing.T) {
		before, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		created := createTestProduct(t, repo)

		after, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(after) != len(before)+1 {
			t.Fatalf("expected %d products, got %d", len(before)+1, len(after))
		}
		last := after[len(after)-1]
		if last.ID != created.ID {
			t.Fatalf("expected newest id %d last, got %d", created.ID, last.ID)
		}
	})
}

func TestProductRepository_Update(t *testing.T) {
	repo := repository.NewProductRepository(testPool)
	ctx := context.Background()

	t.Run("overwrites mutable fields and refreshes updated_at", func(t *testing.T) {
		created := createTestProduct(t, repo)

		replacement := domain.NewProduct("Renamed Burger", "Even better", domain.CategoryDessert, 12.0, 3)
		updated, err := repo.Update(ctx, created.ID, replacement)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated == nil {
			t.Fatal("expected product, got nil")
		}
		if updated.ID != created.ID {
			t.Fatalf("expected id unchanged, got %d", updated.ID)
		}
		if updated.Name != "Renamed Burger" || updated.Category != domain.CategoryDessert {
			t.Fatalf("expected overwritten fields, got %+v", updated.Product)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatal("expected created_at to be preserved")
		}
		if updated.UpdatedAt.Before(created.UpdatedAt) {
			t.Fatal("expected updated_at to be refreshed")
		}
	})

	t.Run("absent id yields nil without creating a record", func(t *testing.T) {
		updated, err := repo.Update(ctx, 999999, testProduct())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated != nil {
			t.Fatalf("expected nil, got %+v", updated)
		}
		if found, _ := repo.GetByID(ctx, 999999); found != nil {
			t.Fatal("expected no record to be created as a side effect")
		}
	})
}

func TestProductRepository_Delete(t *testing.T) {
	repo := repository.NewProductRepository(testPool)
	ctx := context.Background()

	t.Run("removes the record", func(t *testing.T) {
		created := createTestProduct(t, repo)

		deleted, err := repo.Delete(ctx, created.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !deleted {
			t.Fatal("expected true for existing record")
		}

		found, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found != nil {
			t.Fatal("expected record to be gone")
		}
	})

	t.Run("absent id yields false without error", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, 999999)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if deleted {
			t.Fatal("expected false for absent record")
		}
	})
}
