package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by store lookups when no record matches the key.
var ErrNotFound = errors.New("not found")

// SupplierStore finds and creates suppliers by (tenant, name).
type SupplierStore interface {
	FindSupplierByName(ctx context.Context, tenantID, name string) (Supplier, error)
	CreateSupplier(ctx context.Context, s Supplier) (Supplier, error)
}

// SupplyItemStore persists supply items keyed by (tenant, sku).
//
// UpdateSupplyItem refreshes only name, cost, supplier and production flag;
// sku, category and unit are immutable once created.
type SupplyItemStore interface {
	FindSupplyItemBySKU(ctx context.Context, tenantID, sku string) (SupplyItem, error)
	CreateSupplyItem(ctx context.Context, item SupplyItem) (SupplyItem, error)
	UpdateSupplyItem(ctx context.Context, item SupplyItem) error
}

// ProductStore persists products keyed by (tenant, handle).
//
// UpdateProduct refreshes only name, price, sku and cost.
type ProductStore interface {
	FindProductByHandle(ctx context.Context, tenantID, handle string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) error
}

// RecipeStore replaces the full edge set of a recipe parent.
type RecipeStore interface {
	ReplaceProductRecipe(ctx context.Context, productID uuid.UUID, edges []RecipeEdge) error
	ReplaceProductionRecipe(ctx context.Context, supplyItemID uuid.UUID, edges []RecipeEdge) error
}

// CatalogStore is everything one ingestion call needs.
type CatalogStore interface {
	SupplierStore
	SupplyItemStore
	ProductStore
	RecipeStore
}

// ImportLog records finished import runs.
type ImportLog interface {
	RecordImport(ctx context.Context, run ImportRun) error
	ListImports(ctx context.Context, tenantID string, limit int) ([]ImportRun, error)
}

// Store is implemented by the postgres and in-memory backends.
type Store interface {
	CatalogStore
	ImportLog
}
