package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default values applied while extracting and persisting catalog nodes.
const (
	DefaultCategory         = "Uncategorized"
	DefaultUnit             = "unit"
	DefaultSupplierCategory = "General"
)

// productionKeywords mark a category as an internally produced batch.
var productionKeywords = []string{"preparado", "salsa", "batch"}

// CatalogNode is one not-yet-persisted catalog entry, extracted from the
// first row bearing its handle.
type CatalogNode struct {
	Handle       string
	SKU          string
	Name         string
	Category     string
	Price        decimal.Decimal
	Cost         decimal.Decimal
	IsSold       bool
	IsProduction bool
	SupplierID   *uuid.UUID
	Line         int // 1-indexed line of the first occurrence
}

// RecipeComponentRef is a component reference waiting to be resolved to a
// persisted supply item.
type RecipeComponentRef struct {
	ComponentSKU string
	Quantity     decimal.Decimal
}

// Supplier is a persisted supplier.
type Supplier struct {
	ID       uuid.UUID
	TenantID string
	Name     string
	Category string
	Email    string
	Phone    string
	Address  string
}

// SupplyItem is the universal inventory record, keyed by (tenant, sku).
type SupplyItem struct {
	ID           uuid.UUID
	TenantID     string
	SKU          string
	Name         string
	Category     string
	Unit         string
	Cost         decimal.Decimal
	IsProduction bool
	SupplierID   *uuid.UUID
}

// Product is a sellable catalog entry, keyed by (tenant, handle).
type Product struct {
	ID       uuid.UUID
	TenantID string
	Handle   string
	SKU      string
	Name     string
	Price    decimal.Decimal
	Cost     decimal.Decimal
	Active   bool
}

// RecipeEdge is a quantity-weighted link from a recipe parent to a component
// supply item.
type RecipeEdge struct {
	ComponentID uuid.UUID
	Quantity    decimal.Decimal
}

// Summary is the result of one ingestion call. Callers must inspect it:
// per-entity failures never fail the call itself.
type Summary struct {
	NodesPersisted       int                `json:"nodesPersisted"`
	TotalNodesDiscovered int                `json:"totalNodesDiscovered"`
	RecipeEdgesCreated   int                `json:"recipeEdgesCreated"`
	SuppliersResolved    int                `json:"suppliersResolved"`
	Errors               []string           `json:"errors"`
	ErrorCount           int                `json:"errorCount"`
	ErrorsByKind         map[EntityKind]int `json:"errorsByKind,omitempty"`
	DroppedComponents    int                `json:"droppedComponents"`
	DurationMs           int64              `json:"durationMs"`
}

// ImportStatus is the terminal state of a recorded import run.
type ImportStatus string

const (
	ImportCompleted ImportStatus = "completed"
	ImportPartial   ImportStatus = "partial"
	ImportFailed    ImportStatus = "failed"
)

// ImportRun is one entry of the per-tenant import history.
type ImportRun struct {
	ID         uuid.UUID    `json:"id"`
	TenantID   string       `json:"tenantId"`
	FileName   string       `json:"fileName"`
	Actor      string       `json:"actor,omitempty"`
	Status     ImportStatus `json:"status"`
	Summary    Summary      `json:"summary"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}
