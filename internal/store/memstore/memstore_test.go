package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestSupplier_DuplicateName(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateSupplier(ctx, core.Supplier{TenantID: "t1", Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
	if _, err := s.CreateSupplier(ctx, core.Supplier{TenantID: "t1", Name: "Acme"}); err == nil {
		t.Error("expected duplicate key error")
	}
	if _, err := s.CreateSupplier(ctx, core.Supplier{TenantID: "t2", Name: "Acme"}); err != nil {
		t.Errorf("same name in another tenant: %v", err)
	}

	found, err := s.FindSupplierByName(ctx, "t1", "Acme")
	if err != nil || found.ID != created.ID {
		t.Errorf("FindSupplierByName = %+v, %v", found, err)
	}
	if _, err := s.FindSupplierByName(ctx, "t1", "Other"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing supplier err = %v", err)
	}
}

func TestUpdateSupplyItem_KeepsImmutableFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	item, err := s.CreateSupplyItem(ctx, core.SupplyItem{
		TenantID: "t1", SKU: "bun", Name: "Bun", Category: "Bakery", Unit: "unit",
		Cost: decimal.RequireFromString("0.25"),
	})
	if err != nil {
		t.Fatalf("CreateSupplyItem: %v", err)
	}

	supplier := uuid.New()
	err = s.UpdateSupplyItem(ctx, core.SupplyItem{
		ID: item.ID, SKU: "changed", Name: "Brioche", Category: "Other", Unit: "kg",
		Cost: decimal.RequireFromString("0.4"), IsProduction: true, SupplierID: &supplier,
	})
	if err != nil {
		t.Fatalf("UpdateSupplyItem: %v", err)
	}

	got, err := s.FindSupplyItemBySKU(ctx, "t1", "bun")
	if err != nil {
		t.Fatalf("FindSupplyItemBySKU: %v", err)
	}
	if got.Name != "Brioche" || !got.Cost.Equal(decimal.RequireFromString("0.4")) || !got.IsProduction || got.SupplierID == nil {
		t.Errorf("mutable fields not updated: %+v", got)
	}
	if got.SKU != "bun" || got.Category != "Bakery" || got.Unit != "unit" {
		t.Errorf("immutable fields changed: %+v", got)
	}

	if err := s.UpdateSupplyItem(ctx, core.SupplyItem{ID: uuid.New()}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
}

func TestUpdateProduct_KeepsActive(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, core.Product{TenantID: "t1", Handle: "burger", Name: "Burger", Active: true})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if err := s.UpdateProduct(ctx, core.Product{ID: p.ID, Name: "Big Burger", SKU: "BB", Price: decimal.NewFromInt(9)}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	got, _ := s.FindProductByHandle(ctx, "t1", "burger")
	if got.Name != "Big Burger" || got.SKU != "BB" || !got.Price.Equal(decimal.NewFromInt(9)) {
		t.Errorf("product = %+v", got)
	}
	if !got.Active {
		t.Error("update must not clear Active")
	}
	if _, err := s.CreateProduct(ctx, core.Product{TenantID: "t1", Handle: "burger"}); err == nil {
		t.Error("expected duplicate key error")
	}
}

func TestReplaceRecipe(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, _ := s.CreateProduct(ctx, core.Product{TenantID: "t1", Handle: "burger"})
	bun, _ := s.CreateSupplyItem(ctx, core.SupplyItem{TenantID: "t1", SKU: "bun"})
	sauce, _ := s.CreateSupplyItem(ctx, core.SupplyItem{TenantID: "t1", SKU: "sauce"})

	first := []core.RecipeEdge{
		{ComponentID: bun.ID, Quantity: decimal.NewFromInt(1)},
		{ComponentID: sauce.ID, Quantity: decimal.NewFromInt(2)},
	}
	if err := s.ReplaceProductRecipe(ctx, p.ID, first); err != nil {
		t.Fatalf("ReplaceProductRecipe: %v", err)
	}
	if err := s.ReplaceProductRecipe(ctx, p.ID, first[:1]); err != nil {
		t.Fatalf("ReplaceProductRecipe: %v", err)
	}
	if got := s.ProductRecipe(p.ID); len(got) != 1 || got[0].ComponentID != bun.ID {
		t.Errorf("recipe = %+v, want only bun", got)
	}

	tests := []struct {
		name string
		err  error
	}{
		{"unknown component", s.ReplaceProductRecipe(ctx, p.ID, []core.RecipeEdge{{ComponentID: uuid.New(), Quantity: decimal.NewFromInt(1)}})},
		{"unknown product", s.ReplaceProductRecipe(ctx, uuid.New(), nil)},
		{"unknown production item", s.ReplaceProductionRecipe(ctx, uuid.New(), nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Error("expected an error")
			}
		})
	}
	if got := s.ProductRecipe(p.ID); len(got) != 1 {
		t.Errorf("failed replace changed the recipe: %+v", got)
	}

	if err := s.ReplaceProductionRecipe(ctx, sauce.ID, []core.RecipeEdge{{ComponentID: bun.ID, Quantity: decimal.NewFromInt(3)}}); err != nil {
		t.Fatalf("ReplaceProductionRecipe: %v", err)
	}
	if got := s.ProductionRecipe(sauce.ID); len(got) != 1 {
		t.Errorf("production recipe = %+v", got)
	}
}

func TestListImports_NewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		_ = s.RecordImport(ctx, core.ImportRun{ID: uuid.New(), TenantID: "t1", FileName: name})
	}
	_ = s.RecordImport(ctx, core.ImportRun{ID: uuid.New(), TenantID: "t2", FileName: "other.csv"})

	runs, err := s.ListImports(ctx, "t1", 2)
	if err != nil {
		t.Fatalf("ListImports: %v", err)
	}
	if len(runs) != 2 || runs[0].FileName != "c.csv" || runs[1].FileName != "b.csv" {
		t.Errorf("runs = %+v", runs)
	}

	if runs, _ := s.ListImports(ctx, "t3", 10); len(runs) != 0 {
		t.Errorf("unknown tenant runs = %d", len(runs))
	}
}
