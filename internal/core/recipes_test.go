package core

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAccumulateRecipes(t *testing.T) {
	records := []Record{
		{ComponentSKU: "orphan", ComponentQty: "1"}, // before any parent
		{Handle: "burger1"},
		{ComponentSKU: "tomato", ComponentQty: "2"},
		{ComponentSKU: "bun", ComponentQty: "1"},
		{ComponentSKU: "tomato", ComponentQty: "1"},
		{ComponentSKU: "cheese", ComponentQty: "0"},
		{ComponentSKU: "pickle", ComponentQty: "-1"},
		{ComponentSKU: "onion", ComponentQty: "lots"},
		{ComponentSKU: "", ComponentQty: "3"},
		{Handle: "fries"},
		{Handle: "sauce1", ComponentSKU: "garlic", ComponentQty: "0,5"},
		{ComponentSKU: "oil", ComponentQty: "2"},
	}

	acc := accumulateRecipes(records)

	if want := []string{"burger1", "sauce1"}; !reflect.DeepEqual(acc.parents, want) {
		t.Errorf("parents = %v, want %v", acc.parents, want)
	}
	if _, ok := acc.components["fries"]; ok {
		t.Error("fries has no components and should not be a parent")
	}

	burger := acc.components["burger1"]
	wantBurger := []string{"tomato", "bun", "tomato"}
	if len(burger) != len(wantBurger) {
		t.Fatalf("burger1 components = %+v", burger)
	}
	for i, sku := range wantBurger {
		if burger[i].ComponentSKU != sku {
			t.Errorf("burger1[%d] = %s, want %s", i, burger[i].ComponentSKU, sku)
		}
	}

	sauce := acc.components["sauce1"]
	if len(sauce) != 2 || !sauce[0].Quantity.Equal(decimal.RequireFromString("0.5")) {
		t.Errorf("sauce1 components = %+v", sauce)
	}
	if got := acc.componentCount(); got != 5 {
		t.Errorf("componentCount = %d, want 5", got)
	}
}

func TestSupplierNames(t *testing.T) {
	records := []Record{
		{Supplier: "Acme Foods"},
		{Supplier: " Acme Foods "},
		{Supplier: "X"},
		{Supplier: ""},
		{Supplier: "Bakery Co"},
	}
	want := []string{"Acme Foods", "Bakery Co"}
	if got := supplierNames(records); !reflect.DeepEqual(got, want) {
		t.Errorf("supplierNames = %v, want %v", got, want)
	}
}

func TestExtractNode(t *testing.T) {
	acme := uuid.New()
	suppliers := map[string]uuid.UUID{"Acme Foods": acme}

	tests := []struct {
		name  string
		rec   Record
		check func(t *testing.T, n CatalogNode)
	}{
		{
			name: "fallbacks",
			rec:  Record{Handle: "h1"},
			check: func(t *testing.T, n CatalogNode) {
				if n.SKU != "h1" || n.Name != "h1" || n.Category != DefaultCategory {
					t.Errorf("node = %+v", n)
				}
				if n.IsSold || n.IsProduction || n.SupplierID != nil {
					t.Errorf("flags = %+v", n)
				}
			},
		},
		{
			name: "sold with supplier",
			rec:  Record{Handle: "h2", SKU: "S2", Price: "4,50", Cost: "1", Supplier: "Acme Foods"},
			check: func(t *testing.T, n CatalogNode) {
				if !n.IsSold || !n.Price.Equal(decimal.RequireFromString("4.5")) {
					t.Errorf("price = %s sold = %v", n.Price, n.IsSold)
				}
				if n.SupplierID == nil || *n.SupplierID != acme {
					t.Errorf("supplier = %v, want %s", n.SupplierID, acme)
				}
			},
		},
		{
			name: "production keyword",
			rec:  Record{Handle: "h3", Category: "Preparados Caseros"},
			check: func(t *testing.T, n CatalogNode) {
				if !n.IsProduction {
					t.Error("expected production")
				}
			},
		},
		{
			name: "zero purchase cost falls back to cost",
			rec:  Record{Handle: "h4", Cost: "2.5", PurchaseCost: "0"},
			check: func(t *testing.T, n CatalogNode) {
				if !n.Cost.Equal(decimal.RequireFromString("2.5")) {
					t.Errorf("cost = %s, want 2.5", n.Cost)
				}
			},
		},
		{
			name: "negative price is not sold",
			rec:  Record{Handle: "h5", Price: "-1"},
			check: func(t *testing.T, n CatalogNode) {
				if n.IsSold {
					t.Error("negative price should not be sold")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := extractNode(tt.rec, 7, suppliers)
			if n.Line != 7 {
				t.Errorf("line = %d, want 7", n.Line)
			}
			tt.check(t, n)
		})
	}
}
