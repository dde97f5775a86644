package main

import (
	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/JonMunkholm/catalog-import/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dryRunResult is the run plus the catalog it would have written.
type dryRunResult struct {
	Run         *core.ImportRun  `json:"run"`
	Suppliers   []supplierView   `json:"suppliers"`
	SupplyItems []supplyItemView `json:"supplyItems"`
	Products    []productView    `json:"products"`
}

type supplierView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type recipeLineView struct {
	ComponentSKU string          `json:"componentSku"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type supplyItemView struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	Cost         decimal.Decimal  `json:"cost"`
	IsProduction bool             `json:"isProduction"`
	Supplier     string           `json:"supplier,omitempty"`
	Recipe       []recipeLineView `json:"recipe,omitempty"`
}

type productView struct {
	Handle string           `json:"handle"`
	SKU    string           `json:"sku"`
	Name   string           `json:"name"`
	Price  decimal.Decimal  `json:"price"`
	Cost   decimal.Decimal  `json:"cost"`
	Active bool             `json:"active"`
	Recipe []recipeLineView `json:"recipe,omitempty"`
}

// newDryRunResult lists the tenant's entities from store with ids replaced
// by the names and SKUs that appear in the export.
func newDryRunResult(run *core.ImportRun, store *memstore.Store) dryRunResult {
	res := dryRunResult{
		Run:         run,
		Suppliers:   []supplierView{},
		SupplyItems: []supplyItemView{},
		Products:    []productView{},
	}
	if run == nil {
		return res
	}

	supplierNames := make(map[uuid.UUID]string)
	for _, sup := range store.Suppliers(run.TenantID) {
		supplierNames[sup.ID] = sup.Name
		res.Suppliers = append(res.Suppliers, supplierView{Name: sup.Name, Category: sup.Category})
	}

	items := store.SupplyItems(run.TenantID)
	skus := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		skus[item.ID] = item.SKU
	}
	recipe := func(edges []core.RecipeEdge) []recipeLineView {
		lines := make([]recipeLineView, 0, len(edges))
		for _, e := range edges {
			lines = append(lines, recipeLineView{ComponentSKU: skus[e.ComponentID], Quantity: e.Quantity})
		}
		return lines
	}

	for _, item := range items {
		v := supplyItemView{
			SKU:          item.SKU,
			Name:         item.Name,
			Category:     item.Category,
			Unit:         item.Unit,
			Cost:         item.Cost,
			IsProduction: item.IsProduction,
			Recipe:       recipe(store.ProductionRecipe(item.ID)),
		}
		if item.SupplierID != nil {
			v.Supplier = supplierNames[*item.SupplierID]
		}
		res.SupplyItems = append(res.SupplyItems, v)
	}

	for _, p := range store.Products(run.TenantID) {
		res.Products = append(res.Products, productView{
			Handle: p.Handle,
			SKU:    p.SKU,
			Name:   p.Name,
			Price:  p.Price,
			Cost:   p.Cost,
			Active: p.Active,
			Recipe: recipe(store.ProductRecipe(p.ID)),
		})
	}
	return res
}
