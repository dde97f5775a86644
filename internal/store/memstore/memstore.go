// Package memstore is an in-memory implementation of core.Store.
//
// It backs the CLI dry-run mode and the HTTP tests, and enforces the same key
// uniqueness and update rules as the postgres store.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/google/uuid"
)

type tenantKey struct {
	tenant string
	key    string
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	suppliers   map[tenantKey]core.Supplier
	supplyItems map[tenantKey]core.SupplyItem
	itemKeys    map[uuid.UUID]tenantKey
	products    map[tenantKey]core.Product
	productKeys map[uuid.UUID]tenantKey

	productRecipes    map[uuid.UUID][]core.RecipeEdge
	productionRecipes map[uuid.UUID][]core.RecipeEdge

	imports []core.ImportRun
}

var _ core.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		suppliers:         make(map[tenantKey]core.Supplier),
		supplyItems:       make(map[tenantKey]core.SupplyItem),
		itemKeys:          make(map[uuid.UUID]tenantKey),
		products:          make(map[tenantKey]core.Product),
		productKeys:       make(map[uuid.UUID]tenantKey),
		productRecipes:    make(map[uuid.UUID][]core.RecipeEdge),
		productionRecipes: make(map[uuid.UUID][]core.RecipeEdge),
	}
}

func (s *Store) FindSupplierByName(_ context.Context, tenantID, name string) (core.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[tenantKey{tenantID, name}]
	if !ok {
		return core.Supplier{}, core.ErrNotFound
	}
	return sup, nil
}

func (s *Store) CreateSupplier(_ context.Context, sup core.Supplier) (core.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := tenantKey{sup.TenantID, sup.Name}
	if _, exists := s.suppliers[k]; exists {
		return core.Supplier{}, fmt.Errorf("supplier %q: duplicate key", sup.Name)
	}
	sup.ID = uuid.New()
	s.suppliers[k] = sup
	return sup, nil
}

func (s *Store) FindSupplyItemBySKU(_ context.Context, tenantID, sku string) (core.SupplyItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.supplyItems[tenantKey{tenantID, sku}]
	if !ok {
		return core.SupplyItem{}, core.ErrNotFound
	}
	return item, nil
}

func (s *Store) CreateSupplyItem(_ context.Context, item core.SupplyItem) (core.SupplyItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := tenantKey{item.TenantID, item.SKU}
	if _, exists := s.supplyItems[k]; exists {
		return core.SupplyItem{}, fmt.Errorf("supply item %q: duplicate key", item.SKU)
	}
	item.ID = uuid.New()
	s.supplyItems[k] = item
	s.itemKeys[item.ID] = k
	return item, nil
}

// UpdateSupplyItem refreshes name, cost, supplier and production flag only.
func (s *Store) UpdateSupplyItem(_ context.Context, item core.SupplyItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.itemKeys[item.ID]
	if !ok {
		return core.ErrNotFound
	}
	cur := s.supplyItems[k]
	cur.Name = item.Name
	cur.Cost = item.Cost
	cur.SupplierID = item.SupplierID
	cur.IsProduction = item.IsProduction
	s.supplyItems[k] = cur
	return nil
}

func (s *Store) FindProductByHandle(_ context.Context, tenantID, handle string) (core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[tenantKey{tenantID, handle}]
	if !ok {
		return core.Product{}, core.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreateProduct(_ context.Context, p core.Product) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := tenantKey{p.TenantID, p.Handle}
	if _, exists := s.products[k]; exists {
		return core.Product{}, fmt.Errorf("product %q: duplicate key", p.Handle)
	}
	p.ID = uuid.New()
	s.products[k] = p
	s.productKeys[p.ID] = k
	return p, nil
}

// UpdateProduct refreshes name, price, sku and cost only.
func (s *Store) UpdateProduct(_ context.Context, p core.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.productKeys[p.ID]
	if !ok {
		return core.ErrNotFound
	}
	cur := s.products[k]
	cur.Name = p.Name
	cur.Price = p.Price
	cur.SKU = p.SKU
	cur.Cost = p.Cost
	s.products[k] = cur
	return nil
}

func (s *Store) ReplaceProductRecipe(_ context.Context, productID uuid.UUID, edges []core.RecipeEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productKeys[productID]; !ok {
		return fmt.Errorf("product %s: %w", productID, core.ErrNotFound)
	}
	if err := s.checkComponents(edges); err != nil {
		return err
	}
	s.productRecipes[productID] = append([]core.RecipeEdge(nil), edges...)
	return nil
}

func (s *Store) ReplaceProductionRecipe(_ context.Context, supplyItemID uuid.UUID, edges []core.RecipeEdge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.itemKeys[supplyItemID]; !ok {
		return fmt.Errorf("supply item %s: %w", supplyItemID, core.ErrNotFound)
	}
	if err := s.checkComponents(edges); err != nil {
		return err
	}
	s.productionRecipes[supplyItemID] = append([]core.RecipeEdge(nil), edges...)
	return nil
}

func (s *Store) checkComponents(edges []core.RecipeEdge) error {
	for _, e := range edges {
		if _, ok := s.itemKeys[e.ComponentID]; !ok {
			return fmt.Errorf("component %s violates foreign key", e.ComponentID)
		}
	}
	return nil
}

func (s *Store) RecordImport(_ context.Context, run core.ImportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.imports = append(s.imports, run)
	return nil
}

// ListImports returns the newest runs first.
func (s *Store) ListImports(_ context.Context, tenantID string, limit int) ([]core.ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []core.ImportRun
	for i := len(s.imports) - 1; i >= 0; i-- {
		if s.imports[i].TenantID != tenantID {
			continue
		}
		runs = append(runs, s.imports[i])
		if limit > 0 && len(runs) == limit {
			break
		}
	}
	return runs, nil
}

// Suppliers returns the tenant's suppliers sorted by name.
func (s *Store) Suppliers(tenantID string) []core.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Supplier
	for k, sup := range s.suppliers {
		if k.tenant == tenantID {
			out = append(out, sup)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SupplyItems returns the tenant's supply items sorted by SKU.
func (s *Store) SupplyItems(tenantID string) []core.SupplyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.SupplyItem
	for k, item := range s.supplyItems {
		if k.tenant == tenantID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// Products returns the tenant's products sorted by handle.
func (s *Store) Products(tenantID string) []core.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Product
	for k, p := range s.products {
		if k.tenant == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// ProductRecipe returns a copy of the product's recipe edges.
func (s *Store) ProductRecipe(productID uuid.UUID) []core.RecipeEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.RecipeEdge(nil), s.productRecipes[productID]...)
}

// ProductionRecipe returns a copy of the supply item's production recipe edges.
func (s *Store) ProductionRecipe(supplyItemID uuid.UUID) []core.RecipeEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.RecipeEdge(nil), s.productionRecipes[supplyItemID]...)
}
