package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// recipeAccumulator maps a parent handle to its component references, with
// parents kept in first-seen order.
type recipeAccumulator struct {
	parents    []string
	components map[string][]RecipeComponentRef
}

// accumulateRecipes is pass 2. The exporter names a parent only on its first
// row; the component rows that follow leave the handle blank. The current
// parent is therefore carried forward row by row, and this loop must stay
// sequential: reordering or splitting the rows changes which parent a
// component belongs to.
func accumulateRecipes(records []Record) *recipeAccumulator {
	acc := &recipeAccumulator{components: make(map[string][]RecipeComponentRef)}

	currentParent := ""
	for _, rec := range records {
		if rec.Handle != "" {
			currentParent = rec.Handle
		}
		if currentParent == "" || rec.ComponentSKU == "" || rec.ComponentQty == "" {
			continue
		}
		qty, ok := ParseAmount(rec.ComponentQty)
		if !ok || !qty.GreaterThan(decimal.Zero) {
			continue
		}
		if _, seen := acc.components[currentParent]; !seen {
			acc.parents = append(acc.parents, currentParent)
		}
		acc.components[currentParent] = append(acc.components[currentParent], RecipeComponentRef{
			ComponentSKU: rec.ComponentSKU,
			Quantity:     qty,
		})
	}
	return acc
}

func (a *recipeAccumulator) componentCount() int {
	n := 0
	for _, refs := range a.components {
		n += len(refs)
	}
	return n
}

// skuResolver looks up component supply items once per SKU per ingestion.
type skuResolver struct {
	store    SupplyItemStore
	tenantID string
	cache    map[string]uuid.UUID
	missing  map[string]bool
}

func newSKUResolver(store SupplyItemStore, tenantID string) *skuResolver {
	return &skuResolver{
		store:    store,
		tenantID: tenantID,
		cache:    make(map[string]uuid.UUID),
		missing:  make(map[string]bool),
	}
}

// resolve returns ok=false for an unknown SKU. Any other lookup failure is
// returned as an error.
func (s *skuResolver) resolve(ctx context.Context, sku string) (uuid.UUID, bool, error) {
	if id, ok := s.cache[sku]; ok {
		return id, true, nil
	}
	if s.missing[sku] {
		return uuid.Nil, false, nil
	}

	item, err := s.store.FindSupplyItemBySKU(ctx, s.tenantID, sku)
	if errors.Is(err, ErrNotFound) {
		s.missing[sku] = true
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	s.cache[sku] = item.ID
	return item.ID, true, nil
}

// persistRecipes resolves and writes every accumulated recipe.
// It stops early only when ctx is done.
func (r *ingestRun) persistRecipes(ctx context.Context, nodes *nodeSet, acc *recipeAccumulator) error {
	resolver := newSKUResolver(r.store, r.tenantID)

	for _, handle := range acc.parents {
		if err := ctx.Err(); err != nil {
			return err
		}

		node, ok := nodes.get(handle)
		if !ok {
			r.logger.Warn("recipe parent has no catalog node", "handle", handle)
			continue
		}

		out := r.persistRecipe(ctx, resolver, node, acc.components[handle])
		r.fail(out)
	}
	return nil
}

func (r *ingestRun) persistRecipe(ctx context.Context, resolver *skuResolver, node *CatalogNode, refs []RecipeComponentRef) Outcome {
	// Sold wins: a sold node never gets a production recipe.
	out := Outcome{Kind: EntityProductionRecipe, Key: node.SKU}
	if node.IsSold {
		out = Outcome{Kind: EntityProductRecipe, Key: node.Handle}
	}

	edges := make([]RecipeEdge, 0, len(refs))
	for _, ref := range refs {
		id, ok, err := resolver.resolve(ctx, ref.ComponentSKU)
		if err != nil {
			out.Err = fmt.Errorf("resolve component %s: %w", ref.ComponentSKU, err)
			return out
		}
		if !ok {
			r.summary.DroppedComponents++
			r.logger.Debug("dropped unresolved recipe component",
				"parent", node.Handle, "component_sku", ref.ComponentSKU)
			continue
		}
		edges = append(edges, RecipeEdge{ComponentID: id, Quantity: ref.Quantity})
	}
	if len(edges) == 0 {
		return out
	}

	if node.IsSold {
		product, err := r.store.FindProductByHandle(ctx, r.tenantID, node.Handle)
		if err != nil {
			out.Err = fmt.Errorf("find product: %w", err)
			return out
		}
		out.Err = r.store.ReplaceProductRecipe(ctx, product.ID, edges)
	} else {
		item, err := r.store.FindSupplyItemBySKU(ctx, r.tenantID, node.SKU)
		if err != nil {
			out.Err = fmt.Errorf("find supply item: %w", err)
			return out
		}
		out.Err = r.store.ReplaceProductionRecipe(ctx, item.ID, edges)
	}

	if out.Err == nil {
		r.summary.RecipeEdgesCreated += len(edges)
	}
	return out
}
