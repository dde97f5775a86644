package core

import (
	"context"
	"errors"
)

// persistNode upserts the node's supply item and, when sold, its product.
// The two upserts are independent: a failure on one does not skip the other.
// It reports whether every attempted upsert succeeded.
func (r *ingestRun) persistNode(ctx context.Context, n *CatalogNode) bool {
	attempted, failed := 0, 0

	if n.SKU != "" {
		attempted++
		if r.fail(r.upsertSupplyItem(ctx, n)) {
			failed++
		}
	}

	if n.IsSold {
		attempted++
		if r.fail(r.upsertProduct(ctx, n)) {
			failed++
		}
	}

	return attempted > 0 && failed == 0
}

func (r *ingestRun) upsertSupplyItem(ctx context.Context, n *CatalogNode) Outcome {
	out := Outcome{Kind: EntitySupplyItem, Key: n.SKU}

	existing, err := r.store.FindSupplyItemBySKU(ctx, r.tenantID, n.SKU)
	switch {
	case err == nil:
		// sku, category and unit stay as first created.
		existing.Name = n.Name
		existing.Cost = n.Cost
		existing.SupplierID = n.SupplierID
		existing.IsProduction = n.IsProduction
		out.Err = r.store.UpdateSupplyItem(ctx, existing)
	case errors.Is(err, ErrNotFound):
		_, out.Err = r.store.CreateSupplyItem(ctx, SupplyItem{
			TenantID:     r.tenantID,
			SKU:          n.SKU,
			Name:         n.Name,
			Category:     n.Category,
			Unit:         r.opts.DefaultUnit,
			Cost:         n.Cost,
			IsProduction: n.IsProduction,
			SupplierID:   n.SupplierID,
		})
	default:
		out.Err = err
	}
	return out
}

func (r *ingestRun) upsertProduct(ctx context.Context, n *CatalogNode) Outcome {
	out := Outcome{Kind: EntityProduct, Key: n.Handle}

	existing, err := r.store.FindProductByHandle(ctx, r.tenantID, n.Handle)
	switch {
	case err == nil:
		existing.Name = n.Name
		existing.Price = n.Price
		existing.SKU = n.SKU
		existing.Cost = n.Cost
		out.Err = r.store.UpdateProduct(ctx, existing)
	case errors.Is(err, ErrNotFound):
		_, out.Err = r.store.CreateProduct(ctx, Product{
			TenantID: r.tenantID,
			Handle:   n.Handle,
			SKU:      n.SKU,
			Name:     n.Name,
			Price:    n.Price,
			Cost:     n.Cost,
			Active:   true,
		})
	default:
		out.Err = err
	}
	return out
}
