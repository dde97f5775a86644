package core

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// supplierNames collects unique trimmed supplier names in first-seen order.
// Names of one character or less are noise from the exporter and dropped.
func supplierNames(records []Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		name := strings.TrimSpace(rec.Supplier)
		if len([]rune(name)) <= 1 || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// resolveSuppliers is pass 0: find or create every supplier named in the file.
// A failed name stays unmapped; nodes citing it end up without a supplier link.
func (r *ingestRun) resolveSuppliers(ctx context.Context, records []Record, cols *ColumnMap) map[string]uuid.UUID {
	ids := make(map[string]uuid.UUID)
	if !cols.Has(FieldSupplier) {
		return ids
	}
	defer func() { r.summary.SuppliersResolved = len(ids) }()

	for _, name := range supplierNames(records) {
		if ctx.Err() != nil {
			return ids
		}
		id, out := r.findOrCreateSupplier(ctx, name)
		if r.fail(out) {
			continue
		}
		ids[name] = id
	}
	return ids
}

func (r *ingestRun) findOrCreateSupplier(ctx context.Context, name string) (uuid.UUID, Outcome) {
	out := Outcome{Kind: EntitySupplier, Key: name}

	existing, err := r.store.FindSupplierByName(ctx, r.tenantID, name)
	if err == nil {
		return existing.ID, out
	}
	if !errors.Is(err, ErrNotFound) {
		out.Err = err
		return uuid.Nil, out
	}

	created, err := r.store.CreateSupplier(ctx, Supplier{
		TenantID: r.tenantID,
		Name:     name,
		Category: r.opts.DefaultSupplierCategory,
	})
	if err != nil {
		out.Err = err
		return uuid.Nil, out
	}
	return created.ID, out
}
