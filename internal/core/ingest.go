package core

// ingest.go sequences one catalog ingestion.
//
// Flow:
//  1. Normalize the header; a missing handle column aborts here.
//  2. Decode every data row into a Record.
//  3. Pass 0: resolve suppliers.
//  4. Pass 1: extract one node per handle and persist it immediately.
//  5. Pass 2: accumulate recipe components by carrying the parent forward.
//  6. Resolve component SKUs and replace each parent's recipe.
//
// Persistence is a sequence of independent store calls, not one transaction:
// a failure on one entity is recorded in the summary and the batch continues.
// Callers must serialize ingestions per tenant.

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ContextCheckInterval is how often, in rows, pass 1 checks for cancellation.
const ContextCheckInterval = 100

// Options tune an Ingester. Zero values fall back to package defaults.
type Options struct {
	DefaultUnit             string
	DefaultSupplierCategory string
	Logger                  *slog.Logger
}

// Ingester turns a decoded export into persisted catalog entities.
// It holds no per-call state and is safe for concurrent use across tenants.
type Ingester struct {
	store CatalogStore
	opts  Options
}

// NewIngester creates an Ingester writing to store.
func NewIngester(store CatalogStore, opts Options) *Ingester {
	if opts.DefaultUnit == "" {
		opts.DefaultUnit = DefaultUnit
	}
	if opts.DefaultSupplierCategory == "" {
		opts.DefaultSupplierCategory = DefaultSupplierCategory
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Ingester{store: store, opts: opts}
}

// ingestRun owns all working state of one Ingest call.
type ingestRun struct {
	store    CatalogStore
	opts     Options
	tenantID string
	logger   *slog.Logger
	errs     *errorLog
	summary  *Summary
}

// fail records o when it failed and reports whether it did.
func (r *ingestRun) fail(o Outcome) bool {
	if !r.errs.record(o) {
		return false
	}
	r.logger.Warn("catalog entity failed", "entity", o.Kind, "key", o.Key, "error", o.Err)
	return true
}

// Ingest runs all passes over rows, where rows[0] is the header.
//
// The only errors returned are ErrEmptyFile, a wrapped ErrMissingHandleColumn
// (both before any store call) and the context error when ctx is done, in
// which case the partial summary is returned too. Per-entity failures are
// reported in the summary only.
func (in *Ingester) Ingest(ctx context.Context, tenantID string, rows [][]string) (*Summary, error) {
	start := time.Now()

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	cols, err := NormalizeHeader(rows[0])
	if err != nil {
		return nil, err
	}
	records := decodeRows(cols, rows[1:])

	run := &ingestRun{
		store:    in.store,
		opts:     in.opts,
		tenantID: tenantID,
		logger:   in.opts.Logger.With("tenant_id", tenantID),
		errs:     newErrorLog(),
		summary:  &Summary{},
	}
	finish := func(err error) (*Summary, error) {
		run.errs.apply(run.summary)
		run.summary.DurationMs = time.Since(start).Milliseconds()
		return run.summary, err
	}

	run.logger.Info("catalog ingestion started", "rows", len(records), "columns", len(cols.Columns()))

	suppliers := run.resolveSuppliers(ctx, records, cols)
	if err := ctx.Err(); err != nil {
		return finish(err)
	}

	nodes, err := run.persistNodes(ctx, records, suppliers)
	if err != nil {
		return finish(err)
	}

	acc := accumulateRecipes(records)
	if err := run.persistRecipes(ctx, nodes, acc); err != nil {
		return finish(err)
	}

	summary, _ := finish(nil)
	run.logger.Info("catalog ingestion finished",
		"nodes_discovered", summary.TotalNodesDiscovered,
		"nodes_persisted", summary.NodesPersisted,
		"recipe_edges", summary.RecipeEdgesCreated,
		"suppliers", summary.SuppliersResolved,
		"errors", summary.ErrorCount,
		"duration_ms", summary.DurationMs,
	)
	return summary, nil
}

// persistNodes is pass 1: extraction and persistence interleaved per node.
func (r *ingestRun) persistNodes(ctx context.Context, records []Record, suppliers map[string]uuid.UUID) (*nodeSet, error) {
	nodes := newNodeSet()

	for i, rec := range records {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nodes, err
			}
		}
		if rec.Handle == "" {
			continue
		}
		if _, known := nodes.get(rec.Handle); known {
			continue
		}

		node, _ := nodes.add(extractNode(rec, i+2, suppliers))
		r.summary.TotalNodesDiscovered = nodes.len()
		if r.persistNode(ctx, node) {
			r.summary.NodesPersisted++
		}
	}
	return nodes, nil
}

func decodeRows(cols *ColumnMap, rows [][]string) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = cols.Decode(row)
	}
	return records
}
