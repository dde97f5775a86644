// Package core provides the business logic for POS catalog imports.
//
// The point-of-sale exporter writes a flat sheet where a product's first row
// carries its handle and the component rows that follow leave it blank. This
// package rebuilds the catalog from that layout: suppliers, supply items,
// sellable products and the recipe edges between them. It has no transport
// dependencies and is used by the HTTP server and the CLI alike.
//
// # Passes
//
// [Ingester.Ingest] runs, strictly in order:
//
//  1. Header normalization ([NormalizeHeader]); a missing handle column is fatal.
//  2. Supplier resolution: find or create each distinct supplier name.
//  3. Node extraction and persistence, one node per distinct handle.
//  4. Recipe accumulation, carrying the last handle over blank-handle rows.
//  5. Recipe resolution and replacement per parent.
//
// Row order is meaningful in steps 3 and 4, so neither may be parallelized.
//
// # Partial failure
//
// Each store call yields an [Outcome]. Failures are logged, counted by
// [EntityKind] and sampled into [Summary.Errors] (at most [MaxErrorSamples]);
// they never abort the batch. Callers must read the summary to detect them.
// Unparsable numbers become zero and unknown component SKUs are dropped
// without an error entry; [Summary.DroppedComponents] counts the latter.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - HDR001: missing handle column
//   - FILE001-FILE005: file size, format and empty input
//   - IMP001-IMP003: import slots, tenant lock, tenant id
//   - DB001-DB007: database errors
package core
