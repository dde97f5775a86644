package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/metrics"
	"github.com/JonMunkholm/catalog-import/internal/tenantlock"
	"github.com/google/uuid"
)

// ErrInvalidTenant is returned for a blank tenant id.
var ErrInvalidTenant = errors.New("invalid tenant id")

// ErrNoFile is returned when an import has no file content.
var ErrNoFile = errors.New("no file provided")

// Service runs catalog imports for the transport layers.
type Service struct {
	store    Store
	locker   tenantlock.Locker
	limiter  *ImportLimiter
	ingester *Ingester

	maxFileSize  int64
	timeout      time.Duration
	historyLimit int
}

// NewService wires an import service. A nil locker serializes tenants
// in-process only.
func NewService(store Store, locker tenantlock.Locker, cfg *config.Config) *Service {
	if locker == nil {
		locker = tenantlock.NewLocal(cfg.Import.MaxWaitTime)
	}
	return &Service{
		store:   store,
		locker:  locker,
		limiter: NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		ingester: NewIngester(store, Options{
			DefaultUnit:             cfg.Import.DefaultUnit,
			DefaultSupplierCategory: cfg.Import.DefaultSupplierCategory,
		}),
		maxFileSize:  cfg.Import.MaxFileSize,
		timeout:      cfg.Import.Timeout,
		historyLimit: cfg.Import.HistoryLimit,
	}
}

// Import decodes and ingests one export for tenantID and records the run.
//
// A run is recorded for every attempt that got past the import slot and the
// tenant lock, including ones that failed on the header. The returned error
// is non-nil only for fatal failures; per-entity errors live in the run's
// summary and mark it partial.
func (s *Service) Import(ctx context.Context, tenantID, fileName string, r io.Reader) (*ImportRun, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidTenant
	}
	if r == nil {
		return nil, ErrNoFile
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	release, err := s.locker.Acquire(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer release()

	done := metrics.ImportStarted()
	defer done()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := &ImportRun{
		ID:        uuid.New(),
		TenantID:  tenantID,
		FileName:  fileName,
		Actor:     ActorFromContext(ctx),
		StartedAt: time.Now().UTC(),
	}

	summary, err := s.ingest(ctx, tenantID, fileName, r)
	if summary != nil {
		run.Summary = *summary
	}
	run.FinishedAt = time.Now().UTC()
	run.Status = importStatus(summary, err)
	if err != nil {
		run.Error = err.Error()
	}

	s.observe(run)

	// The run is logged even when ctx was cancelled mid-import.
	if recErr := s.store.RecordImport(context.WithoutCancel(ctx), *run); recErr != nil {
		slog.Error("failed to record import run", "import_id", run.ID, "tenant_id", tenantID, "error", recErr)
	}

	return run, err
}

func (s *Service) ingest(ctx context.Context, tenantID, fileName string, r io.Reader) (*Summary, error) {
	rows, err := readRows(fileName, r, s.maxFileSize)
	if err != nil {
		return nil, err
	}
	summary, err := s.ingester.Ingest(ctx, tenantID, rows)
	if err != nil {
		return summary, fmt.Errorf("ingest %s: %w", fileName, err)
	}
	return summary, nil
}

func importStatus(summary *Summary, err error) ImportStatus {
	switch {
	case err != nil:
		return ImportFailed
	case summary != nil && summary.ErrorCount > 0:
		return ImportPartial
	default:
		return ImportCompleted
	}
}

func (s *Service) observe(run *ImportRun) {
	byEntity := make(map[string]int, len(run.Summary.ErrorsByKind))
	for kind, n := range run.Summary.ErrorsByKind {
		byEntity[string(kind)] = n
	}
	metrics.ObserveImport(metrics.ImportResult{
		Status:            string(run.Status),
		Duration:          run.FinishedAt.Sub(run.StartedAt),
		NodesPersisted:    run.Summary.NodesPersisted,
		RecipeEdges:       run.Summary.RecipeEdgesCreated,
		DroppedComponents: run.Summary.DroppedComponents,
		ErrorsByEntity:    byEntity,
	})
}

// Analyze previews an export without writing anything.
func (s *Service) Analyze(ctx context.Context, fileName string, r io.Reader) (*Analysis, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := readRows(fileName, r, s.maxFileSize)
	if err != nil {
		return nil, err
	}
	return Analyze(rows)
}

// History returns the tenant's most recent import runs, newest first.
// A non-positive limit uses the configured default.
func (s *Service) History(ctx context.Context, tenantID string, limit int) ([]ImportRun, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, ErrInvalidTenant
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	return s.store.ListImports(ctx, tenantID, limit)
}

// LimiterStatus returns the import slot snapshot.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
