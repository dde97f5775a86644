package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/jackc/pgx/v5"
)

func (s *Store) RecordImport(ctx context.Context, run core.ImportRun) error {
	const q = `
		INSERT INTO catalog_import_runs
			(id, tenant_id, file_name, actor, status, summary, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if _, err := s.pool.Exec(ctx, q,
		run.ID, run.TenantID, run.FileName, run.Actor, string(run.Status),
		summary, run.Error, run.StartedAt, run.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

func (s *Store) ListImports(ctx context.Context, tenantID string, limit int) ([]core.ImportRun, error) {
	const q = `
		SELECT id, tenant_id, file_name, actor, status, summary, error, started_at, finished_at
		FROM catalog_import_runs
		WHERE tenant_id = $1
		ORDER BY started_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, q, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.ImportRun, error) {
		var (
			run     core.ImportRun
			status  string
			summary []byte
		)
		if err := row.Scan(
			&run.ID, &run.TenantID, &run.FileName, &run.Actor, &status,
			&summary, &run.Error, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return core.ImportRun{}, err
		}
		run.Status = core.ImportStatus(status)
		if err := json.Unmarshal(summary, &run.Summary); err != nil {
			return core.ImportRun{}, fmt.Errorf("decode summary of %s: %w", run.ID, err)
		}
		return run, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan import runs: %w", err)
	}
	return runs, nil
}
