package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/catalog-import/internal/core"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		tenantID string
		filePath string
		actor    string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a catalog export (.csv or .xlsx) for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer f.Close()

			if actor == "" {
				actor = defaultActor()
			}
			ctx := core.ContextWithActor(cmd.Context(), actor)
			fileName := filepath.Base(filePath)

			start := time.Now()
			out := commandOutput{Command: "import", DryRun: dryRun}

			if dryRun {
				b, store, err := offlineBackend()
				if err != nil {
					return err
				}
				run, err := b.service.Import(ctx, tenantID, fileName, f)
				out.DurationMS = time.Since(start).Milliseconds()
				if err != nil {
					if run != nil {
						out.Result = newDryRunResult(run, store)
						_ = writeJSON(cmd.OutOrStdout(), out)
					}
					return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
				}
				out.Result = newDryRunResult(run, store)
				return writeJSON(cmd.OutOrStdout(), out)
			}

			b, err := databaseBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			run, err := b.service.Import(ctx, tenantID, fileName, f)
			if err != nil {
				if run != nil {
					out.DurationMS = time.Since(start).Milliseconds()
					out.Result = run
					_ = writeJSON(cmd.OutOrStdout(), out)
				}
				return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
			}
			out.DurationMS = time.Since(start).Milliseconds()
			out.Result = run
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id (required)")
	cmd.Flags().StringVar(&filePath, "file", "", "Path to the export (required)")
	cmd.Flags().StringVar(&actor, "actor", "", "Actor recorded on the import run (default: cli:<os user>)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Import into an empty in-memory catalog and report the result")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func defaultActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "cli:" + u.Username
	}
	return "cli"
}
