package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		tenantID string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List a tenant's recent import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := databaseBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			start := time.Now()
			runs, err := b.service.History(cmd.Context(), tenantID, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "history",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     runs,
			})
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id (required)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum runs to list (default: IMPORT_HISTORY_LIMIT)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}
