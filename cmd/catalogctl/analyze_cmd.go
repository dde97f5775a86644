package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Preview what an export would import, without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer f.Close()

			b, _, err := offlineBackend()
			if err != nil {
				return err
			}

			start := time.Now()
			analysis, err := b.service.Analyze(cmd.Context(), filepath.Base(filePath), f)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "analyze",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     analysis,
			})
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Path to the export (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
