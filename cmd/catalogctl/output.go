package main

import (
	"encoding/json"
	"io"
)

type commandOutput struct {
	Command    string `json:"command"`
	DryRun     bool   `json:"dryRun,omitempty"`
	DurationMS int64  `json:"durationMs"`
	Result     any    `json:"result"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
