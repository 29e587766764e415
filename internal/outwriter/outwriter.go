// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
)

// PrintTree outputs a tree listing to cfg.OutputFile, or stdout when unset,
// dispatching on the configured output format.
func PrintTree(listing schema.TreeListing, cfg *contract.Config, duration time.Duration) error {
	return writeToTarget(cfg.OutputFile, formatName(cfg.Output), func(w io.Writer) error {
		return WriteTree(w, listing, cfg, duration)
	})
}

// WriteTree writes a tree listing to w in the configured output format.
func WriteTree(w io.Writer, listing schema.TreeListing, cfg *contract.Config, duration time.Duration) error {
	formatShare := shareFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONTree(w, listing); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVTree(w, listing, formatShare); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeTreeTable(w, listing, cfg, formatShare, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// formatName names an output mode in user-facing messages.
func formatName(output schema.OutputMode) string {
	switch output {
	case schema.JSONOut:
		return "JSON"
	case schema.CSVOut:
		return "CSV"
	default:
		return "table"
	}
}
