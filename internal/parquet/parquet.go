// Package parquet exports change trees to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/changetree/core/agg"
	"github.com/huangsam/changetree/schema"
	"github.com/parquet-go/parquet-go"
)

// TreeRow is one file or directory of an exported change tree.
type TreeRow struct {
	// Path is the slash-separated path relative to the repository root
	Path string `parquet:"path,snappy"`

	// Parent is the direct parent directory, "." for top-level entries
	Parent string `parquet:"parent,snappy"`

	// Depth is the distance from the exported root, starting at 0
	Depth int32 `parquet:"depth,snappy"`

	// Count is the rolled-up change count
	Count int64 `parquet:"count,snappy"`

	// Fraction is the share of the sibling set's total count
	Fraction float64 `parquet:"fraction,snappy"`

	// TerminalFile is true when nothing is known below the path
	TerminalFile bool `parquet:"terminal_file,snappy"`

	// ExportTime is when the tree was exported (stored as TIMESTAMP with nanosecond precision)
	ExportTime time.Time `parquet:"export_time,snappy"`
}

// ConvertTreeNodes converts flattened tree nodes to rows for Parquet export.
func ConvertTreeNodes(nodes []schema.TreeNode, exportTime time.Time) []TreeRow {
	result := make([]TreeRow, len(nodes))
	for i, n := range nodes {
		result[i] = TreeRow{
			Path:         n.Path,
			Parent:       agg.ParentOf(n.Path),
			Depth:        int32(n.Depth),
			Count:        int64(n.Count),
			Fraction:     n.Fraction,
			TerminalFile: n.TerminalFile,
			ExportTime:   exportTime,
		}
	}
	return result
}

// WriteTreeRowsParquet writes a slice of TreeRow structs to a Parquet file.
func WriteTreeRowsParquet(data []TreeRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the TreeRow struct tags
	writer := parquet.NewGenericWriter[TreeRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
