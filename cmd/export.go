package cmd

import (
	"github.com/huangsam/changetree/core"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd writes the whole change tree to a Parquet file.
var exportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export every node of the change tree to Parquet.",
	Long: `Write one row per file and directory under --path to a Parquet file.

Rows carry path, parent, depth, change count, sibling share, and whether the
entry is a file. Depth is not limited during export.

Examples:
  changetree export --output-file tree.parquet
  changetree export --path src --start "1 year ago" --output-file src.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export change tree", err)
		}
	},
}
