package cmd

import (
	"github.com/huangsam/changetree/core"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/spf13/cobra"
)

// treeCmd lists the children of a directory weighted by change frequency.
var treeCmd = &cobra.Command{
	Use:   "tree [repo-path]",
	Short: "List directory children ranked by change frequency.",
	Long: `Replay Git history and list the entries of a directory with their change counts.

Each entry shows how often it changed and its share of the changes among its
siblings. Directory counts include every file beneath them, and renamed files
keep the history they had under their old names.

Examples:
  # Top level of the current repository
  changetree tree

  # Drill into a directory two levels deep
  changetree tree --path internal --depth 2

  # Only the last six months, as JSON
  changetree tree --start "6 months ago" --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTree(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list change tree", err)
		}
	},
}
