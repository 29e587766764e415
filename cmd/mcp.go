package cmd

import (
	"github.com/huangsam/changetree/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the changetree MCP server",
	Long: `Launch an MCP server over stdio so AI agents can browse change trees.

Tools:
  list_children - children of a directory with counts and sibling shares
  get_count     - rolled-up change count of one path`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
