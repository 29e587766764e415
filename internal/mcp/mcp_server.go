// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the changetree MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Change Tree Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := newToolHandler(baseCfg, mgr, contract.NewLocalGitClient())

	// --- 1. Tool: list_children ---
	s.AddTool(mcp.NewTool("list_children",
		mcp.WithDescription("List the direct children of a directory with their change counts and share of the sibling total, optionally expanded several levels deep."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the server's repository).")),
		mcp.WithString("path", mcp.Description("Directory to list, relative to the repository root. Defaults to the root.")),
		mcp.WithNumber("depth", mcp.Description("Number of levels to expand (1 lists direct children only).")),
	), h.handleListChildren)

	// --- 2. Tool: get_count ---
	s.AddTool(mcp.NewTool("get_count",
		mcp.WithDescription("Get the rolled-up change count of a single file or directory."),
		mcp.WithString("path", mcp.Description("File or directory path relative to the repository root."), mcp.Required()),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleGetCount)

	return s
}

// StartMCPServer starts the changetree MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
