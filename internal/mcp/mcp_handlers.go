package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/changetree/core"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxCachedTrees bounds how many repositories keep a built change tree in memory.
const maxCachedTrees = 16

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	client  contract.GitClient

	mu    sync.Mutex
	trees *lru.Cache[string, *core.Aggregator]
}

func newToolHandler(baseCfg *contract.Config, mgr contract.CacheManager, client contract.GitClient) *toolHandler {
	trees, err := lru.New[string, *core.Aggregator](maxCachedTrees)
	if err != nil {
		// Only reachable with a non-positive size
		panic(err)
	}
	return &toolHandler{baseCfg: baseCfg, mgr: mgr, client: client, trees: trees}
}

// requestConfig applies the repo_path and path arguments to a copy of the base config.
func (h *toolHandler) requestConfig(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" && p != cfg.RepoPath {
		root, err := h.client.GetRepoRoot(ctx, p)
		if err != nil {
			return nil, err
		}
		cfg.RepoPath = root
	}

	queryPath, err := contract.NormalizeRepoPath(cfg.RepoPath, request.GetString("path", "."))
	if err != nil {
		return nil, err
	}
	cfg.QueryPath = queryPath
	return cfg, nil
}

// aggregatorFor returns the shared aggregator for the repository and window of cfg.
func (h *toolHandler) aggregatorFor(cfg *contract.Config) *core.Aggregator {
	key := fmt.Sprintf("%s|%d|%d", cfg.RepoPath, cfg.GetHistoryStartTime().Unix(), cfg.GetHistoryEndTime().Unix())

	h.mu.Lock()
	defer h.mu.Unlock()
	if a, ok := h.trees.Get(key); ok {
		return a
	}
	a := core.NewAggregator(core.NewGitHistorySource(cfg, h.client, h.mgr))
	h.trees.Add(key, a)
	return a
}

func (h *toolHandler) handleListChildren(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	depth := request.GetInt("depth", contract.DefaultDepth)
	if depth < 1 || depth > contract.MaxDepth {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: depth must be between 1 and %d", contract.MaxDepth)), nil
	}
	cfg, err := h.requestConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	listing, err := h.aggregatorFor(cfg).List(core.WithSuppressHeader(ctx), cfg.QueryPath, depth)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(listing, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCount(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetString("path", "") == "" {
		return mcp.NewToolResultError("invalid parameters: path is required"), nil
	}
	cfg, err := h.requestConfig(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	count, err := h.aggregatorFor(cfg).Count(ctx, cfg.QueryPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("count failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{"path": cfg.QueryPath, "count": count}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
