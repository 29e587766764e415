package outwriter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
)

// LogTreeHeader prints a concise, 2-line header before a tree listing.
func LogTreeHeader(cfg *contract.Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}
	queryPath := cfg.QueryPath
	if queryPath == "" {
		queryPath = schema.RootPath
	}

	// Line 1: The query summary (Repo, Path and Depth)
	fmt.Printf("🔎 Repo: %s (Path: %s, Depth: %d)\n", repoName, queryPath, cfg.Depth)

	// Line 2: The history window being replayed
	fmt.Printf("📅 Range: %s → %s\n", formatBound(cfg.StartTime, "first commit"), formatBound(cfg.EndTime, "now"))
}

// formatBound renders one side of the history window; zero means open.
func formatBound(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return t.Format(contract.DateTimeFormat)
}
