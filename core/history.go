package core

import (
	"context"
	"fmt"

	"github.com/huangsam/changetree/core/agg"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
)

// HistorySource supplies the commit events a change tree is folded from.
type HistorySource interface {
	History(ctx context.Context) (*schema.HistoryOutput, error)
}

// GitHistorySource reads commit events from a local repository with git log.
// The parsed history is cached per repository state when a cache store is available.
type GitHistorySource struct {
	cfg    *contract.Config
	client contract.GitClient
	mgr    contract.CacheManager
}

var _ HistorySource = &GitHistorySource{} // Compile-time check

// NewGitHistorySource creates a history source for cfg.RepoPath.
// A nil manager disables caching.
func NewGitHistorySource(cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) *GitHistorySource {
	return &GitHistorySource{cfg: cfg, client: client, mgr: mgr}
}

// History returns the commits in the configured window, newest first, with
// excluded paths removed.
func (s *GitHistorySource) History(ctx context.Context) (*schema.HistoryOutput, error) {
	output, err := cachedHistory(ctx, s.cfg, s.client, s.mgr)
	if err != nil {
		return nil, err
	}
	return &schema.HistoryOutput{
		Commits: applyExcludes(output.Commits, output.Order, s.cfg.Excludes),
		Order:   output.Order,
	}, nil
}

// fetchHistory runs git log and parses its output.
func fetchHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.HistoryOutput, error) {
	out, err := client.GetHistoryLog(ctx, cfg.RepoPath, cfg.GetHistoryStartTime(), cfg.GetHistoryEndTime())
	if err != nil {
		return nil, fmt.Errorf("failed to read git history: %w", err)
	}
	commits, err := agg.ParseHistoryLog(out)
	if err != nil {
		return nil, err
	}
	return &schema.HistoryOutput{Commits: commits, Order: schema.NewestFirst}, nil
}

// applyExcludes drops excluded added and modified paths. A file renamed into an
// excluded path leaves the tree with its whole history: the rename and every
// earlier event of the file under its previous names are dropped.
// The input is left untouched.
func applyExcludes(commits []schema.CommitEvent, order schema.ReplayOrder, excludes []string) []schema.CommitEvent {
	if len(excludes) == 0 {
		return commits
	}

	// gone holds names whose current file is later moved out of the tree.
	gone := make(map[string]bool)
	hidden := func(p string) bool {
		return gone[p] || contract.ShouldIgnore(p, excludes)
	}

	out := make([]schema.CommitEvent, len(commits))
	for _, i := range newestFirst(len(commits), order) {
		c := commits[i]
		filtered := schema.CommitEvent{Hash: c.Hash, Date: c.Date}
		filtered.Added = keepVisible(c.Added, hidden)
		filtered.Modified = keepVisible(c.Modified, hidden)

		for _, r := range c.Renamed {
			if hidden(r.NewPath) {
				gone[r.OldPath] = true
			} else {
				delete(gone, r.OldPath)
				filtered.Renamed = append(filtered.Renamed, r)
			}
			delete(gone, r.NewPath)
		}
		for _, p := range c.Added {
			delete(gone, p)
		}
		out[i] = filtered
	}
	return out
}

// newestFirst returns commit indexes from the newest commit to the oldest.
func newestFirst(n int, order schema.ReplayOrder) []int {
	idx := make([]int, n)
	for i := range idx {
		if order == schema.OldestFirst {
			idx[i] = n - 1 - i
		} else {
			idx[i] = i
		}
	}
	return idx
}

func keepVisible(paths []string, hidden func(string) bool) []string {
	var kept []string
	for _, p := range paths {
		if !hidden(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
