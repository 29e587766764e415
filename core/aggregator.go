package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/huangsam/changetree/core/agg"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
	"golang.org/x/sync/singleflight"
)

// maxMissedRenameSamples caps how many missed renames are named in the warning.
const maxMissedRenameSamples = 3

// Aggregator folds the history of one source into a change tree on first use and
// answers every later query from the same rolled-up store. Concurrent callers
// during the build share it; a failed build is not kept, so the next call retries.
type Aggregator struct {
	source HistorySource
	group  singleflight.Group

	mu    sync.RWMutex
	store *agg.Store
	stats schema.BuildStats
}

// builtTree is the value shared between singleflight callers.
type builtTree struct {
	store *agg.Store
	stats schema.BuildStats
}

// NewAggregator creates an aggregator over source. Nothing is read until the first query.
func NewAggregator(source HistorySource) *Aggregator {
	return &Aggregator{source: source}
}

// Build returns the rolled-up store and the stats of the pass that produced it.
func (a *Aggregator) Build(ctx context.Context) (*agg.Store, schema.BuildStats, error) {
	if tree, ok := a.built(); ok {
		return tree.store, tree.stats, nil
	}

	v, err, _ := a.group.Do("build", func() (any, error) {
		// A build may have finished while this caller waited for the group
		if tree, ok := a.built(); ok {
			return tree, nil
		}
		tree, err := a.build(ctx)
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.store, a.stats = tree.store, tree.stats
		a.mu.Unlock()
		return tree, nil
	})
	if err != nil {
		return nil, schema.BuildStats{}, fmt.Errorf("failed to build change tree: %w", err)
	}
	tree := v.(builtTree)
	return tree.store, tree.stats, nil
}

func (a *Aggregator) built() (builtTree, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return builtTree{store: a.store, stats: a.stats}, a.store != nil
}

func (a *Aggregator) build(ctx context.Context) (builtTree, error) {
	history, err := a.source.History(ctx)
	if err != nil {
		return builtTree{}, err
	}

	var missed []string
	store, stats, err := agg.Fold(history.Commits, history.Order, func(c schema.CommitEvent, r schema.RenamePair) {
		if len(missed) < maxMissedRenameSamples {
			missed = append(missed, fmt.Sprintf("%s -> %s (%s)", r.OldPath, r.NewPath, shortHash(c.Hash)))
		}
	})
	if err != nil {
		return builtTree{}, err
	}
	if stats.RenamesMissed > 0 {
		contract.LogWarn(
			fmt.Sprintf("%d renames of unknown paths were skipped", stats.RenamesMissed),
			fmt.Errorf("first: %s", strings.Join(missed, ", ")),
		)
	}
	return builtTree{store: store, stats: stats}, nil
}

// List returns the children of parent, expanded depth levels deep. Each level is
// sorted and weighted the same way as a single agg.ListChildrenWithCounts query.
func (a *Aggregator) List(ctx context.Context, parent string, depth int) (schema.TreeListing, error) {
	store, stats, err := a.Build(ctx)
	if err != nil {
		return schema.TreeListing{}, err
	}
	root := agg.NormalizePath(parent)
	nodes := agg.Walk(root, store, max(depth, 1))

	total := 0
	for _, n := range nodes {
		total += n.Count
	}
	return schema.TreeListing{Root: root, Total: total, Nodes: nodes, Stats: stats}, nil
}

// Children returns the direct children of parent with sibling-relative fractions.
func (a *Aggregator) Children(ctx context.Context, parent string) ([]schema.FileCount, error) {
	store, _, err := a.Build(ctx)
	if err != nil {
		return nil, err
	}
	return agg.ListChildrenWithCounts(agg.NormalizePath(parent), store), nil
}

// Count returns the rolled-up count of a file or directory, 0 for unknown paths.
func (a *Aggregator) Count(ctx context.Context, path string) (int, error) {
	store, _, err := a.Build(ctx)
	if err != nil {
		return 0, err
	}
	return store.Get(agg.NormalizePath(path)), nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
