package agg

import (
	"errors"
	"fmt"

	"github.com/huangsam/changetree/schema"
)

// ErrUnknownReplayOrder is returned when a commit sequence declares an unsupported order.
var ErrUnknownReplayOrder = errors.New("unknown replay order")

// MissedRenameFunc is called for every rename whose old path was never seen.
type MissedRenameFunc func(commit schema.CommitEvent, rename schema.RenamePair)

// Fold replays commits from oldest to newest into a new store and rolls it up.
// order declares how commits is sorted; newest-first input is walked backwards.
// Within a commit, renames apply before added and modified paths.
func Fold(commits []schema.CommitEvent, order schema.ReplayOrder, onMissed MissedRenameFunc) (*Store, schema.BuildStats, error) {
	var stats schema.BuildStats
	store := NewStore()

	apply := func(c schema.CommitEvent) {
		applyCommit(store, c, &stats, onMissed)
	}

	switch order {
	case schema.OldestFirst:
		for _, c := range commits {
			apply(c)
		}
	case schema.NewestFirst:
		for i := len(commits) - 1; i >= 0; i-- {
			apply(commits[i])
		}
	default:
		return nil, stats, fmt.Errorf("%w: %q", ErrUnknownReplayOrder, order)
	}

	if err := store.PopulateParents(); err != nil {
		return nil, stats, err
	}
	stats.Commits = len(commits)
	stats.Paths = store.Len()
	return store, stats, nil
}

// applyCommit folds a single commit into store.
func applyCommit(store *Store, c schema.CommitEvent, stats *schema.BuildStats, onMissed MissedRenameFunc) {
	for _, r := range c.Renamed {
		if store.RenamePath(r.OldPath, r.NewPath) {
			stats.RenamesApplied++
			continue
		}
		stats.RenamesMissed++
		if onMissed != nil {
			onMissed(c, r)
		}
	}
	for _, p := range c.Added {
		store.Increment(p)
	}
	for _, p := range c.Modified {
		store.Increment(p)
	}
}
