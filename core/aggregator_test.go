package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/huangsam/changetree/core/agg"
	"github.com/huangsam/changetree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceFunc adapts a function to HistorySource.
type sourceFunc func(ctx context.Context) (*schema.HistoryOutput, error)

func (f sourceFunc) History(ctx context.Context) (*schema.HistoryOutput, error) {
	return f(ctx)
}

// projectHistory is oldest first.
func projectHistory() *schema.HistoryOutput {
	return &schema.HistoryOutput{
		Order: schema.OldestFirst,
		Commits: []schema.CommitEvent{
			{Hash: "c1", Added: []string{"src/html/index.html", "src/app.js", "README.md"}},
			{Hash: "c2", Modified: []string{"src/html/index.html", "src/app.js"}},
			{Hash: "c3", Renamed: []schema.RenamePair{{OldPath: "src/app.js", NewPath: "src/main.js"}}},
			{Hash: "c4", Modified: []string{"src/main.js"}, Renamed: []schema.RenamePair{{OldPath: "gone.txt", NewPath: "kept.txt"}}},
		},
	}
}

func TestAggregator_List(t *testing.T) {
	a := NewAggregator(sourceFunc(func(context.Context) (*schema.HistoryOutput, error) {
		return projectHistory(), nil
	}))
	ctx := context.Background()

	listing, err := a.List(ctx, ".", 1)
	require.NoError(t, err)
	assert.Equal(t, ".", listing.Root)
	assert.Equal(t, 6, listing.Total)
	assert.Equal(t, schema.BuildStats{Commits: 4, RenamesApplied: 1, RenamesMissed: 1, Paths: 5}, listing.Stats)
	require.Len(t, listing.Nodes, 2)
	assert.Equal(t, "src", listing.Nodes[0].Path)
	assert.Equal(t, 5, listing.Nodes[0].Count)
	assert.False(t, listing.Nodes[0].TerminalFile)
	assert.Nil(t, listing.Nodes[0].Children, "depth 1 does not expand")
	assert.Equal(t, "README.md", listing.Nodes[1].Path)
	assert.True(t, listing.Nodes[1].TerminalFile)

	listing, err = a.List(ctx, "./src/", 2)
	require.NoError(t, err)
	assert.Equal(t, "src", listing.Root)
	require.Len(t, listing.Nodes, 2)
	assert.Equal(t, "src/main.js", listing.Nodes[0].Path)
	assert.Equal(t, 3, listing.Nodes[0].Count)
	assert.Equal(t, "src/html", listing.Nodes[1].Path)
	require.Len(t, listing.Nodes[1].Children, 1)
	assert.Equal(t, "src/html/index.html", listing.Nodes[1].Children[0].Path)
	assert.Equal(t, 1, listing.Nodes[1].Children[0].Depth)
}

func TestAggregator_ChildrenAndCount(t *testing.T) {
	a := NewAggregator(sourceFunc(func(context.Context) (*schema.HistoryOutput, error) {
		return projectHistory(), nil
	}))
	ctx := context.Background()

	children, err := a.Children(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, agg.ListChildrenWithCounts("src", mustStore(t, a)), children)
	assert.InDelta(t, 0.6, children[0].Fraction, 1e-9)
	assert.InDelta(t, 0.4, children[1].Fraction, 1e-9)

	count, err := a.Count(ctx, "src/html")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = a.Count(ctx, "src/app.js")
	require.NoError(t, err)
	assert.Zero(t, count, "renamed away")

	count, err = a.Count(ctx, "no/such/path")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func mustStore(t *testing.T, a *Aggregator) *agg.Store {
	t.Helper()
	store, _, err := a.Build(context.Background())
	require.NoError(t, err)
	return store
}

func TestAggregator_ConcurrentCallersShareOneBuild(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	a := NewAggregator(sourceFunc(func(context.Context) (*schema.HistoryOutput, error) {
		calls.Add(1)
		<-release
		return projectHistory(), nil
	}))

	const numCallers = 20
	stores := make([]*agg.Store, numCallers)
	var wg sync.WaitGroup
	for i := range numCallers {
		wg.Go(func() {
			store, _, err := a.Build(context.Background())
			assert.NoError(t, err)
			stores[i] = store
		})
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
	assert.True(t, stores[0].RolledUp())
}

func TestAggregator_FailedBuildIsRetried(t *testing.T) {
	var calls atomic.Int32
	a := NewAggregator(sourceFunc(func(context.Context) (*schema.HistoryOutput, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("git exploded")
		}
		return projectHistory(), nil
	}))
	ctx := context.Background()

	_, err := a.List(ctx, ".", 1)
	assert.ErrorContains(t, err, "failed to build change tree: git exploded")

	listing, err := a.List(ctx, ".", 1)
	require.NoError(t, err)
	assert.Equal(t, 6, listing.Total)

	_, err = a.List(ctx, ".", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "a successful build is kept")
}

func TestAggregator_UnknownReplayOrder(t *testing.T) {
	a := NewAggregator(sourceFunc(func(context.Context) (*schema.HistoryOutput, error) {
		h := projectHistory()
		h.Order = "sideways"
		return h, nil
	}))

	_, err := a.Count(context.Background(), "src")
	assert.ErrorIs(t, err, agg.ErrUnknownReplayOrder)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123abcd", shortHash("0123abcdef4567"))
	assert.Equal(t, "c1", shortHash("c1"))
}
