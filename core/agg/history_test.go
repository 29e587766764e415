package agg

import (
	_ "embed"
	"testing"
	"time"

	"github.com/huangsam/changetree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/git_log_name_status.txt
var nameStatusLog []byte

//go:embed testdata/git_log_quoted_paths.txt
var quotedPathsLog []byte

func TestParseHistoryLog_Fixture(t *testing.T) {
	commits, err := ParseHistoryLog(nameStatusLog)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	newest := commits[0]
	assert.Equal(t, "9c1f2a7e5b3d4c6a8e0f1b2c3d4e5f6a7b8c9d0e", newest.Hash)
	assert.Equal(t, time.Date(2024, 3, 4, 10, 15, 0, 0, time.UTC), newest.Date.UTC())
	assert.Equal(t, []schema.RenamePair{{OldPath: "src/util.go", NewPath: "src/server/util.go"}}, newest.Renamed)
	assert.Equal(t, []string{"src/server/handler.go", "src/server/util.go"}, newest.Modified,
		"a partial-similarity rename is also a modification")
	assert.Empty(t, newest.Added, "deletions are ignored")

	middle := commits[1]
	assert.Equal(t, []schema.RenamePair{{OldPath: "README", NewPath: "README.md"}}, middle.Renamed)
	assert.Equal(t, []string{"src/server/handler.go"}, middle.Modified)
	assert.Equal(t, []string{"cmd/tool/main.go"}, middle.Added, "copies add the new path")

	assert.Len(t, commits[2].Added, 5)
}

func TestParseHistoryLog_FoldsFixture(t *testing.T) {
	commits, err := ParseHistoryLog(nameStatusLog)
	require.NoError(t, err)

	store, stats, err := Fold(commits, schema.NewestFirst, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, store.Get("src/server/handler.go"))
	assert.Equal(t, 2, store.Get("src/server/util.go"))
	assert.Equal(t, 5, store.Get("src/server"))
	assert.Equal(t, 6, store.Get("src"))
	assert.Equal(t, 1, store.Get("README.md"))
	assert.Equal(t, 1, store.Get("docs/old.md"), "deleted files keep their count")
	assert.Equal(t, 0, store.Get("README"))
	assert.Equal(t, schema.BuildStats{Commits: 3, RenamesApplied: 2, Paths: 11}, stats)

	root := ListChildrenWithCounts(".", store)
	paths := make([]string, len(root))
	for i, fc := range root {
		paths[i] = fc.Path
	}
	assert.Equal(t, []string{"src", "README.md", "cmd", "docs"}, paths)
}

func TestParseHistoryLog_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"status before header", "M\tmain.go\n", "line 1"},
		{"bad date", "--abc|yesterday\n", "bad commit date"},
		{"missing date", "--abc\n", "bad commit header"},
		{"unknown status", "--abc|2024-01-01T00:00:00Z\nX\tmain.go\n", "line 2"},
		{"rename without target", "--abc|2024-01-01T00:00:00Z\nR100\told.go\n", "two paths"},
		{"no path", "--abc|2024-01-01T00:00:00Z\nM\n", "bad status line"},
		{"bad quoted path", "--abc|2024-01-01T00:00:00Z\nA\t\"src/\\q.go\"\n", "bad quoted path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHistoryLog([]byte(tt.input))
			require.ErrorIs(t, err, ErrMalformedHistory)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseHistoryLog_Empty(t *testing.T) {
	commits, err := ParseHistoryLog(nil)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestParseHistoryLog_QuotedPretty(t *testing.T) {
	// Some shells keep the quotes around the pretty format.
	commits, err := ParseHistoryLog([]byte("'--abc|2024-01-01T00:00:00Z'\nA\tmain.go\n"))
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, []string{"main.go"}, commits[0].Added)
}

func TestParseHistoryLog_QuotedPaths(t *testing.T) {
	commits, err := ParseHistoryLog(quotedPathsLog)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, []string{"src/café.go", "notes'", " padded.txt"}, commits[0].Modified)
	assert.Equal(t, []schema.RenamePair{{OldPath: `docs/say "hi".md`, NewPath: "docs/hello.md"}}, commits[0].Renamed)
	assert.Equal(t, []string{
		"src/a.go",
		"src/café.go",
		`docs/say "hi".md`,
		"notes'",
		" padded.txt",
		`src/back\slash.go`,
	}, commits[1].Added)
}

func TestParseHistoryLog_QuotedPathsRollUp(t *testing.T) {
	commits, err := ParseHistoryLog(quotedPathsLog)
	require.NoError(t, err)

	store, stats, err := Fold(commits, schema.NewestFirst, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.BuildStats{Commits: 2, RenamesApplied: 1, Paths: 8}, stats)

	root := ListChildrenWithCounts(".", store)
	require.Len(t, root, 4)
	assert.Equal(t, schema.FileCount{Path: "src", Count: 4, Fraction: 4.0 / 9.0}, root[0])
	assert.Equal(t, " padded.txt", root[1].Path)
	assert.Equal(t, 2, root[1].Count)
	assert.Equal(t, "notes'", root[2].Path)
	assert.Equal(t, 2, root[2].Count)
	assert.Equal(t, "docs", root[3].Path)
	assert.Equal(t, 1, root[3].Count)

	src := ListChildrenWithCounts("src", store)
	paths := make([]string, len(src))
	for i, fc := range src {
		paths[i] = fc.Path
	}
	assert.Equal(t, []string{"src/café.go", "src/a.go", `src/back\slash.go`}, paths)
}
