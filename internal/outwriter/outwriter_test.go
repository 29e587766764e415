package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleListing lists the root two levels deep.
func sampleListing() schema.TreeListing {
	return schema.TreeListing{
		Root:  ".",
		Total: 1200,
		Stats: schema.BuildStats{Commits: 1500, RenamesApplied: 4, RenamesMissed: 1, Paths: 5},
		Nodes: []schema.TreeNode{
			{
				FileCount: schema.FileCount{Path: "src", Count: 900, Fraction: 0.75},
				Depth:     0,
				Children: []schema.TreeNode{
					{FileCount: schema.FileCount{Path: "src/main.go", Count: 600, Fraction: 2.0 / 3, TerminalFile: true}, Depth: 1},
					{FileCount: schema.FileCount{Path: "src/util.go", Count: 300, Fraction: 1.0 / 3, TerminalFile: true}, Depth: 1},
				},
			},
			{FileCount: schema.FileCount{Path: "README.md", Count: 300, Fraction: 0.25, TerminalFile: true}, Depth: 0},
		},
	}
}

func TestWriteTreeTable(t *testing.T) {
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    1,
		Width:        120,
		BarWidth:     20,
		UseColors:    false,
		CacheBackend: schema.SQLiteBackend,
	}

	var buf bytes.Buffer
	err := WriteTree(&buf, sampleListing(), cfg, 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "src/")
	assert.Contains(t, output, "src/main.go")
	assert.Contains(t, output, "README.md")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "66.7%")
	assert.Contains(t, output, "Dominant")
	assert.Contains(t, output, "Major")
	assert.Contains(t, output, strings.Repeat("█", 15), "0.75 of a 20 wide bar")
	assert.NotContains(t, output, strings.Repeat("█", 16))
	assert.Contains(t, output, "Showing 4 entries under . (total changes: 1,200)")
	assert.Contains(t, output, "Built from 1,500 commits (4 renames followed, 1 skipped) in 100ms. Cache backend: sqlite")
}

func TestWriteTreeJSON(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, Precision: 2}

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleListing(), cfg, time.Second))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, ".", result["root"])
	assert.Equal(t, float64(1200), result["total"])
	assert.Equal(t, float64(1), result["stats"].(map[string]any)["renames_missed"])

	nodes := result["nodes"].([]any)
	require.Len(t, nodes, 2)
	src := nodes[0].(map[string]any)
	assert.Equal(t, "src", src["path"])
	assert.Equal(t, float64(1), src["rank"])
	assert.Equal(t, "dir", src["kind"])
	assert.Equal(t, "Dominant", src["label"])
	assert.Equal(t, 0.75, src["fraction"])
	assert.Equal(t, false, src["terminal_file"])

	children := src["children"].([]any)
	require.Len(t, children, 2)
	util := children[1].(map[string]any)
	assert.Equal(t, "src/util.go", util["path"])
	assert.Equal(t, float64(2), util["rank"])
	assert.Equal(t, float64(1), util["depth"])
	assert.Equal(t, "file", util["kind"])
	assert.NotContains(t, util, "children")

	readme := nodes[1].(map[string]any)
	assert.Equal(t, float64(2), readme["rank"])
}

func TestWriteTreeJSON_Empty(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut}

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, schema.TreeListing{Root: "."}, cfg, 0))
	assert.Contains(t, buf.String(), `"nodes": []`)
}

func TestWriteTreeCSV(t *testing.T) {
	cfg := &contract.Config{Output: schema.CSVOut, Precision: 1}

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleListing(), cfg, 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"rank", "path", "parent", "depth", "kind", "count", "share_pct", "label"}, records[0])
	assert.Equal(t, []string{"1", "src", ".", "0", "dir", "900", "75.0", "Dominant"}, records[1])
	assert.Equal(t, []string{"1", "src/main.go", "src", "1", "file", "600", "66.7", "Dominant"}, records[2])
	assert.Equal(t, []string{"2", "src/util.go", "src", "1", "file", "300", "33.3", "Major"}, records[3])
	assert.Equal(t, []string{"2", "README.md", ".", "0", "file", "300", "25.0", "Major"}, records[4])
}

func TestPrintTree_ToFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "tree.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: outputPath}

	require.NoError(t, PrintTree(sampleListing(), cfg, 0))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"path": "src/main.go"`)
}

func TestFlattenRanked(t *testing.T) {
	rows := flattenRanked(sampleListing().Nodes)
	paths := make([]string, len(rows))
	ranks := make([]int, len(rows))
	for i, r := range rows {
		paths[i] = r.Node.Path
		ranks[i] = r.Rank
	}
	assert.Equal(t, []string{"src", "src/main.go", "src/util.go", "README.md"}, paths)
	assert.Equal(t, []int{1, 1, 2, 2}, ranks)
}

func TestDisplayPath(t *testing.T) {
	dir := schema.TreeNode{FileCount: schema.FileCount{Path: "src/server"}}
	file := schema.TreeNode{FileCount: schema.FileCount{Path: "src/server/handler.go", TerminalFile: true}}

	assert.Equal(t, "src/server/", displayPath(dir, 40, false))
	assert.Equal(t, "src/server/handler.go", displayPath(file, 40, false))
	assert.Equal(t, "...r/handler.go", displayPath(file, 15, false))
}

func TestResolveBarWidth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *contract.Config
		expected int
	}{
		{"explicit bar width", &contract.Config{Width: 200, BarWidth: 7}, 7},
		{"explicit bar width capped", &contract.Config{Width: 200, BarWidth: 1000}, schema.ReferenceIndicatorWidth},
		{"narrow terminal", &contract.Config{Width: 60}, minBarWidth},
		{"medium terminal", &contract.Config{Width: 110}, 20},
		{"wide terminal", &contract.Config{Width: 400}, maxBarWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveBarWidth(tt.cfg))
		})
	}
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *contract.Config
		expected int
	}{
		{"narrow terminal", &contract.Config{Width: 60}, minPathWidth},
		{"medium terminal", &contract.Config{Width: 110}, 40},
		{"wide terminal", &contract.Config{Width: 400}, maxPathWidth},
		{"explicit bar eats space", &contract.Config{Width: 110, BarWidth: 50}, minPathWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(tt.cfg))
		})
	}
}

func TestFormatBound(t *testing.T) {
	assert.Equal(t, "now", formatBound(time.Time{}, "now"))
	ts := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01T08:30:00Z", formatBound(ts, "now"))
}
