package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/changetree/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNodes() []schema.TreeNode {
	return []schema.TreeNode{
		{FileCount: schema.FileCount{Path: "src", Count: 5, Fraction: 5.0 / 6}, Depth: 0},
		{FileCount: schema.FileCount{Path: "src/main.go", Count: 5, Fraction: 1, TerminalFile: true}, Depth: 1},
		{FileCount: schema.FileCount{Path: "README.md", Count: 1, Fraction: 1.0 / 6, TerminalFile: true}, Depth: 0},
	}
}

func TestTreeRowStructTags(t *testing.T) {
	treeSchema := parquet.SchemaOf(new(TreeRow))
	require.NotNil(t, treeSchema)

	expectedColumns := []string{
		"path",
		"parent",
		"depth",
		"count",
		"fraction",
		"terminal_file",
		"export_time",
	}

	for _, colName := range expectedColumns {
		col, ok := treeSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertTreeNodes(t *testing.T) {
	exportTime := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	rows := ConvertTreeNodes(sampleNodes(), exportTime)

	require.Len(t, rows, 3)
	assert.Equal(t, TreeRow{
		Path:         "src/main.go",
		Parent:       "src",
		Depth:        1,
		Count:        5,
		Fraction:     1,
		TerminalFile: true,
		ExportTime:   exportTime,
	}, rows[1])
	assert.Equal(t, ".", rows[0].Parent)
	assert.Equal(t, ".", rows[2].Parent)
	assert.Empty(t, ConvertTreeNodes(nil, exportTime))
}

func TestWriteTreeRowsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "tree.parquet")
	data := ConvertTreeNodes(sampleNodes(), time.Now())

	err := WriteTreeRowsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[TreeRow](file)
	defer reader.Close()

	readData := make([]TreeRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	require.Equal(t, len(data), n, "Should read all records")

	for i := range data {
		assert.Equal(t, data[i].Path, readData[i].Path)
		assert.Equal(t, data[i].Parent, readData[i].Parent)
		assert.Equal(t, data[i].Depth, readData[i].Depth)
		assert.Equal(t, data[i].Count, readData[i].Count)
		assert.InDelta(t, data[i].Fraction, readData[i].Fraction, 1e-12)
		assert.Equal(t, data[i].TerminalFile, readData[i].TerminalFile)
		assert.WithinDuration(t, data[i].ExportTime, readData[i].ExportTime, time.Microsecond)
	}
}

func TestWriteTreeRowsParquet_InvalidPath(t *testing.T) {
	err := WriteTreeRowsParquet(nil, "/nonexistent/dir/tree.parquet")
	assert.ErrorContains(t, err, "failed to create output file")
}
