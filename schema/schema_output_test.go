package schema_test

import (
	"testing"

	"github.com/huangsam/changetree/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		expected string
	}{
		{"Dominant Upper", 1.0, schema.DominantValue},
		{"Dominant Lower", 0.5, schema.DominantValue},
		{"Major Upper", 0.49, schema.MajorValue},
		{"Major Lower", 0.25, schema.MajorValue},
		{"Moderate Upper", 0.249, schema.ModerateValue},
		{"Moderate Lower", 0.1, schema.ModerateValue},
		{"Minor Upper", 0.099, schema.MinorValue},
		{"Minor Zero", 0.0, schema.MinorValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPlainLabel(tt.fraction))
		})
	}
}

func TestEnrichCounts(t *testing.T) {
	counts := []schema.FileCount{
		{Path: "src", Count: 6, Fraction: 0.6, TerminalFile: false},
		{Path: "README.md", Count: 3, Fraction: 0.3, TerminalFile: true},
		{Path: "go.mod", Count: 1, Fraction: 0.1, TerminalFile: true},
	}

	enriched := schema.EnrichCounts(counts)

	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, schema.DirKind, enriched[0].Kind)
	assert.Equal(t, schema.DominantValue, enriched[0].Label)
	assert.Equal(t, "src", enriched[0].Path)

	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, schema.FileKind, enriched[1].Kind)
	assert.Equal(t, schema.MajorValue, enriched[1].Label)

	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, schema.ModerateValue, enriched[2].Label)
}

func TestEnrichCountsEmpty(t *testing.T) {
	assert.Empty(t, schema.EnrichCounts(nil))
}
