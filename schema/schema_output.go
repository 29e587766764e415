package schema

// Share labels, from largest to smallest.
const (
	DominantValue = "Dominant"
	MajorValue    = "Major"
	ModerateValue = "Moderate"
	MinorValue    = "Minor"
)

// EnrichedFileCount adds presentation data to a FileCount.
type EnrichedFileCount struct {
	Rank  int    `json:"rank"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	FileCount
}

// GetPlainLabel returns a plain text label for the share of a sibling set,
// given as a fraction in [0, 1].
func GetPlainLabel(fraction float64) string {
	switch {
	case fraction >= 0.5:
		return DominantValue
	case fraction >= 0.25:
		return MajorValue
	case fraction >= 0.1:
		return ModerateValue
	default:
		return MinorValue
	}
}

// EnrichCounts adds rank, kind and label to a sibling listing.
func EnrichCounts(counts []FileCount) []EnrichedFileCount {
	output := make([]EnrichedFileCount, len(counts))
	for i, c := range counts {
		output[i] = EnrichedFileCount{
			Rank:      i + 1,
			Kind:      NodeKind(c.TerminalFile),
			Label:     GetPlainLabel(c.Fraction),
			FileCount: c,
		}
	}
	return output
}
