package outwriter

import (
	"io"
	"strconv"

	"github.com/huangsam/changetree/core/agg"
	"github.com/huangsam/changetree/schema"
)

// jsonTreeNode is a tree node with rank, kind and label added.
type jsonTreeNode struct {
	schema.EnrichedFileCount
	Depth    int            `json:"depth"`
	Children []jsonTreeNode `json:"children,omitempty"`
}

// jsonTree is the JSON document for one listing.
type jsonTree struct {
	Root  string            `json:"root"`
	Total int               `json:"total"`
	Stats schema.BuildStats `json:"stats"`
	Nodes []jsonTreeNode    `json:"nodes"`
}

func toJSONNodes(nodes []schema.TreeNode) []jsonTreeNode {
	counts := make([]schema.FileCount, len(nodes))
	for i, n := range nodes {
		counts[i] = n.FileCount
	}
	enriched := schema.EnrichCounts(counts)

	out := make([]jsonTreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = jsonTreeNode{
			EnrichedFileCount: enriched[i],
			Depth:             n.Depth,
			Children:          toJSONNodes(n.Children),
		}
	}
	return out
}

// writeJSONTree marshals the listing to JSON and writes it.
func writeJSONTree(w io.Writer, listing schema.TreeListing) error {
	return writeJSON(w, jsonTree{
		Root:  listing.Root,
		Total: listing.Total,
		Stats: listing.Stats,
		Nodes: toJSONNodes(listing.Nodes),
	})
}

// writeCSVTree writes one row per node, depth-first.
func writeCSVTree(w io.Writer, listing schema.TreeListing, formatShare func(float64) string) error {
	header := []string{"rank", "path", "parent", "depth", "kind", "count", "share_pct", "label"}

	ranked := flattenRanked(listing.Nodes)
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		n := r.Node
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			n.Path,
			agg.ParentOf(n.Path),
			strconv.Itoa(n.Depth),
			schema.NodeKind(n.TerminalFile),
			strconv.Itoa(n.Count),
			formatShare(n.Fraction),
			schema.GetPlainLabel(n.Fraction),
		})
	}
	return writeCSV(w, header, rows)
}
