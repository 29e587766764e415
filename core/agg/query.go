package agg

import (
	"math"
	"sort"
	"strings"

	"github.com/huangsam/changetree/schema"
)

// IndicatorRune is the character repeated by FractionToIndicator.
const IndicatorRune = "█"

// Child is a direct child of a queried path.
type Child struct {
	Path        string
	HasChildren bool
}

// DirectChildren returns the paths in allPaths whose parent is exactly parentPath,
// sorted by path. Paths that only share a string prefix with parentPath are not children.
func DirectChildren(parentPath string, allPaths []string) []Child {
	sorted := make([]string, len(allPaths))
	copy(sorted, allPaths)
	sort.Strings(sorted)
	return indexChildren(sorted)[parentPath]
}

// ListChildrenWithCounts returns the direct children of parentPath with their counts,
// sorted by count descending and path ascending. Each fraction is the share of the
// returned sibling set; an all-zero set yields zero fractions.
func ListChildrenWithCounts(parentPath string, store *Store) []schema.FileCount {
	return rankChildren(DirectChildren(parentPath, store.AllPaths()), store)
}

// rankChildren attaches counts and sibling fractions to children.
func rankChildren(children []Child, store *Store) []schema.FileCount {
	counts := make([]schema.FileCount, 0, len(children))
	for _, c := range children {
		counts = append(counts, schema.FileCount{
			Path:         c.Path,
			Count:        store.Get(c.Path),
			TerminalFile: !c.HasChildren,
		})
	}
	total := schema.SumCounts(counts)

	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Path < counts[j].Path
	})

	if total > 0 {
		for i := range counts {
			counts[i].Fraction = float64(counts[i].Count) / float64(total)
		}
	}
	return counts
}

// FractionToIndicator renders a bar of round(totalWidth*fraction) characters,
// clamped to [0, totalWidth].
func FractionToIndicator(fraction float64, totalWidth int) string {
	if totalWidth <= 0 || math.IsNaN(fraction) {
		return ""
	}
	fraction = max(0, min(fraction, 1))
	return strings.Repeat(IndicatorRune, int(math.Round(float64(totalWidth)*fraction)))
}

// Walk expands parentPath into a tree of at most maxDepth levels. It gives the
// same listing per directory as ListChildrenWithCounts but indexes the paths once.
func Walk(parentPath string, store *Store, maxDepth int) []schema.TreeNode {
	return walk(parentPath, store, indexChildren(store.AllPaths()), 0, maxDepth)
}

func walk(parentPath string, store *Store, index map[string][]Child, depth, maxDepth int) []schema.TreeNode {
	if depth >= maxDepth {
		return nil
	}
	counts := rankChildren(index[parentPath], store)
	nodes := make([]schema.TreeNode, 0, len(counts))
	for _, c := range counts {
		node := schema.TreeNode{FileCount: c, Depth: depth}
		if !c.TerminalFile {
			node.Children = walk(c.Path, store, index, depth+1, maxDepth)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// indexChildren groups sorted paths by parent.
func indexChildren(allPaths []string) map[string][]Child {
	parents := make(map[string]struct{}, len(allPaths))
	for _, p := range allPaths {
		if p != rootPath {
			parents[ParentOf(p)] = struct{}{}
		}
	}
	index := make(map[string][]Child, len(parents))
	for _, p := range allPaths {
		if p == rootPath {
			continue
		}
		_, hasChildren := parents[p]
		parent := ParentOf(p)
		index[parent] = append(index[parent], Child{Path: p, HasChildren: hasChildren})
	}
	return index
}
