package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/changetree/core/agg"
	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// rankedNode is a tree node with its rank inside its sibling set.
type rankedNode struct {
	Rank int
	Node schema.TreeNode
}

// flattenRanked walks nodes depth-first, keeping each node's sibling rank.
func flattenRanked(nodes []schema.TreeNode) []rankedNode {
	var out []rankedNode
	for i, n := range nodes {
		out = append(out, rankedNode{Rank: i + 1, Node: n})
		out = append(out, flattenRanked(n.Children)...)
	}
	return out
}

// displayPath marks directories with a trailing slash, colored when enabled.
func displayPath(n schema.TreeNode, maxWidth int, useColors bool) string {
	if n.TerminalFile {
		return contract.TruncatePath(n.Path, maxWidth)
	}
	p := contract.TruncatePath(n.Path+"/", maxWidth)
	if useColors {
		return contract.DirColor.Sprint(p)
	}
	return p
}

// writeTreeTable prints the listing as a table with one indicator bar per entry,
// using the tablewriter API.
func writeTreeTable(w io.Writer, listing schema.TreeListing, cfg *contract.Config, formatShare func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Rank", "Path", "Kind", "Count", "Share", "Label", "Bar"})

	// 2. Configure Alignment
	table.Configure(func(config *tablewriter.Config) {
		config.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	pathWidth := GetMaxTablePathWidth(cfg)
	barWidth := ResolveBarWidth(cfg)
	rows := flattenRanked(listing.Nodes)
	var data [][]string
	for _, r := range rows {
		n := r.Node
		label := schema.GetPlainLabel(n.Fraction)
		if cfg.UseColors {
			label = contract.GetColorLabel(n.Fraction)
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			displayPath(n, pathWidth, cfg.UseColors),
			schema.NodeKind(n.TerminalFile),
			humanize.Comma(int64(n.Count)),
			formatShare(n.Fraction) + "%",
			label,
			agg.FractionToIndicator(n.Fraction, barWidth),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	stats := listing.Stats
	if _, err := fmt.Fprintf(w, "Showing %d entries under %s (total changes: %s)\n",
		len(rows), listing.Root, humanize.Comma(int64(listing.Total))); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Built from %s commits (%d renames followed, %d skipped) in %v. Cache backend: %s\n",
		humanize.Comma(int64(stats.Commits)), stats.RenamesApplied, stats.RenamesMissed, duration, cfg.CacheBackend)
	return err
}
