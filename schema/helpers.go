package schema

// Node kinds shown to users.
const (
	FileKind = "file"
	DirKind  = "dir"
)

// NodeKind maps the terminal flag to a user-facing kind.
func NodeKind(terminal bool) string {
	if terminal {
		return FileKind
	}
	return DirKind
}

// SumCounts returns the total count of a sibling set.
func SumCounts(counts []FileCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// Flatten returns every node of a tree in depth-first order.
func Flatten(nodes []TreeNode) []TreeNode {
	var out []TreeNode
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}
