// Package schema has configs, models and global constants for all parts of changetree.
package schema

import "time"

// RenamePair records a single path identity transition inside a commit.
type RenamePair struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// CommitEvent is one historical commit as seen by the aggregator.
// Hash and Date are informational only; nothing is attributed to them.
type CommitEvent struct {
	Hash     string       `json:"hash,omitempty"`
	Date     time.Time    `json:"date"`
	Added    []string     `json:"added,omitempty"`
	Modified []string     `json:"modified,omitempty"`
	Renamed  []RenamePair `json:"renamed,omitempty"`
}

// HistoryOutput is everything the history source hands to the aggregator.
// Order declares how Commits is sorted so the fold never has to guess.
type HistoryOutput struct {
	Commits []CommitEvent `json:"commits"`
	Order   ReplayOrder   `json:"order"`
}

// FileCount is a single entry of a directory listing.
// Fraction is relative to the sibling set it was returned with, not the global total.
type FileCount struct {
	Path         string  `json:"path"`
	Count        int     `json:"count"`
	Fraction     float64 `json:"fraction"`
	TerminalFile bool    `json:"terminal_file"`
}

// TreeNode is a FileCount with its expanded children, used for multi-level listings.
type TreeNode struct {
	FileCount
	Depth    int        `json:"depth"`
	Children []TreeNode `json:"children,omitempty"`
}

// BuildStats summarizes one fold-and-rollup pass.
type BuildStats struct {
	Commits        int `json:"commits"`
	RenamesApplied int `json:"renames_applied"`
	RenamesMissed  int `json:"renames_missed"`
	Paths          int `json:"paths"`
}

// TreeListing is the result handed to the presentation layer for one query.
type TreeListing struct {
	Root  string     `json:"root"`
	Total int        `json:"total"`
	Nodes []TreeNode `json:"nodes"`
	Stats BuildStats `json:"stats"`
}
