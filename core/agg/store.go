// Package agg has the change-frequency aggregator: a path count store with
// rename tracking and a one-shot ancestor rollup, plus the queries over it.
package agg

import (
	"errors"
	"sort"
)

// ErrAlreadyRolledUp is returned when PopulateParents runs on a store that was rolled up.
var ErrAlreadyRolledUp = errors.New("path counts already rolled up")

// Store maps a path to the number of commits that touched it.
// It is built once, rolled up once, and then only read.
type Store struct {
	counts   map[string]int
	rolledUp bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{counts: make(map[string]int)}
}

// Increment adds one to the count of path.
func (s *Store) Increment(path string) {
	s.AddCount(path, 1)
}

// AddCount adds n to the count of path.
func (s *Store) AddCount(path string, n int) {
	s.mustBeOpen()
	s.counts[path] += n
}

// Get returns the count of path, or 0 when the path was never seen.
func (s *Store) Get(path string) int {
	return s.counts[path]
}

// Has reports whether path is present in the store.
func (s *Store) Has(path string) bool {
	_, ok := s.counts[path]
	return ok
}

// RenamePath moves the count stored under oldPath to newPath and removes oldPath.
// A rename whose oldPath is absent is a no-op and reports false;
// newPath is left untouched in that case.
func (s *Store) RenamePath(oldPath, newPath string) bool {
	s.mustBeOpen()
	count, ok := s.counts[oldPath]
	if !ok {
		return false
	}
	if oldPath == newPath {
		return true
	}
	delete(s.counts, oldPath)
	s.counts[newPath] += count
	return true
}

// AllPaths returns every path in the store, sorted.
func (s *Store) AllPaths() []string {
	paths := make([]string, 0, len(s.counts))
	for p := range s.counts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of paths in the store.
func (s *Store) Len() int {
	return len(s.counts)
}

// RolledUp reports whether PopulateParents has run.
func (s *Store) RolledUp() bool {
	return s.rolledUp
}

// PopulateParents adds the count of every path into each of its ancestors,
// excluding the root. It may only run once; afterwards the store is read-only.
func (s *Store) PopulateParents() error {
	if s.rolledUp {
		return ErrAlreadyRolledUp
	}
	s.rollup()
	s.rolledUp = true
	return nil
}

// rollup distributes counts upward without any guard.
// Paths created by this pass are not re-read.
func (s *Store) rollup() {
	snapshot := make(map[string]int, len(s.counts))
	for p, c := range s.counts {
		snapshot[p] = c
	}
	for p, c := range snapshot {
		for _, ancestor := range ParentPaths(p) {
			if ancestor == rootPath {
				continue
			}
			s.counts[ancestor] += c
		}
	}
}

func (s *Store) mustBeOpen() {
	if s.rolledUp {
		panic("agg: mutation of a rolled-up store")
	}
}
