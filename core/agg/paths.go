package agg

import (
	"path"
	"strings"

	"github.com/huangsam/changetree/schema"
)

const rootPath = schema.RootPath

// NormalizePath converts a user or git supplied path into the store's form:
// forward slashes, no leading "./", no trailing slash, and "." for the root.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return rootPath
	}
	cleaned := path.Clean(p)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return rootPath
	}
	return cleaned
}

// ParentOf returns the direct parent of p. The parent of a top-level entry is the root.
// The root has no parent and maps to itself.
func ParentOf(p string) string {
	if p == rootPath {
		return rootPath
	}
	return path.Dir(p)
}

// ParentPaths returns every strict ancestor of p, nearest first, ending with the root.
// The root itself has no ancestors.
func ParentPaths(p string) []string {
	if p == rootPath || p == "" {
		return []string{}
	}
	var parents []string
	for cur := ParentOf(p); ; cur = ParentOf(cur) {
		parents = append(parents, cur)
		if cur == rootPath || cur == "/" {
			break
		}
	}
	return parents
}
