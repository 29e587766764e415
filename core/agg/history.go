package agg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/changetree/schema"
)

// ErrMalformedHistory is returned when a history log cannot be parsed.
var ErrMalformedHistory = errors.New("malformed history")

// ParseHistoryLog reads the output of
//
//	git log --name-status -M --pretty=format:--%H|%ad --date=iso-strict
//
// Commits come back in log order, which is newest first.
//
// Status letters: A is an addition, M and T are modifications, R is a rename,
// C is a copy and counts as an addition of the new path, D is ignored.
// A rename with a similarity score below 100 is also a modification of the new path.
func ParseHistoryLog(out []byte) ([]schema.CommitEvent, error) {
	var commits []schema.CommitEvent
	var current *schema.CommitEvent

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		l := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}

		if header := strings.Trim(l, " '"); strings.HasPrefix(header, "--") {
			commit, err := parseCommitHeader(header)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedHistory, lineNo, err)
			}
			commits = append(commits, commit)
			current = &commits[len(commits)-1]
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%w: line %d: file status before any commit header", ErrMalformedHistory, lineNo)
		}
		if err := parseStatusLine(l, current); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedHistory, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	return commits, nil
}

// parseCommitHeader reads a "--hash|date" line.
func parseCommitHeader(line string) (schema.CommitEvent, error) {
	hash, dateStr, ok := strings.Cut(line[2:], "|")
	if !ok || hash == "" {
		return schema.CommitEvent{}, fmt.Errorf("bad commit header %q", line)
	}
	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return schema.CommitEvent{}, fmt.Errorf("bad commit date %q", dateStr)
	}
	return schema.CommitEvent{Hash: hash, Date: date}, nil
}

// parseStatusLine adds one name-status entry to commit.
func parseStatusLine(line string, commit *schema.CommitEvent) error {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 || parts[0] == "" {
		return fmt.Errorf("bad status line %q", line)
	}
	status := parts[0]

	paths := parts[1:]
	for i, p := range paths {
		unquoted, err := unquotePath(p)
		if err != nil {
			return err
		}
		paths[i] = cleanGitPath(unquoted)
	}

	switch status[0] {
	case 'A':
		commit.Added = append(commit.Added, paths[0])
	case 'M', 'T':
		commit.Modified = append(commit.Modified, paths[0])
	case 'D':
		// Deleted paths keep their count.
	case 'R', 'C':
		if len(paths) != 2 {
			return fmt.Errorf("status %s needs two paths", status)
		}
		newPath := paths[1]
		if status[0] == 'C' {
			commit.Added = append(commit.Added, newPath)
			return nil
		}
		commit.Renamed = append(commit.Renamed, schema.RenamePair{
			OldPath: paths[0],
			NewPath: newPath,
		})
		// A rename below 100% similarity also edited the file.
		if score := status[1:]; score != "" && score != "100" {
			commit.Modified = append(commit.Modified, newPath)
		}
	default:
		return fmt.Errorf("unknown status %q", status)
	}
	return nil
}

// unquotePath undoes the C-style quoting git applies to paths with unusual bytes,
// such as "src/caf\303\251.go".
func unquotePath(p string) (string, error) {
	if len(p) < 2 || p[0] != '"' {
		return p, nil
	}
	unquoted, err := strconv.Unquote(p)
	if err != nil {
		return "", fmt.Errorf("bad quoted path %s", p)
	}
	return unquoted, nil
}

// cleanGitPath keeps spaces and backslashes, which are legal in git paths.
func cleanGitPath(p string) string {
	if p == "" {
		return rootPath
	}
	return strings.TrimPrefix(path.Clean(p), "/")
}
