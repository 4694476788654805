package gitlog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

const (
	recordMarker   = "\x1e"
	fieldSeparator = "\x1f"
	headerFields   = 5
	numstatFields  = 3
	maxLineBytes   = 4 << 20
	renameArrow    = " => "
	binaryCount    = "-"
)

// logFormat emits one header line per commit: a record marker followed by
// hash, parents, author name, author email and the strict ISO author date.
// --numstat lines follow the header.
const logFormat = "--pretty=format:" + "%x1e%H%x1f%P%x1f%aN%x1f%aE%x1f%aI"

// ParseLog reads git log output produced with logFormat and --numstat.
// Commits are returned in the order they appear.
func ParseLog(r io.Reader) ([]pulse.Commit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		commits []pulse.Commit
		current *pulse.Commit
	)

	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, recordMarker) {
			if current != nil {
				commits = append(commits, *current)
			}

			commit, err := parseHeader(strings.TrimPrefix(line, recordMarker))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}

			current = &commit

			continue
		}

		if current == nil {
			return nil, fmt.Errorf("line %d: numstat line before any commit header", lineNo)
		}

		change, err := parseNumstat(line)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", current.Hash, err)
		}

		current.Changes = append(current.Changes, change)
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan git log: %w", err)
	}

	if current != nil {
		commits = append(commits, *current)
	}

	return commits, nil
}

func parseHeader(line string) (pulse.Commit, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != headerFields {
		return pulse.Commit{}, fmt.Errorf("malformed commit header: want %d fields, got %d", headerFields, len(fields))
	}

	when, err := time.Parse(time.RFC3339, fields[4])
	if err != nil {
		return pulse.Commit{}, fmt.Errorf("parse author date of %s: %w", fields[0], err)
	}

	return pulse.Commit{
		Hash:        fields[0],
		Parents:     strings.Fields(fields[1]),
		AuthorName:  fields[2],
		AuthorEmail: fields[3],
		When:        when,
	}, nil
}

func parseNumstat(line string) (pulse.FileChange, error) {
	parts := strings.SplitN(line, "\t", numstatFields)
	if len(parts) != numstatFields {
		return pulse.FileChange{}, fmt.Errorf("malformed numstat line %q", line)
	}

	added, err := parseCount(parts[0])
	if err != nil {
		return pulse.FileChange{}, err
	}

	deleted, err := parseCount(parts[1])
	if err != nil {
		return pulse.FileChange{}, err
	}

	return pulse.FileChange{
		Path:    resolveRenamePath(unquotePath(parts[2])),
		Added:   added,
		Deleted: deleted,
	}, nil
}

// parseCount parses a numstat counter. Binary files report "-".
func parseCount(s string) (int, error) {
	if s == binaryCount {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse line count %q: %w", s, err)
	}

	return n, nil
}

// unquotePath undoes git's C-style quoting of unusual path names.
func unquotePath(p string) string {
	if len(p) < 2 || p[0] != '"' || p[len(p)-1] != '"' {
		return p
	}

	unquoted, err := strconv.Unquote(p)
	if err != nil {
		return p
	}

	return unquoted
}

// resolveRenamePath returns the destination of a numstat rename entry.
// Git writes renames either as "old => new" or with the changed part in
// braces, e.g. "src/{a => b}/file.go" or "{ => lib}/x.go".
func resolveRenamePath(p string) string {
	if !strings.Contains(p, renameArrow) {
		return p
	}

	open := strings.Index(p, "{")
	closing := strings.LastIndex(p, "}")

	if open < 0 || closing < open {
		_, dst, _ := strings.Cut(p, renameArrow)

		return dst
	}

	prefix, inner, suffix := p[:open], p[open+1:closing], p[closing+1:]

	_, dst, _ := strings.Cut(inner, renameArrow)
	if dst == "" {
		// "{old => }" drops a directory level; avoid a doubled slash.
		suffix = strings.TrimPrefix(suffix, "/")
	}

	return prefix + dst + suffix
}
