// Package gitlog reads commit history and tracked files of a local repository
// by running the git command line tool.
package gitlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

// Repository is an opened Git work tree.
type Repository struct {
	// Path is the absolute path of the work tree root.
	Path string
	// Name is the base name of Path.
	Name   string
	runner Runner
}

// Open validates that path lives inside a Git work tree and returns the
// repository rooted at its top level. A nil runner runs the git binary.
func Open(ctx context.Context, path string, runner Runner) (*Repository, error) {
	if runner == nil {
		runner = ExecRunner{}
	}

	if path == "" {
		path = "."
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", pulse.ErrFileSystem, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pulse.ErrFileSystem, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", pulse.ErrNotARepository, abs)
	}

	out, err := runner.Run(ctx, abs, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: git executable not found: %w", pulse.ErrNotARepository, err)
		}

		return nil, fmt.Errorf("%w: %s", pulse.ErrNotARepository, abs)
	}

	top := strings.TrimSpace(string(out))
	if top == "" {
		return nil, fmt.Errorf("%w: %s", pulse.ErrNotARepository, abs)
	}

	top = filepath.Clean(top)

	return &Repository{
		Path:   top,
		Name:   filepath.Base(top),
		runner: runner,
	}, nil
}

// Info returns the identity recorded in reports.
func (r *Repository) Info() pulse.RepoInfo {
	return pulse.RepoInfo{Name: r.Name, Path: r.Path}
}

// Commits returns every commit reachable from any ref, oldest first.
// A repository without commits yields an empty slice.
func (r *Repository) Commits(ctx context.Context) ([]pulse.Commit, error) {
	out, err := r.runner.Run(ctx, r.Path,
		"-c", "core.quotepath=false",
		"log",
		"--all",
		"--reverse",
		"--numstat",
		"--no-show-signature",
		logFormat,
	)
	if err != nil {
		if isEmptyHistory(err) {
			return []pulse.Commit{}, nil
		}

		return nil, fmt.Errorf("git log: %w", err)
	}

	commits, err := ParseLog(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parse git log: %w", err)
	}

	if commits == nil {
		commits = []pulse.Commit{}
	}

	return commits, nil
}

// Files lists blobs committed at HEAD with their sizes. Submodules are
// skipped. A repository without commits yields an empty slice.
func (r *Repository) Files(ctx context.Context) ([]pulse.TrackedFile, error) {
	_, err := r.runner.Run(ctx, r.Path, "rev-parse", "--verify", "--quiet", "HEAD^{commit}")
	if err != nil {
		if exitCode(err) > 0 {
			return []pulse.TrackedFile{}, nil
		}

		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	out, err := r.runner.Run(ctx, r.Path, "ls-tree", "-r", "-z", "--long", "--full-tree", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("git ls-tree: %w", err)
	}

	return parseTree(out)
}

// UserName returns the configured user.name, or "" when it is unset.
func (r *Repository) UserName(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, r.Path, "config", "user.name")
	if err != nil {
		// git config exits 1 when the key is missing.
		if exitCode(err) == 1 {
			return "", nil
		}

		return "", fmt.Errorf("git config: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

func isEmptyHistory(err error) bool {
	var subErr *SubprocessError
	if !errors.As(err, &subErr) {
		return false
	}

	return strings.Contains(subErr.Stderr, "does not have any commits")
}

const symlinkMode = "120000"

// parseTree parses NUL-terminated entries of `git ls-tree --long` of the form
// "<mode> <type> <object> <size>\t<path>".
func parseTree(out []byte) ([]pulse.TrackedFile, error) {
	files := []pulse.TrackedFile{}

	for entry := range bytes.SplitSeq(out, []byte{0}) {
		if len(entry) == 0 {
			continue
		}

		meta, path, ok := strings.Cut(string(entry), "\t")
		if !ok {
			return nil, fmt.Errorf("malformed ls-tree entry %q", entry)
		}

		fields := strings.Fields(meta)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed ls-tree entry %q", entry)
		}

		// Symlink blobs hold the target path, not file content.
		if fields[1] != "blob" || fields[0] == symlinkMode {
			continue
		}

		size, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse size of %s: %w", path, err)
		}

		files = append(files, pulse.TrackedFile{Path: path, Size: size})
	}

	return files, nil
}
