package gitlog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

// DefaultScanDepth is how many directory levels below the root Discover
// descends by default.
const DefaultScanDepth = 3

const gitDirName = ".git"

// Discover returns every directory under root, root included, that holds a
// .git entry. It descends at most maxDepth levels. Results are in lexical
// order. Unreadable directories are skipped.
func Discover(root string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultScanDepth
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", pulse.ErrFileSystem, root, err)
	}

	_, err = os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pulse.ErrFileSystem, err)
	}

	var repos []string

	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != abs {
				return fs.SkipDir
			}

			return err
		}

		if !d.IsDir() {
			return nil
		}

		if d.Name() == gitDirName {
			return fs.SkipDir
		}

		_, statErr := os.Lstat(filepath.Join(path, gitDirName))
		if statErr == nil {
			repos = append(repos, path)
		}

		if depthOf(abs, path) >= maxDepth {
			return fs.SkipDir
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", pulse.ErrFileSystem, abs, walkErr)
	}

	return repos, nil
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(rel, string(filepath.Separator)) + 1
}
