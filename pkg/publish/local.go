package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

const filePerm = 0o644

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Local writes dashboards to disk and opens them in the browser.
type Local struct {
	// Dir receives the HTML file. Defaults to the OS temp directory.
	Dir string
	// Opener defaults to SystemOpener.
	Opener Opener
	// NoOpen skips opening the browser.
	NoOpen bool
	Logger *slog.Logger
}

// FileName returns the dashboard file name for a repository.
func FileName(repoName string) string {
	name := unsafeNameChars.ReplaceAllString(repoName, "-")
	if name == "" || name == "." || name == ".." {
		name = "repository"
	}

	return "commitpulse-" + name + ".html"
}

// Publish writes html to <Dir>/commitpulse-<repo>.html and returns the path.
// A browser failure is logged and does not fail the publish.
func (l Local) Publish(ctx context.Context, repoName string, html []byte) (path string, err error) {
	dir := l.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	path, err = filepath.Abs(filepath.Join(dir, FileName(repoName)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", pulse.ErrFileSystem, err)
	}

	err = writeFile(path, html)
	if err != nil {
		return "", err
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("dashboard written", "path", path, "bytes", len(html))

	if l.NoOpen {
		return path, nil
	}

	opener := l.Opener
	if opener == nil {
		opener = SystemOpener{}
	}

	if openErr := opener.Open(ctx, path); openErr != nil {
		logger.Warn("could not open browser", "path", path, "error", openErr)
	}

	return path, nil
}

func writeFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %w", pulse.ErrFileSystem, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: close %s: %w", pulse.ErrFileSystem, path, closeErr))
		}
	}()

	_, err = f.Write(data)
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", pulse.ErrFileSystem, path, err)
	}

	return nil
}
