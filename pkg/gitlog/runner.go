package gitlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes git with the given arguments inside dir and returns stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// SubprocessError is returned when git exits with a non-zero status.
type SubprocessError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *SubprocessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s exited with code %d: %s", strings.Join(e.Args, " "), e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("git %s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	// Binary overrides the executable name. Defaults to "git".
	Binary string
	Logger *slog.Logger
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running subprocess", "dir", dir, "args", args)

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &SubprocessError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}

		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	logger.Debug("subprocess exited", "args", args, "bytes", stdout.Len())

	return stdout.Bytes(), nil
}

// exitCode returns the git exit status carried by err, or -1.
func exitCode(err error) int {
	var subErr *SubprocessError
	if errors.As(err, &subErr) {
		return subErr.ExitCode
	}

	return -1
}
