// Package publish delivers a rendered dashboard either to a local HTML file
// or to the CommitPulse cloud service.
package publish

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener shows a file path or URL to the user.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, target string) error

// Open implements Opener.
func (f OpenerFunc) Open(ctx context.Context, target string) error {
	return f(ctx, target)
}

// SystemOpener opens targets with the platform's default handler.
type SystemOpener struct {
	// GOOS overrides runtime.GOOS.
	GOOS string
}

// Command returns the program and arguments used to open target.
func (o SystemOpener) Command(target string) (string, []string) {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// Open starts the handler without waiting for it to exit. The handler
// outlives cancellation of ctx.
func (o SystemOpener) Open(ctx context.Context, target string) error {
	name, args := o.Command(target)

	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...) //nolint:gosec // fixed program, target is a path or URL we produced.

	err := cmd.Start()
	if err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}

	go func() { _ = cmd.Wait() }()

	return nil
}
