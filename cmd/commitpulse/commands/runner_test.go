package commands

import (
	"context"
	"errors"
	"slices"

	"github.com/Sumatoshi-tech/commitpulse/pkg/gitlog"
)

// userlessRunner runs real git but reports user.name as unset.
type userlessRunner struct{}

func (userlessRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if slices.Equal(args, []string{"config", "user.name"}) {
		return nil, &gitlog.SubprocessError{Args: args, ExitCode: 1, Err: errors.New("exit status 1")}
	}

	return gitlog.ExecRunner{}.Run(ctx, dir, args...)
}

// cancelingRunner runs real git and cancels the run once the tracked files
// have been listed.
type cancelingRunner struct {
	cancel context.CancelFunc
}

func (r cancelingRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := gitlog.ExecRunner{}.Run(ctx, dir, args...)
	if len(args) > 0 && args[0] == "ls-tree" {
		r.cancel()
	}

	return out, err
}
