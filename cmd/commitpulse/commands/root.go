// Package commands implements the commitpulse CLI commands.
package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commitpulse/internal/config"
	"github.com/Sumatoshi-tech/commitpulse/pkg/gitlog"
	"github.com/Sumatoshi-tech/commitpulse/pkg/publish"
	"github.com/Sumatoshi-tech/commitpulse/pkg/version"
)

// Deps are the collaborators of the commands. Tests replace them.
type Deps struct {
	Stdin          io.Reader
	Runner         gitlog.Runner
	Opener         publish.Opener
	HTTPClient     *http.Client
	TracerProvider trace.TracerProvider
	LoadConfig     func(path string) (*config.Config, error)
	Getenv         func(key string) string
	Now            func() time.Time
}

// DefaultDeps wires the real git binary, browser and network.
func DefaultDeps() Deps {
	return Deps{
		Stdin:      os.Stdin,
		Runner:     gitlog.ExecRunner{},
		Opener:     publish.SystemOpener{},
		HTTPClient: http.DefaultClient,
		LoadConfig: config.LoadConfig,
		Getenv:     os.Getenv,
		Now:        time.Now,
	}
}

// NewRootCommand builds the commitpulse command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	root := newPulseCommand(deps)
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "commitpulse %s\n", version.String())

			return err
		},
	}
}
