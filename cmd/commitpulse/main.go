// Package main provides the entry point for the commitpulse CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sumatoshi-tech/commitpulse/cmd/commitpulse/commands"
	"github.com/Sumatoshi-tech/commitpulse/internal/config"
	"github.com/Sumatoshi-tech/commitpulse/pkg/terminal"
	"github.com/Sumatoshi-tech/commitpulse/pkg/version"
)

const dotEnvFile = ".env"

func main() {
	version.InitBinaryVersion()

	err := config.LoadDotEnv(dotEnvFile)
	if err != nil {
		terminal.NewPrinter(os.Stderr, false).Errorf("Error: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = commands.NewRootCommand(commands.DefaultDeps()).ExecuteContext(ctx)

	stop()

	if err != nil {
		terminal.NewPrinter(os.Stderr, false).Errorf("Error: %v", err)
		os.Exit(1)
	}
}
