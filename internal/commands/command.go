// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"reltool/internal/config"
	"reltool/internal/service"
	"reltool/internal/shell"
)

// Env is what a command runs against.
type Env struct {
	// Config is always provided (config dir, settings, paths).
	Config *config.Config

	// Tracker is nil unless the command's NeedsTracker returns true.
	Tracker service.Service

	// Runner executes git and gh.
	Runner shell.Runner
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsTracker returns true if the command talks to ClickUp.
	// Commands like help, version, login, logout return false.
	NeedsTracker() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
