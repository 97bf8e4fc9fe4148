// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"reltool/internal/commands"
	"reltool/internal/config"
	"reltool/internal/exitcode"
	"reltool/internal/logging"
	"reltool/internal/service"
	"reltool/internal/shell"
)

// TrackerFactory creates the task tracker from config.
// Used to inject the backend during dispatch.
type TrackerFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  TrackerFactory
	runner   shell.Runner
}

// NewDispatcher creates a new dispatcher with the given registry, tracker
// factory and runner for git and gh. A nil runner runs commands in the
// current directory.
func NewDispatcher(registry *commands.Registry, factory TrackerFactory, runner shell.Runner) *Dispatcher {
	if runner == nil {
		runner = shell.ExecRunner{}
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		runner:   runner,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> help
	if len(args) == 0 {
		args = []string{"help"}
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	positionalArgs, err := parseInterspersed(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(out, "usage: %s\n", cmd.Usage())
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := logging.New(debug, errOut)
	defer logger.Sync() //nolint:errcheck
	ctx = logging.WithLogger(ctx, logger)

	env := &commands.Env{Config: cfg, Runner: d.runner}
	if cmd.NeedsTracker() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no task tracker configured")
			return exitcode.AuthError
		}
		env.Tracker, err = d.factory(ctx, cfg)
		if err != nil {
			if errors.Is(err, service.ErrNoCredentials) || errors.Is(err, service.ErrUnauthorized) {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// parseInterspersed parses flags that may appear before, between or after
// positional arguments. A bare "--" that is not a flag value ends flag
// parsing.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for len(args) > 0 {
		arg := args[0]
		if arg == "--" {
			return append(positional, args[1:]...), nil
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			args = args[1:]
			continue
		}
		n := flagTokens(fs, arg)
		if n > len(args) {
			n = len(args)
		}
		if err := fs.Parse(args[:n]); err != nil {
			return nil, err
		}
		args = args[n:]
	}
	return positional, nil
}

// flagTokens reports how many arguments the flag starting at arg consumes.
func flagTokens(fs *flag.FlagSet, arg string) int {
	name := strings.TrimLeft(arg, "-")
	if strings.Contains(name, "=") {
		return 1
	}
	f := fs.Lookup(name)
	if f == nil {
		return 1
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return 1
	}
	return 2
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return errStr
}
