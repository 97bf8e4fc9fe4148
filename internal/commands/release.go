package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"reltool/internal/exitcode"
	"reltool/internal/git"
	"reltool/internal/release"
	"reltool/internal/version"
)

func init() {
	Register(&ReleaseCmd{})
}

// ReleaseCmd implements the release command.
type ReleaseCmd struct {
	message string
	dryRun  bool
	push    bool
	verbose bool
}

func (c *ReleaseCmd) Name() string      { return "release" }
func (c *ReleaseCmd) Aliases() []string { return nil }
func (c *ReleaseCmd) Synopsis() string  { return "Cut a release" }
func (c *ReleaseCmd) Usage() string {
	return "reltool release [common flags] [-m <message>] [-d] [-p] [-v] <all|google|beta|alpha> <major|minor|patch>"
}
func (c *ReleaseCmd) NeedsTracker() bool { return false }

func (c *ReleaseCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.message, "m", release.DefaultMessage, "")
	fs.StringVar(&c.message, "message", release.DefaultMessage, "")
	fs.BoolVar(&c.dryRun, "d", false, "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
	fs.BoolVar(&c.push, "p", false, "")
	fs.BoolVar(&c.push, "push", false, "")
	fs.BoolVar(&c.verbose, "v", false, "")
	fs.BoolVar(&c.verbose, "verbose", false, "")
}

// Run commits the release marker and prints the new version.
// With --dry-run the mutating git commands are printed instead.
func (c *ReleaseCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		return usageError(errOut, c, "need a variant and a version part")
	}
	variant, err := release.ParseVariant(args[0])
	if err != nil {
		return usageError(errOut, c, err.Error())
	}
	part, err := version.ParsePart(args[1])
	if err != nil {
		return usageError(errOut, c, err.Error())
	}

	var opts []git.Option
	if c.dryRun {
		opts = append(opts, git.WithDryRun(out))
	}
	if c.verbose {
		opts = append(opts, git.WithEcho(errOut))
	}
	releaser := release.New(git.New(env.Runner, opts...), env.Config.Settings)

	v, err := releaser.Run(ctx, release.Options{
		Variant: variant,
		Part:    part,
		Message: c.message,
		Push:    c.push,
	})
	if err != nil {
		return fail(errOut, err)
	}
	if !env.Config.Quiet {
		fmt.Fprintln(out, v)
	}
	return exitcode.Success
}
