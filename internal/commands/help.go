package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"reltool/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "reltool help" }
func (c *HelpCmd) NeedsTracker() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  reltool notes [common flags] [--branch <branch>] [--post]
                                 Release notes between the two latest release commits
  reltool prnotes [common flags] [--post]
                                 Release notes from pull request descriptions
  reltool release [common flags] [-m <message>] [-d] [-p] [-v] <variant> <part>
                                 Cut a release (variant: all, google, beta, alpha;
                                 part: major, minor, patch)
  reltool taskid <ref...>        Normalize task references to ids
  reltool botcomment <comment>   Task ids from a ClickUp bot comment
  reltool status [common flags] <status> <id...>
                                 Set the ClickUp status of tasks
  reltool links [common flags] <id...>
                                 Markdown links to tasks
  reltool config [common flags] [--init]
                                 Print settings or write a default config.yaml
  reltool login [common flags]
  reltool logout [common flags]
  reltool help
  reltool version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
