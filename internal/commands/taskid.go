package commands

import (
	"context"
	"flag"
	"io"

	"reltool/internal/config"
	"reltool/internal/exitcode"
	"reltool/internal/output"
	"reltool/internal/taskref"
)

func init() {
	Register(&TaskIDCmd{})
}

// TaskIDCmd implements the taskid command.
type TaskIDCmd struct{}

func (c *TaskIDCmd) Name() string       { return "taskid" }
func (c *TaskIDCmd) Aliases() []string  { return []string{"id"} }
func (c *TaskIDCmd) Synopsis() string   { return "Normalize task references to ids" }
func (c *TaskIDCmd) Usage() string      { return "reltool taskid <ref...>" }
func (c *TaskIDCmd) NeedsTracker() bool { return false }

func (c *TaskIDCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TaskIDCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c, "missing task reference")
	}
	output.FormatIDs(out, refParser(env.Config).ParseAll(args))
	return exitcode.Success
}

// refParser builds the task reference parser for the configured workspace.
func refParser(cfg *config.Config) taskref.Parser {
	return taskref.Parser{
		Prefix: cfg.Settings.ClickUp.TaskPrefix,
		AppURL: cfg.Settings.ClickUp.AppURL,
	}
}
