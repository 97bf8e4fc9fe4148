package commands

import (
	"context"
	"errors"
	"flag"
	"io"

	"go.uber.org/zap"

	"reltool/internal/exitcode"
	"reltool/internal/logging"
	"reltool/internal/output"
	"reltool/internal/service"
)

func init() {
	Register(&LinksCmd{})
}

// LinksCmd implements the links command.
type LinksCmd struct{}

func (c *LinksCmd) Name() string       { return "links" }
func (c *LinksCmd) Aliases() []string  { return nil }
func (c *LinksCmd) Synopsis() string   { return "Markdown links to tasks" }
func (c *LinksCmd) Usage() string      { return "reltool links [common flags] <id...>" }
func (c *LinksCmd) NeedsTracker() bool { return true }

func (c *LinksCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LinksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c, "missing task id")
	}
	log := logging.FromContext(ctx)

	var tasks []service.Task
	for _, id := range refParser(env.Config).ParseAll(args) {
		task, err := env.Tracker.GetTask(ctx, id)
		if errors.Is(err, service.ErrNotFound) {
			log.Warn("skipping unknown task", zap.String("task", id))
			continue
		}
		if err != nil {
			return fail(errOut, err)
		}
		tasks = append(tasks, task)
	}

	for _, task := range tasks {
		output.FormatTaskLink(out, task)
	}
	return exitcode.Success
}
