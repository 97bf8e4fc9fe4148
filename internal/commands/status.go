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
	Register(&StatusCmd{})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return "Set the ClickUp status of tasks" }
func (c *StatusCmd) Usage() string      { return "reltool status [common flags] <status> <id...>" }
func (c *StatusCmd) NeedsTracker() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run updates every task and prints the ids that were updated. A failed
// update is logged and skipped; missing credentials abort the run.
func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		return usageError(errOut, c, "need a status and at least one task id")
	}
	status := args[0]
	log := logging.FromContext(ctx)

	var updated []string
	for _, id := range refParser(env.Config).ParseAll(args[1:]) {
		err := env.Tracker.UpdateTaskStatus(ctx, id, status)
		switch {
		case err == nil:
			updated = append(updated, id)
		case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrNoCredentials):
			return fail(errOut, err)
		default:
			log.Warn("status not updated", zap.String("task", id), zap.Error(err))
		}
	}

	output.FormatIDs(out, updated)
	return exitcode.Success
}
