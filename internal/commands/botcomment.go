package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"reltool/internal/exitcode"
	"reltool/internal/output"
)

func init() {
	Register(&BotCommentCmd{})
}

// BotCommentCmd implements the botcomment command.
type BotCommentCmd struct{}

func (c *BotCommentCmd) Name() string       { return "botcomment" }
func (c *BotCommentCmd) Aliases() []string  { return nil }
func (c *BotCommentCmd) Synopsis() string   { return "Task ids from a ClickUp bot comment" }
func (c *BotCommentCmd) Usage() string      { return "reltool botcomment <comment>" }
func (c *BotCommentCmd) NeedsTracker() bool { return false }

func (c *BotCommentCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BotCommentCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c, "missing comment")
	}
	// An unquoted comment arrives split into words.
	comment := strings.Join(args, " ")
	output.FormatIDLines(out, refParser(env.Config).FromBotComment(comment))
	return exitcode.Success
}
