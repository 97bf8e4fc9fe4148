package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"reltool/internal/exitcode"
	"reltool/internal/git"
	"reltool/internal/logging"
	"reltool/internal/releasenote"
	"reltool/internal/slack"
)

func init() {
	Register(&NotesCmd{})
}

// NotesCmd implements the notes command.
type NotesCmd struct {
	branch string
	post   bool
}

func (c *NotesCmd) Name() string      { return "notes" }
func (c *NotesCmd) Aliases() []string { return nil }
func (c *NotesCmd) Synopsis() string {
	return "Release notes between the two latest release commits"
}
func (c *NotesCmd) Usage() string {
	return "reltool notes [common flags] [--branch <branch>] [--post]"
}
func (c *NotesCmd) NeedsTracker() bool { return true }

func (c *NotesCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.branch, "branch", "", "")
	fs.BoolVar(&c.post, "post", false, "")
}

// Run prints the Slack message for the latest release and optionally posts it.
func (c *NotesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c, fmt.Sprintf("unexpected argument: %s", args[0]))
	}
	settings := env.Config.Settings
	branch := c.branch
	if branch == "" {
		branch = settings.Branches.Main
	}
	log := logging.FromContext(ctx)
	repo := git.New(env.Runner)

	releases, err := repo.ReleaseCommits(ctx, branch, settings.ReleaseMarker, 2)
	if err != nil {
		return fail(errOut, err)
	}
	latest, previous := releases[0], releases[1]
	log.Debug("release window",
		zap.String("from", previous.ShortHash()),
		zap.String("to", latest.ShortHash()))

	commits, err := repo.Log(ctx, previous.Hash, latest.Hash)
	if err != nil {
		return fail(errOut, err)
	}
	current, _, err := repo.HighestVersion(ctx, settings.VersionBranches, settings.ReleaseMarker)
	if err != nil {
		return fail(errOut, err)
	}

	builder := releasenote.Builder{
		Tracker:     env.Tracker,
		Concurrency: settings.ClickUp.Concurrency,
		CommitURL:   settings.CommitURL,
	}
	rel, err := builder.Build(ctx, current.String(), releasenote.ParseCommits(commits))
	if err != nil {
		return fail(errOut, err)
	}
	msg := rel.SlackMessage(settings.Slack.Emoji)

	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, string(data))

	if c.post {
		hook := slack.Webhook{URL: settings.Slack.WebhookURL}
		if err := hook.Post(ctx, msg); err != nil {
			return fail(errOut, err)
		}
		if !env.Config.Quiet {
			fmt.Fprintln(errOut, "posted to Slack")
		}
	}
	return exitcode.Success
}
