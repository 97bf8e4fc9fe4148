package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"reltool/internal/exitcode"
	"reltool/internal/git"
	"reltool/internal/github"
	"reltool/internal/logging"
	"reltool/internal/releasenote"
	"reltool/internal/slack"
)

func init() {
	Register(&PRNotesCmd{})
}

// PRNotesCmd implements the prnotes command.
type PRNotesCmd struct {
	post bool
}

func (c *PRNotesCmd) Name() string      { return "prnotes" }
func (c *PRNotesCmd) Aliases() []string { return nil }
func (c *PRNotesCmd) Synopsis() string {
	return "Release notes from pull request descriptions"
}
func (c *PRNotesCmd) Usage() string      { return "reltool prnotes [common flags] [--post]" }
func (c *PRNotesCmd) NeedsTracker() bool { return false }

func (c *PRNotesCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.post, "post", false, "")
}

// Run collects the release-notes entries of pull requests merged into dev
// during the latest release cycle. Nothing is printed when there are none.
func (c *PRNotesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c, fmt.Sprintf("unexpected argument: %s", args[0]))
	}
	settings := env.Config.Settings
	log := logging.FromContext(ctx)
	repo := git.New(env.Runner)

	var dates []time.Time
	for _, branch := range []string{settings.Branches.Main, settings.Branches.Beta} {
		commits, err := repo.ReleaseCommits(ctx, branch, settings.ReleaseMarker, 2)
		if err != nil {
			return fail(errOut, err)
		}
		for _, commit := range commits {
			dates = append(dates, commit.Date)
		}
	}
	start, end, err := releasenote.ReleaseWindow(dates)
	if err != nil {
		return fail(errOut, err)
	}

	prs, err := github.New(env.Runner, settings.GitHub.PRLimit).MergedBetween(ctx, start, end)
	if err != nil {
		return fail(errOut, err)
	}
	refs := refParser(env.Config)
	var entries []string
	for _, pr := range github.RootedAt(prs, settings.Branches.Dev) {
		entry, ok := releasenote.EntryFromDescription(pr.Body, pr.HeadRefName, refs)
		if !ok {
			log.Debug("no release notes entry", zap.Int("pr", pr.Number))
			continue
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return exitcode.Success
	}

	current, variant, err := repo.HighestVersion(ctx, settings.VersionBranches, settings.ReleaseMarker)
	if err != nil {
		return fail(errOut, err)
	}
	notes := releasenote.PRNotes(current.String(), variant, settings.Slack.HeaderEmoji, entries)
	fmt.Fprint(out, notes)

	if c.post {
		hook := slack.Webhook{URL: settings.Slack.WebhookURL}
		if err := hook.Post(ctx, slack.Message{Text: notes}); err != nil {
			return fail(errOut, err)
		}
		if !env.Config.Quiet {
			fmt.Fprintln(errOut, "posted to Slack")
		}
	}
	return exitcode.Success
}
