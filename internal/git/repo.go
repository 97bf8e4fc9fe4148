// Package git wraps the git commands used by the release helpers.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"reltool/internal/shell"
	"reltool/internal/version"
)

const (
	// fieldSep and recordSep delimit fields and commits in log output.
	fieldSep  = "\x1f"
	recordSep = "\x1e"

	logFormat = "--format=%H%x1f%aI%x1f%B%x1e"
)

// ErrTooFewReleases is returned when a branch has fewer release commits
// than requested.
var ErrTooFewReleases = errors.New("not enough release commits")

// Commit is one entry of git log output.
type Commit struct {
	Hash    string
	Date    time.Time
	Message string
}

// ShortHash returns the first seven characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Repo runs git against the working directory of its Runner.
type Repo struct {
	runner shell.Runner
	dryRun io.Writer
	echo   io.Writer
}

// Option configures a Repo.
type Option func(*Repo)

// WithDryRun prints mutating commands to w instead of running them.
func WithDryRun(w io.Writer) Option {
	return func(r *Repo) { r.dryRun = w }
}

// WithEcho prints every command and its output to w.
func WithEcho(w io.Writer) Option {
	return func(r *Repo) { r.echo = w }
}

// New creates a Repo.
func New(runner shell.Runner, opts ...Option) *Repo {
	r := &Repo{runner: runner}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// query runs a read-only git command. Dry run does not apply.
func (r *Repo) query(ctx context.Context, args ...string) (string, error) {
	if r.echo != nil {
		fmt.Fprintln(r.echo, shell.Format("git", args))
	}
	out, err := r.runner.Run(ctx, "git", args...)
	if r.echo != nil && out != "" {
		fmt.Fprintln(r.echo, strings.TrimRight(out, "\n"))
	}
	return out, err
}

// mutate runs a git command that changes repository state.
func (r *Repo) mutate(ctx context.Context, args ...string) error {
	if r.dryRun != nil {
		fmt.Fprintln(r.dryRun, shell.Format("git", args))
		return nil
	}
	_, err := r.query(ctx, args...)
	return err
}

// ReleaseCommits returns the n most recent commits on branch whose message
// contains marker, newest first. It fails if fewer than n exist.
func (r *Repo) ReleaseCommits(ctx context.Context, branch, marker string, n int) ([]Commit, error) {
	out, err := r.query(ctx, "log", branch, "--grep", marker, "-n", strconv.Itoa(n), logFormat)
	if err != nil {
		return nil, err
	}
	commits, err := parseLog(out)
	if err != nil {
		return nil, err
	}
	if len(commits) < n {
		return nil, fmt.Errorf("%w: found %d on %s, need %d", ErrTooFewReleases, len(commits), branch, n)
	}
	return commits, nil
}

// Log returns the commits reachable from to but not from from, newest first.
func (r *Repo) Log(ctx context.Context, from, to string) ([]Commit, error) {
	out, err := r.query(ctx, "log", from+".."+to, logFormat)
	if err != nil {
		return nil, err
	}
	return parseLog(out)
}

// Tags returns all tag names.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	out, err := r.query(ctx, "tag")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// HighestVersion reads the latest release marker on each branch and returns
// the highest version with the variant it was released under.
func (r *Repo) HighestVersion(ctx context.Context, branches []string, marker string) (version.Version, string, error) {
	if len(branches) == 0 {
		return version.Version{}, "", fmt.Errorf("no version branches configured")
	}

	var (
		best        version.Version
		bestVariant string
	)
	for i, branch := range branches {
		commits, err := r.ReleaseCommits(ctx, branch, marker, 1)
		if err != nil {
			return version.Version{}, "", err
		}
		variant, v, err := version.ParseMarker(commits[0].Message, marker)
		if err != nil {
			return version.Version{}, "", fmt.Errorf("%w: %s %s: %v", shell.ErrUnexpectedOutput, branch, commits[0].ShortHash(), err)
		}
		if i == 0 || version.Compare(v, best) > 0 {
			best, bestVariant = v, variant
		}
	}
	return best, bestVariant, nil
}

// Fetch runs git fetch <remote> <refspec>.
func (r *Repo) Fetch(ctx context.Context, remote, refspec string) error {
	return r.mutate(ctx, "fetch", remote, refspec)
}

// Pull runs git pull <remote> <branch> followed by extra flags.
func (r *Repo) Pull(ctx context.Context, remote, branch string, extra ...string) error {
	args := append([]string{"pull", remote, branch}, extra...)
	return r.mutate(ctx, args...)
}

// Stash stashes local changes.
func (r *Repo) Stash(ctx context.Context) error {
	return r.mutate(ctx, "stash")
}

// Checkout switches to an existing branch.
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	return r.mutate(ctx, "checkout", branch)
}

// CreateBranch creates and switches to a new branch.
func (r *Repo) CreateBranch(ctx context.Context, name string) error {
	return r.mutate(ctx, "checkout", "-b", name)
}

// CommitEmpty records an empty commit with the given message.
func (r *Repo) CommitEmpty(ctx context.Context, message string) error {
	return r.mutate(ctx, "commit", "--allow-empty", "-m", message)
}

// Push pushes the current branch to its upstream.
func (r *Repo) Push(ctx context.Context) error {
	return r.mutate(ctx, "push")
}

// parseLog splits output produced with logFormat.
func parseLog(out string) ([]Commit, error) {
	var commits []Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		fields := strings.SplitN(rec, fieldSep, 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: git log record %q", shell.ErrUnexpectedOutput, rec)
		}
		date, err := time.Parse(time.RFC3339, fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: commit date %q: %v", shell.ErrUnexpectedOutput, fields[1], err)
		}
		commits = append(commits, Commit{
			Hash:    fields[0],
			Date:    date,
			Message: strings.TrimRight(fields[2], "\n"),
		})
	}
	return commits, nil
}
