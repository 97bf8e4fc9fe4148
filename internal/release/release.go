// Package release performs the branch and version steps of cutting a build.
//
// A release is an empty commit whose first message line is the build marker
// (build_<variant>_<version>) on the branch CI watches for that variant:
//
//	all, google  main
//	beta         release-beta
//	alpha        a new release-alpha_<version> branch
//
// Pushing the commit starts the CI build.
package release

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"reltool/internal/config"
	"reltool/internal/git"
	"reltool/internal/logging"
	"reltool/internal/version"
)

// Variant is a release channel.
type Variant string

const (
	All    Variant = "all"
	Google Variant = "google"
	Beta   Variant = "beta"
	Alpha  Variant = "alpha"
)

// Variants lists the valid variants in help order.
var Variants = []Variant{All, Google, Beta, Alpha}

// DefaultMessage is the commit body used when no message is given.
const DefaultMessage = "Sprint release"

// ErrSprintMessage is returned when a production variant keeps the default message.
var ErrSprintMessage = errors.New("for variant all and google please define a message other than " + DefaultMessage)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid variant: %s (want all, google, beta or alpha)", s)
}

// Options describes one release.
type Options struct {
	Variant Variant
	Part    version.Part
	Message string
	Push    bool
}

// Validate checks the variant/message combination.
func (o Options) Validate() error {
	if (o.Variant == All || o.Variant == Google) && o.Message == DefaultMessage {
		return ErrSprintMessage
	}
	return nil
}

// Releaser cuts releases in a repository.
type Releaser struct {
	repo     *git.Repo
	settings config.Settings
}

// New creates a Releaser.
func New(repo *git.Repo, settings config.Settings) *Releaser {
	return &Releaser{repo: repo, settings: settings}
}

// Run performs the release and returns the version that was committed.
func (r *Releaser) Run(ctx context.Context, opts Options) (version.Version, error) {
	if err := opts.Validate(); err != nil {
		return version.Version{}, err
	}
	if opts.Variant == Alpha {
		return r.runAlpha(ctx, opts)
	}
	return r.runChannel(ctx, opts)
}

func (r *Releaser) runAlpha(ctx context.Context, opts Options) (version.Version, error) {
	log := logging.FromContext(ctx)

	highest, _, err := r.repo.HighestVersion(ctx, r.settings.VersionBranches, r.settings.ReleaseMarker)
	if err != nil {
		return version.Version{}, fmt.Errorf("read current version: %w", err)
	}
	tags, err := r.repo.Tags(ctx)
	if err != nil {
		return version.Version{}, fmt.Errorf("list tags: %w", err)
	}
	alpha := version.AlphaPatch(highest, tags)
	log.Debug("alpha version", zap.Stringer("base", highest), zap.Stringer("alpha", alpha))

	if err := r.repo.CreateBranch(ctx, "release-alpha_"+alpha.String()); err != nil {
		return version.Version{}, err
	}
	if err := r.commitAndPush(ctx, opts, alpha); err != nil {
		return version.Version{}, err
	}
	return alpha, nil
}

func (r *Releaser) runChannel(ctx context.Context, opts Options) (version.Version, error) {
	log := logging.FromContext(ctx)
	s := r.settings
	b := s.Branches

	if err := r.repo.Fetch(ctx, s.Remote, b.Main+":"+b.Main); err != nil {
		return version.Version{}, err
	}
	if err := r.repo.Pull(ctx, s.Remote, b.Dev); err != nil {
		return version.Version{}, err
	}
	if err := r.repo.Fetch(ctx, s.Remote, b.Beta+":"+b.Beta); err != nil {
		return version.Version{}, err
	}

	highest, _, err := r.repo.HighestVersion(ctx, s.VersionBranches, s.ReleaseMarker)
	if err != nil {
		return version.Version{}, fmt.Errorf("read current version: %w", err)
	}
	next := highest.Bump(opts.Part)
	log.Debug("next version", zap.Stringer("current", highest), zap.Stringer("next", next))

	if err := r.repo.Stash(ctx); err != nil {
		return version.Version{}, err
	}
	switch opts.Variant {
	case All, Google:
		err = r.repo.Checkout(ctx, b.Main)
	case Beta:
		err = r.repo.Checkout(ctx, b.Beta)
	}
	if err != nil {
		return version.Version{}, err
	}
	if err := r.repo.Pull(ctx, s.Remote, b.Dev, "--no-rebase", "--no-edit"); err != nil {
		return version.Version{}, err
	}
	if err := r.commitAndPush(ctx, opts, next); err != nil {
		return version.Version{}, err
	}
	return next, nil
}

func (r *Releaser) commitAndPush(ctx context.Context, opts Options, v version.Version) error {
	msg := version.Marker(r.settings.ReleaseMarker, string(opts.Variant), v) + "\n" + opts.Message
	if err := r.repo.CommitEmpty(ctx, msg); err != nil {
		return err
	}
	if opts.Push {
		return r.repo.Push(ctx)
	}
	return nil
}
