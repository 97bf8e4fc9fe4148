package commands

import (
	"errors"
	"fmt"
	"io"

	"reltool/internal/exitcode"
	"reltool/internal/git"
	"reltool/internal/release"
	"reltool/internal/service"
	"reltool/internal/shell"
	"reltool/internal/slack"
)

// fail prints err as a single "error: ..." line and returns its exit code.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", err)
	return codeFor(err)
}

// usageError reports wrong arguments together with the command usage.
func usageError(errOut io.Writer, c Command, msg string) int {
	fmt.Fprintf(errOut, "error: %s\nusage: %s\n", msg, c.Usage())
	return exitcode.UserError
}

func codeFor(err error) int {
	switch {
	case errors.Is(err, release.ErrSprintMessage),
		errors.Is(err, git.ErrTooFewReleases):
		return exitcode.UserError
	case errors.Is(err, service.ErrNoCredentials),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, slack.ErrNoWebhook):
		return exitcode.AuthError
	case errors.Is(err, shell.ErrCommandFailed),
		errors.Is(err, shell.ErrUnexpectedOutput):
		return exitcode.ToolError
	default:
		return exitcode.BackendError
	}
}
