// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation).
	UserError = 1

	// AuthError indicates an auth/config error (no ClickUp credentials, 401,
	// unreadable config.yaml, missing webhook).
	AuthError = 2

	// BackendError indicates a ClickUp or Slack API/network error.
	BackendError = 3

	// ToolError indicates that git or gh failed or printed something unexpected.
	ToolError = 4
)
