// Package shell runs external programs (git, gh) on behalf of reltool.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"reltool/internal/logging"
)

// ErrCommandFailed is wrapped by errors from commands that exit non-zero.
var ErrCommandFailed = errors.New("command failed")

// ErrUnexpectedOutput is wrapped by errors from parsing a command's output.
var ErrUnexpectedOutput = errors.New("unexpected command output")

// Runner runs a program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExitError describes a command that exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: exit code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
}

func (e *ExitError) Unwrap() error { return ErrCommandFailed }

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	line := Format(name, args)
	logging.FromContext(ctx).Debug("exec", zap.String("cmd", line))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &ExitError{
				Command:  line,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("%w: %s: %v", ErrCommandFailed, line, err)
	}
	return stdout.String(), nil
}

// Format renders a command line for display.
// Arguments containing whitespace or quotes are double-quoted.
func Format(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\n\"'") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
