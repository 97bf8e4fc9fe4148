package testutil

import (
	"context"
	"fmt"
	"sync"

	"reltool/internal/shell"
)

// FakeRunner is a scripted shell.Runner.
// Responses are keyed by the formatted command line (see shell.Format).
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse

	// Calls records every command line run, in order.
	Calls []string
}

type fakeResponse struct {
	out string
	err error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]fakeResponse)}
}

// On scripts the output for a command line such as "git tag".
func (f *FakeRunner) On(cmdline, out string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{out: out}
	return f
}

// Fail scripts an error for a command line.
func (f *FakeRunner) Fail(cmdline string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{err: err}
	return f
}

// Run implements shell.Runner. Unscripted commands succeed with no output
// so that mutating commands need no setup; they are still recorded.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := shell.Format(name, args)
	f.Calls = append(f.Calls, line)

	resp, ok := f.responses[line]
	if !ok {
		return "", nil
	}
	return resp.out, resp.err
}

// Called reports whether a command line was run.
func (f *FakeRunner) Called(cmdline string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == cmdline {
			return true
		}
	}
	return false
}

// LogRecord formats one commit the way git log emits it with the
// record/field separators used by the git package.
func LogRecord(hash, isoDate, message string) string {
	return fmt.Sprintf("%s\x1f%s\x1f%s\n\x1e\n", hash, isoDate, message)
}
