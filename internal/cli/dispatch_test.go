package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reltool/internal/cli"
	"reltool/internal/commands"
	"reltool/internal/config"
	"reltool/internal/exitcode"
	"reltool/internal/service"
	"reltool/internal/testutil"
)

// testFactory creates a tracker factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.TrackerFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func failingFactory(err error) cli.TrackerFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, err
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), testutil.NewFakeRunner())

	_, stderr, code := run(t, d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), testutil.NewFakeRunner())

	_, stderr, code := run(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsPrintsHelp(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	stdout, stderr, code := run(t, d)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	stdout, stderr, code := run(t, d, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "reltool 0.1.0\n" {
		t.Errorf("expected 'reltool 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	_, stderr, code := run(t, d, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	_, stderr, code := run(t, d, "notes", "--branch")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -branch\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_CommandHelpFlag(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	stdout, _, code := run(t, d, "release", "-h")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "usage: reltool release") {
		t.Errorf("expected release usage, got %q", stdout)
	}
}

func TestDispatcher_InterspersedFlags(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	stdout, stderr, code := run(t, d, "taskid", "CU-a1", "--config", t.TempDir(), "b2", "--quiet", "--", "--literal")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "a1 b2 --literal\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_DoubleDashAsFlagValue(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	stdout, stderr, code := run(t, d, "taskid", "--config", "--", "CU-a", "--quiet", "CU-b")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "a b\n" {
		t.Errorf("expected --quiet to be parsed as a flag, got %q", stdout)
	}
}

func TestDispatcher_ReleaseFlagsAfterArgs(t *testing.T) {
	runner := testutil.NewFakeRunner().
		On("git log main --grep build_ -n 1 --format=%H%x1f%aI%x1f%B%x1e",
			testutil.LogRecord("l1", "2024-05-02T10:00:00Z", "build_beta_3.14.2\nSprint release"))
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, runner)

	stdout, stderr, code := run(t, d, "release", "google", "patch", "-m", "including: PhotoBooth", "-d", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stdout, `git commit --allow-empty -m "build_google_3.14.3\nincluding: PhotoBooth"`) {
		t.Errorf("expected dry-run commit line, got:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "3.14.3\n") {
		t.Errorf("expected new version last, got:\n%s", stdout)
	}
}

func TestDispatcher_TrackerCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a1", "Fix crash")
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), testutil.NewFakeRunner())

	stdout, stderr, code := run(t, d, "links", "--config", t.TempDir(), "CU-a1")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "[Fix crash](https://app.clickup.com/t/a1)\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_TrackerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{
			name: "no credentials",
			err:  fmt.Errorf("%w: set CLICKUP_TOKEN or run: reltool login", service.ErrNoCredentials),
			code: exitcode.AuthError,
			want: "error: auth error: no ClickUp credentials: set CLICKUP_TOKEN or run: reltool login\n",
		},
		{
			name: "other",
			err:  errors.New("proxy unreachable"),
			code: exitcode.BackendError,
			want: "error: backend error: proxy unreachable\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cli.NewDispatcher(commands.DefaultRegistry, failingFactory(tt.err), testutil.NewFakeRunner())

			_, stderr, code := run(t, d, "links", "--config", t.TempDir(), "a1")

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestDispatcher_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("remote: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, nil, testutil.NewFakeRunner())

	_, stderr, code := run(t, d, "taskid", "--config", dir, "a1")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: ") {
		t.Errorf("expected error line, got %q", stderr)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), testutil.NewFakeRunner())

	stdout, stderr, code := run(t, d, "links", "--debug", "--config", t.TempDir(), "zz9")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "skipping unknown task") {
		t.Errorf("expected warning on stderr, got %q", stderr)
	}
}
