package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"reltool/internal/config"
	"reltool/internal/exitcode"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd implements the config command.
type ConfigCmd struct {
	create bool
}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Print or create config.yaml" }
func (c *ConfigCmd) Usage() string      { return "reltool config [common flags] [--init]" }
func (c *ConfigCmd) NeedsTracker() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.create, "init", false, "")
}

// Run prints the effective settings as YAML. With --init it writes the
// defaults to config.yaml instead; an existing file is left alone.
func (c *ConfigCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	cfg := env.Config
	if !c.create {
		data, err := yaml.Marshal(cfg.Settings)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		out.Write(data)
		return exitcode.Success
	}

	path := cfg.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(errOut, "error: %s already exists\n", path)
		return exitcode.UserError
	}
	if err := config.DefaultSettings().Save(path); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return exitcode.Success
}
