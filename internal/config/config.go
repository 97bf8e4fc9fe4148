// Package config handles the reltool configuration directory, the optional
// config.yaml settings file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "reltool"

	// SettingsFile is the settings filename inside the config directory.
	SettingsFile = "config.yaml"

	// OAuthClientFile holds the ClickUp OAuth app credentials.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored ClickUp OAuth token filename.
	TokenFile = "token.json"
)

// Environment variables read by reltool.
const (
	EnvClickUpToken  = "CLICKUP_TOKEN"
	EnvSlackWebhook  = "SLACK_WEBHOOK_URL"
	EnvRepositoryURL = "RELTOOL_REPOSITORY_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are loaded from config.yaml and the environment.
	Settings Settings
}

// Settings is the content of config.yaml.
type Settings struct {
	Remote          string   `yaml:"remote"`
	Branches        Branches `yaml:"branches"`
	VersionBranches []string `yaml:"version_branches"`
	ReleaseMarker   string   `yaml:"release_marker"`

	// RepositoryURL is used to link commits in release notes.
	RepositoryURL string `yaml:"repository_url"`

	ClickUp ClickUpSettings `yaml:"clickup"`
	Slack   SlackSettings   `yaml:"slack"`
	GitHub  GitHubSettings  `yaml:"github"`
}

// Branches names the long-lived branches of the app repository.
type Branches struct {
	Main string `yaml:"main"`
	Beta string `yaml:"beta"`
	Dev  string `yaml:"dev"`
}

// ClickUpSettings configures the task tracker.
type ClickUpSettings struct {
	APIURL      string   `yaml:"api_url"`
	AppURL      string   `yaml:"app_url"`
	TaskPrefix  string   `yaml:"task_prefix"`
	Concurrency int      `yaml:"concurrency"`
	Timeout     Duration `yaml:"timeout"`

	// Token is never read from the file; it comes from CLICKUP_TOKEN.
	Token string `yaml:"-"`
}

// SlackSettings configures release-note posting.
type SlackSettings struct {
	WebhookURL  string `yaml:"webhook_url"`
	Emoji       string `yaml:"emoji"`
	HeaderEmoji string `yaml:"header_emoji"`
}

// GitHubSettings configures the gh CLI queries.
type GitHubSettings struct {
	PRLimit int `yaml:"pr_limit"`
}

// Duration is a time.Duration written as "10s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Remote: "origin",
		Branches: Branches{
			Main: "main",
			Beta: "release-beta",
			Dev:  "dev",
		},
		VersionBranches: []string{"main"},
		ReleaseMarker:   "build_",
		ClickUp: ClickUpSettings{
			APIURL:      "https://api.clickup.com/api/v2",
			AppURL:      "https://app.clickup.com/t/",
			TaskPrefix:  "CU-",
			Concurrency: 4,
			Timeout:     Duration(10 * time.Second),
		},
		Slack: SlackSettings{
			Emoji:       "android_robot",
			HeaderEmoji: "steam_locomotive",
		},
		GitHub: GitHubSettings{
			PRLimit: 200,
		},
	}
}

// New creates a Config for the default or specified config directory and
// loads its settings. If configDir is empty, uses XDG_CONFIG_HOME/reltool or
// $HOME/.config/reltool.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	settings, err := LoadSettings(filepath.Join(dir, SettingsFile))
	if err != nil {
		return nil, err
	}
	settings.applyEnv()
	return &Config{Dir: dir, Settings: settings}, nil
}

// LoadSettings reads a settings file over the defaults.
// A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes settings as YAML.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (s *Settings) validate() error {
	if s.ReleaseMarker == "" {
		return errors.New("release_marker must not be empty")
	}
	if len(s.VersionBranches) == 0 {
		return errors.New("version_branches must list at least one branch")
	}
	if s.ClickUp.Concurrency < 1 {
		return errors.New("clickup.concurrency must be at least 1")
	}
	return nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvClickUpToken); v != "" {
		s.ClickUp.Token = v
	}
	if v := os.Getenv(EnvSlackWebhook); v != "" {
		s.Slack.WebhookURL = v
	}
	if v := os.Getenv(EnvRepositoryURL); v != "" {
		s.RepositoryURL = v
	}
}

// CommitURL links a commit hash in the configured repository.
func (s Settings) CommitURL(hash string) string {
	if s.RepositoryURL == "" {
		return "https://github.com/"
	}
	return strings.TrimRight(s.RepositoryURL, "/") + "/commit/" + hash
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
