// ABOUTME: Configuration loading and parsing for claude-web
// ABOUTME: Supports TOML or YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/claude-web/internal/session"
)

// TokenEnvVar supplies the session key when the file has none.
const TokenEnvVar = "CLAUDE_SESSION_KEY"

// PathEnvVar overrides the default config file location.
const PathEnvVar = "CLAUDE_WEB_CONFIG"

// Config represents the complete claude-web configuration
type Config struct {
	Session  SessionConfig  `toml:"session" yaml:"session"`
	Defaults DefaultsConfig `toml:"defaults" yaml:"defaults"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Output   OutputConfig   `toml:"output" yaml:"output"`
}

// SessionConfig holds the credentials and HTTP settings for claude.ai
type SessionConfig struct {
	Token     string            `toml:"token" yaml:"token"`
	UserAgent string            `toml:"user_agent" yaml:"user_agent"`
	BaseURL   string            `toml:"base_url" yaml:"base_url"`
	Headers   map[string]string `toml:"headers" yaml:"headers"`

	// Timeout bounds each request; zero means no timeout
	Timeout    time.Duration `toml:"-" yaml:"-"`
	TimeoutRaw string        `toml:"timeout" yaml:"timeout"`
}

// DefaultsConfig holds values applied when a command does not name them
type DefaultsConfig struct {
	Organization string `toml:"organization" yaml:"organization"`
	Model        string `toml:"model" yaml:"model"`
	Timezone     string `toml:"timezone" yaml:"timezone"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// File, when set, receives logs through a rotating writer
	File string `toml:"file" yaml:"file"`
}

// OutputConfig controls how replies are printed
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// Default returns a configuration with every optional field filled in.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			BaseURL: session.DefaultBaseURL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .yaml or .yml are YAML; everything else is TOML.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists. A missing file yields Default()
// with the environment applied, so the tool works with only
// CLAUDE_SESSION_KEY set.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if c.Session.Token == "" {
		c.Session.Token = os.Getenv(TokenEnvVar)
	}

	if err := parseDurations(c); err != nil {
		return fmt.Errorf("parsing durations: %w", err)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// DefaultPath returns CLAUDE_WEB_CONFIG when set, else
// $XDG_CONFIG_HOME/claude-web/config.toml, falling back to ~/.config.
func DefaultPath() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "claude-web", "config.toml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "claude-web", "config.toml")
}

// envVarPattern matches ${VAR_NAME} references in config files.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns a *session.ConfigError describing the first failure encountered.
func (c *Config) Validate() error {
	if c.Session.Token == "" {
		return &session.ConfigError{Field: "session.token", Reason: "is required (or set " + TokenEnvVar + ")"}
	}

	if c.Session.BaseURL != "" {
		u, err := url.Parse(c.Session.BaseURL)
		if err != nil {
			return &session.ConfigError{Field: "session.base_url", Reason: "is not a valid URL"}
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return &session.ConfigError{Field: "session.base_url", Reason: "must use http or https scheme"}
		}
	}

	if c.Session.Timeout < 0 {
		return &session.ConfigError{Field: "session.timeout", Reason: "must not be negative"}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &session.ConfigError{Field: "logging.level", Reason: fmt.Sprintf("has unknown level %q", c.Logging.Level)}
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return &session.ConfigError{Field: "logging.format", Reason: fmt.Sprintf("has unknown format %q", c.Logging.Format)}
	}

	switch c.Output.Format {
	case "", "text", "markdown", "html":
	default:
		return &session.ConfigError{Field: "output.format", Reason: fmt.Sprintf("has unknown format %q", c.Output.Format)}
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Session.TimeoutRaw == "" {
		return nil
	}

	d, err := time.ParseDuration(cfg.Session.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing timeout %q: %w", cfg.Session.TimeoutRaw, err)
	}
	cfg.Session.Timeout = d
	return nil
}
