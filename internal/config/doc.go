// Package config handles configuration loading for claude-web.
//
// # Overview
//
// Configuration is loaded from TOML or YAML files with environment variable
// expansion. Files ending in .yaml or .yml are parsed as YAML, anything else
// as TOML. The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CLAUDE_WEB_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/claude-web/config.toml
//  3. ~/.config/claude-web/config.toml
//
// A missing file is not an error for LoadOrDefault; the session key can come
// from CLAUDE_SESSION_KEY alone.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	[session]
//	token = "${CLAUDE_SESSION_KEY}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	[session]
//	timeout = "90s"
//
// # Configuration Sections
//
// Session settings:
//
//	[session]
//	token = "sk-ant-sid01-..."
//	user_agent = "Mozilla/5.0 ..."
//	base_url = "https://claude.ai"
//	timeout = "2m"
//
//	[session.headers]
//	X-Extra = "value"
//
// Defaults applied when a command omits them:
//
//	[defaults]
//	organization = "..."
//	model = "claude-2.1"
//	timezone = "America/Los_Angeles"
//
// Logging and output:
//
//	[logging]
//	level = "info"     # debug, info, warn, error
//	format = "text"    # text, json
//	file = ""          # optional rotating log file
//
//	[output]
//	format = "text"    # text, markdown, html
//
// # Validation
//
// Validate returns a *session.ConfigError naming the first invalid field, so
// errors.Is(err, session.ErrConfiguration) holds for every validation failure.
package config
