// ABOUTME: Root cobra command and shared application state
// ABOUTME: Loads config, sets up logging, and builds the context wrapper

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/2389/claude-web/internal/chat"
	"github.com/2389/claude-web/internal/claude"
	"github.com/2389/claude-web/internal/config"
	"github.com/2389/claude-web/internal/logging"
	"github.com/2389/claude-web/internal/render"
	"github.com/2389/claude-web/internal/session"
)

// app holds everything a command needs once the root pre-run has finished.
type app struct {
	// Global flags
	configPath string
	logLevel   string
	orgID      string
	format     string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	chat     *chat.Wrapper
	renderer *render.Renderer
	output   render.Format

	in  io.Reader
	out io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "claude-web",
		Short: "Chat with Claude through a claude.ai browser session",
		Long: `claude-web drives the claude.ai web app API with the sessionKey cookie
of a logged in browser. Set CLAUDE_SESSION_KEY or session.token in the
config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath(), "config file (TOML or YAML)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.orgID, "org", "", "organization UUID (default: first organization)")
	flags.StringVar(&a.format, "format", "", "reply format: text, markdown, html")

	root.AddCommand(
		newOrgsCmd(a),
		newConvsCmd(a),
		newSendCmd(a),
		newChatCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	logger, closeLog, err := logging.Setup(logging.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logger
	a.closeLog = closeLog

	format := cfg.Output.Format
	if a.format != "" {
		format = a.format
	}
	if a.output, err = render.ParseFormat(format); err != nil {
		return err
	}
	a.renderer = render.New()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	org := cfg.Defaults.Organization
	if a.orgID != "" {
		org = a.orgID
	}
	a.chat = chat.New(client, chat.WithOrganization(org), chat.WithLogger(logger))
	return nil
}

// newClient builds the resource client described by cfg.
func newClient(cfg *config.Config, logger *slog.Logger) (*claude.Client, error) {
	headers := session.DefaultHeaders()
	for k, v := range cfg.Session.Headers {
		headers.Set(k, v)
	}

	transport, err := session.New(cfg.Session.Token,
		session.WithBaseURL(cfg.Session.BaseURL),
		session.WithUserAgent(cfg.Session.UserAgent),
		session.WithHeaders(headers),
		session.WithHTTPClient(&http.Client{Timeout: cfg.Session.Timeout}),
		session.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return claude.NewClient(transport,
		claude.WithLogger(logger),
		claude.WithDefaultModel(claude.Model(cfg.Defaults.Model)),
		claude.WithDefaultTimezone(claude.Timezone(cfg.Defaults.Timezone)),
	), nil
}
