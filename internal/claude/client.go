// ABOUTME: Resource client for the claude.ai web API
// ABOUTME: One transport round trip per call, explicit organization and conversation IDs

package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/2389/claude-web/internal/session"
)

// API paths, relative to the transport's base URL.
const (
	organizationsPath  = "/api/organizations"
	appendMessagePath  = "/api/append_message"
	renameChatPath     = "/api/rename_chat"
	generateTitlePath  = "/api/generate_chat_title"
	conversationsPathF = organizationsPath + "/%s/chat_conversations"
)

// Transport is the part of *session.Transport the client needs.
type Transport interface {
	Do(ctx context.Context, method, path string, body any) ([]byte, error)
	Stream(ctx context.Context, method, path string, body any) (*session.EventStream, error)
}

// Client performs organization and conversation operations. It keeps no
// per-call state: every method takes the identifiers it acts on.
type Client struct {
	transport Transport
	logger    *slog.Logger
	model     Model
	timezone  Timezone
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultModel sets the model used when SendOptions leaves it empty.
func WithDefaultModel(m Model) ClientOption {
	return func(c *Client) {
		if m != "" {
			c.model = m
		}
	}
}

// WithDefaultTimezone sets the timezone used when SendOptions leaves it empty.
func WithDefaultTimezone(tz Timezone) ClientOption {
	return func(c *Client) {
		if tz != "" {
			c.timezone = tz
		}
	}
}

// NewClient creates a Client on top of t.
func NewClient(t Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport: t,
		logger:    slog.Default(),
		model:     DefaultModel,
		timezone:  DefaultTimezone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doJSON sends one request and decodes the response into out, if non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := c.transport.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func conversationsPath(orgID string) string {
	return fmt.Sprintf(conversationsPathF, url.PathEscape(orgID))
}

func conversationPath(orgID, convID string) string {
	return conversationsPath(orgID) + "/" + url.PathEscape(convID)
}

func requireIDs(ids ...string) error {
	names := []string{"organization", "conversation"}
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: %s uuid is required", ErrMissingID, names[i])
		}
	}
	return nil
}
