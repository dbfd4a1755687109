// ABOUTME: Context wrapper holding a default organization and conversation
// ABOUTME: Resolves omitted identifiers and delegates to the resource client

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/claude-web/internal/claude"
)

// ErrNoContext matches every *NoContextError.
var ErrNoContext = errors.New("no context")

// NoContextError is returned when a call omits an identifier and no default
// is selected.
type NoContextError struct {
	// Missing is "organization" or "conversation".
	Missing string
}

func (e *NoContextError) Error() string {
	return fmt.Sprintf("no %s given and no %s context set", e.Missing, e.Missing)
}

func (e *NoContextError) Is(target error) bool {
	return target == ErrNoContext
}

// API is the part of *claude.Client the wrapper delegates to.
type API interface {
	ListOrganizations(ctx context.Context) ([]claude.Organization, error)
	ListConversations(ctx context.Context, orgID string) ([]claude.Conversation, error)
	GetConversationHistory(ctx context.Context, orgID, convID string) (*claude.Conversation, error)
	StartConversation(ctx context.Context, orgID, name, firstMessage string, opts claude.SendOptions) (*claude.Conversation, *claude.Message, error)
	RenameConversation(ctx context.Context, orgID, convID, newName string) error
	GenerateTitle(ctx context.Context, orgID, convID, message string, recentTitles []string) (string, error)
	DeleteConversation(ctx context.Context, orgID, convID string) error
	DeleteAllConversations(ctx context.Context, orgID string) ([]string, error)
	SendMessage(ctx context.Context, orgID, convID, text string, opts claude.SendOptions) (*claude.Message, error)
}

// Context is the wrapper's current default selection. Empty fields are unset.
type Context struct {
	OrganizationID string
	ConversationID string
}

// Wrapper remembers a default organization and conversation so callers can
// omit them. It is not safe for concurrent use.
type Wrapper struct {
	api     API
	current Context
	logger  *slog.Logger
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithOrganization preselects an organization, skipping auto-selection.
func WithOrganization(orgID string) Option {
	return func(w *Wrapper) {
		w.current.OrganizationID = orgID
	}
}

// WithLogger sets the wrapper logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Wrapper) {
		if l != nil {
			w.logger = l
		}
	}
}

// New wraps api. Without WithOrganization, the first organization of the
// account is selected on first use.
func New(api API, opts ...Option) *Wrapper {
	w := &Wrapper{
		api:    api,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CallOption overrides the default selection for a single call.
type CallOption func(*Context)

// OnOrganization makes one call use orgID instead of the current organization.
func OnOrganization(orgID string) CallOption {
	return func(c *Context) {
		c.OrganizationID = orgID
	}
}

// OnConversation makes one call use convID instead of the current
// conversation.
func OnConversation(convID string) CallOption {
	return func(c *Context) {
		c.ConversationID = convID
	}
}

// Context returns the current selection.
func (w *Wrapper) Context() Context {
	return w.current
}

// SetOrganizationContext selects a default organization. The conversation
// selection is left unchanged; keeping the two consistent is up to the caller.
func (w *Wrapper) SetOrganizationContext(orgID string) {
	w.current.OrganizationID = orgID
}

// SetConversationContext selects a default conversation. It should belong to
// the selected organization; that is not checked.
func (w *Wrapper) SetConversationContext(convID string) {
	w.current.ConversationID = convID
}

// ClearConversationContext unsets the default conversation.
func (w *Wrapper) ClearConversationContext() {
	w.current.ConversationID = ""
}

// SwitchClient replaces the underlying client and resets the context. An
// empty orgID means the first organization is selected on next use.
func (w *Wrapper) SwitchClient(api API, orgID string) {
	w.api = api
	w.current = Context{OrganizationID: orgID}
}

func applyCallOptions(opts []CallOption) Context {
	var explicit Context
	for _, opt := range opts {
		opt(&explicit)
	}
	return explicit
}

// organization resolves the organization for a call: explicit, then current,
// then the first organization of the account, which becomes current.
func (w *Wrapper) organization(ctx context.Context, explicit Context) (string, error) {
	if explicit.OrganizationID != "" {
		return explicit.OrganizationID, nil
	}
	if w.current.OrganizationID != "" {
		return w.current.OrganizationID, nil
	}

	orgs, err := w.api.ListOrganizations(ctx)
	if err != nil {
		return "", fmt.Errorf("selecting default organization: %w", err)
	}
	if len(orgs) == 0 {
		return "", &NoContextError{Missing: "organization"}
	}

	w.current.OrganizationID = orgs[0].UUID
	w.logger.Debug("selected default organization", "organization_uuid", orgs[0].UUID)
	return orgs[0].UUID, nil
}

func (w *Wrapper) conversation(explicit Context) (string, error) {
	if explicit.ConversationID != "" {
		return explicit.ConversationID, nil
	}
	if w.current.ConversationID != "" {
		return w.current.ConversationID, nil
	}
	return "", &NoContextError{Missing: "conversation"}
}

// resolve returns the organization and conversation for a call that needs
// both. The conversation is checked first so a missing one fails without a
// network call.
func (w *Wrapper) resolve(ctx context.Context, opts []CallOption) (string, string, error) {
	explicit := applyCallOptions(opts)
	convID, err := w.conversation(explicit)
	if err != nil {
		return "", "", err
	}
	orgID, err := w.organization(ctx, explicit)
	if err != nil {
		return "", "", err
	}
	return orgID, convID, nil
}
