// ABOUTME: Wrapper operations that fall back to the current context
// ABOUTME: Conversation lifecycle, messaging, and attachments

package chat

import (
	"context"
	"slices"

	"github.com/2389/claude-web/internal/claude"
)

// ListOrganizations returns every organization of the account.
func (w *Wrapper) ListOrganizations(ctx context.Context) ([]claude.Organization, error) {
	return w.api.ListOrganizations(ctx)
}

// ListConversations lists conversations in the resolved organization.
func (w *Wrapper) ListConversations(ctx context.Context, opts ...CallOption) ([]claude.Conversation, error) {
	orgID, err := w.organization(ctx, applyCallOptions(opts))
	if err != nil {
		return nil, err
	}
	return w.api.ListConversations(ctx, orgID)
}

// GetConversationHistory returns the resolved conversation with its messages.
func (w *Wrapper) GetConversationHistory(ctx context.Context, opts ...CallOption) (*claude.Conversation, error) {
	orgID, convID, err := w.resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	return w.api.GetConversationHistory(ctx, orgID, convID)
}

// StartResult describes a conversation created by StartConversation.
type StartResult struct {
	Conversation *claude.Conversation
	// Reply is the answer to the first message, nil if none was sent.
	Reply *claude.Message
	// Title is the conversation name, generated when none was given.
	Title string
}

// StartConversation creates a conversation in the resolved organization and
// sends firstMessage to it when not empty. With an empty name and a first
// message, the service is asked to generate a title. The current
// conversation context is left unchanged.
//
// When the conversation is created but the first reply fails, the result is
// returned together with the error.
func (w *Wrapper) StartConversation(ctx context.Context, name, firstMessage string, send claude.SendOptions, opts ...CallOption) (*StartResult, error) {
	orgID, err := w.organization(ctx, applyCallOptions(opts))
	if err != nil {
		return nil, err
	}

	conv, reply, err := w.api.StartConversation(ctx, orgID, name, firstMessage, send)
	if err != nil {
		if conv == nil {
			return nil, err
		}
		// Created, but the first reply failed; the caller may still use it
		return &StartResult{Conversation: conv, Reply: reply, Title: name}, err
	}

	result := &StartResult{Conversation: conv, Reply: reply, Title: name}
	if name != "" || firstMessage == "" {
		return result, nil
	}

	title, err := w.api.GenerateTitle(ctx, orgID, conv.UUID, firstMessage, w.recentTitles(ctx, orgID, conv.UUID))
	if err != nil {
		// The conversation exists and has its reply; an untitled chat is fine
		w.logger.Warn("failed to generate conversation title",
			"conversation_uuid", conv.UUID,
			"error", err,
		)
		return result, nil
	}
	result.Title = title
	conv.Name = title
	return result, nil
}

// recentTitles returns the names of other conversations, used to steer title
// generation. Failures yield no titles.
func (w *Wrapper) recentTitles(ctx context.Context, orgID, skipID string) []string {
	convs, err := w.api.ListConversations(ctx, orgID)
	if err != nil {
		w.logger.Debug("listing conversations for titles failed", "error", err)
		return []string{}
	}
	titles := make([]string, 0, len(convs))
	for _, c := range convs {
		if c.UUID != skipID && c.Name != "" {
			titles = append(titles, c.Name)
		}
	}
	return titles
}

// RenameConversation renames the resolved conversation.
func (w *Wrapper) RenameConversation(ctx context.Context, newName string, opts ...CallOption) error {
	orgID, convID, err := w.resolve(ctx, opts)
	if err != nil {
		return err
	}
	return w.api.RenameConversation(ctx, orgID, convID, newName)
}

// DeleteConversation deletes the resolved conversation. Deleting the current
// conversation clears the conversation context.
func (w *Wrapper) DeleteConversation(ctx context.Context, opts ...CallOption) error {
	orgID, convID, err := w.resolve(ctx, opts)
	if err != nil {
		return err
	}
	if err := w.api.DeleteConversation(ctx, orgID, convID); err != nil {
		return err
	}
	if convID == w.current.ConversationID {
		w.ClearConversationContext()
	}
	return nil
}

// DeleteAllConversations deletes every conversation in the resolved
// organization and returns the UUIDs that could not be deleted.
func (w *Wrapper) DeleteAllConversations(ctx context.Context, opts ...CallOption) ([]string, error) {
	orgID, err := w.organization(ctx, applyCallOptions(opts))
	if err != nil {
		return nil, err
	}

	failed, err := w.api.DeleteAllConversations(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if w.current.ConversationID != "" && orgID == w.current.OrganizationID && !slices.Contains(failed, w.current.ConversationID) {
		w.ClearConversationContext()
	}
	return failed, nil
}

// SendMessage sends text to the resolved conversation and returns the
// assembled reply. See claude.Client.SendMessage for failure semantics.
func (w *Wrapper) SendMessage(ctx context.Context, text string, send claude.SendOptions, opts ...CallOption) (*claude.Message, error) {
	orgID, convID, err := w.resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	return w.api.SendMessage(ctx, orgID, convID, text, send)
}

// BuildAttachment reads a local text file into an attachment.
func (w *Wrapper) BuildAttachment(path string) (*claude.Attachment, error) {
	return claude.BuildAttachment(path)
}
