// ABOUTME: Conversation operations: list, history, create, rename, title, delete
// ABOUTME: DeleteAllConversations reports per-item failures instead of aborting

package claude

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ListConversations returns the conversations in an organization.
func (c *Client) ListConversations(ctx context.Context, orgID string) ([]Conversation, error) {
	if err := requireIDs(orgID); err != nil {
		return nil, err
	}

	var convs []Conversation
	if err := c.doJSON(ctx, http.MethodGet, conversationsPath(orgID), nil, &convs); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	return convs, nil
}

// GetConversationHistory returns a conversation with its messages in server
// order.
func (c *Client) GetConversationHistory(ctx context.Context, orgID, convID string) (*Conversation, error) {
	if err := requireIDs(orgID, convID); err != nil {
		return nil, err
	}

	var conv Conversation
	if err := c.doJSON(ctx, http.MethodGet, conversationPath(orgID, convID), nil, &conv); err != nil {
		return nil, fmt.Errorf("getting conversation %s: %w", convID, err)
	}
	for i := range conv.Messages {
		conv.Messages[i].State = StateComplete
	}
	return &conv, nil
}

// createConversationRequest is the body of POST .../chat_conversations.
// The web app picks the UUID on the client side.
type createConversationRequest struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// CreateConversation creates an empty conversation.
func (c *Client) CreateConversation(ctx context.Context, orgID, name string) (*Conversation, error) {
	if err := requireIDs(orgID); err != nil {
		return nil, err
	}

	req := createConversationRequest{
		UUID: uuid.New().String(),
		Name: name,
	}

	var conv Conversation
	if err := c.doJSON(ctx, http.MethodPost, conversationsPath(orgID), req, &conv); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	// Some responses omit the echo
	if conv.UUID == "" {
		conv.UUID = req.UUID
		conv.Name = req.Name
	}

	c.logger.Debug("created conversation", "organization_uuid", orgID, "conversation_uuid", conv.UUID)
	return &conv, nil
}

// StartConversation creates a conversation and, when firstMessage is not
// empty, sends it and returns the assistant's reply. The conversation is
// returned even if sending fails.
func (c *Client) StartConversation(ctx context.Context, orgID, name, firstMessage string, opts SendOptions) (*Conversation, *Message, error) {
	conv, err := c.CreateConversation(ctx, orgID, name)
	if err != nil {
		return nil, nil, err
	}
	if firstMessage == "" {
		return conv, nil, nil
	}

	reply, err := c.SendMessage(ctx, orgID, conv.UUID, firstMessage, opts)
	if err != nil {
		return conv, reply, fmt.Errorf("sending first message: %w", err)
	}
	return conv, reply, nil
}

// renameRequest is the body of POST /api/rename_chat.
type renameRequest struct {
	OrganizationUUID string `json:"organization_uuid"`
	ConversationUUID string `json:"conversation_uuid"`
	Title            string `json:"title"`
}

// RenameConversation changes a conversation's name.
func (c *Client) RenameConversation(ctx context.Context, orgID, convID, newName string) error {
	if err := requireIDs(orgID, convID); err != nil {
		return err
	}

	req := renameRequest{
		OrganizationUUID: orgID,
		ConversationUUID: convID,
		Title:            newName,
	}
	if err := c.doJSON(ctx, http.MethodPost, renameChatPath, req, nil); err != nil {
		return fmt.Errorf("renaming conversation %s: %w", convID, err)
	}
	return nil
}

// generateTitleRequest is the body of POST /api/generate_chat_title.
type generateTitleRequest struct {
	OrganizationUUID string   `json:"organization_uuid"`
	ConversationUUID string   `json:"conversation_uuid"`
	MessageContent   string   `json:"message_content"`
	RecentTitles     []string `json:"recent_titles"`
}

type generateTitleResponse struct {
	Title string `json:"title"`
}

// GenerateTitle asks the service to title a conversation from its opening
// message. recentTitles steers the style toward the user's other chats. The
// service also applies the title to the conversation.
func (c *Client) GenerateTitle(ctx context.Context, orgID, convID, message string, recentTitles []string) (string, error) {
	if err := requireIDs(orgID, convID); err != nil {
		return "", err
	}
	if recentTitles == nil {
		recentTitles = []string{}
	}

	req := generateTitleRequest{
		OrganizationUUID: orgID,
		ConversationUUID: convID,
		MessageContent:   message,
		RecentTitles:     recentTitles,
	}

	var resp generateTitleResponse
	if err := c.doJSON(ctx, http.MethodPost, generateTitlePath, req, &resp); err != nil {
		return "", fmt.Errorf("generating title: %w", err)
	}
	return resp.Title, nil
}

// DeleteConversation removes a conversation. A nil error means it was
// deleted.
func (c *Client) DeleteConversation(ctx context.Context, orgID, convID string) error {
	if err := requireIDs(orgID, convID); err != nil {
		return err
	}

	if err := c.doJSON(ctx, http.MethodDelete, conversationPath(orgID, convID), nil, nil); err != nil {
		return fmt.Errorf("deleting conversation %s: %w", convID, err)
	}
	return nil
}

// DeleteAllConversations deletes every conversation in the organization and
// returns the UUIDs it could not delete. A failed delete does not stop the
// others; the error is only for failing to list the conversations.
func (c *Client) DeleteAllConversations(ctx context.Context, orgID string) ([]string, error) {
	convs, err := c.ListConversations(ctx, orgID)
	if err != nil {
		return nil, err
	}

	failed := []string{}
	for _, conv := range convs {
		if err := c.DeleteConversation(ctx, orgID, conv.UUID); err != nil {
			c.logger.Warn("failed to delete conversation",
				"organization_uuid", orgID,
				"conversation_uuid", conv.UUID,
				"error", err,
			)
			failed = append(failed, conv.UUID)
		}
	}
	return failed, nil
}
