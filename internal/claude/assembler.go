// ABOUTME: Streaming reply assembler for append_message
// ABOUTME: Concatenates completion deltas in arrival order until the stop marker

package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2389/claude-web/internal/session"
)

// maxMalformedFragments is how many undecodable fragments in a row abort a
// reply. Isolated bad fragments are skipped.
const maxMalformedFragments = 3

// SendOptions are the per-message settings. Zero values fall back to the
// client defaults.
type SendOptions struct {
	Attachments []Attachment
	Model       Model
	Timezone    Timezone
}

// appendMessageRequest is the body of POST /api/append_message.
type appendMessageRequest struct {
	OrganizationUUID string            `json:"organization_uuid"`
	ConversationUUID string            `json:"conversation_uuid"`
	Text             string            `json:"text"`
	Attachments      []Attachment      `json:"attachments"`
	Completion       completionRequest `json:"completion"`
}

type completionRequest struct {
	Prompt   string   `json:"prompt"`
	Timezone Timezone `json:"timezone"`
	Model    Model    `json:"model"`
}

// streamFragment is the JSON carried by each event of a reply stream.
type streamFragment struct {
	Completion *string         `json:"completion"`
	StopReason *string         `json:"stop_reason"`
	Model      string          `json:"model"`
	Error      json.RawMessage `json:"error"`
}

// eventSource yields reply events; *session.EventStream implements it.
type eventSource interface {
	Next() (session.Event, error)
}

// SendMessage appends a message to a conversation and blocks until the
// assistant's reply has streamed in completely.
//
// On failure the partially assembled reply is returned alongside the error in
// StateFailed. A stream that ends or reports an error before its completion
// marker yields *IncompleteResponseError; a dropped connection or repeated
// undecodable fragments yield *session.StreamError. Both carry the partial
// text.
func (c *Client) SendMessage(ctx context.Context, orgID, convID, text string, opts SendOptions) (*Message, error) {
	if err := requireIDs(orgID, convID); err != nil {
		return nil, err
	}

	req := c.appendRequest(orgID, convID, text, opts)

	stream, err := c.transport.Stream(ctx, http.MethodPost, appendMessagePath, req)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer stream.Close()

	c.logger.Debug("streaming reply",
		"organization_uuid", orgID,
		"conversation_uuid", convID,
		"model", req.Completion.Model,
		"attachments", len(req.Attachments),
	)

	return c.assemble(stream)
}

func (c *Client) appendRequest(orgID, convID, text string, opts SendOptions) appendMessageRequest {
	model := opts.Model
	if model == "" {
		model = c.model
	}
	tz := opts.Timezone
	if tz == "" {
		tz = c.timezone
	}
	attachments := opts.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}

	return appendMessageRequest{
		OrganizationUUID: orgID,
		ConversationUUID: convID,
		Text:             text,
		Attachments:      attachments,
		Completion: completionRequest{
			Prompt:   text,
			Timezone: tz,
			Model:    model,
		},
	}
}

// assemble consumes events until the completion marker, an error signal, or
// the end of the stream.
func (c *Client) assemble(events eventSource) (*Message, error) {
	msg := &Message{Sender: RoleAssistant, State: StateAccumulating}
	var text strings.Builder
	malformed := 0

	failed := func(err error) (*Message, error) {
		msg.Text = text.String()
		msg.fail()
		return msg, err
	}

	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			return failed(&IncompleteResponseError{
				Reason:  ReasonNoCompletion,
				Partial: text.String(),
			})
		}
		if err != nil {
			var streamErr *session.StreamError
			if !errors.As(err, &streamErr) {
				streamErr = &session.StreamError{Op: "reading", Err: err}
			}
			streamErr.Partial = text.String()
			return failed(streamErr)
		}

		if ev.Type == "error" {
			return failed(&IncompleteResponseError{
				Reason:  ReasonServerError,
				Detail:  errorDetail(json.RawMessage(ev.Data)),
				Partial: text.String(),
			})
		}

		if strings.TrimSpace(ev.Data) == "" {
			continue
		}

		var frag streamFragment
		if err := json.Unmarshal([]byte(ev.Data), &frag); err != nil {
			malformed++
			c.logger.Warn("skipping malformed stream fragment",
				"error", err,
				"consecutive", malformed,
			)
			if malformed >= maxMalformedFragments {
				return failed(&session.StreamError{
					Op:      "decoding",
					Err:     fmt.Errorf("%d consecutive malformed fragments: %w", malformed, err),
					Partial: text.String(),
				})
			}
			continue
		}
		malformed = 0

		if hasError(frag.Error) {
			return failed(&IncompleteResponseError{
				Reason:  ReasonServerError,
				Detail:  errorDetail(frag.Error),
				Partial: text.String(),
			})
		}

		if frag.Completion != nil {
			text.WriteString(*frag.Completion)
		}
		if frag.Model != "" {
			msg.Model = frag.Model
		}

		if frag.StopReason != nil && *frag.StopReason != "" {
			msg.Text = text.String()
			msg.complete(*frag.StopReason)
			return msg, nil
		}
	}
}

func hasError(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

// errorDetail pulls a readable message out of an error payload, which is
// either a string or an object with type and message fields.
func errorDetail(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var obj struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Error   *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Error != nil {
			obj.Type, obj.Message = obj.Error.Type, obj.Error.Message
		}
		switch {
		case obj.Type != "" && obj.Message != "":
			return obj.Type + ": " + obj.Message
		case obj.Message != "":
			return obj.Message
		case obj.Type != "":
			return obj.Type
		}
	}

	return truncate(string(raw), 200)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
