// ABOUTME: Tests for the streaming reply assembler
// ABOUTME: Covers delta ordering, completion, error signals, and malformed fragments

package claude

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/claude-web/internal/session"
)

func sendWithStream(t *testing.T, raw string) (*Message, error) {
	t.Helper()
	ft := newFakeTransport()
	ft.stream = raw
	return NewClient(ft).SendMessage(context.Background(), "org-1", "c-1", "hello", SendOptions{})
}

func TestSendMessage_AssemblesDeltas(t *testing.T) {
	msg, err := sendWithStream(t, sseFrames(delta("Hel"), delta("lo"), stop()))
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, StateComplete, msg.State)
	assert.Equal(t, RoleAssistant, msg.Sender)
	assert.Equal(t, "stop_sequence", msg.StopReason)
	assert.Equal(t, "claude-2.1", msg.Model)
}

func TestSendMessage_ConcatenatesInArrivalOrder(t *testing.T) {
	deltas := []string{"The ", "quick ", "", "brown ", "fox", " ", "fox"}
	var frames []string
	for _, d := range deltas {
		frames = append(frames, delta(d))
	}
	frames = append(frames, stop())

	msg, err := sendWithStream(t, sseFrames(frames...))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(deltas, ""), msg.Text, "no reordering or deduplication")
}

func TestSendMessage_StopsAtCompletion(t *testing.T) {
	// Anything after the marker is never read, even garbage
	raw := sseFrames(delta("done"), stop()) + "garbage line\n\n"

	msg, err := sendWithStream(t, raw)
	require.NoError(t, err)
	assert.Equal(t, "done", msg.Text)
	assert.Equal(t, StateComplete, msg.State)
}

func TestSendMessage_UnterminatedFinalEvent(t *testing.T) {
	// The last frame lacks its closing blank line
	raw := sseFrames(delta("Hel"), delta("lo")) + "data: " + stop() + "\n"

	msg, err := sendWithStream(t, raw)
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, StateComplete, msg.State)
}

func TestSendMessage_IgnoresUnknownFieldLines(t *testing.T) {
	raw := sseFrames(delta("Hel")) + "x-trace: abc\n\n" + sseFrames(delta("lo"), stop())

	msg, err := sendWithStream(t, raw)
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, StateComplete, msg.State)
}

func TestSendMessage_TruncatedFinalFragment(t *testing.T) {
	raw := sseFrames(delta("Hel")) + `data: {"completion":"lo`

	msg, err := sendWithStream(t, raw)
	var incomplete *IncompleteResponseError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, ReasonNoCompletion, incomplete.Reason)
	assert.Equal(t, "Hel", incomplete.Partial)
	assert.Equal(t, StateFailed, msg.State)
}

func TestSendMessage_NoCompletionMarker(t *testing.T) {
	msg, err := sendWithStream(t, sseFrames(delta("partial "), delta("text")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncompleteResponse)

	var incomplete *IncompleteResponseError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "partial text", incomplete.Partial)
	assert.Equal(t, ReasonNoCompletion, incomplete.Reason)

	require.NotNil(t, msg)
	assert.Equal(t, StateFailed, msg.State)
	assert.Equal(t, "partial text", msg.Text)
}

func TestSendMessage_EmptyStream(t *testing.T) {
	_, err := sendWithStream(t, "")

	var incomplete *IncompleteResponseError
	require.ErrorAs(t, err, &incomplete)
	assert.Empty(t, incomplete.Partial)
}

func TestSendMessage_ErrorFragment(t *testing.T) {
	raw := sseFrames(delta("so far"), `{"error":{"type":"overloaded_error","message":"Overloaded"}}`, stop())

	msg, err := sendWithStream(t, raw)
	var incomplete *IncompleteResponseError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, ReasonServerError, incomplete.Reason)
	assert.Equal(t, "overloaded_error: Overloaded", incomplete.Detail)
	assert.Equal(t, "so far", incomplete.Partial)
	assert.Equal(t, StateFailed, msg.State)
}

func TestSendMessage_ErrorEventType(t *testing.T) {
	raw := sseFrames(delta("a")) + "event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"rate_limit\",\"message\":\"slow down\"}}\n\n"

	_, err := sendWithStream(t, raw)
	var incomplete *IncompleteResponseError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "rate_limit: slow down", incomplete.Detail)
	assert.Equal(t, "a", incomplete.Partial)
}

func TestSendMessage_SkipsIsolatedMalformedFragments(t *testing.T) {
	raw := sseFrames(delta("a"), `{not json`, delta("b"), `[1,2`, `nope`, delta("c"), stop())

	msg, err := sendWithStream(t, raw)
	require.NoError(t, err)
	assert.Equal(t, "abc", msg.Text)
	assert.Equal(t, StateComplete, msg.State)
}

func TestSendMessage_ThreeConsecutiveMalformedFragments(t *testing.T) {
	raw := sseFrames(delta("kept"), `{bad`, `{bad`, `{bad`, delta("never"), stop())

	msg, err := sendWithStream(t, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrStream)
	assert.False(t, errors.Is(err, ErrIncompleteResponse))

	var streamErr *session.StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.Equal(t, "kept", streamErr.Partial)
	assert.Equal(t, StateFailed, msg.State)
}

func TestSendMessage_DroppedConnectionKeepsPartial(t *testing.T) {
	dropped := errors.New("unexpected EOF")
	body := io.MultiReader(strings.NewReader(sseFrames(delta("half"))), iotest.ErrReader(dropped))

	c := NewClient(newFakeTransport())
	msg, err := c.assemble(session.NewEventStream(io.NopCloser(body)))

	var streamErr *session.StreamError
	require.ErrorAs(t, err, &streamErr)
	assert.ErrorIs(t, err, dropped)
	assert.Equal(t, "half", streamErr.Partial)
	assert.Equal(t, StateFailed, msg.State)
}

func TestSendMessage_RequestFailure(t *testing.T) {
	ft := newFakeTransport()
	ft.streamErr = &session.RequestError{StatusCode: http.StatusUnauthorized}

	msg, err := NewClient(ft).SendMessage(context.Background(), "org-1", "c-1", "hi", SendOptions{})
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, session.ErrAuthFailed)
}

func TestSendMessage_RequestBody(t *testing.T) {
	ft := newFakeTransport()
	ft.stream = sseFrames(stop())
	c := NewClient(ft, WithDefaultModel(ModelClaude3Opus), WithDefaultTimezone(TimezoneNewYork))

	att := Attachment{FileName: "notes.txt", FileType: "text/plain", FileSize: 5, ExtractedContent: "hello"}
	_, err := c.SendMessage(context.Background(), "org-1", "c-1", "summarize", SendOptions{Attachments: []Attachment{att}})
	require.NoError(t, err)

	call := ft.lastCall()
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/append_message", call.Path)

	var sent appendMessageRequest
	require.NoError(t, json.Unmarshal(call.Body, &sent))
	assert.Equal(t, "org-1", sent.OrganizationUUID)
	assert.Equal(t, "c-1", sent.ConversationUUID)
	assert.Equal(t, "summarize", sent.Text)
	assert.Equal(t, "summarize", sent.Completion.Prompt)
	assert.Equal(t, ModelClaude3Opus, sent.Completion.Model)
	assert.Equal(t, TimezoneNewYork, sent.Completion.Timezone)
	assert.Equal(t, []Attachment{att}, sent.Attachments)
}

func TestSendMessage_EmptyAttachmentsEncodeAsArray(t *testing.T) {
	ft := newFakeTransport()
	ft.stream = sseFrames(stop())

	_, err := NewClient(ft).SendMessage(context.Background(), "org-1", "c-1", "hi", SendOptions{Model: ModelClaude20})
	require.NoError(t, err)

	body := string(ft.lastCall().Body)
	assert.Contains(t, body, `"attachments":[]`)
	assert.Contains(t, body, `"model":"claude-2.0"`)
}

func TestSendMessage_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/append_message" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frame := range []string{delta("Hel"), delta("lo"), stop()} {
			_, _ = w.Write([]byte("event: completion\ndata: " + frame + "\n\n"))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	tr, err := session.New("sk-ant-sid01-FAKE", session.WithBaseURL(srv.URL))
	require.NoError(t, err)

	msg, err := NewClient(tr).SendMessage(context.Background(), "org-1", "c-1", "hi", SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Text)
	assert.Equal(t, StateComplete, msg.State)
}

func TestMessageState_OnlyMovesForward(t *testing.T) {
	m := &Message{State: StateAccumulating}
	m.complete("stop_sequence")
	m.fail()
	assert.Equal(t, StateComplete, m.State)

	m = &Message{State: StateAccumulating}
	m.fail()
	m.complete("stop_sequence")
	assert.Equal(t, StateFailed, m.State)
	assert.Empty(t, m.StopReason)
}
