// ABOUTME: Shared fakes for claude package tests
// ABOUTME: Scripted transport that records calls and replays canned bodies and streams

package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/2389/claude-web/internal/session"
)

// recordedCall is one request seen by fakeTransport.
type recordedCall struct {
	Method string
	Path   string
	Body   []byte
}

// fakeTransport answers requests from per-route responses.
type fakeTransport struct {
	mu        sync.Mutex
	calls     []recordedCall
	responses map[string]string // "METHOD path" -> body
	failures  map[string]error  // "METHOD path" -> error
	stream    string            // raw SSE text for Stream
	streamErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		responses: make(map[string]string),
		failures:  make(map[string]error),
	}
}

func (f *fakeTransport) on(method, path, body string) *fakeTransport {
	f.responses[method+" "+path] = body
	return f
}

func (f *fakeTransport) fail(method, path string, err error) *fakeTransport {
	f.failures[method+" "+path] = err
	return f
}

func (f *fakeTransport) record(method, path string, body any) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{Method: method, Path: path, Body: encoded})
	return nil
}

func (f *fakeTransport) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := f.record(method, path, body); err != nil {
		return nil, err
	}
	key := method + " " + path
	if err, ok := f.failures[key]; ok {
		return nil, err
	}
	resp, ok := f.responses[key]
	if !ok {
		return nil, &session.RequestError{Method: method, Path: path, StatusCode: 404}
	}
	return []byte(resp), nil
}

func (f *fakeTransport) Stream(ctx context.Context, method, path string, body any) (*session.EventStream, error) {
	if err := f.record(method, path, body); err != nil {
		return nil, err
	}
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return session.NewEventStream(io.NopCloser(strings.NewReader(f.stream))), nil
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTransport) lastCall() recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// sseFrames renders data payloads as SSE events.
func sseFrames(payloads ...string) string {
	var b strings.Builder
	for _, p := range payloads {
		fmt.Fprintf(&b, "data: %s\n\n", p)
	}
	return b.String()
}

// delta renders a completion fragment without a stop reason.
func delta(text string) string {
	encoded, _ := json.Marshal(text)
	return fmt.Sprintf(`{"completion":%s,"stop_reason":null,"model":"claude-2.1"}`, encoded)
}

// stop renders the completion marker.
func stop() string {
	return `{"completion":"","stop_reason":"stop_sequence","model":"claude-2.1"}`
}
