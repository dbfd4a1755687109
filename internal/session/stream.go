// ABOUTME: Server-sent event reader for streamed replies
// ABOUTME: Yields events lazily in arrival order and reports dropped connections

package session

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// maxEventLine bounds a single SSE line. Replies with attachments echo large
// payloads, so this is well above bufio's default.
const maxEventLine = 1 << 20

// Event is one dispatched server-sent event.
type Event struct {
	// Type is the "event:" field, empty for the default message type.
	Type string
	// Data is the "data:" lines joined with newlines.
	Data string
}

// EventStream reads events from a response body. It is finite and cannot be
// restarted; once Next returns an error every later call returns it again.
type EventStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	err     error

	// span is the request span from Transport.Stream, ended by Close
	span trace.Span
}

// NewEventStream reads events from body. Close closes body.
func NewEventStream(body io.ReadCloser) *EventStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	return &EventStream{body: body, scanner: scanner}
}

// Next blocks until the next event arrives. It returns io.EOF once the stream
// ends and a *StreamError if the connection drops. Unknown fields are ignored,
// and an event still pending at end of stream is dispatched.
func (s *EventStream) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}

	ev, err := s.next()
	if err != nil {
		s.err = err
		if !errors.Is(err, io.EOF) && s.span != nil {
			recordError(s.span, err)
		}
	}
	return ev, err
}

func (s *EventStream) next() (Event, error) {
	var eventType string
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Empty line signals end of event
		if line == "" {
			if len(dataLines) > 0 {
				return Event{Type: eventType, Data: strings.Join(dataLines, "\n")}, nil
			}
			eventType = ""
			continue
		}

		// Comment
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			eventType = value
		case "data":
			dataLines = append(dataLines, value)
		}
	}

	if err := s.scanner.Err(); err != nil {
		return Event{}, &StreamError{Op: "reading", Err: err}
	}

	// The last event may arrive without its closing blank line
	if len(dataLines) > 0 {
		return Event{Type: eventType, Data: strings.Join(dataLines, "\n")}, nil
	}
	return Event{}, io.EOF
}

// Close releases the underlying body and ends the request span.
func (s *EventStream) Close() error {
	if s.span != nil {
		s.span.End()
		s.span = nil
	}
	return s.body.Close()
}
