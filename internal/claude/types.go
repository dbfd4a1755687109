// ABOUTME: Wire and domain types for organizations, conversations, and messages
// ABOUTME: Includes the forward-only assembly state of streamed replies

package claude

import "time"

// Model names accepted by the web app's completion field.
type Model string

const (
	ModelClaude20      Model = "claude-2.0"
	ModelClaude21      Model = "claude-2.1"
	ModelClaudeInstant Model = "claude-instant-1.2"
	ModelClaude3Sonnet Model = "claude-3-sonnet-20240229"
	ModelClaude3Opus   Model = "claude-3-opus-20240229"

	DefaultModel = ModelClaude21
)

// Timezone is an IANA zone name sent with each completion.
type Timezone string

const (
	TimezoneNewYork    Timezone = "America/New_York"
	TimezoneLosAngeles Timezone = "America/Los_Angeles"

	DefaultTimezone = TimezoneLosAngeles
)

// Role identifies who wrote a message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Organization is an account or workspace the session key belongs to.
type Organization struct {
	UUID         string    `json:"uuid"`
	Name         string    `json:"name"`
	JoinToken    string    `json:"join_token,omitempty"`
	Capabilities []string  `json:"capabilities,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Conversation is a thread of messages inside one organization.
type Conversation struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"chat_messages,omitempty"`
}

// Attachment is a local file's text embedded inline in a message.
type Attachment struct {
	FileName         string `json:"file_name"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
	ExtractedContent string `json:"extracted_content"`
}

// AssemblyState tracks a streamed reply. It only moves forward:
// accumulating, then complete or failed.
type AssemblyState int

const (
	StateAccumulating AssemblyState = iota
	StateComplete
	StateFailed
)

func (s AssemblyState) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Message is one turn of a conversation. Messages read from history are
// always StateComplete; replies built by SendMessage carry the state the
// stream ended in.
type Message struct {
	UUID        string        `json:"uuid,omitempty"`
	Sender      Role          `json:"sender"`
	Text        string        `json:"text"`
	Index       int           `json:"index"`
	CreatedAt   time.Time     `json:"created_at"`
	Attachments []Attachment  `json:"attachments,omitempty"`
	Model       string        `json:"model,omitempty"`
	StopReason  string        `json:"stop_reason,omitempty"`
	State       AssemblyState `json:"-"`
}

// complete moves an accumulating message to StateComplete.
func (m *Message) complete(stopReason string) {
	if m.State != StateAccumulating {
		return
	}
	m.State = StateComplete
	m.StopReason = stopReason
}

// fail moves an accumulating message to StateFailed.
func (m *Message) fail() {
	if m.State != StateAccumulating {
		return
	}
	m.State = StateFailed
}
