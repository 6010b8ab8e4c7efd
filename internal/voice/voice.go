// Package voice is the duplex connection to the hosted voice-agent platform.
//
// A Channel delivers a typed event stream for one call. The stream is closed
// once the underlying connection is gone, so ranging over Events is the whole
// subscription lifecycle.
package voice

import "context"

type EventType string

const (
	EventSessionStart EventType = "session-start"
	EventSessionEnd   EventType = "session-end"
	EventError        EventType = "error"
	EventSpeechStart  EventType = "speech-start"
	EventSpeechEnd    EventType = "speech-end"
	EventTranscript   EventType = "transcript"
)

type Event struct {
	Type EventType
	// Transcript fields.
	Role    string
	Content string
	Final   bool
	// Set for EventError.
	Err error
}

// AgentScript is an inline agent definition used instead of a predefined agent id.
type AgentScript struct {
	TemplateID   string `json:"templateId,omitempty"`
	Name         string `json:"name,omitempty"`
	FirstMessage string `json:"firstMessage,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// StartRequest opens a session against either AgentID or Script. Variables are substituted
// into the agent's prompts by the platform.
type StartRequest struct {
	AgentID   string
	Script    *AgentScript
	Variables map[string]string
}

type Channel interface {
	Events() <-chan Event
	// Stop asks the platform to end the call and releases the connection. Safe to call more than once.
	Stop() error
}

type Dialer interface {
	Dial(ctx context.Context, req StartRequest) (Channel, error)
}
