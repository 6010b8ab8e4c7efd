package model

const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
	RoleSystem    = "system"
)

// TranscriptTurn is one speaker-attributed line of a call. Never persisted on its own.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
