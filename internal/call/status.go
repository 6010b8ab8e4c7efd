package call

// Status is the lifecycle state of one call, as shown to the user.
type Status string

const (
	StatusInactive     Status = "inactive"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
	StatusFinished     Status = "finished"
)

func (s Status) Active() bool {
	return s == StatusConnecting || s == StatusConnected
}

type Mode string

const (
	// ModeGenerate drives question generation through the agent's tool calls. No feedback is scored.
	ModeGenerate Mode = "generate"
	// ModeInterview runs a fixed question list and scores the transcript afterwards.
	ModeInterview Mode = "interview"
)

// latch guards feedback generation so it runs at most once per call.
type latch int

const (
	latchArmed latch = iota
	latchFired
	latchFailed
)
