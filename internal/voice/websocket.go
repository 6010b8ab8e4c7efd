package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait        = 5 * time.Second
	eventBuffer      = 64
	frameStart       = "start"
	frameStop        = "stop"
	wireCallStart    = "call-start"
	wireCallEnd      = "call-end"
	wireError        = "error"
	wireSpeechStart  = "speech-start"
	wireSpeechEnd    = "speech-end"
	wireSpeechUpdate = "speech-update"
	wireTranscript   = "transcript"
)

var ErrMissingAgent = errors.New("voice: start request needs an agent id or an inline script")

// WebsocketDialer connects to the voice platform's realtime endpoint.
type WebsocketDialer struct {
	URL       string
	PublicKey string
	Dialer    *websocket.Dialer
}

func NewWebsocketDialer(url, publicKey string) *WebsocketDialer {
	return &WebsocketDialer{
		URL:       url,
		PublicKey: publicKey,
		Dialer:    &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}
}

type startFrame struct {
	Type      string          `json:"type"`
	AgentID   string          `json:"assistantId,omitempty"`
	Script    *AgentScript    `json:"assistant,omitempty"`
	Overrides *startOverrides `json:"assistantOverrides,omitempty"`
}

type startOverrides struct {
	VariableValues map[string]string `json:"variableValues"`
}

type wireMessage struct {
	Type           string `json:"type"`
	Role           string `json:"role"`
	TranscriptType string `json:"transcriptType"`
	Transcript     string `json:"transcript"`
	Status         string `json:"status"`
	Error          string `json:"error"`
	Message        string `json:"message"`
}

func (d *WebsocketDialer) Dial(ctx context.Context, req StartRequest) (Channel, error) {
	if req.AgentID == "" && req.Script == nil {
		return nil, ErrMissingAgent
	}
	header := http.Header{}
	if d.PublicKey != "" {
		header.Set("Authorization", "Bearer "+d.PublicKey)
	}
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, d.URL, header)
	if err != nil {
		return nil, fmt.Errorf("voice: dial %s: %w", d.URL, err)
	}

	frame := startFrame{Type: frameStart, AgentID: req.AgentID, Script: req.Script}
	if len(req.Variables) > 0 {
		frame.Overrides = &startOverrides{VariableValues: req.Variables}
	}
	ch := &wsChannel{conn: conn, events: make(chan Event, eventBuffer)}
	if err := ch.writeJSON(frame); err != nil {
		conn.Close()
		return nil, fmt.Errorf("voice: send start: %w", err)
	}
	go ch.readLoop()
	return ch, nil
}

type wsChannel struct {
	conn    *websocket.Conn
	events  chan Event
	writeMu sync.Mutex

	stopOnce sync.Once
	stopped  atomic.Bool
}

func (c *wsChannel) Events() <-chan Event {
	return c.events
}

func (c *wsChannel) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		c.stopped.Store(true)
		err = c.writeJSON(map[string]string{"type": frameStop})
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.writeMu.Unlock()
		if cerr := c.conn.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

func (c *wsChannel) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsChannel) readLoop() {
	defer close(c.events)
	ended := false
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			switch {
			case ended:
			case c.stopped.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				c.events <- Event{Type: EventSessionEnd}
			default:
				c.events <- Event{Type: EventError, Err: fmt.Errorf("voice: connection lost: %w", err)}
			}
			return
		}

		var msg wireMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("voice: dropping malformed frame")
			continue
		}
		ev, ok := translate(msg)
		if !ok {
			log.Debug().Str("type", msg.Type).Msg("voice: ignoring frame")
			continue
		}
		if ev.Type == EventSessionEnd {
			ended = true
		}
		c.events <- ev
	}
}

func translate(msg wireMessage) (Event, bool) {
	switch msg.Type {
	case wireCallStart:
		return Event{Type: EventSessionStart}, true
	case wireCallEnd:
		return Event{Type: EventSessionEnd}, true
	case wireError:
		text := msg.Error
		if text == "" {
			text = msg.Message
		}
		if text == "" {
			text = "unknown error"
		}
		return Event{Type: EventError, Err: errors.New(text)}, true
	case wireSpeechStart:
		return Event{Type: EventSpeechStart, Role: msg.Role}, true
	case wireSpeechEnd:
		return Event{Type: EventSpeechEnd, Role: msg.Role}, true
	case wireSpeechUpdate:
		if msg.Status == "started" {
			return Event{Type: EventSpeechStart, Role: msg.Role}, true
		}
		return Event{Type: EventSpeechEnd, Role: msg.Role}, true
	case wireTranscript:
		return Event{
			Type:    EventTranscript,
			Role:    msg.Role,
			Content: msg.Transcript,
			Final:   msg.TranscriptType == "final",
		}, true
	}
	return Event{}, false
}
