// Package call owns one voice session at a time: it opens the channel, collects
// the transcript and hands it to feedback generation once the call ends normally.
package call

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/voice"
	"github.com/rs/zerolog/log"
)

var (
	ErrCallInProgress = errors.New("call: a call is already in progress")
	ErrNothingToRetry = errors.New("call: no failed feedback generation to retry")
)

// FeedbackGenerator scores a finished call. Satisfied by the feedback service and the API client.
type FeedbackGenerator interface {
	GenerateFeedback(ctx context.Context, req dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error)
}

type Config struct {
	GenerateAgentID     string
	InterviewTemplateID string
}

// Session describes the call to start.
type Session struct {
	Mode        Mode
	UserName    string
	UserID      string
	InterviewID string
	Questions   []string
	// FeedbackID, when set, makes feedback generation overwrite that record.
	FeedbackID string
}

// State is a point-in-time copy of the controller's view of the call.
type State struct {
	Status        Status
	Transcript    []model.TranscriptTurn
	Speaking      bool
	FeedbackReady bool
	FeedbackID    string
	LastError     string
}

type Controller struct {
	dialer   voice.Dialer
	feedback FeedbackGenerator
	cfg      Config

	mu            sync.Mutex
	status        Status
	session       Session
	transcript    []model.TranscriptTurn
	speaking      bool
	manuallyEnded bool
	starting      bool
	latch         latch
	feedbackReady bool
	feedbackID    string
	lastErr       string
	channel       voice.Channel
	done          chan struct{}

	statusListeners   []func(Status)
	feedbackListeners []func(feedbackID string, err error)
}

func NewController(dialer voice.Dialer, feedback FeedbackGenerator, cfg Config) *Controller {
	return &Controller{
		dialer:   dialer,
		feedback: feedback,
		cfg:      cfg,
		status:   StatusInactive,
	}
}

// OnStatusChange registers fn to be called after every status transition.
func (c *Controller) OnStatusChange(fn func(Status)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusListeners = append(c.statusListeners, fn)
}

// OnFeedback registers fn to be called after each feedback generation attempt.
func (c *Controller) OnFeedback(fn func(feedbackID string, err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedbackListeners = append(c.feedbackListeners, fn)
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	transcript := make([]model.TranscriptTurn, len(c.transcript))
	copy(transcript, c.transcript)
	return State{
		Status:        c.status,
		Transcript:    transcript,
		Speaking:      c.speaking,
		FeedbackReady: c.feedbackReady,
		FeedbackID:    c.feedbackID,
		LastError:     c.lastErr,
	}
}

// Start opens a new call. Without a user id it logs a warning and does nothing.
func (c *Controller) Start(ctx context.Context, sess Session) error {
	if sess.UserID == "" {
		log.Warn().Str("mode", string(sess.Mode)).Msg("call: start ignored, no user id")
		return nil
	}
	if sess.Mode == "" {
		sess.Mode = ModeInterview
	}

	c.mu.Lock()
	if c.starting || c.status.Active() {
		c.mu.Unlock()
		return ErrCallInProgress
	}
	// Held until the status becomes connecting so a concurrent Start cannot slip in.
	c.starting = true
	prevDone := c.done
	c.mu.Unlock()
	// The previous call's event loop must be gone before its state is reset.
	if prevDone != nil {
		<-prevDone
	}

	c.mu.Lock()
	c.session = sess
	c.transcript = nil
	c.speaking = false
	c.manuallyEnded = false
	c.latch = latchArmed
	c.feedbackReady = false
	c.feedbackID = sess.FeedbackID
	c.lastErr = ""
	c.channel = nil
	c.done = nil
	c.starting = false
	listeners := c.setStatus(StatusConnecting)
	c.mu.Unlock()
	notify(listeners, StatusConnecting)

	ch, err := c.dialer.Dial(ctx, c.startRequest(sess))
	if err != nil {
		c.fail(err)
		return fmt.Errorf("call: open channel: %w", err)
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.channel = ch
	c.done = done
	hungUp := c.manuallyEnded
	c.mu.Unlock()
	go c.loop(ch, done)
	if hungUp {
		go stopChannel(ch)
	}
	return nil
}

func (c *Controller) startRequest(sess Session) voice.StartRequest {
	vars := map[string]string{
		"username": sess.UserName,
		"userid":   sess.UserID,
	}
	if sess.Mode == ModeGenerate {
		return voice.StartRequest{AgentID: c.cfg.GenerateAgentID, Variables: vars}
	}
	vars["questions"] = FormatQuestions(sess.Questions)
	return voice.StartRequest{Script: interviewerScript(c.cfg.InterviewTemplateID), Variables: vars}
}

// Hangup ends the call on the user's behalf. The channel is stopped without waiting for confirmation.
func (c *Controller) Hangup() {
	c.mu.Lock()
	if !c.status.Active() {
		c.mu.Unlock()
		return
	}
	c.manuallyEnded = true
	c.speaking = false
	ch := c.channel
	listeners := c.setStatus(StatusFinished)
	c.mu.Unlock()
	notify(listeners, StatusFinished)

	if ch != nil {
		go stopChannel(ch)
	}
}

// RetryFeedback re-runs a failed feedback generation for the last call.
func (c *Controller) RetryFeedback(ctx context.Context) error {
	c.mu.Lock()
	if c.latch != latchFailed || len(c.transcript) == 0 {
		c.mu.Unlock()
		return ErrNothingToRetry
	}
	c.latch = latchFired
	req := c.feedbackRequest()
	c.mu.Unlock()
	return c.generateFeedback(ctx, req)
}

// Wait blocks until the current call's event stream has been fully consumed.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close stops any open channel and waits for its event loop to exit.
func (c *Controller) Close() error {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	var err error
	if ch != nil {
		err = ch.Stop()
	}
	c.Wait()
	return err
}

func (c *Controller) loop(ch voice.Channel, done chan struct{}) {
	defer close(done)
	for ev := range ch.Events() {
		if teardown := c.handle(ev); teardown {
			stopChannel(ch)
		}
	}
}

// handle applies one channel event and reports whether the channel should be torn down.
func (c *Controller) handle(ev voice.Event) bool {
	c.mu.Lock()
	var listeners []func(Status)
	var next Status

	switch ev.Type {
	case voice.EventSessionStart:
		if c.status == StatusConnecting {
			next = StatusConnected
		}
	case voice.EventSpeechStart:
		c.speaking = true
	case voice.EventSpeechEnd:
		c.speaking = false
	case voice.EventTranscript:
		if ev.Final && c.status == StatusConnected && ev.Content != "" {
			c.transcript = append(c.transcript, model.TranscriptTurn{Role: ev.Role, Content: ev.Content})
		}
	case voice.EventSessionEnd:
		c.speaking = false
		if c.status.Active() {
			next = StatusDisconnected
		}
	case voice.EventError:
		c.speaking = false
		if ev.Err != nil {
			c.lastErr = ev.Err.Error()
		}
		log.Error().Err(ev.Err).Str("interviewID", c.session.InterviewID).Msg("call: channel error")
		next = StatusError
	}

	if next != "" {
		listeners = c.setStatus(next)
	}
	shouldScore := next == StatusDisconnected && c.claimLatch()
	var req dto.CreateFeedbackRequest
	if shouldScore {
		req = c.feedbackRequest()
	}
	c.mu.Unlock()

	if next != "" {
		notify(listeners, next)
	}
	if shouldScore {
		// The call is over and no request is ever cancelled, so this is not tied to the caller's context.
		_ = c.generateFeedback(context.Background(), req)
	}
	return ev.Type == voice.EventSessionEnd || ev.Type == voice.EventError
}

// claimLatch fires the latch when this call is eligible for scoring. Caller holds c.mu.
func (c *Controller) claimLatch() bool {
	if c.manuallyEnded || len(c.transcript) == 0 || c.session.Mode != ModeInterview || c.latch != latchArmed {
		return false
	}
	c.latch = latchFired
	return true
}

// feedbackRequest snapshots the transcript. Caller holds c.mu.
func (c *Controller) feedbackRequest() dto.CreateFeedbackRequest {
	transcript := make([]model.TranscriptTurn, len(c.transcript))
	copy(transcript, c.transcript)
	return dto.CreateFeedbackRequest{
		InterviewID: c.session.InterviewID,
		UserID:      c.session.UserID,
		Transcript:  transcript,
		FeedbackID:  c.feedbackID,
	}
}

func (c *Controller) generateFeedback(ctx context.Context, req dto.CreateFeedbackRequest) error {
	resp, err := c.feedback.GenerateFeedback(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.latch = latchFailed
		c.lastErr = err.Error()
	} else {
		c.feedbackReady = true
		c.feedbackID = resp.FeedbackID
	}
	listeners := append([]func(string, error){}, c.feedbackListeners...)
	id := c.feedbackID
	c.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("interviewID", req.InterviewID).Str("userID", req.UserID).Msg("call: feedback generation failed")
	} else {
		log.Info().Str("feedbackID", id).Str("interviewID", req.InterviewID).Msg("call: feedback ready")
	}
	for _, fn := range listeners {
		fn(id, err)
	}
	return err
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.lastErr = err.Error()
	listeners := c.setStatus(StatusError)
	c.mu.Unlock()
	log.Error().Err(err).Msg("call: failed to open channel")
	notify(listeners, StatusError)
}

// setStatus records the transition and returns the listeners to notify once c.mu is released.
func (c *Controller) setStatus(s Status) []func(Status) {
	if c.status == s {
		return nil
	}
	log.Debug().Str("from", string(c.status)).Str("to", string(s)).Msg("call: status")
	c.status = s
	return append([]func(Status){}, c.statusListeners...)
}

func notify(listeners []func(Status), s Status) {
	for _, fn := range listeners {
		fn(s)
	}
}

func stopChannel(ch voice.Channel) {
	if err := ch.Stop(); err != nil {
		log.Warn().Err(err).Msg("call: stopping channel")
	}
}
