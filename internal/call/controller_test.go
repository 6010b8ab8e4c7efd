package call

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	events chan voice.Event
	once   sync.Once
	stops  int
	mu     sync.Mutex
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan voice.Event, 32)}
}

func (c *fakeChannel) Events() <-chan voice.Event { return c.events }

func (c *fakeChannel) Stop() error {
	c.mu.Lock()
	c.stops++
	c.mu.Unlock()
	c.once.Do(func() { close(c.events) })
	return nil
}

func (c *fakeChannel) stopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

type fakeDialer struct {
	ch   *fakeChannel
	err  error
	reqs []voice.StartRequest
}

func (d *fakeDialer) Dial(ctx context.Context, req voice.StartRequest) (voice.Channel, error) {
	d.reqs = append(d.reqs, req)
	if d.err != nil {
		return nil, d.err
	}
	return d.ch, nil
}

type fakeFeedback struct {
	mu   sync.Mutex
	reqs []dto.CreateFeedbackRequest
	errs []error
}

func (f *fakeFeedback) GenerateFeedback(ctx context.Context, req dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	id := req.FeedbackID
	if id == "" {
		id = "fb1"
	}
	return &dto.CreateFeedbackResponse{Success: true, FeedbackID: id}, nil
}

func (f *fakeFeedback) calls() []dto.CreateFeedbackRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.CreateFeedbackRequest{}, f.reqs...)
}

type statusRecorder struct {
	mu  sync.Mutex
	seq []Status
}

func (r *statusRecorder) record(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = append(r.seq, s)
}

func (r *statusRecorder) statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status{}, r.seq...)
}

type harness struct {
	ctrl     *Controller
	ch       *fakeChannel
	dialer   *fakeDialer
	feedback *fakeFeedback
	statuses *statusRecorder
}

func newHarness() *harness {
	ch := newFakeChannel()
	h := &harness{
		ch:       ch,
		dialer:   &fakeDialer{ch: ch},
		feedback: &fakeFeedback{},
		statuses: &statusRecorder{},
	}
	h.ctrl = NewController(h.dialer, h.feedback, Config{GenerateAgentID: "agent-gen", InterviewTemplateID: "tmpl-1"})
	h.ctrl.OnStatusChange(h.statuses.record)
	return h
}

func (h *harness) send(evs ...voice.Event) {
	for _, ev := range evs {
		h.ch.events <- ev
	}
}

func interviewSession() Session {
	return Session{
		Mode:        ModeInterview,
		UserName:    "Ada",
		UserID:      "u1",
		InterviewID: "iv1",
		Questions:   []string{"Q1", "Q2"},
	}
}

func final(role, content string) voice.Event {
	return voice.Event{Type: voice.EventTranscript, Role: role, Content: content, Final: true}
}

var (
	sessionStart = voice.Event{Type: voice.EventSessionStart}
	sessionEnd   = voice.Event{Type: voice.EventSessionEnd}
)

func TestInterviewCallScoresTranscriptOnce(t *testing.T) {
	h := newHarness()
	var notified []string
	h.ctrl.OnFeedback(func(id string, err error) {
		assert.NoError(t, err)
		notified = append(notified, id)
	})

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	h.send(
		sessionStart,
		voice.Event{Type: voice.EventSpeechStart, Role: model.RoleAssistant},
		final(model.RoleAssistant, "Tell me about yourself"),
		voice.Event{Type: voice.EventTranscript, Role: model.RoleUser, Content: "I have", Final: false},
		final(model.RoleUser, "I have 5 years of React experience"),
		final(model.RoleUser, ""),
		sessionEnd,
	)
	h.ctrl.Wait()

	assert.Equal(t, []Status{StatusConnecting, StatusConnected, StatusDisconnected}, h.statuses.statuses())

	calls := h.feedback.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "iv1", calls[0].InterviewID)
	assert.Equal(t, "u1", calls[0].UserID)
	assert.Equal(t, []model.TranscriptTurn{
		{Role: model.RoleAssistant, Content: "Tell me about yourself"},
		{Role: model.RoleUser, Content: "I have 5 years of React experience"},
	}, calls[0].Transcript)
	assert.Equal(t, []string{"fb1"}, notified)

	state := h.ctrl.State()
	assert.Equal(t, StatusDisconnected, state.Status)
	assert.True(t, state.FeedbackReady)
	assert.Equal(t, "fb1", state.FeedbackID)
	assert.False(t, state.Speaking)
	assert.Equal(t, 1, h.ch.stopCount())

	assert.ErrorIs(t, h.ctrl.RetryFeedback(context.Background()), ErrNothingToRetry)
	assert.Len(t, h.feedback.calls(), 1)
}

func TestInterviewCallPassesFeedbackIDThrough(t *testing.T) {
	h := newHarness()
	sess := interviewSession()
	sess.FeedbackID = "existing"

	require.NoError(t, h.ctrl.Start(context.Background(), sess))
	h.send(sessionStart, final(model.RoleUser, "hello"), sessionEnd)
	h.ctrl.Wait()

	calls := h.feedback.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "existing", calls[0].FeedbackID)
	assert.Equal(t, "existing", h.ctrl.State().FeedbackID)
}

func TestHangupSkipsFeedback(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	h.send(sessionStart, final(model.RoleUser, "hello"))
	require.Eventually(t, func() bool { return len(h.ctrl.State().Transcript) == 1 }, time.Second, 5*time.Millisecond)

	h.ctrl.Hangup()
	h.ctrl.Wait()

	assert.Equal(t, []Status{StatusConnecting, StatusConnected, StatusFinished}, h.statuses.statuses())
	assert.Equal(t, StatusFinished, h.ctrl.Status())
	assert.Empty(t, h.feedback.calls())
	assert.GreaterOrEqual(t, h.ch.stopCount(), 1)

	// Hangup on an inactive call is a no-op.
	h.ctrl.Hangup()
	assert.Equal(t, StatusFinished, h.ctrl.Status())
}

func TestGenerateModeNeverScores(t *testing.T) {
	h := newHarness()
	sess := interviewSession()
	sess.Mode = ModeGenerate

	require.NoError(t, h.ctrl.Start(context.Background(), sess))
	h.send(sessionStart, final(model.RoleUser, "a frontend role please"), sessionEnd)
	h.ctrl.Wait()

	assert.Equal(t, StatusDisconnected, h.ctrl.Status())
	assert.Empty(t, h.feedback.calls())

	require.Len(t, h.dialer.reqs, 1)
	req := h.dialer.reqs[0]
	assert.Equal(t, "agent-gen", req.AgentID)
	assert.Nil(t, req.Script)
	assert.Equal(t, map[string]string{"username": "Ada", "userid": "u1"}, req.Variables)
}

func TestInterviewModeStartRequest(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	h.send(sessionEnd)
	h.ctrl.Wait()

	require.Len(t, h.dialer.reqs, 1)
	req := h.dialer.reqs[0]
	assert.Empty(t, req.AgentID)
	require.NotNil(t, req.Script)
	assert.Equal(t, "tmpl-1", req.Script.TemplateID)
	assert.Contains(t, req.Script.SystemPrompt, "{{questions}}")
	assert.Equal(t, "- Q1\n- Q2", req.Variables["questions"])
}

func TestEmptyTranscriptSkipsFeedback(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	// Transcripts that arrive before the session is up are not recorded.
	h.send(final(model.RoleUser, "too early"), sessionStart, sessionEnd)
	h.ctrl.Wait()

	assert.Equal(t, StatusDisconnected, h.ctrl.Status())
	assert.Empty(t, h.ctrl.State().Transcript)
	assert.Empty(t, h.feedback.calls())
}

func TestChannelErrorSetsErrorStatus(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	h.send(sessionStart, final(model.RoleUser, "hello"), voice.Event{Type: voice.EventError, Err: errors.New("boom")})
	h.ctrl.Wait()

	state := h.ctrl.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "boom", state.LastError)
	assert.Empty(t, h.feedback.calls())
	assert.Equal(t, 1, h.ch.stopCount())
}

func TestStartWithoutUserIDIsNoop(t *testing.T) {
	h := newHarness()
	sess := interviewSession()
	sess.UserID = ""

	require.NoError(t, h.ctrl.Start(context.Background(), sess))
	assert.Equal(t, StatusInactive, h.ctrl.Status())
	assert.Empty(t, h.dialer.reqs)
	assert.Empty(t, h.statuses.statuses())
}

func TestStartWhileActive(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	assert.ErrorIs(t, h.ctrl.Start(context.Background(), interviewSession()), ErrCallInProgress)
	require.NoError(t, h.ctrl.Close())
	assert.Len(t, h.dialer.reqs, 1)
}

type blockingDialer struct {
	ch      *fakeChannel
	release chan struct{}
	dials   atomic.Int32
}

func (d *blockingDialer) Dial(ctx context.Context, req voice.StartRequest) (voice.Channel, error) {
	d.dials.Add(1)
	<-d.release
	return d.ch, nil
}

func TestConcurrentStartDialsOnce(t *testing.T) {
	d := &blockingDialer{ch: newFakeChannel(), release: make(chan struct{})}
	ctrl := NewController(d, &fakeFeedback{}, Config{InterviewTemplateID: "tmpl-1"})

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- ctrl.Start(context.Background(), interviewSession())
		}()
	}
	require.Eventually(t, func() bool { return d.dials.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(d.release)
	wg.Wait()
	close(errs)

	var ok, busy int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrCallInProgress):
			busy++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, busy)
	assert.EqualValues(t, 1, d.dials.Load())
	require.NoError(t, ctrl.Close())
}

func TestDialFailure(t *testing.T) {
	h := newHarness()
	h.dialer.err = errors.New("no route")

	err := h.ctrl.Start(context.Background(), interviewSession())
	require.Error(t, err)
	state := h.ctrl.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "no route", state.LastError)
	assert.Equal(t, []Status{StatusConnecting, StatusError}, h.statuses.statuses())
}

func TestRetryFeedbackAfterFailure(t *testing.T) {
	h := newHarness()
	h.feedback.errs = []error{errors.New("model unavailable")}

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	h.send(sessionStart, final(model.RoleUser, "hello"), sessionEnd)
	h.ctrl.Wait()

	state := h.ctrl.State()
	assert.False(t, state.FeedbackReady)
	assert.Equal(t, "model unavailable", state.LastError)

	require.NoError(t, h.ctrl.RetryFeedback(context.Background()))
	state = h.ctrl.State()
	assert.True(t, state.FeedbackReady)
	assert.Equal(t, "fb1", state.FeedbackID)

	calls := h.feedback.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].Transcript, calls[1].Transcript)
	assert.ErrorIs(t, h.ctrl.RetryFeedback(context.Background()), ErrNothingToRetry)
}

func TestNewCallResetsState(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	h.send(sessionStart, final(model.RoleUser, "first"), sessionEnd)
	h.ctrl.Wait()
	require.True(t, h.ctrl.State().FeedbackReady)

	h.ch = newFakeChannel()
	h.dialer.ch = h.ch
	require.NoError(t, h.ctrl.Start(context.Background(), interviewSession()))
	state := h.ctrl.State()
	assert.Equal(t, StatusConnecting, state.Status)
	assert.Empty(t, state.Transcript)
	assert.False(t, state.FeedbackReady)
	assert.Empty(t, state.LastError)

	h.send(sessionStart, final(model.RoleUser, "second"), sessionEnd)
	h.ctrl.Wait()
	calls := h.feedback.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "second", calls[1].Transcript[0].Content)
}

func TestFormatQuestions(t *testing.T) {
	assert.Equal(t, "- a\n- b", FormatQuestions([]string{" a ", "", "b"}))
	assert.Equal(t, "", FormatQuestions(nil))
}
