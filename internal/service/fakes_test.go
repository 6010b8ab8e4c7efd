package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/repository"
)

type fakeLLM struct {
	text   string
	object string
	err    error

	calls      int
	lastPrompt string
	lastSystem string
	lastSchema *genai.Schema
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.text, f.err
}

func (f *fakeLLM) GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	f.lastSchema = schema
	if f.err != nil {
		return f.err
	}
	return decodeStrict(validator.New(), f.object, out)
}

type memInterviewRepo struct {
	mu        sync.Mutex
	items     []model.Interview
	createErr error
	seq       int
}

func (r *memInterviewRepo) Create(ctx context.Context, interview *model.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	if interview.ID == "" {
		interview.ID = fmt.Sprintf("iv-%d", r.seq)
	}
	r.items = append(r.items, *interview)
	return nil
}

func (r *memInterviewRepo) FindByID(ctx context.Context, id string) (*model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			iv := r.items[i]
			return &iv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memInterviewRepo) FindByUserID(ctx context.Context, userID string) ([]model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Interview
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *memInterviewRepo) FindLatest(ctx context.Context, excludeUserID string, limit int) ([]model.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Interview
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		if r.items[i].Finalized && r.items[i].UserID != excludeUserID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

type memFeedbackRepo struct {
	mu      sync.Mutex
	items   map[string]model.Feedback
	order   map[string]int
	seq     int
	saves   int
	saveErr error
}

func newMemFeedbackRepo() *memFeedbackRepo {
	return &memFeedbackRepo{items: map[string]model.Feedback{}, order: map[string]int{}}
}

func (r *memFeedbackRepo) Save(ctx context.Context, feedback *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.seq++
	r.saves++
	if feedback.ID == "" {
		feedback.ID = fmt.Sprintf("fb-%d", r.seq)
	}
	r.items[feedback.ID] = *feedback
	r.order[feedback.ID] = r.seq
	return nil
}

func (r *memFeedbackRepo) FindByInterviewAndUser(ctx context.Context, interviewID, userID string) (*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []model.Feedback
	for _, fb := range r.items {
		if fb.InterviewID == interviewID && fb.UserID == userID {
			matches = append(matches, fb)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return r.order[matches[i].ID] > r.order[matches[j].ID] })
	return &matches[0], nil
}

type memUserRepo struct {
	items map[string]model.User
}

func (r *memUserRepo) Upsert(ctx context.Context, user *model.User) error {
	r.items[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

const sampleFeedbackJSON = `{
  "totalScore": 72,
  "categoryScores": [
    {"name": "Technical Knowledge", "score": 80, "comment": "Solid React background."},
    {"name": "Communication Skills", "score": 75, "comment": "Clear answers."},
    {"name": "Cultural & Role Fit", "score": 70, "comment": "Good alignment."},
    {"name": "Problem-Solving", "score": 65, "comment": "Needs deeper examples."},
    {"name": "Confidence & Clarity", "score": 70, "comment": "Confident."}
  ],
  "strengths": ["React experience"],
  "areasForImprovement": ["Give concrete examples"],
  "finalAssessment": "A capable candidate."
}`
