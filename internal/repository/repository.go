package repository

import (
	"context"
	"errors"

	"github.com/lshigami/IntelliHire/internal/model"
)

// ErrNotFound is returned by every backend when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

type InterviewRepository interface {
	Create(ctx context.Context, interview *model.Interview) error
	FindByID(ctx context.Context, id string) (*model.Interview, error)
	// FindByUserID returns the user's interviews, newest first.
	FindByUserID(ctx context.Context, userID string) ([]model.Interview, error)
	// FindLatest returns finalized interviews owned by anyone except excludeUserID, newest first.
	FindLatest(ctx context.Context, excludeUserID string, limit int) ([]model.Interview, error)
}

type FeedbackRepository interface {
	// Save creates a record when feedback.ID is empty and overwrites the record with that id otherwise.
	Save(ctx context.Context, feedback *model.Feedback) error
	// FindByInterviewAndUser returns the most recent feedback for the pair.
	FindByInterviewAndUser(ctx context.Context, interviewID, userID string) (*model.Feedback, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Repositories groups the three collections so a backend can be swapped as one unit.
type Repositories struct {
	Interviews InterviewRepository
	Feedback   FeedbackRepository
	Users      UserRepository
}
