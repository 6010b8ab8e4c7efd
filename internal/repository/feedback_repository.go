package repository

import (
	"context"

	"github.com/lshigami/IntelliHire/internal/model"
	"gorm.io/gorm"
)

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Save(ctx context.Context, feedback *model.Feedback) error {
	if feedback.ID == "" {
		return r.db.WithContext(ctx).Create(feedback).Error
	}
	// Save updates every column when the row exists and inserts it otherwise.
	return r.db.WithContext(ctx).Save(feedback).Error
}

func (r *feedbackRepository) FindByInterviewAndUser(ctx context.Context, interviewID, userID string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).
		Where("interview_id = ? AND user_id = ?", interviewID, userID).
		Order("created_at DESC").
		First(&feedback).Error
	if err != nil {
		return nil, translate(err)
	}
	return &feedback, nil
}
