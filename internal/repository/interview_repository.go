package repository

import (
	"context"

	"github.com/lshigami/IntelliHire/internal/model"
	"gorm.io/gorm"
)

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	return r.db.WithContext(ctx).Create(interview).Error
}

func (r *interviewRepository) FindByID(ctx context.Context, id string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.WithContext(ctx).First(&interview, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindByUserID(ctx context.Context, userID string) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interviews).Error
	return interviews, err
}

func (r *interviewRepository) FindLatest(ctx context.Context, excludeUserID string, limit int) ([]model.Interview, error) {
	var interviews []model.Interview
	q := r.db.WithContext(ctx).Where("finalized = ?", true)
	if excludeUserID != "" {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&interviews).Error
	return interviews, err
}
