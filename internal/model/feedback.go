package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scoring categories in the order they are always returned.
const (
	CategoryCommunication  = "Communication Skills"
	CategoryTechnical      = "Technical Knowledge"
	CategoryProblemSolving = "Problem-Solving"
	CategoryCulturalFit    = "Cultural Fit"
	CategoryConfidence     = "Confidence and Clarity"
)

const MaxScore = 100

var FeedbackCategories = []string{
	CategoryCommunication,
	CategoryTechnical,
	CategoryProblemSolving,
	CategoryCulturalFit,
	CategoryConfidence,
}

type CategoryScore struct {
	Name    string `json:"name" firestore:"name" validate:"required"`
	Score   int    `json:"score" firestore:"score" validate:"gte=0,lte=100"`
	Comment string `json:"comment" firestore:"comment"`
}

// Feedback is keyed logically by (InterviewID, UserID). The pair is indexed but not unique:
// calls without an explicit feedback id create a new record each time.
type Feedback struct {
	ID                  string          `gorm:"primaryKey;size:64" json:"id" firestore:"-"`
	InterviewID         string          `gorm:"index:idx_feedback_interview_user;not null" json:"interviewId" firestore:"interviewId"`
	UserID              string          `gorm:"index:idx_feedback_interview_user;not null" json:"userId" firestore:"userId"`
	TotalScore          int             `json:"totalScore" firestore:"totalScore"`
	CategoryScores      []CategoryScore `gorm:"serializer:json" json:"categoryScores" firestore:"categoryScores"`
	Strengths           []string        `gorm:"serializer:json" json:"strengths" firestore:"strengths"`
	AreasForImprovement []string        `gorm:"serializer:json" json:"areasForImprovement" firestore:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment" firestore:"finalAssessment"`
	CreatedAt           time.Time       `gorm:"index" json:"createdAt" firestore:"createdAt"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
