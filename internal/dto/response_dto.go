package dto

import (
	"time"

	"github.com/lshigami/IntelliHire/internal/model"
)

type InterviewResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Level     string    `json:"level"`
	Type      string    `json:"type"`
	TechStack []string  `json:"techstack"`
	Questions []string  `json:"questions"`
	UserID    string    `json:"userId"`
	Finalized bool      `json:"finalized"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FeedbackResponse struct {
	ID                  string                `json:"id"`
	InterviewID         string                `json:"interviewId"`
	UserID              string                `json:"userId"`
	TotalScore          int                   `json:"totalScore"`
	CategoryScores      []model.CategoryScore `json:"categoryScores"`
	Strengths           []string              `json:"strengths"`
	AreasForImprovement []string              `json:"areasForImprovement"`
	FinalAssessment     string                `json:"finalAssessment"`
	CreatedAt           time.Time             `json:"createdAt"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type GenerateInterviewResponse struct {
	Success     bool               `json:"success"`
	InterviewID string             `json:"interviewId"`
	Questions   []string           `json:"questions"`
	Saved       *InterviewResponse `json:"saved"`
}

type CreateFeedbackResponse struct {
	Success    bool              `json:"success"`
	FeedbackID string            `json:"feedbackId"`
	Feedback   *FeedbackResponse `json:"feedback"`
}

type GetFeedbackResponse struct {
	Success  bool              `json:"success"`
	Feedback *FeedbackResponse `json:"feedback"`
}

type GetInterviewResponse struct {
	Success   bool               `json:"success"`
	Interview *InterviewResponse `json:"interview"`
}

type ListInterviewsResponse struct {
	Success    bool                `json:"success"`
	Interviews []InterviewResponse `json:"interviews"`
}

type UserEnvelope struct {
	Success bool          `json:"success"`
	User    *UserResponse `json:"user"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
