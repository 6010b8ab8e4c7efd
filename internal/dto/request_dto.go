package dto

import "github.com/lshigami/IntelliHire/internal/model"

// GenerateInterviewRequest is sent by the web form and by the voice agent's tool call.
// Every field but UserID has a default.
type GenerateInterviewRequest struct {
	Role      string     `json:"role" example:"Frontend Developer"`
	Level     string     `json:"level" example:"junior"`
	Type      string     `json:"type" example:"technical"`
	TechStack StringList `json:"techstack" swaggertype:"array,string" example:"React,TypeScript"`
	Amount    FlexInt    `json:"amount" swaggertype:"integer" example:"5"`
	UserID    string     `json:"userid" example:"u1"`
}

type CreateFeedbackRequest struct {
	InterviewID string                 `json:"interviewId" example:"iv1"`
	UserID      string                 `json:"userId" example:"u1"`
	Transcript  []model.TranscriptTurn `json:"transcript"`
	FeedbackID  string                 `json:"feedbackId,omitempty"` // Optional: overwrite this record instead of creating one
}

// GetFeedbackRequest binds from either the query string or a JSON body.
type GetFeedbackRequest struct {
	InterviewID string `json:"interviewId" form:"interviewId"`
	UserID      string `json:"userId" form:"userId"`
}

type UpsertUserRequest struct {
	ID       string `json:"id" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
}

type ListInterviewsQuery struct {
	UserID string `form:"userId"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
