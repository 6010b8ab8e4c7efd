package model

// Logical collection names shared by every store backend.
const (
	InterviewCollection = "interviews"
	FeedbackCollection  = "feedback"
	UserCollection      = "users"
)
