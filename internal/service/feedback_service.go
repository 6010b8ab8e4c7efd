package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/generative-ai-go/genai"
	"github.com/jinzhu/copier"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/repository"
	"github.com/rs/zerolog/log"
)

const feedbackSystemInstruction = "You are a professional interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories"

// FeedbackService scores call transcripts and serves the stored results.
type FeedbackService interface {
	GenerateFeedback(ctx context.Context, req dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error)
	GetFeedback(ctx context.Context, req dto.GetFeedbackRequest) (*dto.FeedbackResponse, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	llm          LLMService
	normalizer   ScoreNormalizerService
}

func NewFeedbackService(repos *repository.Repositories, llm LLMService, normalizer ScoreNormalizerService) FeedbackService {
	return &feedbackService{
		feedbackRepo: repos.Feedback,
		llm:          llm,
		normalizer:   normalizer,
	}
}

// llmFeedback is the object the model is asked to produce.
type llmFeedback struct {
	TotalScore          int                   `json:"totalScore" validate:"gte=0,lte=100"`
	CategoryScores      []model.CategoryScore `json:"categoryScores" validate:"len=5,dive"`
	Strengths           []string              `json:"strengths"`
	AreasForImprovement []string              `json:"areasForImprovement"`
	FinalAssessment     string                `json:"finalAssessment" validate:"required"`
}

var feedbackSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"totalScore": {Type: genai.TypeInteger, Description: "Overall score from 0 to 100"},
		"categoryScores": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":    {Type: genai.TypeString, Enum: model.FeedbackCategories},
					"score":   {Type: genai.TypeInteger},
					"comment": {Type: genai.TypeString},
				},
				Required: []string{"name", "score", "comment"},
			},
		},
		"strengths":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"areasForImprovement": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"finalAssessment":     {Type: genai.TypeString},
	},
	Required: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
}

var categoryDescriptions = map[string]string{
	model.CategoryCommunication:  "Clarity, articulation, structured responses.",
	model.CategoryTechnical:      "Understanding of key concepts for the role.",
	model.CategoryProblemSolving: "Ability to analyze problems and propose solutions.",
	model.CategoryCulturalFit:    "Alignment with company values and job role.",
	model.CategoryConfidence:     "Confidence in responses, engagement, and clarity.",
}

func (s *feedbackService) GenerateFeedback(ctx context.Context, req dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error) {
	if strings.TrimSpace(req.InterviewID) == "" || strings.TrimSpace(req.UserID) == "" || len(req.Transcript) == 0 {
		return nil, NewValidationError("Missing required fields")
	}
	if err := validateTranscript(req.Transcript); err != nil {
		return nil, err
	}

	var raw llmFeedback
	err := s.llm.GenerateObject(ctx, feedbackSystemInstruction, buildFeedbackPrompt(req.Transcript), feedbackSchema, &raw)
	switch {
	case offSchema(err) && len(raw.CategoryScores) > 0:
		// Decoded but off-schema. The normalizer decides whether it is usable.
		log.Warn().Err(err).Str("interviewID", req.InterviewID).Msg("GenerateFeedback: model output failed validation, normalizing")
	case err != nil:
		log.Error().Err(err).Str("interviewID", req.InterviewID).Str("userID", req.UserID).Msg("GenerateFeedback: LLM call failed")
		return nil, upstream("score transcript", err)
	}

	categories, err := s.normalizer.NormalizeCategories(raw.CategoryScores)
	if err != nil {
		log.Error().Err(err).Str("interviewID", req.InterviewID).Msg("GenerateFeedback: unusable category scores")
		return nil, upstream("score transcript", err)
	}

	feedback := &model.Feedback{
		ID:                  strings.TrimSpace(req.FeedbackID),
		InterviewID:         req.InterviewID,
		UserID:              req.UserID,
		TotalScore:          s.normalizer.ClampScore(raw.TotalScore),
		CategoryScores:      categories,
		Strengths:           nonNil(raw.Strengths),
		AreasForImprovement: nonNil(raw.AreasForImprovement),
		FinalAssessment:     strings.TrimSpace(raw.FinalAssessment),
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.feedbackRepo.Save(ctx, feedback); err != nil {
		log.Error().Err(err).Str("interviewID", req.InterviewID).Msg("GenerateFeedback: failed to persist feedback")
		return nil, upstream("save feedback", err)
	}
	log.Info().Str("feedbackID", feedback.ID).Str("interviewID", feedback.InterviewID).Int("totalScore", feedback.TotalScore).Msg("Feedback saved")

	resp, err := toFeedbackResponse(feedback)
	if err != nil {
		return nil, err
	}
	return &dto.CreateFeedbackResponse{Success: true, FeedbackID: feedback.ID, Feedback: resp}, nil
}

func (s *feedbackService) GetFeedback(ctx context.Context, req dto.GetFeedbackRequest) (*dto.FeedbackResponse, error) {
	if strings.TrimSpace(req.InterviewID) == "" || strings.TrimSpace(req.UserID) == "" {
		return nil, NewValidationError("Missing interviewId or userId")
	}
	feedback, err := s.feedbackRepo.FindByInterviewAndUser(ctx, req.InterviewID, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Feedback not found"}
	}
	if err != nil {
		return nil, upstream("get feedback", err)
	}
	return toFeedbackResponse(feedback)
}

// offSchema reports whether err is a ParseError from validation alone. A decode error leaves raw
// partially filled, so it is never normalized.
func offSchema(err error) bool {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return false
	}
	var verrs validator.ValidationErrors
	return errors.As(perr.Err, &verrs)
}

func validateTranscript(turns []model.TranscriptTurn) error {
	for i, t := range turns {
		switch t.Role {
		case model.RoleAssistant, model.RoleUser, model.RoleSystem:
		default:
			return NewValidationError("transcript[%d]: invalid role %q", i, t.Role)
		}
		if strings.TrimSpace(t.Content) == "" {
			return NewValidationError("transcript[%d]: content is empty", i)
		}
	}
	return nil
}

// FormatTranscript renders turns as "- role: content" lines in call order.
func FormatTranscript(turns []model.TranscriptTurn) string {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "- %s: %s\n", t.Role, t.Content)
	}
	return b.String()
}

func buildFeedbackPrompt(turns []model.TranscriptTurn) string {
	var b strings.Builder
	b.WriteString("You are an AI interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories. ")
	b.WriteString("Be thorough and detailed in your analysis. Don't be lenient with the candidate. If there are mistakes or areas for improvement, point them out.\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(FormatTranscript(turns))
	b.WriteString("\nPlease score the candidate from 0 to 100 in the following areas, in this exact order. Do not add categories other than the ones provided:\n")
	for _, name := range model.FeedbackCategories {
		fmt.Fprintf(&b, "- **%s**: %s\n", name, categoryDescriptions[name])
	}
	return b.String()
}

func toFeedbackResponse(feedback *model.Feedback) (*dto.FeedbackResponse, error) {
	var resp dto.FeedbackResponse
	if err := copier.Copy(&resp, feedback); err != nil {
		return nil, fmt.Errorf("error preparing feedback response: %w", err)
	}
	return &resp, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
