package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"github.com/lshigami/IntelliHire/internal/dto"
	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRole            = "Software Developer"
	DefaultLevel           = "mid"
	DefaultType            = "technical"
	DefaultAmount          = 5
	MaxAmount              = 50
	defaultPromptTechStack = "JavaScript"
	DefaultLatestLimit     = 20
)

type InterviewService interface {
	GenerateInterview(ctx context.Context, req dto.GenerateInterviewRequest) (*dto.GenerateInterviewResponse, error)
	GetInterview(ctx context.Context, id string) (*dto.InterviewResponse, error)
	ListUserInterviews(ctx context.Context, userID string) ([]dto.InterviewResponse, error)
	ListLatestInterviews(ctx context.Context, excludeUserID string, limit int) ([]dto.InterviewResponse, error)
}

type interviewService struct {
	interviewRepo repository.InterviewRepository
	llm           LLMService
	validate      *validator.Validate
}

func NewInterviewService(repos *repository.Repositories, llm LLMService) InterviewService {
	return &interviewService{
		interviewRepo: repos.Interviews,
		llm:           llm,
		validate:      validator.New(),
	}
}

func (s *interviewService) GenerateInterview(ctx context.Context, req dto.GenerateInterviewRequest) (*dto.GenerateInterviewResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, NewValidationError("Missing 'userid' field in request body.")
	}

	role := firstNonEmpty(req.Role, DefaultRole)
	level := firstNonEmpty(req.Level, DefaultLevel)
	kind := firstNonEmpty(req.Type, DefaultType)
	amount := int(req.Amount)
	if amount <= 0 {
		amount = DefaultAmount
	}
	if amount > MaxAmount {
		amount = MaxAmount
	}
	techStack := []string(req.TechStack)
	if techStack == nil {
		techStack = []string{}
	}

	prompt := buildQuestionPrompt(role, level, kind, techStack, amount)
	text, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GenerateInterview: LLM call failed")
		return nil, upstream("generate questions", err)
	}
	questions := parseQuestions(s.validate, text, amount)

	now := time.Now().UTC()
	interview := &model.Interview{
		Role:      role,
		Level:     level,
		Type:      kind,
		TechStack: techStack,
		Questions: questions,
		UserID:    userID,
		Finalized: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.interviewRepo.Create(ctx, interview); err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("GenerateInterview: failed to persist interview")
		return nil, upstream("save interview", err)
	}
	log.Info().Str("interviewID", interview.ID).Str("userID", userID).Int("questions", len(questions)).Msg("Interview generated")

	saved, err := toInterviewResponse(interview)
	if err != nil {
		return nil, err
	}
	return &dto.GenerateInterviewResponse{
		Success:     true,
		InterviewID: interview.ID,
		Questions:   questions,
		Saved:       saved,
	}, nil
}

func buildQuestionPrompt(role, level, kind string, techStack []string, amount int) string {
	stack := strings.Join(techStack, ", ")
	if stack == "" {
		stack = defaultPromptTechStack
	}
	var b strings.Builder
	b.WriteString("Prepare questions for a job interview.\n")
	fmt.Fprintf(&b, "The job role is %s.\n", role)
	fmt.Fprintf(&b, "The job experience level is %s.\n", level)
	fmt.Fprintf(&b, "The tech stack used in the job is: %s.\n", stack)
	fmt.Fprintf(&b, "The focus between behavioural and technical questions should lean towards: %s.\n", kind)
	fmt.Fprintf(&b, "The amount of questions required is: %d.\n", amount)
	b.WriteString("Please return only the questions, without any additional text.\n")
	b.WriteString("The questions are going to be read by a voice assistant so do not use \"/\" or \"*\" or any other special characters which might break the voice assistant.\n")
	b.WriteString(`Return the questions formatted like this: ["Question 1", "Question 2", "Question 3"]`)
	return b.String()
}

func (s *interviewService) GetInterview(ctx context.Context, id string) (*dto.InterviewResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewValidationError("Missing interview ID")
	}
	interview, err := s.interviewRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Interview not found"}
	}
	if err != nil {
		return nil, upstream("get interview", err)
	}
	return toInterviewResponse(interview)
}

func (s *interviewService) ListUserInterviews(ctx context.Context, userID string) ([]dto.InterviewResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewValidationError("Missing userId")
	}
	interviews, err := s.interviewRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, upstream("list interviews", err)
	}
	return toInterviewResponses(interviews)
}

func (s *interviewService) ListLatestInterviews(ctx context.Context, excludeUserID string, limit int) ([]dto.InterviewResponse, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	interviews, err := s.interviewRepo.FindLatest(ctx, excludeUserID, limit)
	if err != nil {
		return nil, upstream("list latest interviews", err)
	}
	return toInterviewResponses(interviews)
}

func toInterviewResponse(interview *model.Interview) (*dto.InterviewResponse, error) {
	var resp dto.InterviewResponse
	if err := copier.Copy(&resp, interview); err != nil {
		return nil, fmt.Errorf("error preparing interview response: %w", err)
	}
	return &resp, nil
}

func toInterviewResponses(interviews []model.Interview) ([]dto.InterviewResponse, error) {
	out := make([]dto.InterviewResponse, 0, len(interviews))
	if len(interviews) == 0 {
		return out, nil
	}
	if err := copier.Copy(&out, &interviews); err != nil {
		return nil, fmt.Errorf("error preparing interview list: %w", err)
	}
	return out, nil
}

func firstNonEmpty(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
