package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/IntelliHire/config"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// LLMService is the narrow surface the interview and feedback flows need from a hosted model.
type LLMService interface {
	// GenerateText returns the raw completion for prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateObject asks for JSON matching schema and decodes it into out, which is then
	// validated with its `validate` tags. Decode or validation failures are *ParseError.
	GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error
}

var ErrLLMUnavailable = errors.New("gemini client not initialized")

type geminiLLMService struct {
	client    *genai.Client
	modelName string
	validate  *validator.Validate
}

func NewGeminiLLMService(lc fx.Lifecycle, cfg *config.Config) (LLMService, error) {
	svc := &geminiLLMService{modelName: cfg.GeminiModel, validate: validator.New()}
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. LLMService will be non-functional.")
		return svc, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	svc.client = client
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return svc, nil
}

func (s *geminiLLMService) model(system string, schema *genai.Schema) (*genai.GenerativeModel, error) {
	if s.client == nil {
		return nil, ErrLLMUnavailable
	}
	m := s.client.GenerativeModel(s.modelName)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if schema != nil {
		m.ResponseMIMEType = "application/json"
		m.ResponseSchema = schema
	}
	return m, nil
}

func (s *geminiLLMService) GenerateText(ctx context.Context, prompt string) (string, error) {
	m, err := s.model("", nil)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, m, prompt)
}

func (s *geminiLLMService) GenerateObject(ctx context.Context, system, prompt string, schema *genai.Schema, out any) error {
	m, err := s.model(system, schema)
	if err != nil {
		return err
	}
	text, err := s.generate(ctx, m, prompt)
	if err != nil {
		return err
	}
	return decodeStrict(s.validate, text, out)
}

func (s *geminiLLMService) generate(ctx context.Context, m *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("model", s.modelName).Msg("Gemini API error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", errors.New("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned no text content")
	}
	return sb.String(), nil
}

// decodeStrict unmarshals model output into out and validates it.
func decodeStrict(v *validator.Validate, text string, out any) error {
	clean := stripCodeFence(text)
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		return &ParseError{Raw: text, Err: err}
	}
	if err := v.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// out is not a struct, there is nothing to validate
			return nil
		}
		return &ParseError{Raw: text, Err: err}
	}
	return nil
}

// stripCodeFence removes a ```json ... ``` wrapper models like to add around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
