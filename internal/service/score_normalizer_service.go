package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lshigami/IntelliHire/internal/model"
)

// ScoreNormalizerService maps model-produced category scores onto the fixed category list.
type ScoreNormalizerService interface {
	// NormalizeCategories returns exactly one entry per model.FeedbackCategories, in that order,
	// with scores clamped to [0, model.MaxScore]. Unknown categories are dropped.
	NormalizeCategories(in []model.CategoryScore) ([]model.CategoryScore, error)
	ClampScore(score int) int
}

type scoreNormalizerServiceImpl struct {
	canonical map[string]string
}

// Names the model tends to use instead of the canonical ones.
var categoryAliases = map[string]string{
	"culturalandrolefit":   model.CategoryCulturalFit,
	"rolefit":              model.CategoryCulturalFit,
	"confidence":           model.CategoryConfidence,
	"communication":        model.CategoryCommunication,
	"technicalskills":      model.CategoryTechnical,
	"problemsolvingskills": model.CategoryProblemSolving,
}

func NewScoreNormalizerService() ScoreNormalizerService {
	canonical := make(map[string]string, len(model.FeedbackCategories)+len(categoryAliases))
	for _, name := range model.FeedbackCategories {
		canonical[categoryKey(name)] = name
	}
	for alias, name := range categoryAliases {
		canonical[alias] = name
	}
	return &scoreNormalizerServiceImpl{canonical: canonical}
}

func (s *scoreNormalizerServiceImpl) NormalizeCategories(in []model.CategoryScore) ([]model.CategoryScore, error) {
	byName := make(map[string]model.CategoryScore, len(in))
	for _, c := range in {
		name, ok := s.canonical[categoryKey(c.Name)]
		if !ok {
			continue
		}
		if _, seen := byName[name]; seen {
			continue
		}
		c.Name = name
		c.Score = s.ClampScore(c.Score)
		c.Comment = strings.TrimSpace(c.Comment)
		byName[name] = c
	}

	out := make([]model.CategoryScore, 0, len(model.FeedbackCategories))
	var missing []string
	for _, name := range model.FeedbackCategories {
		c, ok := byName[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out = append(out, c)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("model response is missing categories: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func (s *scoreNormalizerServiceImpl) ClampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > model.MaxScore:
		return model.MaxScore
	default:
		return score
	}
}

// categoryKey folds case, punctuation and "&" so "Cultural & Role Fit" and "cultural-and-role fit" compare equal.
func categoryKey(name string) string {
	name = strings.ReplaceAll(strings.ToLower(name), "&", "and")
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
