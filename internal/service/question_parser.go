package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	enumerationMarker = regexp.MustCompile(`^(?:\d+\s*[.):-]|[-*•])\s*`)
	surroundingQuotes = "\"'“”‘’`"
)

// parseQuestions turns a model completion into a question list. It prefers a JSON array of strings
// and falls back to splitting lines only when the text is not one. It never fails; the result may be empty.
func parseQuestions(v *validator.Validate, text string, amount int) []string {
	questions, err := decodeQuestions(v, text)
	if err == nil {
		if amount > 0 && len(questions) > amount {
			questions = questions[:amount]
		}
		return questions
	}
	log.Warn().Err(err).Int("length", len(text)).Msg("Question list was not strict JSON, falling back to line splitting")
	return splitQuestionLines(text)
}

// decodeQuestions accepts any JSON array of strings. Blank entries are dropped, the rest kept in order.
func decodeQuestions(v *validator.Validate, text string) ([]string, error) {
	var raw []string
	if err := decodeStrict(v, text, &raw); err != nil {
		return nil, err
	}
	questions := make([]string, 0, len(raw))
	for _, q := range raw {
		q = strings.TrimSpace(q)
		if v.Var(q, "required") != nil {
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func splitQuestionLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "["))
		line = strings.TrimSpace(strings.TrimRight(line, "]"))
		line = strings.TrimSuffix(line, ",")
		line = enumerationMarker.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), surroundingQuotes)
		line = strings.TrimSpace(strings.TrimSuffix(line, ","))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
