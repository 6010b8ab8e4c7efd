package call

import (
	"strings"

	"github.com/lshigami/IntelliHire/internal/voice"
)

const interviewerFirstMessage = "Hello! Thank you for taking the time to speak with me today. I'm excited to learn more about you and your experience."

const interviewerSystemPrompt = `You are a professional job interviewer conducting a real-time voice interview with a candidate. Your goal is to assess their qualifications, motivation, and fit for the role.

Interview Guidelines:
Follow the structured question flow:
{{questions}}

Engage naturally and react appropriately:
Listen actively to responses and acknowledge them before moving forward.
Ask brief follow-up questions if a response is vague or requires more detail.
Keep the conversation flowing smoothly while maintaining control.

Be professional, yet warm and welcoming. Use official yet friendly language.
Keep responses concise and to the point, like in a real voice interview.

Conclude the interview properly:
Thank the candidate for their time.
Inform them that the company will reach out soon with feedback.
End the conversation on a polite and positive note.`

// FormatQuestions renders questions as the newline-delimited, dash-prefixed list the interviewer script expects.
func FormatQuestions(questions []string) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			lines = append(lines, "- "+q)
		}
	}
	return strings.Join(lines, "\n")
}

func interviewerScript(templateID string) *voice.AgentScript {
	return &voice.AgentScript{
		TemplateID:   templateID,
		Name:         "Interviewer",
		FirstMessage: interviewerFirstMessage,
		SystemPrompt: interviewerSystemPrompt,
	}
}
