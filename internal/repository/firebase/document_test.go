package firebase

import (
	"testing"
	"time"

	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInterviewDocument(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		data map[string]any
	}{
		{
			name: "written by this service",
			data: map[string]any{
				"role":      "Frontend Developer",
				"level":     "junior",
				"type":      "technical",
				"techstack": []any{"React", "TypeScript"},
				"questions": []any{"Q1", "Q2"},
				"userId":    "u1",
				"finalized": true,
				"createdAt": created,
			},
		},
		{
			name: "written by the web app",
			data: map[string]any{
				"role":       "Frontend Developer",
				"level":      "junior",
				"type":       "technical",
				"techstack":  []any{"React", "TypeScript"},
				"questions":  []any{"Q1", "Q2"},
				"userid":     "u1",
				"finalized":  true,
				"coverImage": "/covers/amazon.png",
				"createdAt":  "2025-03-01T10:30:00.000Z",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var interview model.Interview
			require.NoError(t, decodeDocument(tt.data, interviewAliases, &interview))

			assert.Equal(t, "u1", interview.UserID)
			assert.Equal(t, []string{"Q1", "Q2"}, interview.Questions)
			assert.Equal(t, []string{"React", "TypeScript"}, interview.TechStack)
			assert.True(t, interview.Finalized)
			assert.True(t, created.Equal(interview.CreatedAt), interview.CreatedAt)
		})
	}
}

func TestDecodeInterviewPrefersCurrentOwnerField(t *testing.T) {
	var interview model.Interview
	data := map[string]any{"userId": "current", "userid": "legacy"}
	require.NoError(t, decodeDocument(data, interviewAliases, &interview))
	assert.Equal(t, "current", interview.UserID)
}

func TestDecodeFeedbackDocument(t *testing.T) {
	data := map[string]any{
		"interviewId": "iv1",
		"userId":      "u1",
		"totalScore":  int64(72),
		"categoryScores": []any{
			map[string]any{"name": model.CategoryCommunication, "score": int64(80), "comment": "Clear."},
		},
		"strengths":           []any{"React"},
		"areasForImprovement": []any{},
		"finalAssessment":     "Good.",
		"createdAt":           "2025-03-01T10:30:00.000Z",
	}

	var fb model.Feedback
	require.NoError(t, decodeDocument(data, nil, &fb))
	assert.Equal(t, 72, fb.TotalScore)
	require.Len(t, fb.CategoryScores, 1)
	assert.Equal(t, 80, fb.CategoryScores[0].Score)
	assert.Equal(t, 2025, fb.CreatedAt.Year())
}

func TestDecodeDocumentRejectsBadTimestamp(t *testing.T) {
	var user model.User
	err := decodeDocument(map[string]any{"fullName": "Ada", "createdAt": "yesterday"}, nil, &user)
	assert.Error(t, err)
}
