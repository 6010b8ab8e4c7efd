package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInterviewRequestDecoding(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		techStack []string
		amount    int
	}{
		{name: "comma string and numeric string", body: `{"techstack":"React, TypeScript,, ","amount":"5"}`, techStack: []string{"React", "TypeScript"}, amount: 5},
		{name: "array and number", body: `{"techstack":[" Go ","","Postgres"],"amount":3}`, techStack: []string{"Go", "Postgres"}, amount: 3},
		{name: "missing fields", body: `{}`, techStack: nil, amount: 0},
		{name: "nulls", body: `{"techstack":null,"amount":null}`, techStack: nil, amount: 0},
		{name: "empty amount", body: `{"techstack":"","amount":""}`, techStack: []string{}, amount: 0},
		{name: "float amount", body: `{"amount":4.0}`, amount: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req GenerateInterviewRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.techStack, []string(req.TechStack))
			assert.Equal(t, tt.amount, int(req.Amount))
		})
	}
}

func TestGenerateInterviewRequestRejectsBadTypes(t *testing.T) {
	var req GenerateInterviewRequest
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"five"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"techstack":42}`), &req))
	for _, amount := range []string{`"NaN"`, `"Inf"`, `"-Inf"`, `"1e999"`, `1e12`} {
		assert.Error(t, json.Unmarshal([]byte(`{"amount":`+amount+`}`), &req), amount)
	}
}
