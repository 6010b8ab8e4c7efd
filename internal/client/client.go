// Package client calls the IntelliHire HTTP API. The call agent uses it to load
// interviews and to submit transcripts for scoring.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lshigami/IntelliHire/internal/dto"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Scoring waits on the model, which can take a while.
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) GenerateInterview(ctx context.Context, req dto.GenerateInterviewRequest) (*dto.GenerateInterviewResponse, error) {
	var resp dto.GenerateInterviewResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GenerateFeedback(ctx context.Context, req dto.CreateFeedbackRequest) (*dto.CreateFeedbackResponse, error) {
	var resp dto.CreateFeedbackResponse
	if err := c.do(ctx, http.MethodPost, "/api/feedback", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetFeedback(ctx context.Context, interviewID, userID string) (*dto.FeedbackResponse, error) {
	q := url.Values{"interviewId": {interviewID}, "userId": {userID}}
	var resp dto.GetFeedbackResponse
	if err := c.do(ctx, http.MethodGet, "/api/getfeedback", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Feedback, nil
}

func (c *Client) GetInterview(ctx context.Context, interviewID string) (*dto.InterviewResponse, error) {
	q := url.Values{"interviewId": {interviewID}}
	var resp dto.GetInterviewResponse
	if err := c.do(ctx, http.MethodGet, "/api/getinterview", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Interview, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	var resp dto.UserEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}
	return nil
}
