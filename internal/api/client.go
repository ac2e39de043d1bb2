// Package api implements the REST contract the quiz-taking client consumes:
// quiz reads and attempt submissions against the school backend, bearer-token
// authenticated.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quiz-taker/internal/domain"
)

const (
	quizPath   = "/api/quizzes/quiz/"
	submitPath = "/api/quizzes/submit"
)

// Error is a non-2xx backend response carrying the server's message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Client talks to the school backend. The token is an opaque bearer string;
// its absence is a precondition failure, not something the client handles.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// GetQuiz performs the one network read of an attempt. The response may be a
// bare quiz object or an envelope under "quiz" or "data"; a missing questions
// field degrades to an empty list rather than an error.
func (c *Client) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	body, err := c.do(ctx, http.MethodGet, quizPath+quizID, nil)
	if err != nil {
		return domain.Quiz{}, err
	}

	quiz, err := decodeQuiz(body)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}
	if quiz.ID == "" {
		quiz.ID = quizID
	}
	quiz.Normalize()
	return quiz, nil
}

// SubmitAttempt performs the one network write of an attempt.
func (c *Client) SubmitAttempt(ctx context.Context, sub domain.Submission) (domain.SubmissionResult, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("encode submission: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, submitPath, payload)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	result, err := decodeResult(body)
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrQuizNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Message: serverMessage(body)}
	}
	return body, nil
}

func serverMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	return m.Message
}

func decodeQuiz(body []byte) (domain.Quiz, error) {
	var env struct {
		Quiz *domain.Quiz `json:"quiz"`
		Data *domain.Quiz `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Quiz != nil {
			return *env.Quiz, nil
		}
		if env.Data != nil {
			return *env.Data, nil
		}
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func decodeResult(body []byte) (domain.SubmissionResult, error) {
	var env struct {
		Result *domain.SubmissionResult `json:"result"`
		Data   *domain.SubmissionResult `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Result != nil {
			return *env.Result, nil
		}
		if env.Data != nil {
			return *env.Data, nil
		}
	}
	var result domain.SubmissionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.SubmissionResult{}, err
	}
	return result, nil
}
