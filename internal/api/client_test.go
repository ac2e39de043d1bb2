package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-taker/internal/api"
	"quiz-taker/internal/domain"
)

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := api.NewClient("http://localhost", "", 0); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected missing-token error, got %v", err)
	}
}

func TestGetQuizSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]any{"quiz": sampleQuiz()})
	}))
	defer srv.Close()

	client := mustClient(t, srv.URL, "tok-123")
	if _, err := client.GetQuiz(context.Background(), "q1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotPath != "/api/quizzes/quiz/q1" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestGetQuizDecodesEnvelopeVariants(t *testing.T) {
	quiz := sampleQuiz()
	cases := []struct {
		name string
		body any
	}{
		{"bare", quiz},
		{"quiz envelope", map[string]any{"quiz": quiz}},
		{"data envelope", map[string]any{"data": quiz}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(tc.body)
			}))
			defer srv.Close()

			got, err := mustClient(t, srv.URL, "tok").GetQuiz(context.Background(), "q1")
			if err != nil {
				t.Fatalf("get quiz: %v", err)
			}
			if got.Title != quiz.Title || len(got.Questions) != 1 {
				t.Fatalf("decoded quiz mismatch: %+v", got)
			}
		})
	}
}

func TestGetQuizNormalizesSparseResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quiz":{"title":"Empty"}}`))
	}))
	defer srv.Close()

	got, err := mustClient(t, srv.URL, "tok").GetQuiz(context.Background(), "q9")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.ID != "q9" {
		t.Fatalf("missing id must be backfilled from the request, got %q", got.ID)
	}
	if got.Questions == nil || len(got.Questions) != 0 {
		t.Fatalf("missing questions must decode as an empty list, got %#v", got.Questions)
	}
}

func TestGetQuizNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quiz not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := mustClient(t, srv.URL, "tok").GetQuiz(context.Background(), "nope")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not-found sentinel, got %v", err)
	}
}

func TestServerErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := mustClient(t, srv.URL, "tok").GetQuiz(context.Background(), "q1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestSubmitAttemptRoundTrip(t *testing.T) {
	var got domain.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/quizzes/submit" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode submission: %v", err)
		}
		passed := true
		_ = json.NewEncoder(w).Encode(map[string]any{"result": domain.SubmissionResult{
			Score: 1, TotalScore: 1, Percentage: 100, Passed: &passed, TimeSpent: 42,
		}})
	}))
	defer srv.Close()

	sub := domain.Submission{
		QuizID: "q1",
		Answers: []domain.SubmissionAnswer{
			{Question: "q1-1", SelectedOption: "4", IsCorrect: true, PointsEarned: 1},
		},
		TimeSpent:      42,
		TotalQuestions: 1,
	}
	result, err := mustClient(t, srv.URL, "tok").SubmitAttempt(context.Background(), sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got.QuizID != "q1" || len(got.Answers) != 1 || got.Answers[0].SelectedOption != "4" {
		t.Fatalf("submission payload mismatch: %+v", got)
	}
	if result.Percentage != 100 || !result.DidPass() {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSubmitAttemptDecodesBareResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.SubmissionResult{Score: 2, TotalScore: 3, Percentage: 67})
	}))
	defer srv.Close()

	result, err := mustClient(t, srv.URL, "tok").SubmitAttempt(context.Background(), domain.Submission{QuizID: "q1"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 2 || result.DidPass() {
		t.Fatalf("unexpected result %+v", result)
	}
}

func mustClient(t *testing.T, baseURL, token string) *api.Client {
	t.Helper()
	client, err := api.NewClient(baseURL, token, 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:        "q1",
		Title:     "Quick arithmetic",
		TimeLimit: 1,
		Questions: []domain.Question{
			{ID: "q1-1", Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1},
		},
	}
}
