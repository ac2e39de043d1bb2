// Package devserver is a development stand-in for the school backend: it
// serves the two endpoints the client consumes so attempts can be exercised
// locally and in tests. It is a fixture, not the real backend.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"quiz-taker/internal/domain"
)

const passThreshold = 70

// QuizRepository supplies quiz content (static set, or Postgres behind a
// cache).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Server implements the consumed REST contract. When a token is configured
// every request must carry it as a bearer credential.
type Server struct {
	quizzes QuizRepository
	token   string
	clock   func() time.Time
}

func New(quizzes QuizRepository, token string) *Server {
	return &Server{quizzes: quizzes, token: token, clock: time.Now}
}

// NewWithClock is test-only for deterministic submission timestamps.
func NewWithClock(quizzes QuizRepository, token string, now func() time.Time) *Server {
	return &Server{quizzes: quizzes, token: token, clock: now}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/quizzes/quiz/", s.withAuth(s.handleGetQuiz))
	mux.HandleFunc("/api/quizzes/submit", s.withAuth(s.handleSubmit))
	return mux
}

func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != s.token {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	quizID := strings.TrimPrefix(r.URL.Path, "/api/quizzes/quiz/")
	if quizID == "" {
		writeError(w, http.StatusBadRequest, "missing quiz id")
		return
	}

	quiz, err := s.quizzes.GetQuiz(r.Context(), quizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		log.Printf("get quiz %s: %v", quizID, err)
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}

	writeJSON(w, http.StatusOK, map[string]domain.Quiz{"quiz": quiz})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission payload")
		return
	}
	if sub.QuizID == "" {
		writeError(w, http.StatusBadRequest, "missing quiz id")
		return
	}

	quiz, err := s.quizzes.GetQuiz(r.Context(), sub.QuizID)
	if errors.Is(err, domain.ErrQuizNotFound) {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		log.Printf("submit quiz %s: %v", sub.QuizID, err)
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}

	result := s.grade(quiz, sub)
	writeJSON(w, http.StatusOK, map[string]domain.SubmissionResult{"result": result})
}

// grade re-scores the submission against quiz content. Client-claimed
// correctness and points are ignored; omitted questions earn zero.
func (s *Server) grade(quiz domain.Quiz, sub domain.Submission) domain.SubmissionResult {
	byID := make(map[string]domain.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}

	score := 0
	graded := make([]domain.SubmissionAnswer, 0, len(sub.Answers))
	for _, ans := range sub.Answers {
		q, ok := byID[ans.Question]
		if !ok {
			continue
		}
		correct := false
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			correct = ans.SelectedOption == q.Options[q.CorrectAnswer]
		}
		points := 0
		if correct {
			points = 1
			score++
		}
		graded = append(graded, domain.SubmissionAnswer{
			Question:       ans.Question,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      correct,
			PointsEarned:   points,
		})
	}

	total := len(quiz.Questions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) / float64(total) * 100))
	}
	passed := percentage >= passThreshold

	timeSpent := sub.TimeSpent
	if timeSpent < 0 {
		timeSpent = 0
	}

	return domain.SubmissionResult{
		Score:       score,
		TotalScore:  total,
		Percentage:  percentage,
		Passed:      &passed,
		TimeSpent:   timeSpent,
		SubmittedAt: s.clock(),
		Answers:     graded,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
