package memory

import (
	"context"
	"sync"

	"quiz-taker/internal/domain"
)

// AttemptStore is an in-memory attempt cache. Nothing survives the process;
// it backs tests and runs where no storage is configured.
type AttemptStore struct {
	mu      sync.RWMutex
	results map[string]domain.CompletedAttempt
	active  string
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		results: make(map[string]domain.CompletedAttempt),
	}
}

func (s *AttemptStore) Result(_ context.Context, quizID string) (domain.CompletedAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	att, ok := s.results[quizID]
	return att, ok
}

func (s *AttemptStore) SaveResult(_ context.Context, att domain.CompletedAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[att.QuizID] = att
	return nil
}

func (s *AttemptStore) ActiveQuiz(_ context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active != ""
}

func (s *AttemptStore) SetActiveQuiz(_ context.Context, quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = quizID
}
