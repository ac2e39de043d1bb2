package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-taker/internal/domain"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	quiz  domain.Quiz
	err   error
}

func (l *countingLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if l.err != nil {
		return domain.Quiz{}, l.err
	}
	return l.quiz, nil
}

func (l *countingLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestStaticQuizLoader(t *testing.T) {
	ctx := context.Background()
	loader := NewStaticQuizLoader(map[string]domain.Quiz{
		"q1": {ID: "q1", Title: "Quick arithmetic"},
	})

	quiz, err := loader.LoadQuiz(ctx, "q1")
	if err != nil || quiz.Title != "Quick arithmetic" {
		t.Fatalf("expected quiz, got %+v err=%v", quiz, err)
	}
	if _, err := loader.LoadQuiz(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestQuizCacheLoadsOnce(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{quiz: domain.Quiz{ID: "q1", Title: "Cached"}}
	cache := NewQuizCache(loader, time.Minute)

	for i := 0; i < 5; i++ {
		quiz, err := cache.GetQuiz(ctx, "q1")
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if quiz.Title != "Cached" {
			t.Fatalf("unexpected quiz %+v", quiz)
		}
	}
	if loader.callCount() != 1 {
		t.Fatalf("expected a single backing load, got %d", loader.callCount())
	}
}

func TestQuizCacheDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{err: domain.ErrQuizNotFound}
	cache := NewQuizCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetQuiz(ctx, "gone"); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("expected not-found, got %v", err)
		}
	}
	if loader.callCount() != 2 {
		t.Fatalf("failed loads must not be cached, got %d calls", loader.callCount())
	}
}

func TestQuizCacheCollapsesConcurrentLoads(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{quiz: domain.Quiz{ID: "q1"}}
	cache := NewQuizCache(loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.GetQuiz(ctx, "q1"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	wg.Wait()

	if loader.callCount() > 2 {
		t.Fatalf("concurrent loads must collapse, got %d backing calls", loader.callCount())
	}
}
