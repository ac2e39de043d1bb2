package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"quiz-taker/internal/domain"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestAttemptStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewAttemptStore(client, 0)

	if _, ok := store.Result(ctx, "q1"); ok {
		t.Fatalf("empty store must report no result")
	}

	att := domain.CompletedAttempt{
		QuizID:      "q1",
		Result:      domain.SubmissionResult{Score: 1, TotalScore: 1, Percentage: 100},
		CompletedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SaveResult(ctx, att); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:attempt:q1") {
		t.Fatalf("expected attempt key in redis")
	}

	got, ok := store.Result(ctx, "q1")
	if !ok || got.Result.Percentage != 100 {
		t.Fatalf("expected stored result, got ok=%v %+v", ok, got)
	}
}

func TestAttemptStoreTTL(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewAttemptStore(client, time.Minute)

	att := domain.CompletedAttempt{QuizID: "q1", CompletedAt: time.Now()}
	if err := store.SaveResult(ctx, att); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := store.Result(ctx, "q1"); ok {
		t.Fatalf("result must expire with the key")
	}
}

func TestAttemptStoreActiveQuiz(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	store := NewAttemptStore(client, 0)

	if _, ok := store.ActiveQuiz(ctx); ok {
		t.Fatalf("no active quiz expected initially")
	}
	store.SetActiveQuiz(ctx, "geo-101")
	if id, ok := store.ActiveQuiz(ctx); !ok || id != "geo-101" {
		t.Fatalf("expected geo-101, got %q ok=%v", id, ok)
	}
}
