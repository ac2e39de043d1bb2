package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-taker/internal/domain"
)

// AttemptStore keeps completed attempts in Redis, for setups where several
// machines share one attempt cache. A zero TTL keeps records forever;
// otherwise the reload shortcut quietly expires with the key.
type AttemptStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{client: client, ttl: ttl}
}

func (s *AttemptStore) Result(ctx context.Context, quizID string) (domain.CompletedAttempt, bool) {
	raw, err := s.client.Get(ctx, s.resultKey(quizID)).Bytes()
	if err != nil {
		return domain.CompletedAttempt{}, false
	}
	var att domain.CompletedAttempt
	if err := json.Unmarshal(raw, &att); err != nil {
		return domain.CompletedAttempt{}, false
	}
	return att, true
}

func (s *AttemptStore) SaveResult(ctx context.Context, att domain.CompletedAttempt) error {
	data, err := json.Marshal(att)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.resultKey(att.QuizID), data, s.ttl).Err()
}

func (s *AttemptStore) ActiveQuiz(ctx context.Context) (string, bool) {
	id, err := s.client.Get(ctx, s.activeKey()).Result()
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (s *AttemptStore) SetActiveQuiz(ctx context.Context, quizID string) {
	// best-effort marker
	_ = s.client.Set(ctx, s.activeKey(), quizID, s.ttl).Err()
}

func (s *AttemptStore) resultKey(quizID string) string {
	return "quiz:attempt:" + quizID
}

func (s *AttemptStore) activeKey() string {
	return "quiz:attempt:active"
}
