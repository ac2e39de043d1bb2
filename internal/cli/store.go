package cli

import (
	"log"
	"os"
	"path/filepath"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"quiz-taker/internal/attempt"
	"quiz-taker/internal/config"
	"quiz-taker/internal/infra/memory"
	redisstore "quiz-taker/internal/infra/redis"
	"quiz-taker/internal/infra/sqlite"
)

// openStore picks the attempt cache: Redis when configured, otherwise a
// local SQLite file. Storage is best effort, so a store that cannot be
// opened degrades to memory instead of blocking the attempt.
func openStore(cfg config.Config) (attempt.AttemptStore, func()) {
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := config.Duration(cfg.Redis.TTL, 0)
		return redisstore.NewAttemptStore(client, ttl), func() { _ = client.Close() }
	}

	path := cfg.Storage.Path
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".quiz-taker", "attempts.db")
		} else {
			path = "attempts.db"
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("attempt store unavailable, falling back to memory: %v", err)
		return memory.NewAttemptStore(), func() {}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		log.Printf("attempt store unavailable, falling back to memory: %v", err)
		return memory.NewAttemptStore(), func() {}
	}
	return store, func() { _ = store.Close() }
}

func apiTimeout(cfg config.Config) time.Duration {
	return config.Duration(cfg.API.Timeout, 10*time.Second)
}

func apiBaseURL(cfg config.Config) string {
	if cfg.API.BaseURL != "" {
		return cfg.API.BaseURL
	}
	return "http://localhost:8080"
}
