package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-taker/internal/config"
	"quiz-taker/internal/devserver"
	"quiz-taker/internal/domain"
	"quiz-taker/internal/infra/memory"
	pgloader "quiz-taker/internal/infra/postgres"
	redisinfra "quiz-taker/internal/infra/redis"
)

func newDevserverCmd(configPath *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a development stand-in for the school quiz API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevserver(cmd.Context(), *configPath, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on")
	return cmd
}

func runDevserver(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Devserver.Postgres != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Devserver.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if cfg.Devserver.Postgres != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Devserver.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.Duration(cfg.Devserver.QuizTTL, 10*time.Minute)
	var quizzes devserver.QuizRepository
	if redisClient != nil {
		quizzes = redisinfra.NewQuizCache(redisClient, loader, quizTTL)
	} else {
		quizzes = memory.NewQuizCache(loader, quizTTL)
	}

	srv := devserver.New(quizzes, cfg.Devserver.Token)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("devserver listening on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("devserver failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down devserver...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down devserver...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes seeds the devserver when no Postgres is configured.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"q1": {
			ID:        "q1",
			Title:     "Quick arithmetic",
			TimeLimit: 1,
			Questions: []domain.Question{
				{ID: "q1-1", Text: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1},
			},
		},
		"geo-101": {
			ID:        "geo-101",
			Title:     "Geography basics",
			TimeLimit: 10,
			Questions: []domain.Question{
				{ID: "geo-1", Text: "Capital of France?", Options: []string{"Lyon", "Paris", "Marseille"}, CorrectAnswer: 1},
				{ID: "geo-2", Text: "Longest river?", Options: []string{"Nile", "Amazon", "Danube"}, CorrectAnswer: 0},
				{ID: "geo-3", Text: "Largest ocean?", Options: []string{"Atlantic", "Indian", "Pacific"}, CorrectAnswer: 2},
			},
		},
	}
}
