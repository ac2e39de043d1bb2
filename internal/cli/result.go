package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quiz-taker/internal/attempt"
	"quiz-taker/internal/config"
	"quiz-taker/internal/domain"
)

func newResultCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "result [quiz id]",
		Short: "Show the stored result of a completed quiz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizID := ""
			if len(args) > 0 {
				quizID = args[0]
			}
			return runResult(cmd.Context(), *configPath, quizID)
		},
	}
}

func runResult(ctx context.Context, configPath, quizID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, closeStore := openStore(cfg)
	defer closeStore()

	if quizID == "" {
		id, ok := store.ActiveQuiz(ctx)
		if !ok {
			return domain.ErrNoQuizID
		}
		quizID = id
	}

	att, ok := store.Result(ctx, quizID)
	if !ok {
		fmt.Printf("No stored result for quiz %q.\n", quizID)
		return domain.ErrResultNotFound
	}

	renderResult(attempt.BuildResultView(domain.Quiz{}, att.Result))
	return nil
}
