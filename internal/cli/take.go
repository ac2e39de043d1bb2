package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quiz-taker/internal/api"
	"quiz-taker/internal/attempt"
	"quiz-taker/internal/config"
	"quiz-taker/internal/domain"
)

func newTakeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "take [quiz link or id]",
		Short: "Take a quiz and submit your answers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			return runTake(cmd.Context(), *configPath, arg)
		},
	}
}

func runTake(ctx context.Context, configPath, arg string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	token := cfg.API.Token
	if token == "" {
		token = os.Getenv("QUIZ_TOKEN")
	}
	client, err := api.NewClient(apiBaseURL(cfg), token, apiTimeout(cfg))
	if errors.Is(err, domain.ErrMissingToken) {
		fmt.Println("You are not logged in. Set api.token in the config or the QUIZ_TOKEN environment variable.")
		return err
	}
	if err != nil {
		return err
	}

	store, closeStore := openStore(cfg)
	defer closeStore()

	quizID, err := attempt.ResolveQuizID(ctx, arg, store)
	if errors.Is(err, domain.ErrNoQuizID) {
		fmt.Println("No quiz to take: pass a quiz link or id.")
		return err
	}
	if err != nil {
		return err
	}

	runner := attempt.NewRunner(client, store)
	defer runner.Abandon()

	out, err := runner.Start(ctx, quizID)
	if err != nil {
		// Terminal for this attempt: a missing quiz and a network failure
		// render the same explanatory view, with no automatic retry.
		fmt.Printf("Quiz %q could not be loaded: %v\n", quizID, err)
		return nil
	}

	if out.Completed != nil {
		fmt.Println("You have already completed this quiz.")
		renderResult(attempt.BuildResultView(domain.Quiz{}, out.Completed.Result))
		return nil
	}

	quiz := out.Quiz
	if len(quiz.Questions) == 0 {
		fmt.Println("This quiz has no questions yet. Check back later.")
		return nil
	}

	title := quiz.Title
	if title == "" {
		title = quiz.ID
	}
	fmt.Printf("\n%s - %d questions", title, len(quiz.Questions))
	if quiz.TimeLimit > 0 {
		fmt.Printf(", %d minute time limit", quiz.TimeLimit)
	}
	fmt.Println()

	return interact(ctx, runner)
}

// interact drives the attempt from the terminal: one question in view at a
// time, timer events interleaved with user commands.
func interact(ctx context.Context, runner *attempt.Runner) error {
	input := make(chan string)
	go func() {
		defer close(input)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			input <- strings.TrimSpace(sc.Text())
		}
	}()

	session := runner.Session()
	renderQuestion(session.View())

	for {
		select {
		case ev := <-runner.Events():
			switch ev.Kind {
			case attempt.EventWarning:
				fmt.Printf("\nTime warning: %s remaining.\n", formatSeconds(ev.Remaining))
			case attempt.EventCritical:
				fmt.Printf("\nTime almost up: %d seconds!\n", ev.Remaining)
			case attempt.EventExpired:
				fmt.Println("\nTime is up. Submitting your answers...")
			case attempt.EventAutoSubmitted:
				result, _ := runner.Result()
				renderResult(attempt.BuildResultView(session.Quiz(), result))
				return nil
			case attempt.EventAutoSubmitFailed:
				if retrySubmission(ctx, runner, session, input, ev.Err) {
					return nil
				}
			}

		case line, ok := <-input:
			if !ok {
				runner.Abandon()
				fmt.Println("\nQuiz abandoned. Your answers were not submitted.")
				return nil
			}
			done, err := handleCommand(ctx, runner, session, input, line)
			if done {
				return err
			}
		}
	}
}

func handleCommand(ctx context.Context, runner *attempt.Runner, session *attempt.Session, input <-chan string, line string) (bool, error) {
	switch {
	case line == "":
		renderQuestion(session.View())

	case line == "p":
		if err := session.Prev(); err != nil {
			fmt.Println("Already at the first question.")
			break
		}
		renderQuestion(session.View())

	case line == "n":
		if err := session.Next(); err != nil {
			if session.Answered(session.CurrentIndex()) {
				fmt.Println("Already at the last question.")
			} else {
				fmt.Println("Answer this question before moving on.")
			}
			break
		}
		renderQuestion(session.View())

	case strings.HasPrefix(line, "g "):
		target, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "g ")))
		if err != nil || session.GoTo(target-1) != nil {
			fmt.Printf("Pick a question between 1 and %d.\n", session.Len())
			break
		}
		renderQuestion(session.View())

	case line == "s":
		controls := session.Controls()
		if controls.SubmitHidden {
			fmt.Println("Go to the last question to submit.")
			break
		}
		if controls.SubmitDisabled {
			fmt.Println("Answer the last question before submitting.")
			break
		}
		result, err := runner.RequestSubmit(ctx, stdinConfirmer{input: input})
		switch {
		case err == nil:
			renderResult(attempt.BuildResultView(session.Quiz(), result))
			return true, nil
		case errors.Is(err, domain.ErrSubmitDeclined):
			renderQuestion(session.View())
		case errors.Is(err, domain.ErrSubmissionInFlight), errors.Is(err, domain.ErrAttemptCompleted):
			// The timer beat us to it; its event will render the result.
		default:
			if retrySubmission(ctx, runner, session, input, err) {
				return true, nil
			}
		}

	case line == "q":
		runner.Abandon()
		fmt.Println("Quiz abandoned. Your answers were not submitted.")
		return true, nil

	case line == "h":
		fmt.Println("Commands: 1-9 select an answer, [p]rev, [n]ext, [g N] jump, [s]ubmit, [q]uit.")

	default:
		option, err := strconv.Atoi(line)
		if err != nil {
			fmt.Println("Unknown command. Type h for help.")
			break
		}
		if err := session.Select(option - 1); err != nil {
			fmt.Printf("Pick an option between 1 and %d.\n", len(session.View().Options))
			break
		}
		renderProgress(session.Progress())
		renderQuestion(session.View())
	}
	return false, nil
}

// retrySubmission renders the recoverable submission-failure view. The
// answers already collected are kept; retry re-sends an equivalent payload.
// Returns true once the attempt finished.
func retrySubmission(ctx context.Context, runner *attempt.Runner, session *attempt.Session, input <-chan string, cause error) bool {
	for {
		fmt.Printf("\nSubmission failed: %v\n", cause)
		fmt.Println("[r]etry or [c]ancel?")
		line, ok := <-input
		if !ok || line == "c" {
			fmt.Println("Returning to the quiz. Your answers are kept.")
			renderQuestion(session.View())
			return false
		}
		if line != "r" {
			continue
		}
		result, err := runner.Submit(ctx)
		if err == nil {
			renderResult(attempt.BuildResultView(session.Quiz(), result))
			return true
		}
		if errors.Is(err, domain.ErrAttemptCompleted) {
			if result, ok := runner.Result(); ok {
				renderResult(attempt.BuildResultView(session.Quiz(), result))
			}
			return true
		}
		cause = err
	}
}

// stdinConfirmer is the terminal's submit-confirmation step.
type stdinConfirmer struct {
	input <-chan string
}

func (c stdinConfirmer) ConfirmSubmit(unanswered int) bool {
	if unanswered > 0 {
		fmt.Printf("%d question(s) unanswered and will earn no credit. ", unanswered)
	}
	fmt.Println("Submit your answers? [y/n]")
	line, ok := <-c.input
	return ok && (line == "y" || line == "yes")
}
