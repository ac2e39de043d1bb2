package cli

import (
	"fmt"
	"strings"

	"quiz-taker/internal/attempt"
)

func renderQuestion(v attempt.QuestionView) {
	fmt.Printf("\nQuestion %d of %d: %s\n", v.Index+1, v.Total, v.Text)
	for i, opt := range v.Options {
		marker := " "
		if i == v.Selected {
			marker = "*"
		}
		fmt.Printf(" %s %d) %s\n", marker, i+1, opt)
	}
	fmt.Printf("(%s)\n", navHint(v.Controls))
}

func navHint(c attempt.Controls) string {
	parts := []string{"answer: number"}
	if !c.PrevDisabled {
		parts = append(parts, "[p]rev")
	}
	if !c.NextHidden && !c.NextDisabled {
		parts = append(parts, "[n]ext")
	}
	if !c.SubmitHidden && !c.SubmitDisabled {
		parts = append(parts, "[s]ubmit")
	}
	parts = append(parts, "[g N] jump", "[q]uit")
	return strings.Join(parts, ", ")
}

func renderProgress(p attempt.Progress) {
	fmt.Printf("Progress: %d/%d answered (%d%%, %s)\n", p.Answered, p.Total, p.Percent, p.Band)
}

func renderResult(v attempt.ResultView) {
	verdict := "FAILED"
	if v.Passed {
		verdict = "PASSED"
	}
	fmt.Println()
	if v.Title != "" {
		fmt.Printf("Results - %s\n", v.Title)
	} else {
		fmt.Println("Results")
	}
	fmt.Printf("Score: %d/%d (%d%%) - %s\n", v.Score, v.TotalScore, v.Percentage, verdict)
	fmt.Printf("Time spent: %s, submitted at %s\n", formatSeconds(v.TimeSpent), v.SubmittedAt)
	for _, row := range v.Rows {
		switch {
		case !row.Answered:
			fmt.Printf(" %2d. %s - Not answered\n", row.Index+1, row.Question)
		case row.Correct:
			fmt.Printf(" %2d. %s - Correct (%s)\n", row.Index+1, row.Question, row.YourAnswer)
		default:
			fmt.Printf(" %2d. %s - Incorrect: you chose %q", row.Index+1, row.Question, row.YourAnswer)
			if row.CorrectAnswer != "" {
				fmt.Printf(", correct answer %q", row.CorrectAnswer)
			}
			fmt.Println()
		}
	}
}

func formatSeconds(s int) string {
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}
