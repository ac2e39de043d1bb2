package attempt_test

import (
	"testing"
	"time"

	"quiz-taker/internal/attempt"
	"quiz-taker/internal/domain"
)

func TestBuildResultViewMarksMissingAnswers(t *testing.T) {
	quiz := threeQuestionQuiz()
	result := domain.SubmissionResult{
		Score:       1,
		TotalScore:  3,
		Percentage:  33,
		SubmittedAt: time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		Answers: []domain.SubmissionAnswer{
			{Question: "t1", SelectedOption: "a", IsCorrect: true, PointsEarned: 1},
		},
	}

	view := attempt.BuildResultView(quiz, result)
	if len(view.Rows) != 3 {
		t.Fatalf("expected a row per question, got %d", len(view.Rows))
	}
	if !view.Rows[0].Answered || !view.Rows[0].Correct || view.Rows[0].YourAnswer != "a" {
		t.Fatalf("unexpected first row %+v", view.Rows[0])
	}
	if view.Rows[1].Answered || view.Rows[2].Answered {
		t.Fatalf("server answers shorter than questions must render as not answered")
	}
	if view.Rows[2].CorrectAnswer != "c" {
		t.Fatalf("expected correct option text, got %q", view.Rows[2].CorrectAnswer)
	}
	if view.Passed {
		t.Fatalf("33%% without a server verdict must fail")
	}
}

func TestBuildResultViewWithoutQuizContent(t *testing.T) {
	result := domain.SubmissionResult{
		Score:      2,
		TotalScore: 2,
		Percentage: 100,
		Answers: []domain.SubmissionAnswer{
			{Question: "t1", SelectedOption: "a", IsCorrect: true},
			{Question: "t2", SelectedOption: "b", IsCorrect: true},
		},
	}

	// The cached short-circuit renders from the stored result alone.
	view := attempt.BuildResultView(domain.Quiz{}, result)
	if len(view.Rows) != 2 {
		t.Fatalf("expected rows from answers, got %d", len(view.Rows))
	}
	if !view.Passed {
		t.Fatalf("100%% must pass under the fallback threshold")
	}
}

func TestDidPassPrefersServerVerdict(t *testing.T) {
	failed := false
	r := domain.SubmissionResult{Percentage: 100, Passed: &failed}
	if r.DidPass() {
		t.Fatalf("explicit server verdict must win over the percentage fallback")
	}

	if (domain.SubmissionResult{Percentage: 70}).DidPass() != true {
		t.Fatalf("70%% must pass under the fallback threshold")
	}
	if (domain.SubmissionResult{Percentage: 69}).DidPass() {
		t.Fatalf("69%% must fail under the fallback threshold")
	}
}
