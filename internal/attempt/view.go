package attempt

import (
	"math"

	"quiz-taker/internal/domain"
)

// Controls mirrors the navigation button state the UI must render.
type Controls struct {
	PrevDisabled   bool
	NextHidden     bool
	NextDisabled   bool
	SubmitHidden   bool
	SubmitDisabled bool
}

// QuestionView is the renderable state of a single question.
type QuestionView struct {
	Index    int
	Total    int
	Text     string
	Options  []string
	Selected int // -1 when unanswered
	Controls Controls
}

// Band is the cosmetic color of the progress indicator.
type Band string

const (
	BandRed   Band = "red"
	BandAmber Band = "amber"
	BandGreen Band = "green"
)

// Progress is the answered-coverage indicator. It drives UI color only and
// carries no authority over submission.
type Progress struct {
	Answered int
	Total    int
	Percent  int
	Band     Band
}

func newProgress(answered, total int) Progress {
	p := Progress{Answered: answered, Total: total}
	if total > 0 {
		p.Percent = int(math.Round(float64(answered) / float64(total) * 100))
	}
	switch {
	case p.Percent < 30:
		p.Band = BandRed
	case p.Percent < 70:
		p.Band = BandAmber
	default:
		p.Band = BandGreen
	}
	return p
}

// ResultRow is one scored question in the results breakdown.
type ResultRow struct {
	Index         int
	Question      string
	YourAnswer    string
	CorrectAnswer string
	Correct       bool
	Answered      bool
}

// ResultView is the renderable outcome of a finished attempt.
type ResultView struct {
	Title       string
	Score       int
	TotalScore  int
	Percentage  int
	Passed      bool
	TimeSpent   int
	SubmittedAt string
	Rows        []ResultRow
}

// BuildResultView joins the server's answers back onto the quiz questions.
// Answers are matched by question id; questions the server's list does not
// cover render as not answered. A zero quiz (cached short-circuit, where no
// content was fetched) yields rows from the answer list alone.
func BuildResultView(quiz domain.Quiz, result domain.SubmissionResult) ResultView {
	view := ResultView{
		Title:       quiz.Title,
		Score:       result.Score,
		TotalScore:  result.TotalScore,
		Percentage:  result.Percentage,
		Passed:      result.DidPass(),
		TimeSpent:   result.TimeSpent,
		SubmittedAt: result.SubmittedAt.Format("2006-01-02 15:04:05"),
	}

	if len(quiz.Questions) == 0 {
		for i, ans := range result.Answers {
			view.Rows = append(view.Rows, ResultRow{
				Index:      i,
				Question:   ans.Question,
				YourAnswer: ans.SelectedOption,
				Correct:    ans.IsCorrect,
				Answered:   true,
			})
		}
		return view
	}

	byID := make(map[string]domain.SubmissionAnswer, len(result.Answers))
	for _, ans := range result.Answers {
		byID[ans.Question] = ans
	}

	for i, q := range quiz.Questions {
		row := ResultRow{Index: i, Question: q.Text}
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			row.CorrectAnswer = q.Options[q.CorrectAnswer]
		}
		if ans, ok := byID[q.ID]; ok {
			row.Answered = true
			row.YourAnswer = ans.SelectedOption
			row.Correct = ans.IsCorrect
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
