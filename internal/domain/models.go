package domain

import "time"

// Quiz is a quiz definition as served by the school backend. It is fetched
// read-only for the duration of one attempt.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	TimeLimit int        `json:"timeLimit,omitempty"` // minutes; zero means untimed
	Questions []Question `json:"questions"`
}

// Normalize repairs a quiz whose questions field was absent in the response.
// The attempt flow degrades to a "no questions" state instead of failing.
func (q *Quiz) Normalize() {
	if q.Questions == nil {
		q.Questions = []Question{}
	}
}

// Question models a single-choice question. Option order is significant:
// CorrectAnswer indexes into Options.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// SubmissionAnswer is one answered question inside a submission payload.
// SelectedOption carries the option text rather than its index.
type SubmissionAnswer struct {
	Question       string `json:"question"`
	SelectedOption string `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
	PointsEarned   int    `json:"pointsEarned"`
}

// Submission is sent once per attempt. Unanswered questions are omitted;
// the server infers zero credit for omissions.
type Submission struct {
	QuizID         string             `json:"quizId"`
	Answers        []SubmissionAnswer `json:"answers"`
	TimeSpent      int                `json:"timeSpent"` // seconds, never negative
	TotalQuestions int                `json:"totalQuestions"`
}

// SubmissionResult is the server-computed outcome of an attempt. It is the
// authoritative record; the client only caches it.
type SubmissionResult struct {
	Score       int                `json:"score"`
	TotalScore  int                `json:"totalScore"`
	Percentage  int                `json:"percentage"`
	Passed      *bool              `json:"passed,omitempty"`
	TimeSpent   int                `json:"timeSpent"`
	SubmittedAt time.Time          `json:"submittedAt"`
	Answers     []SubmissionAnswer `json:"answers"`
}

// DidPass resolves the pass verdict: the server's flag when present,
// otherwise a 70 percent floor.
func (r SubmissionResult) DidPass() bool {
	if r.Passed != nil {
		return *r.Passed
	}
	return r.Percentage >= 70
}

// CompletedAttempt is the durable client-side record of a finished attempt,
// cached under the quiz id so a reload short-circuits straight to results.
type CompletedAttempt struct {
	QuizID      string           `json:"quizId"`
	Result      SubmissionResult `json:"result"`
	CompletedAt time.Time        `json:"completedAt"`
}
