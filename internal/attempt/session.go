package attempt

import (
	"sort"
	"sync"

	"quiz-taker/internal/domain"
)

// Session holds the mutable state of one in-progress attempt: the question
// cursor and the recorded answers. It is the single source of truth; views
// are derived from it, never the reverse.
type Session struct {
	quiz    domain.Quiz
	mu      sync.RWMutex
	current int
	answers map[int]int // question index -> selected option index
}

// NewSession starts an attempt at question 0 with no recorded answers.
func NewSession(quiz domain.Quiz) *Session {
	quiz.Normalize()
	return &Session{
		quiz:    quiz,
		answers: make(map[int]int),
	}
}

// Quiz returns the immutable quiz content backing this attempt.
func (s *Session) Quiz() domain.Quiz {
	return s.quiz
}

// Len returns the number of questions.
func (s *Session) Len() int {
	return len(s.quiz.Questions)
}

// CurrentIndex returns the index of the question currently in view.
func (s *Session) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select records an answer for the question in view. Re-selecting is
// idempotent with respect to the answered set and does not advance the cursor.
func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(s.current, option)
}

// SelectAt records an answer for an arbitrary question index.
func (s *Session) SelectAt(index, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(index, option)
}

func (s *Session) selectLocked(index, option int) error {
	if index < 0 || index >= len(s.quiz.Questions) {
		return domain.ErrQuestionOutOfRange
	}
	if option < 0 || option >= len(s.quiz.Questions[index].Options) {
		return domain.ErrOptionOutOfRange
	}
	s.answers[index] = option
	return nil
}

// GoTo moves the cursor to any question index. Navigation is free: no guard
// requires earlier questions to be answered.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.quiz.Questions) {
		return domain.ErrQuestionOutOfRange
	}
	s.current = index
	return nil
}

// Next advances the cursor. It honors the enablement rule: the current
// question must be answered first.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current >= len(s.quiz.Questions)-1 {
		return domain.ErrQuestionOutOfRange
	}
	if _, ok := s.answers[s.current]; !ok {
		return domain.ErrQuestionOutOfRange
	}
	s.current++
	return nil
}

// Prev moves the cursor back one question; invalid at index 0.
func (s *Session) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == 0 {
		return domain.ErrQuestionOutOfRange
	}
	s.current--
	return nil
}

// Answered reports whether the question at index has a recorded answer.
func (s *Session) Answered(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.answers[index]
	return ok
}

// AnsweredCount returns the size of the answered set.
func (s *Session) AnsweredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

// Selected returns the recorded option index for a question, if any.
func (s *Session) Selected(index int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	option, ok := s.answers[index]
	return option, ok
}

// Controls computes button enablement for the current cursor position.
// The rule must hold at every render; callers re-derive it after any change.
func (s *Session) Controls() Controls {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := len(s.quiz.Questions) - 1
	_, answered := s.answers[s.current]
	c := Controls{
		PrevDisabled: s.current == 0,
		NextHidden:   s.current == last,
		SubmitHidden: s.current != last,
	}
	if !c.NextHidden {
		c.NextDisabled = !answered
	}
	if !c.SubmitHidden {
		c.SubmitDisabled = !answered
	}
	return c
}

// View builds the renderable state of the question in view.
func (s *Session) View() QuestionView {
	s.mu.RLock()
	current := s.current
	selected, answered := s.answers[current]
	s.mu.RUnlock()

	if !answered {
		selected = -1
	}
	q := s.quiz.Questions[current]
	return QuestionView{
		Index:    current,
		Total:    len(s.quiz.Questions),
		Text:     q.Text,
		Options:  q.Options,
		Selected: selected,
		Controls: s.Controls(),
	}
}

// Progress summarizes answered coverage for the progress indicator.
func (s *Session) Progress() Progress {
	s.mu.RLock()
	answered := len(s.answers)
	s.mu.RUnlock()
	return newProgress(answered, len(s.quiz.Questions))
}

// BuildSubmission turns the answer state into the submission payload.
// Answers are emitted in question order; unanswered questions are omitted.
func (s *Session) BuildSubmission(timeSpent int) domain.Submission {
	s.mu.RLock()
	indexes := make([]int, 0, len(s.answers))
	for i := range s.answers {
		indexes = append(indexes, i)
	}
	s.mu.RUnlock()
	sort.Ints(indexes)

	if timeSpent < 0 {
		timeSpent = 0
	}

	answers := make([]domain.SubmissionAnswer, 0, len(indexes))
	for _, i := range indexes {
		option, _ := s.Selected(i)
		q := s.quiz.Questions[i]
		correct := option == q.CorrectAnswer
		points := 0
		if correct {
			points = 1
		}
		answers = append(answers, domain.SubmissionAnswer{
			Question:       q.ID,
			SelectedOption: q.Options[option],
			IsCorrect:      correct,
			PointsEarned:   points,
		})
	}

	return domain.Submission{
		QuizID:         s.quiz.ID,
		Answers:        answers,
		TimeSpent:      timeSpent,
		TotalQuestions: len(s.quiz.Questions),
	}
}
