package attempt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quiz-taker/internal/domain"
)

// QuizAPI is the backend surface the attempt flow consumes.
type QuizAPI interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	SubmitAttempt(ctx context.Context, sub domain.Submission) (domain.SubmissionResult, error)
}

// AttemptStore persists finished attempts and the active quiz id. Reads and
// the active-quiz marker are best effort: a failing store must never block
// an attempt, it only loses the reload shortcut.
type AttemptStore interface {
	Result(ctx context.Context, quizID string) (domain.CompletedAttempt, bool)
	SaveResult(ctx context.Context, att domain.CompletedAttempt) error
	ActiveQuiz(ctx context.Context) (string, bool)
	SetActiveQuiz(ctx context.Context, quizID string)
}

// Confirmer approves a manual submission before it is sent. The timer's
// auto-submit path never consults it.
type Confirmer interface {
	ConfirmSubmit(unanswered int) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(unanswered int) bool

func (f ConfirmerFunc) ConfirmSubmit(unanswered int) bool { return f(unanswered) }

// EventKind labels timer-driven events delivered to the UI loop.
type EventKind int

const (
	EventTick EventKind = iota
	EventWarning
	EventCritical
	EventExpired
	EventAutoSubmitted
	EventAutoSubmitFailed
)

// Event is a timer notification. Err is set only for EventAutoSubmitFailed,
// which the UI must surface as a retryable submission failure.
type Event struct {
	Kind      EventKind
	Remaining int
	Err       error
}

// Runner owns one attempt end to end: load, session, timer, submission and
// the completed-result cache. Construct a fresh Runner per attempt.
type Runner struct {
	api       QuizAPI
	store     AttemptStore
	clock     func() time.Time
	tickEvery time.Duration

	mu         sync.Mutex
	session    *Session
	countdown  *Countdown
	startedAt  time.Time
	submitting bool
	completed  bool
	result     domain.SubmissionResult

	events   chan Event
	stopTick chan struct{}
	stopOnce sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock makes timestamps deterministic in tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.clock = now }
}

// WithTickInterval compresses the one-second timer resolution for tests.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) { r.tickEvery = d }
}

func NewRunner(api QuizAPI, store AttemptStore, opts ...Option) *Runner {
	r := &Runner{
		api:       api,
		store:     store,
		clock:     time.Now,
		tickEvery: time.Second,
		events:    make(chan Event, 64),
		stopTick:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StartOutcome is the result of loading an attempt. Exactly one of Quiz or
// Completed is meaningful: a stored result short-circuits straight to the
// results view and no session is constructed.
type StartOutcome struct {
	Quiz      domain.Quiz
	Completed *domain.CompletedAttempt
}

// Start enforces the already-completed check, fetches the quiz, and starts
// the countdown when the quiz carries a time limit. Load failures are
// terminal for the attempt; callers render them, they do not retry.
func (r *Runner) Start(ctx context.Context, quizID string) (StartOutcome, error) {
	if quizID == "" {
		return StartOutcome{}, domain.ErrNoQuizID
	}

	if att, ok := r.store.Result(ctx, quizID); ok {
		r.mu.Lock()
		r.completed = true
		r.result = att.Result
		r.mu.Unlock()
		return StartOutcome{Completed: &att}, nil
	}

	quiz, err := r.api.GetQuiz(ctx, quizID)
	if err != nil {
		return StartOutcome{}, fmt.Errorf("load quiz %q: %w", quizID, err)
	}
	quiz.Normalize()

	r.mu.Lock()
	r.session = NewSession(quiz)
	r.countdown = NewCountdown(quiz.TimeLimit * 60)
	r.startedAt = r.clock()
	countdown := r.countdown
	r.mu.Unlock()

	r.store.SetActiveQuiz(ctx, quizID)

	if countdown.Enabled() {
		go r.runTimer(ctx, countdown)
	}
	return StartOutcome{Quiz: quiz}, nil
}

// Session returns the in-progress session, or nil before Start or after a
// cached short-circuit.
func (r *Runner) Session() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Events delivers timer notifications. Slow consumers lose stale ticks
// rather than blocking the timer.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Remaining returns the seconds left, or 0 for untimed attempts.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	cd := r.countdown
	r.mu.Unlock()
	if cd == nil {
		return 0
	}
	return cd.Remaining()
}

// TimeSpent reports elapsed attempt seconds: configured total minus
// remaining when timed, wall clock since load otherwise. Never negative,
// even if the timer overruns.
func (r *Runner) TimeSpent() int {
	r.mu.Lock()
	cd := r.countdown
	started := r.startedAt
	r.mu.Unlock()

	spent := 0
	if cd != nil && cd.Enabled() {
		spent = cd.Total() - cd.Remaining()
	} else if !started.IsZero() {
		spent = int(r.clock().Sub(started) / time.Second)
	}
	if spent < 0 {
		spent = 0
	}
	return spent
}

// Completed reports whether a result exists for this attempt.
func (r *Runner) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Result returns the submission result once the attempt has completed.
func (r *Runner) Result() (domain.SubmissionResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.completed
}

// RequestSubmit is the manual submission path: the confirmer sees the
// unanswered count and approves before anything is sent.
func (r *Runner) RequestSubmit(ctx context.Context, confirm Confirmer) (domain.SubmissionResult, error) {
	session := r.Session()
	if session == nil {
		return domain.SubmissionResult{}, domain.ErrAttemptNotStarted
	}
	if confirm != nil {
		unanswered := session.Len() - session.AnsweredCount()
		if !confirm.ConfirmSubmit(unanswered) {
			return domain.SubmissionResult{}, domain.ErrSubmitDeclined
		}
	}
	return r.Submit(ctx)
}

// Submit sends the attempt exactly once. Concurrent callers (user action and
// timer expiry) are serialized by the in-flight flag: the loser gets
// ErrSubmissionInFlight or ErrAttemptCompleted and no second POST happens.
// A transport or server failure leaves the attempt open for a manual retry.
func (r *Runner) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	r.mu.Lock()
	if r.completed {
		r.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrAttemptCompleted
	}
	if r.submitting {
		r.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrSubmissionInFlight
	}
	if r.session == nil {
		r.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrAttemptNotStarted
	}
	r.submitting = true
	session := r.session
	r.mu.Unlock()

	sub := session.BuildSubmission(r.TimeSpent())
	result, err := r.api.SubmitAttempt(ctx, sub)

	r.mu.Lock()
	r.submitting = false
	if err != nil {
		r.mu.Unlock()
		return domain.SubmissionResult{}, fmt.Errorf("submit attempt: %w", err)
	}
	r.completed = true
	r.result = result
	r.mu.Unlock()

	r.stopTimer()

	// Best effort: losing the cache only loses the reload shortcut.
	_ = r.store.SaveResult(ctx, domain.CompletedAttempt{
		QuizID:      session.Quiz().ID,
		Result:      result,
		CompletedAt: r.clock(),
	})
	return result, nil
}

// Abandon stops the timer for an attempt the user walked away from. No
// timer may keep running against a finished or abandoned attempt.
func (r *Runner) Abandon() {
	r.stopTimer()
}

func (r *Runner) stopTimer() {
	r.stopOnce.Do(func() { close(r.stopTick) })
}

func (r *Runner) runTimer(ctx context.Context, cd *Countdown) {
	ticker := time.NewTicker(r.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t := cd.Tick()
			switch {
			case t.Expired:
				r.emit(Event{Kind: EventExpired})
				r.autoSubmit(ctx)
				return
			case t.Warning:
				r.emit(Event{Kind: EventWarning, Remaining: t.Remaining})
			case t.Critical:
				r.emit(Event{Kind: EventCritical, Remaining: t.Remaining})
			default:
				r.emit(Event{Kind: EventTick, Remaining: t.Remaining})
			}
		case <-r.stopTick:
			return
		case <-ctx.Done():
			return
		}
	}
}

// autoSubmit is the only non-user-initiated submission path. It overrides
// the Next/Submit enablement guard: an unanswered current question does not
// block expiry submission. Failures surface through the event channel so the
// user still gets the retry view.
func (r *Runner) autoSubmit(ctx context.Context) {
	_, err := r.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionInFlight) || errors.Is(err, domain.ErrAttemptCompleted) {
			// A manual submission won the race; nothing to do.
			return
		}
		r.emit(Event{Kind: EventAutoSubmitFailed, Err: err})
		return
	}
	r.emit(Event{Kind: EventAutoSubmitted})
}

// emit never blocks the timer: when the buffer is full the oldest event is
// dropped in favor of the fresh one.
func (r *Runner) emit(ev Event) {
	select {
	case r.events <- ev:
	default:
		select {
		case <-r.events:
		default:
		}
		select {
		case r.events <- ev:
		default:
		}
	}
}
