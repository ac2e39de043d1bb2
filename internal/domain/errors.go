package domain

import "errors"

var (
	// ErrNoQuizID is returned when no quiz id can be resolved from the
	// argument, link, or stored active quiz.
	ErrNoQuizID = errors.New("no quiz id resolvable")
	// ErrQuizNotFound indicates the backend has no quiz for the id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrMissingToken indicates no bearer token is configured; the caller
	// must send the user through login instead of retrying.
	ErrMissingToken = errors.New("auth token missing")
	// ErrQuestionOutOfRange indicates a navigation target outside [0, N).
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrOptionOutOfRange indicates a selected option index outside the
	// question's options.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrAttemptCompleted is returned once a result exists for the attempt.
	ErrAttemptCompleted = errors.New("attempt already completed")
	// ErrAttemptNotStarted is returned when submission is requested before
	// a quiz has been loaded.
	ErrAttemptNotStarted = errors.New("attempt not started")
	// ErrSubmissionInFlight guards against a second submission while one
	// is outstanding.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrSubmitDeclined is returned when the user backs out of the
	// submit confirmation.
	ErrSubmitDeclined = errors.New("submission declined")
	// ErrResultNotFound indicates no stored result exists for a quiz id.
	ErrResultNotFound = errors.New("no stored result for quiz")
)
