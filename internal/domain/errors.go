package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when question data cannot be fetched or read.
	ErrSourceUnavailable = errors.New("question source unavailable")
	// ErrMalformedRecord indicates a question record failed validation.
	ErrMalformedRecord = errors.New("malformed question record")
	// ErrNoQuestions indicates a source produced an empty question bank.
	ErrNoQuestions = errors.New("no questions available")
	// ErrAnswerRequired is returned when navigation needs an answer for the current question.
	ErrAnswerRequired = errors.New("answer required before continuing")
	// ErrIndexOutOfRange signals a programming error: bad choice index or broken session state.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotInitialized is returned by operations on a session with no questions loaded.
	ErrNotInitialized = fmt.Errorf("%w: quiz session not initialized", ErrIndexOutOfRange)
	// ErrSessionFinished is returned when a finished session is mutated.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrSessionNotFound is returned when a quiz session does not exist (or expired).
	ErrSessionNotFound = errors.New("quiz session not found")
)
