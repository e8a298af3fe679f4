// Package source turns raw question data into validated domain questions.
package source

import (
	"fmt"
	"strings"

	"dev-quiz-service/internal/domain"
)

// RecordError describes why a single record was rejected.
type RecordError struct {
	Index  int // zero-based position in the input
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return domain.ErrMalformedRecord
}

// Validate checks a single question. Category and explanation are optional.
func Validate(index int, q domain.Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return &RecordError{Index: index, Field: "prompt", Reason: "is empty"}
	}
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return &RecordError{Index: index, Field: fmt.Sprintf("choice%d", i+1), Reason: "is empty"}
		}
	}
	if strings.TrimSpace(q.Answer) == "" {
		return &RecordError{Index: index, Field: "answer", Reason: "is empty"}
	}
	if q.AnswerIndex() < 0 {
		return &RecordError{Index: index, Field: "answer", Reason: fmt.Sprintf("%q matches none of the choices", q.Answer)}
	}
	return nil
}

// ValidateAll validates every question and rejects duplicate IDs and empty banks.
// The first malformed record fails the whole load.
func ValidateAll(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	seen := make(map[int]struct{}, len(questions))
	for i, q := range questions {
		if err := Validate(i, q); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return &RecordError{Index: i, Field: "id", Reason: fmt.Sprintf("%d is duplicated", q.ID)}
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}
