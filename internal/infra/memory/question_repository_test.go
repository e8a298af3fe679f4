package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dev-quiz-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.Questions(context.Background()); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	qs, err := repo.Questions(context.Background())
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.Questions(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = repo.Questions(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}

	repo.Invalidate()
	_, _ = repo.Questions(context.Background())
	if loader.calls != 3 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryReturnsCopies(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(sampleQuestions()), time.Minute)

	qs, _ := repo.Questions(context.Background())
	qs[0].Prompt = "mutated"

	again, _ := repo.Questions(context.Background())
	if again[0].Prompt == "mutated" {
		t.Fatalf("cache must not share slices with callers")
	}
}

func TestQuestionRepositoryDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewStaticQuestionLoader(nil)}
	repo := NewQuestionRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := repo.Questions(context.Background()); !errors.Is(err, domain.ErrNoQuestions) {
			t.Fatalf("expected no questions error, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected each failed load to retry, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       1,
			Category: "Math",
			Prompt:   "What is 2 + 2?",
			Choices:  [4]string{"3", "4", "5", "6"},
			Answer:   "4",
		},
		{
			ID:       2,
			Category: "Math",
			Prompt:   "What is 3 * 3?",
			Choices:  [4]string{"6", "8", "9", "12"},
			Answer:   "9",
		},
	}
}

func TestQuestionRepositoryZeroTTLDisablesCaching(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(loader, 0)

	for i := 0; i < 2; i++ {
		if _, err := repo.Questions(context.Background()); err != nil {
			t.Fatalf("get questions: %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected every call to load without a ttl, loader calls %d", loader.calls)
	}
}
