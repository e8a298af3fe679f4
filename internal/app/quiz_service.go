package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"dev-quiz-service/internal/domain"
	"dev-quiz-service/internal/source"
	"github.com/google/uuid"
)

// SessionRepository abstracts where session snapshots live (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, state domain.SessionState) error
	Get(ctx context.Context, id string) (domain.SessionState, error)
	Delete(ctx context.Context, id string) error
}

// QuestionBank yields the full, validated question set (from cache/backing source).
type QuestionBank interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// Config controls how sessions are built.
type Config struct {
	// SampleSize is how many questions a session draws; <= 0 uses the whole bank.
	SampleSize int
	Options    Options
}

// QuizService contains the quiz use cases for single-player sessions.
type QuizService struct {
	sessions SessionRepository
	bank     QuestionBank
	cfg      Config
	now      func() time.Time
	newID    func() string

	// mu serialises load-mutate-save and guards rnd.
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizService(store SessionRepository, bank QuestionBank, cfg Config) *QuizService {
	return NewQuizServiceWithRand(store, bank, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuizServiceWithRand injects the shuffle source for deterministic tests.
func NewQuizServiceWithRand(store SessionRepository, bank QuestionBank, cfg Config, rnd *rand.Rand) *QuizService {
	return &QuizService{
		sessions: store,
		bank:     bank,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
		rnd:      rnd,
	}
}

// Start draws a fresh sample from the bank and opens a new session.
func (s *QuizService) Start(ctx context.Context) (domain.SessionView, error) {
	questions, err := s.bank.Questions(ctx)
	if err != nil {
		return domain.SessionView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sample := source.Sample(questions, s.cfg.SampleSize, s.rnd)
	session := NewSessionWithClock(s.newID(), s.cfg.Options, s.now)
	if err := session.Initialize(sample); err != nil {
		return domain.SessionView{}, err
	}
	if err := s.sessions.Save(ctx, session.State()); err != nil {
		return domain.SessionView{}, err
	}
	return BuildView(session), nil
}

// View returns the current state of a session.
func (s *QuizService) View(ctx context.Context, id string) (domain.SessionView, error) {
	return s.update(ctx, id, nil)
}

// Answer submits the choice for the current question.
func (s *QuizService) Answer(ctx context.Context, id string, choice int) (domain.SessionView, error) {
	return s.update(ctx, id, func(session *Session) error {
		_, err := session.SubmitAnswer(choice)
		return err
	})
}

// Next advances to the next question (or finishes at the last one).
func (s *QuizService) Next(ctx context.Context, id string) (domain.SessionView, error) {
	return s.update(ctx, id, (*Session).Advance)
}

// Prev goes back one question.
func (s *QuizService) Prev(ctx context.Context, id string) (domain.SessionView, error) {
	return s.update(ctx, id, (*Session).Retreat)
}

// Finish ends the quiz and exposes the result.
func (s *QuizService) Finish(ctx context.Context, id string, force bool) (domain.SessionView, error) {
	return s.update(ctx, id, func(session *Session) error {
		return session.Finish(force)
	})
}

// Retry discards a session and starts a new one with a fresh shuffle.
func (s *QuizService) Retry(ctx context.Context, id string) (domain.SessionView, error) {
	if err := s.Abandon(ctx, id); err != nil {
		return domain.SessionView{}, err
	}
	return s.Start(ctx)
}

// Abandon drops a session entirely.
func (s *QuizService) Abandon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

func (s *QuizService) update(ctx context.Context, id string, fn func(*Session) error) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.SessionView{}, err
	}
	session, err := restoreSessionWithClock(state, s.cfg.Options, s.now)
	if err != nil {
		return domain.SessionView{}, err
	}
	if fn == nil {
		return BuildView(session), nil
	}
	if err := fn(session); err != nil {
		return domain.SessionView{}, err
	}
	if err := s.sessions.Save(ctx, session.State()); err != nil {
		return domain.SessionView{}, err
	}
	return BuildView(session), nil
}

// BuildView renders a session for presentation layers. The correct answer is
// only revealed once the current question has been answered.
func BuildView(session *Session) domain.SessionView {
	view := domain.SessionView{
		SessionID: session.ID(),
		Index:     session.CurrentIndex(),
		Total:     session.Len(),
		Finished:  session.Finished(),
	}
	if !session.Initialized() {
		return view
	}

	view.IsLast = view.Index == view.Total-1
	view.Progress = float64((view.Index+1)*1000/view.Total) / 10

	if session.Finished() {
		result := session.Result()
		view.Result = &result
		view.Progress = 100
		return view
	}

	q, _ := session.Current()
	view.Question = &domain.QuestionView{
		ID:       q.ID,
		Category: q.Category,
		Prompt:   q.Prompt,
		Choices:  append([]string(nil), q.Choices[:]...),
	}
	if a, ok := session.Selected(); ok {
		selected := a.ChoiceIndex
		correct := a.IsCorrect
		view.Selected = &selected
		view.IsCorrect = &correct
		view.Explanation = q.Explanation
	}
	return view
}
