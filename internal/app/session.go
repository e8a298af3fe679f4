package app

import (
	"fmt"
	"time"

	"dev-quiz-service/internal/domain"
)

// Options tune engine behaviour.
type Options struct {
	// AutoFinishOnLastAnswer finishes the quiz as soon as the last question is answered.
	// When false the player must advance or finish explicitly.
	AutoFinishOnLastAnswer bool
}

// Session is the quiz state machine for a single player. It is not safe for
// concurrent use; QuizService serialises access.
type Session struct {
	id         string
	opts       Options
	now        func() time.Time
	questions  []domain.Question
	current    int
	answers    map[int]domain.Answer
	correct    int
	finished   bool
	startedAt  time.Time
	finishedAt time.Time
}

// NewSession returns an uninitialized session.
func NewSession(id string, opts Options) *Session {
	return NewSessionWithClock(id, opts, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, opts Options, now func() time.Time) *Session {
	return &Session{
		id:      id,
		opts:    opts,
		now:     now,
		answers: make(map[int]domain.Answer),
	}
}

// RestoreSession rebuilds a session from a snapshot, rejecting snapshots that
// break the session invariants.
func RestoreSession(state domain.SessionState, opts Options) (*Session, error) {
	return restoreSessionWithClock(state, opts, time.Now)
}

func restoreSessionWithClock(state domain.SessionState, opts Options, now func() time.Time) (*Session, error) {
	s := NewSessionWithClock(state.ID, opts, now)
	if len(state.Questions) == 0 {
		return s, nil
	}
	if state.CurrentIndex < 0 || state.CurrentIndex >= len(state.Questions) {
		return nil, fmt.Errorf("%w: current index %d of %d", domain.ErrIndexOutOfRange, state.CurrentIndex, len(state.Questions))
	}

	known := make(map[int]domain.Question, len(state.Questions))
	for _, q := range state.Questions {
		known[q.ID] = q
	}
	for qid, a := range state.Answers {
		q, ok := known[qid]
		if !ok || a.QuestionID != qid {
			return nil, fmt.Errorf("%w: answer for unknown question %d", domain.ErrIndexOutOfRange, qid)
		}
		if a.ChoiceIndex < 0 || a.ChoiceIndex >= domain.ChoiceCount {
			return nil, fmt.Errorf("%w: choice %d for question %d", domain.ErrIndexOutOfRange, a.ChoiceIndex, qid)
		}
		// Recompute rather than trust the stored verdict.
		s.answers[qid] = buildAnswer(q, a.ChoiceIndex)
	}

	s.questions = append([]domain.Question(nil), state.Questions...)
	s.current = state.CurrentIndex
	s.finished = state.Finished
	s.startedAt = state.StartedAt
	s.finishedAt = state.FinishedAt
	s.correct = Score(s.questions, s.answers).CorrectCount
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Initialize loads questions and moves to the first, unanswered question.
func (s *Session) Initialize(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	s.questions = append([]domain.Question(nil), questions...)
	s.current = 0
	s.answers = make(map[int]domain.Answer, len(questions))
	s.correct = 0
	s.finished = false
	s.startedAt = s.now()
	s.finishedAt = time.Time{}
	return nil
}

// SubmitAnswer records (or overwrites) the answer to the current question.
func (s *Session) SubmitAnswer(choice int) (domain.Answer, error) {
	if err := s.checkActive(); err != nil {
		return domain.Answer{}, err
	}
	if choice < 0 || choice >= domain.ChoiceCount {
		return domain.Answer{}, fmt.Errorf("%w: choice %d", domain.ErrIndexOutOfRange, choice)
	}

	q := s.questions[s.current]
	answer := buildAnswer(q, choice)

	if prev, ok := s.answers[q.ID]; ok && prev.IsCorrect {
		s.correct--
	}
	if answer.IsCorrect {
		s.correct++
	}
	s.answers[q.ID] = answer

	if s.opts.AutoFinishOnLastAnswer && s.isLast() {
		s.finish()
	}
	return answer, nil
}

// Advance moves to the next question, or finishes at the last one.
// The current question must be answered first.
func (s *Session) Advance() error {
	if err := s.checkActive(); err != nil {
		return err
	}
	if !s.currentAnswered() {
		return domain.ErrAnswerRequired
	}
	if s.isLast() {
		s.finish()
		return nil
	}
	s.current++
	return nil
}

// Retreat moves back one question, keeping every recorded answer.
// At the first question it does nothing.
func (s *Session) Retreat() error {
	if err := s.checkActive(); err != nil {
		return err
	}
	if s.current > 0 {
		s.current--
	}
	return nil
}

// Finish ends the quiz. It needs the current question answered, unless force
// is set and the player is on the last question.
func (s *Session) Finish(force bool) error {
	if err := s.checkActive(); err != nil {
		return err
	}
	if !s.currentAnswered() && !(force && s.isLast()) {
		return domain.ErrAnswerRequired
	}
	s.finish()
	return nil
}

// Reset clears all state; Initialize must be called again.
func (s *Session) Reset() {
	s.questions = nil
	s.current = 0
	s.answers = make(map[int]domain.Answer)
	s.correct = 0
	s.finished = false
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
}

// Initialized reports whether questions are loaded.
func (s *Session) Initialized() bool { return len(s.questions) > 0 }

// Finished reports whether the quiz has ended.
func (s *Session) Finished() bool { return s.finished }

// CurrentIndex returns the zero-based position of the current question.
func (s *Session) CurrentIndex() int { return s.current }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.questions) }

// CorrectCount returns the running number of correct answers.
func (s *Session) CorrectCount() int { return s.correct }

// Current returns the current question.
func (s *Session) Current() (domain.Question, error) {
	if !s.Initialized() {
		return domain.Question{}, domain.ErrNotInitialized
	}
	return s.questions[s.current], nil
}

// Selected returns the recorded answer for the current question, if any.
func (s *Session) Selected() (domain.Answer, bool) {
	if !s.Initialized() {
		return domain.Answer{}, false
	}
	a, ok := s.answers[s.questions[s.current].ID]
	return a, ok
}

// Result computes the score from the recorded answers.
func (s *Session) Result() domain.Result {
	return Score(s.questions, s.answers)
}

// State returns a deep copy snapshot of the session.
func (s *Session) State() domain.SessionState {
	answers := make(map[int]domain.Answer, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return domain.SessionState{
		ID:           s.id,
		Questions:    append([]domain.Question(nil), s.questions...),
		CurrentIndex: s.current,
		Answers:      answers,
		Finished:     s.finished,
		StartedAt:    s.startedAt,
		FinishedAt:   s.finishedAt,
	}
}

func (s *Session) checkActive() error {
	if !s.Initialized() {
		return domain.ErrNotInitialized
	}
	if s.finished {
		return domain.ErrSessionFinished
	}
	return nil
}

func (s *Session) currentAnswered() bool {
	_, ok := s.answers[s.questions[s.current].ID]
	return ok
}

func (s *Session) isLast() bool {
	return s.current == len(s.questions)-1
}

func (s *Session) finish() {
	if s.finished {
		return
	}
	s.finished = true
	s.finishedAt = s.now()
}

func buildAnswer(q domain.Question, choice int) domain.Answer {
	chosen := q.Choices[choice]
	return domain.Answer{
		QuestionID:  q.ID,
		ChoiceIndex: choice,
		Chosen:      chosen,
		Correct:     q.Answer,
		IsCorrect:   chosen == q.Answer,
	}
}
