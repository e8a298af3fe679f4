package app

import (
	"errors"
	"testing"
	"time"

	"dev-quiz-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeQuestions has the correct answer at choice index 0, 1, 2 respectively.
func threeQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Prompt: "first", Choices: [4]string{"a", "b", "c", "d"}, Answer: "a", Explanation: "a is first"},
		{ID: 2, Prompt: "second", Choices: [4]string{"a", "b", "c", "d"}, Answer: "b"},
		{ID: 3, Prompt: "third", Choices: [4]string{"a", "b", "c", "d"}, Answer: "c"},
	}
}

func newStarted(t *testing.T, opts Options, questions []domain.Question) *Session {
	t.Helper()
	s := NewSessionWithClock("s1", opts, fixedClock())
	require.NoError(t, s.Initialize(questions))
	return s
}

func fixedClock() func() time.Time {
	ts := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func answerAll(t *testing.T, s *Session, choices ...int) {
	t.Helper()
	for i, c := range choices {
		_, err := s.SubmitAnswer(c)
		require.NoError(t, err)
		if i < len(choices)-1 {
			require.NoError(t, s.Advance())
		}
	}
}

func TestInitializeStartsAtFirstQuestion(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())

	assert.Equal(t, 0, s.CurrentIndex())
	assert.False(t, s.Finished())
	_, answered := s.Selected()
	assert.False(t, answered)

	q, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, q.ID)
}

func TestInitializeRejectsEmpty(t *testing.T) {
	s := NewSession("s1", Options{})
	assert.ErrorIs(t, s.Initialize(nil), domain.ErrNoQuestions)
}

func TestAllCorrectPasses(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		qs := make([]domain.Question, n)
		choices := make([]int, n)
		for i := range qs {
			qs[i] = domain.Question{ID: i + 1, Prompt: "p", Choices: [4]string{"w", "x", "y", "z"}, Answer: "y"}
			choices[i] = 2
		}
		s := newStarted(t, Options{}, qs)
		answerAll(t, s, choices...)
		require.NoError(t, s.Advance())

		res := s.Result()
		assert.True(t, s.Finished())
		assert.Equal(t, 100.0, res.ScorePercentage)
		assert.True(t, res.Passed)
	}
}

func TestOneWrongFails(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		qs := make([]domain.Question, n)
		choices := make([]int, n)
		for i := range qs {
			qs[i] = domain.Question{ID: i + 1, Prompt: "p", Choices: [4]string{"w", "x", "y", "z"}, Answer: "w"}
		}
		choices[n-1] = 3
		s := newStarted(t, Options{}, qs)
		answerAll(t, s, choices...)

		res := s.Result()
		assert.False(t, res.Passed, "n=%d", n)
		assert.Equal(t, n-1, res.CorrectCount)
	}
}

func TestChoiceMatchesAnswerText(t *testing.T) {
	q := domain.Question{ID: 9, Prompt: "p", Choices: [4]string{"a", "b", "c", "d"}, Answer: "c"}

	s := newStarted(t, Options{}, []domain.Question{q})
	a, err := s.SubmitAnswer(2)
	require.NoError(t, err)
	assert.True(t, a.IsCorrect)
	assert.Equal(t, "c", a.Chosen)
	assert.Equal(t, "c", a.Correct)

	a, err = s.SubmitAnswer(0)
	require.NoError(t, err)
	assert.False(t, a.IsCorrect)
	assert.Equal(t, "a", a.Chosen)
}

func TestReanswerAdjustsCount(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())

	_, err := s.SubmitAnswer(3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CorrectCount())

	_, err = s.SubmitAnswer(0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CorrectCount())

	_, err = s.SubmitAnswer(0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CorrectCount(), "same correct answer twice must not double count")

	_, err = s.SubmitAnswer(1)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CorrectCount(), "correct then wrong must decrement")
	assert.Equal(t, s.CorrectCount(), s.Result().CorrectCount)
}

func TestRetreatThenAdvanceKeepsAnswer(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())

	first, err := s.SubmitAnswer(1)
	require.NoError(t, err)
	require.NoError(t, s.Advance())
	second, err := s.SubmitAnswer(1)
	require.NoError(t, err)

	require.NoError(t, s.Retreat())
	assert.Equal(t, 0, s.CurrentIndex())
	restored, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, first, restored)

	require.NoError(t, s.Advance())
	assert.Equal(t, 1, s.CurrentIndex())
	again, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, second, again)
}

func TestRetreatAtFirstIsNoop(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	require.NoError(t, s.Retreat())
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	assert.ErrorIs(t, s.Advance(), domain.ErrAnswerRequired)
	assert.Equal(t, 0, s.CurrentIndex())
}

func TestScenarioTwoOfThree(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	answerAll(t, s, 0, 3, 2)
	require.NoError(t, s.Finish(false))

	res := s.Result()
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 66.6, res.ScorePercentage)
	assert.False(t, res.Passed)
	require.Len(t, res.Details, 3)
	assert.False(t, res.Details[1].IsCorrect)
	assert.Equal(t, "d", res.Details[1].Chosen)
	assert.Equal(t, "b", res.Details[1].Correct)
}

func TestFinishRules(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	assert.ErrorIs(t, s.Finish(true), domain.ErrAnswerRequired, "force only applies at the last question")

	answerAll(t, s, 0, 1)
	require.NoError(t, s.Advance())
	assert.Equal(t, 2, s.CurrentIndex())
	assert.ErrorIs(t, s.Finish(false), domain.ErrAnswerRequired)
	require.NoError(t, s.Finish(true))
	assert.True(t, s.Finished())

	res := s.Result()
	assert.False(t, res.Passed)
	assert.False(t, res.Details[2].Answered)
}

func TestFinishedIsFinal(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	answerAll(t, s, 0, 1, 2)
	require.NoError(t, s.Advance())
	require.True(t, s.Finished())

	_, err := s.SubmitAnswer(0)
	assert.ErrorIs(t, err, domain.ErrSessionFinished)
	assert.ErrorIs(t, s.Advance(), domain.ErrSessionFinished)
	assert.ErrorIs(t, s.Retreat(), domain.ErrSessionFinished)
	assert.ErrorIs(t, s.Finish(true), domain.ErrSessionFinished)
	assert.True(t, s.Finished())
}

func TestAutoFinishOnLastAnswer(t *testing.T) {
	s := newStarted(t, Options{AutoFinishOnLastAnswer: true}, threeQuestions())
	answerAll(t, s, 0, 1)
	require.NoError(t, s.Advance())
	assert.False(t, s.Finished(), "reaching the last question does not finish")
	assert.Equal(t, 2, s.CurrentIndex())

	_, err := s.SubmitAnswer(2)
	require.NoError(t, err)
	assert.True(t, s.Finished())
	assert.True(t, s.Result().Passed)
}

func TestWithoutAutoFinishLastAnswerKeepsSessionOpen(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	answerAll(t, s, 0, 1, 2)
	assert.False(t, s.Finished())

	_, err := s.SubmitAnswer(3)
	require.NoError(t, err, "last answer can still be changed")
	assert.Equal(t, 2, s.CorrectCount())
}

func TestChoiceOutOfRange(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	for _, c := range []int{-1, 4, 100} {
		_, err := s.SubmitAnswer(c)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	}
	_, answered := s.Selected()
	assert.False(t, answered)
}

func TestUninitializedOperationsFail(t *testing.T) {
	s := NewSession("s1", Options{})

	_, err := s.SubmitAnswer(0)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Advance(), domain.ErrNotInitialized)
	assert.ErrorIs(t, s.Retreat(), domain.ErrNotInitialized)
	assert.ErrorIs(t, s.Finish(true), domain.ErrNotInitialized)
	_, err = s.Current()
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestResetClearsEverything(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	answerAll(t, s, 0, 1, 2)
	require.NoError(t, s.Finish(false))

	s.Reset()
	assert.False(t, s.Initialized())
	assert.False(t, s.Finished())
	assert.Equal(t, 0, s.CorrectCount())
	assert.ErrorIs(t, s.Advance(), domain.ErrNotInitialized)

	require.NoError(t, s.Initialize(threeQuestions()))
	assert.Equal(t, 0, s.CurrentIndex())
	_, answered := s.Selected()
	assert.False(t, answered)
}

func TestStateRoundTrip(t *testing.T) {
	s := newStarted(t, Options{}, threeQuestions())
	answerAll(t, s, 0, 3)

	restored, err := restoreSessionWithClock(s.State(), Options{}, fixedClock())
	require.NoError(t, err)
	assert.Equal(t, s.State(), restored.State())
	assert.Equal(t, s.CorrectCount(), restored.CorrectCount())
	assert.Equal(t, 1, restored.CurrentIndex())
}

func TestRestoreRejectsBrokenState(t *testing.T) {
	base := newStarted(t, Options{}, threeQuestions()).State()

	badIndex := base
	badIndex.CurrentIndex = 3
	_, err := RestoreSession(badIndex, Options{})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	unknown := newStarted(t, Options{}, threeQuestions()).State()
	unknown.Answers[42] = domain.Answer{QuestionID: 42}
	_, err = RestoreSession(unknown, Options{})
	assert.True(t, errors.Is(err, domain.ErrIndexOutOfRange))
}

func TestRestoreRecomputesVerdict(t *testing.T) {
	state := newStarted(t, Options{}, threeQuestions()).State()
	state.Answers[1] = domain.Answer{QuestionID: 1, ChoiceIndex: 3, Chosen: "d", IsCorrect: true}

	s, err := RestoreSession(state, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.CorrectCount())
}

func TestScoreEmpty(t *testing.T) {
	res := Score(nil, nil)
	assert.Equal(t, 0.0, res.ScorePercentage)
	assert.False(t, res.Passed)
}

func TestScoreTruncates(t *testing.T) {
	qs := make([]domain.Question, 7)
	answers := map[int]domain.Answer{}
	for i := range qs {
		qs[i] = domain.Question{ID: i + 1}
	}
	for i := 1; i <= 5; i++ {
		answers[i] = domain.Answer{QuestionID: i, IsCorrect: true}
	}
	// 5/7 = 71.428...
	assert.Equal(t, 71.4, Score(qs, answers).ScorePercentage)

	answers[6] = domain.Answer{QuestionID: 6, IsCorrect: true}
	// 6/7 = 85.714... truncates to 85.7
	assert.Equal(t, 85.7, Score(qs, answers).ScorePercentage)
}
