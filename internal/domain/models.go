package domain

import "time"

// ChoiceCount is the number of choices every question carries.
const ChoiceCount = 4

// Question models a four-choice question. Answer must equal one of Choices verbatim.
type Question struct {
	ID          int                 `json:"id"`
	Category    string              `json:"category"`
	Prompt      string              `json:"prompt"`
	Choices     [ChoiceCount]string `json:"choices"`
	Answer      string              `json:"answer"`
	Explanation string              `json:"explanation"`
}

// AnswerIndex returns the position of Answer among Choices, or -1.
func (q Question) AnswerIndex() int {
	for i, c := range q.Choices {
		if c == q.Answer {
			return i
		}
	}
	return -1
}

// Answer records the outcome of answering one question.
type Answer struct {
	QuestionID  int    `json:"questionId"`
	ChoiceIndex int    `json:"choiceIndex"`
	Chosen      string `json:"chosen"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
}

// SessionState is the serialisable snapshot of a single quiz attempt.
type SessionState struct {
	ID           string         `json:"id"`
	Questions    []Question     `json:"questions"`
	CurrentIndex int            `json:"currentIndex"`
	Answers      map[int]Answer `json:"answers"`
	Finished     bool           `json:"finished"`
	StartedAt    time.Time      `json:"startedAt"`
	FinishedAt   time.Time      `json:"finishedAt,omitempty"`
}

// AnswerDetail is one line of the result breakdown.
type AnswerDetail struct {
	QuestionID  int    `json:"questionId"`
	Prompt      string `json:"prompt"`
	Answered    bool   `json:"answered"`
	Chosen      string `json:"chosen"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// Result aggregates a session's score. Passed requires every question correct.
type Result struct {
	Total           int            `json:"total"`
	CorrectCount    int            `json:"correctCount"`
	ScorePercentage float64        `json:"scorePercentage"`
	Passed          bool           `json:"passed"`
	Details         []AnswerDetail `json:"details"`
}

// QuestionView is a question as shown to the player, without its answer.
type QuestionView struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Prompt   string   `json:"prompt"`
	Choices  []string `json:"choices"`
}

// SessionView is everything a presentation layer needs to render a session.
type SessionView struct {
	SessionID   string        `json:"sessionId"`
	Index       int           `json:"index"`
	Total       int           `json:"total"`
	Progress    float64       `json:"progress"`
	Question    *QuestionView `json:"question,omitempty"`
	Selected    *int          `json:"selected,omitempty"`
	IsCorrect   *bool         `json:"isCorrect,omitempty"`
	Explanation string        `json:"explanation,omitempty"`
	IsLast      bool          `json:"isLast"`
	Finished    bool          `json:"finished"`
	Result      *Result       `json:"result,omitempty"`
}
