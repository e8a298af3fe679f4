package postgres

import (
	"context"
	"fmt"

	"dev-quiz-service/internal/domain"
	"dev-quiz-service/internal/source"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads the question bank from the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, category, prompt, choice1, choice2, choice3, choice4, answer, explanation
		FROM questions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Prompt,
			&q.Choices[0], &q.Choices[1], &q.Choices[2], &q.Choices[3],
			&q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", domain.ErrSourceUnavailable, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load questions: %v", domain.ErrSourceUnavailable, err)
	}

	if err := source.ValidateAll(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
