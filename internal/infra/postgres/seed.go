package postgres

import (
	"context"
	"time"

	"dev-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

// QuestionRow is the bun model of the questions table.
type QuestionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID          int       `bun:"id,pk"`
	Category    string    `bun:"category,notnull"`
	Prompt      string    `bun:"prompt,notnull"`
	Choice1     string    `bun:"choice1,notnull"`
	Choice2     string    `bun:"choice2,notnull"`
	Choice3     string    `bun:"choice3,notnull"`
	Choice4     string    `bun:"choice4,notnull"`
	Answer      string    `bun:"answer,notnull"`
	Explanation string    `bun:"explanation,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func rowFromQuestion(q domain.Question) QuestionRow {
	return QuestionRow{
		ID:          q.ID,
		Category:    q.Category,
		Prompt:      q.Prompt,
		Choice1:     q.Choices[0],
		Choice2:     q.Choices[1],
		Choice3:     q.Choices[2],
		Choice4:     q.Choices[3],
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
}

// SeedQuestions upserts questions by id. With replace set, rows not in the
// input are removed, all inside one transaction.
func SeedQuestions(ctx context.Context, db *bun.DB, questions []domain.Question, replace bool) (int, error) {
	if len(questions) == 0 {
		return 0, domain.ErrNoQuestions
	}
	rows := make([]QuestionRow, 0, len(questions))
	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, rowFromQuestion(q))
		ids = append(ids, q.ID)
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if replace {
			if _, err := tx.NewDelete().
				Model((*QuestionRow)(nil)).
				Where("id NOT IN (?)", bun.In(ids)).
				Exec(ctx); err != nil {
				return err
			}
		}
		_, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (id) DO UPDATE").
			Set("category = EXCLUDED.category").
			Set("prompt = EXCLUDED.prompt").
			Set("choice1 = EXCLUDED.choice1").
			Set("choice2 = EXCLUDED.choice2").
			Set("choice3 = EXCLUDED.choice3").
			Set("choice4 = EXCLUDED.choice4").
			Set("answer = EXCLUDED.answer").
			Set("explanation = EXCLUDED.explanation").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
