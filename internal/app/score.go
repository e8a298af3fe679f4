package app

import "dev-quiz-service/internal/domain"

// Score aggregates answers over questions. The percentage keeps one decimal
// and is truncated, not rounded. Passing requires every question correct.
func Score(questions []domain.Question, answers map[int]domain.Answer) domain.Result {
	result := domain.Result{
		Total:   len(questions),
		Details: make([]domain.AnswerDetail, 0, len(questions)),
	}

	for _, q := range questions {
		detail := domain.AnswerDetail{
			QuestionID:  q.ID,
			Prompt:      q.Prompt,
			Correct:     q.Answer,
			Explanation: q.Explanation,
		}
		if a, ok := answers[q.ID]; ok {
			detail.Answered = true
			detail.Chosen = a.Chosen
			detail.IsCorrect = a.IsCorrect
			if a.IsCorrect {
				result.CorrectCount++
			}
		}
		result.Details = append(result.Details, detail)
	}

	if result.Total > 0 {
		result.ScorePercentage = float64(result.CorrectCount*1000/result.Total) / 10
	}
	result.Passed = result.Total > 0 && result.CorrectCount == result.Total
	return result
}
