package source

import (
	"math/rand"

	"dev-quiz-service/internal/domain"
)

// Sample shuffles a copy of questions with Fisher-Yates and keeps the first n.
// n <= 0 or n > len(questions) keeps everything; the input is never modified.
func Sample(questions []domain.Question, n int, rnd *rand.Rand) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if n <= 0 || n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
