package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"dev-quiz-service/internal/domain"
)

// NamedRecord is the static JSON file shape.
type NamedRecord struct {
	ID          int    `json:"id"`
	Category    string `json:"category"`
	Question    string `json:"question"`
	Choices1    string `json:"choices1"`
	Choices2    string `json:"choices2"`
	Choices3    string `json:"choices3"`
	Choices4    string `json:"choices4"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// ParseNamed decodes a JSON array of NamedRecord and validates it.
func ParseNamed(data []byte) ([]domain.Question, error) {
	var records []NamedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode question file: %v", domain.ErrMalformedRecord, err)
	}
	return FromNamed(records)
}

// FromNamed converts named records into questions. A zero ID takes the record's position.
func FromNamed(records []NamedRecord) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(records))
	for i, r := range records {
		id := r.ID
		if id == 0 {
			id = i + 1
		}
		questions = append(questions, domain.Question{
			ID:       id,
			Category: strings.TrimSpace(r.Category),
			Prompt:   strings.TrimSpace(r.Question),
			Choices: [domain.ChoiceCount]string{
				strings.TrimSpace(r.Choices1),
				strings.TrimSpace(r.Choices2),
				strings.TrimSpace(r.Choices3),
				strings.TrimSpace(r.Choices4),
			},
			Answer:      strings.TrimSpace(r.Answer),
			Explanation: strings.TrimSpace(r.Explanation),
		})
	}
	if err := ValidateAll(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ToNamed is the inverse of FromNamed, used when seeding storage.
func ToNamed(q domain.Question) NamedRecord {
	return NamedRecord{
		ID:          q.ID,
		Category:    q.Category,
		Question:    q.Prompt,
		Choices1:    q.Choices[0],
		Choices2:    q.Choices[1],
		Choices3:    q.Choices[2],
		Choices4:    q.Choices[3],
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
}
