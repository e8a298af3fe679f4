package source

import (
	"fmt"
	"strconv"
	"strings"

	"dev-quiz-service/internal/domain"
)

// ColumnMapping maps spreadsheet columns onto question fields.
// A negative column means the field is absent from the sheet.
type ColumnMapping struct {
	HeaderRows  int
	Category    int
	Prompt      int
	Choices     [domain.ChoiceCount]int
	Answer      int
	Explanation int
}

// DefaultColumns matches the quiz sheet layout: column 0 holds the sheet's own
// row number and is ignored.
func DefaultColumns() ColumnMapping {
	return ColumnMapping{
		Category:    1,
		Prompt:      2,
		Choices:     [domain.ChoiceCount]int{3, 4, 5, 6},
		Answer:      7,
		Explanation: 8,
	}
}

// ParseRows extracts questions from spreadsheet rows by column index.
// IDs are assigned by row position starting at 1.
func ParseRows(rows [][]any, m ColumnMapping) ([]domain.Question, error) {
	if m.HeaderRows > 0 {
		if m.HeaderRows >= len(rows) {
			rows = nil
		} else {
			rows = rows[m.HeaderRows:]
		}
	}

	questions := make([]domain.Question, 0, len(rows))
	for i, row := range rows {
		q := domain.Question{ID: i + 1}

		var err error
		if q.Prompt, err = requiredCell(row, i, m.Prompt, "prompt"); err != nil {
			return nil, err
		}
		for c, col := range m.Choices {
			if q.Choices[c], err = requiredCell(row, i, col, fmt.Sprintf("choice%d", c+1)); err != nil {
				return nil, err
			}
		}
		if q.Answer, err = requiredCell(row, i, m.Answer, "answer"); err != nil {
			return nil, err
		}
		q.Category = optionalCell(row, m.Category)
		q.Explanation = optionalCell(row, m.Explanation)

		questions = append(questions, q)
	}

	if err := ValidateAll(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func requiredCell(row []any, index, col int, field string) (string, error) {
	if col < 0 || col >= len(row) {
		return "", &RecordError{Index: index, Field: field, Reason: fmt.Sprintf("missing (column %d)", col)}
	}
	return cellString(row[col]), nil
}

func optionalCell(row []any, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return cellString(row[col])
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}
