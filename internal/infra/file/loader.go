// Package file loads questions from a named-field JSON file on disk or from
// the bank embedded in the binary.
package file

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"dev-quiz-service/internal/domain"
	"dev-quiz-service/internal/source"
)

//go:embed questions.json
var defaultBank []byte

// Loader reads a JSON file of named records on every load.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, l.path, err)
	}
	return source.ParseNamed(data)
}

// EmbeddedLoader serves the default bank compiled into the binary.
type EmbeddedLoader struct{}

func NewEmbeddedLoader() EmbeddedLoader {
	return EmbeddedLoader{}
}

func (EmbeddedLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	return source.ParseNamed(defaultBank)
}
