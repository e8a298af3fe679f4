// Package sheet loads questions from an HTTP endpoint that serves spreadsheet
// rows as a JSON array of arrays.
package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dev-quiz-service/internal/domain"
	"dev-quiz-service/internal/source"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Loader fetches rows with a single GET; there is no retry.
type Loader struct {
	url     string
	client  *http.Client
	columns source.ColumnMapping
}

func NewLoader(url string, timeout time.Duration, columns source.ColumnMapping) *Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		columns: columns,
	}
}

func (l *Loader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrSourceUnavailable, l.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrSourceUnavailable, l.url, resp.StatusCode)
	}

	var rows [][]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", domain.ErrSourceUnavailable, err)
	}
	return source.ParseRows(rows, l.columns)
}
