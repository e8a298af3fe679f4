package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"dev-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the question bank from a backing source (sheet, file, DB).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the question bank in Redis and falls back to a loader on cache miss.
// The bank is stored as: SET quiz:bank:{name} <json array of questions> EX ttl
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	name   string
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, name string, ttl time.Duration) *QuestionRepository {
	if name == "" {
		name = "default"
	}
	return &QuestionRepository{
		client: client,
		loader: loader,
		name:   name,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions returns the bank from Redis, loading and caching it on a miss.
// A ttl <= 0 disables caching, as in the in-memory repository.
func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	if r.ttl <= 0 {
		return r.loader.LoadQuestions(ctx)
	}
	if qs, ok := r.fromCache(ctx); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(r.key(), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := r.fromCache(ctx); ok {
			return qs, nil
		}

		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, r.key(), raw, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache question bank: %v", err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Question(nil), result.([]domain.Question)...), nil
}

// Invalidate drops the cached bank.
func (r *QuestionRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}

// fromCache treats unreadable or corrupt entries as a miss.
func (r *QuestionRepository) fromCache(ctx context.Context) ([]domain.Question, bool) {
	raw, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil || len(questions) == 0 {
		return nil, false
	}
	return questions, true
}

func (r *QuestionRepository) key() string {
	return "quiz:bank:" + r.name
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
