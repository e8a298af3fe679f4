package cli

import (
	"context"
	"fmt"
	"time"

	"dev-quiz-service/internal/app"
	"dev-quiz-service/internal/config"
	"dev-quiz-service/internal/infra/file"
	"dev-quiz-service/internal/infra/memory"
	pgloader "dev-quiz-service/internal/infra/postgres"
	redisstore "dev-quiz-service/internal/infra/redis"
	"dev-quiz-service/internal/infra/sheet"
	"dev-quiz-service/internal/source"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backends holds everything built from config; close releases connections.
type backends struct {
	bank     app.QuestionBank
	sessions app.SessionRepository
	close    func()
}

func buildBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var loader memory.QuestionLoader
	switch cfg.Source.Kind {
	case config.SourceSheet:
		columns := source.DefaultColumns()
		columns.HeaderRows = cfg.Source.HeaderRows
		loader = sheet.NewLoader(cfg.Source.URL, config.TTLDuration(cfg.Source.Timeout, 10*time.Second), columns)
	case config.SourceFile:
		loader = file.NewLoader(cfg.Source.Path)
	case config.SourcePostgres:
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		loader = pgloader.NewQuestionLoader(pool)
	case config.SourceEmbedded:
		loader = file.NewEmbeddedLoader()
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	b := &backends{close: closeAll}
	if redisClient != nil {
		b.bank = redisstore.NewQuestionRepository(redisClient, loader, cfg.Source.Kind, bankTTL)
		b.sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	} else {
		b.bank = memory.NewQuestionRepository(loader, bankTTL)
		b.sessions = memory.NewSessionStoreWithTTL(sessionTTL)
	}
	return b, nil
}

func serviceConfig(cfg config.Config) app.Config {
	return app.Config{
		SampleSize: cfg.Quiz.SampleSize,
		Options: app.Options{
			AutoFinishOnLastAnswer: cfg.Quiz.AutoFinishOnLastAnswer,
		},
	}
}
