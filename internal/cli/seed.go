package cli

import (
	"context"
	"fmt"
	"log"

	"dev-quiz-service/internal/config"
	"dev-quiz-service/internal/domain"
	"dev-quiz-service/internal/infra/file"
	"dev-quiz-service/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads a question file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		path    string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load questions from a JSON file (or the built-in bank) into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, path, replace)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "named-field JSON question file (defaults to the built-in bank)")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete questions missing from the file")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, path string, replace bool) error {
	questions, err := readSeedFile(ctx, path)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := postgres.SeedQuestions(ctx, db, questions, replace)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	log.Printf("seeded %d questions", n)
	return nil
}

func readSeedFile(ctx context.Context, path string) ([]domain.Question, error) {
	if path == "" {
		return file.NewEmbeddedLoader().LoadQuestions(ctx)
	}
	return file.NewLoader(path).LoadQuestions(ctx)
}
