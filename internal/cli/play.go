package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dev-quiz-service/internal/app"
	"dev-quiz-service/internal/config"
	"dev-quiz-service/internal/domain"
	"github.com/spf13/cobra"
)

// NewPlayCmd runs a quiz in the terminal against the configured source.
func NewPlayCmd(configPath *string) *cobra.Command {
	var sampleSize int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if sampleSize > 0 {
				cfg.Quiz.SampleSize = sampleSize
			}

			b, err := buildBackends(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.close()

			service := app.NewQuizService(b.sessions, b.bank, serviceConfig(cfg))
			return playSession(cmd.Context(), service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&sampleSize, "questions", 0, "number of questions (overrides quiz.sampleSize)")
	return cmd
}

const playHelp = "[1-4] choose  [n] next  [p] previous  [r] result  [q] quit"

func playSession(ctx context.Context, service *app.QuizService, in io.Reader, out io.Writer) error {
	view, err := service.Start(ctx)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)

	for {
		if view.Finished {
			printResult(out, view.Result)
			fmt.Fprint(out, "Try again? [y/N] ")
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				return service.Abandon(ctx, view.SessionID)
			}
			if view, err = service.Retry(ctx, view.SessionID); err != nil {
				return err
			}
			continue
		}

		printQuestion(out, view)
		if !scanner.Scan() {
			_ = service.Abandon(ctx, view.SessionID)
			return scanner.Err()
		}

		next, err := applyCommand(ctx, service, view.SessionID, strings.TrimSpace(scanner.Text()))
		switch {
		case errors.Is(err, errQuit):
			return service.Abandon(ctx, view.SessionID)
		case errors.Is(err, domain.ErrAnswerRequired):
			fmt.Fprintln(out, "Choose an answer first.")
		case errors.Is(err, errUnknownCommand), errors.Is(err, domain.ErrIndexOutOfRange):
			fmt.Fprintln(out, playHelp)
		case err != nil:
			return err
		default:
			view = next
		}
	}
}

var (
	errQuit           = errors.New("quit")
	errUnknownCommand = errors.New("unknown command")
)

func applyCommand(ctx context.Context, service *app.QuizService, id, input string) (domain.SessionView, error) {
	switch strings.ToLower(input) {
	case "n":
		return service.Next(ctx, id)
	case "p":
		return service.Prev(ctx, id)
	case "r":
		return service.Finish(ctx, id, false)
	case "q":
		return domain.SessionView{}, errQuit
	}
	choice, err := strconv.Atoi(input)
	if err != nil {
		return domain.SessionView{}, errUnknownCommand
	}
	return service.Answer(ctx, id, choice-1)
}

func printQuestion(out io.Writer, view domain.SessionView) {
	q := view.Question
	fmt.Fprintf(out, "\nProgress: %d/%d\n", view.Index+1, view.Total)
	if q.Category != "" {
		fmt.Fprintf(out, "[%s] ", q.Category)
	}
	fmt.Fprintf(out, "Q.%d: %s\n", view.Index+1, q.Prompt)
	for i, choice := range q.Choices {
		marker := " "
		if view.Selected != nil && *view.Selected == i {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d. %s\n", marker, i+1, choice)
	}
	if view.IsCorrect != nil {
		if *view.IsCorrect {
			fmt.Fprintln(out, "Correct!")
		} else {
			fmt.Fprintln(out, "Incorrect.")
		}
		if view.Explanation != "" {
			fmt.Fprintln(out, view.Explanation)
		}
	}
	fmt.Fprintf(out, "%s\n> ", playHelp)
}

func printResult(out io.Writer, result *domain.Result) {
	verdict := "FAIL"
	if result.Passed {
		verdict = "PASS"
	}
	fmt.Fprintf(out, "\nResult: %s (pass mark: 100%%)\n", verdict)
	fmt.Fprintf(out, "Score: %.1f%% / 100%% (%d/%d)\n\n", result.ScorePercentage, result.CorrectCount, result.Total)
	for i, d := range result.Details {
		mark := "x"
		if d.IsCorrect {
			mark = "o"
		}
		chosen := d.Chosen
		if !d.Answered {
			chosen = "(no answer)"
		}
		fmt.Fprintf(out, "Q.%d [%s] %s\n    your answer: %s\n    correct:     %s\n", i+1, mark, d.Prompt, chosen, d.Correct)
	}
}
