package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	json bool
	seed int64
}

func (o *rootOptions) generator() generation.Generator {
	return generation.NewHeuristic(generation.NewLockedRand(o.seed))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "scryctl",
		Short:        "Turn study text into summaries, flashcards and quizzes",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of text")
	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed; 0 seeds from the clock")

	cmd.AddCommand(
		newSummarizeCmd(opts),
		newKeyPointsCmd(opts),
		newFlashcardsCmd(opts),
		newQuizCmd(opts),
		newExamCmd(opts),
	)

	return cmd
}

// readInput returns the contents of the file named by args[0], or of stdin
// when there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(raw), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseKinds splits a comma-separated kind list. Unknown kinds are rejected
// by check.
func parseKinds(raw string, check func(domain.Kind) bool) ([]domain.Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var kinds []domain.Kind
	for _, part := range strings.Split(raw, ",") {
		k := domain.Kind(strings.TrimSpace(part))
		if !check(k) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, string(k))
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
