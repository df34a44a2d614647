package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/spf13/cobra"
)

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	var (
		bullets int
		focus   string
	)

	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize text as a bullet list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			summary, err := opts.generator().Summarize(text, bullets, generation.Focus(focus))
			if opts.json {
				if errors.Is(err, generation.ErrInsufficientContent) {
					summary, err = &generation.Summary{Sentences: []string{}}, nil
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"sentences": summary.Sentences,
					"bullets":   summary.Bullets(),
				})
			}

			rendered, err := generation.SummaryOrPlaceholder(summary, err)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVarP(&bullets, "bullets", "n", 6, "maximum number of bullets")
	cmd.Flags().StringVar(&focus, "focus", "", "bias towards concepts, definitions, examples or processes")
	return cmd
}

func newKeyPointsCmd(opts *rootOptions) *cobra.Command {
	var maxPoints int

	cmd := &cobra.Command{
		Use:   "keypoints [file]",
		Short: "Extract categorised key points",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			points := opts.generator().KeyPoints(text, maxPoints)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), points)
			}
			for _, p := range points {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxPoints, "max", "n", 8, "maximum number of key points")
	return cmd
}

func newFlashcardsCmd(opts *rootOptions) *cobra.Command {
	var (
		count int
		kinds string
	)

	cmd := &cobra.Command{
		Use:   "flashcards [file]",
		Short: "Generate question and answer flashcards",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return generation.ErrInvalidCount
			}
			keep, err := parseKinds(kinds, domain.Kind.IsFlashcardKind)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			cards := opts.generator().Flashcards(text, count)
			if len(keep) > 0 {
				filtered := cards[:0]
				for _, c := range cards {
					for _, k := range keep {
						if c.Kind == k {
							filtered = append(filtered, c)
							break
						}
					}
				}
				cards = filtered
			}
			if cards == nil {
				cards = []domain.Flashcard{}
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), cards)
			}
			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				_, err := fmt.Fprintln(out, "No flashcards could be generated.")
				return err
			}
			for i, c := range cards {
				if _, err := fmt.Fprintf(out, "%d. [%s]\nQ: %s\nA: %s\n\n", i+1, c.Kind, c.Question, c.Answer); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of flashcards")
	cmd.Flags().StringVar(&kinds, "kinds", "", "comma-separated kinds to keep")
	return cmd
}

func newQuizCmd(opts *rootOptions) *cobra.Command {
	var (
		count       int
		difficulty  string
		kinds       string
		showAnswers bool
	)

	cmd := &cobra.Command{
		Use:   "quiz [file]",
		Short: "Generate a quiz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseKinds(kinds, domain.Kind.IsQuizKind)
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			items, err := opts.generator().Quiz(text, count, domain.Difficulty(difficulty), selected)
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not enough content to generate a quiz.")
				return err
			}
			return writeQuiz(cmd, items, showAnswers)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 8, "number of questions")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyMedium), "easy, medium or hard")
	cmd.Flags().StringVar(&kinds, "kinds", "", "comma-separated quiz kinds")
	cmd.Flags().BoolVar(&showAnswers, "answers", false, "print the answer after each question")
	return cmd
}

func writeQuiz(cmd *cobra.Command, items []domain.QuizItem, showAnswers bool) error {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Question)

		switch item.Kind {
		case domain.KindMultipleChoice, domain.KindTrueFalse:
			for j, opt := range item.Options {
				fmt.Fprintf(&b, "   %c) %s\n", 'a'+j, opt)
			}
		case domain.KindMatching:
			for j, term := range item.Terms {
				fmt.Fprintf(&b, "   %d. %s\n", j+1, term)
			}
			for j, def := range item.Definitions {
				fmt.Fprintf(&b, "   %c) %s\n", 'a'+j, def)
			}
		}

		if showAnswers {
			fmt.Fprintf(&b, "   Answer: %s\n", answerText(item))
		}
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}

func answerText(item domain.QuizItem) string {
	switch item.Kind {
	case domain.KindFillBlank:
		return item.Answer
	case domain.KindMatching:
		pairs := make([]string, 0, len(item.Terms))
		for t := range item.Terms {
			if d, ok := item.AnswerMap[t]; ok {
				pairs = append(pairs, fmt.Sprintf("%d-%c", t+1, 'a'+d))
			}
		}
		return strings.Join(pairs, ", ")
	default:
		return item.CorrectOption()
	}
}
