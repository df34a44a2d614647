package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/phrazzld/scry-study/internal/examstats"
	"github.com/spf13/cobra"
)

func newExamCmd(opts *rootOptions) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "exam <file.csv|file.xlsx>",
		Short: "Analyze past exam questions by topic, marks and importance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := examstats.Import(args[0])
			if err != nil {
				return err
			}

			analysis := examstats.Analyze(rows, topN)
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			return writeAnalysis(cmd.OutOrStdout(), analysis)
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", examstats.DefaultTopN, "number of important questions to list")
	return cmd
}

func writeAnalysis(out io.Writer, a examstats.Analysis) error {
	if a.Rows == 0 {
		_, err := fmt.Fprintln(out, "No usable exam questions.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Questions analyzed: %d\n\n", a.Rows)

	fmt.Fprintln(tw, "TOPIC\tCOUNT")
	for _, t := range a.TopicFrequency {
		fmt.Fprintf(tw, "%s\t%d\n", t.Topic, t.Count)
	}

	fmt.Fprintln(tw, "\nMARKS\tCOUNT")
	for _, m := range a.MarksDistribution {
		fmt.Fprintf(tw, "%d\t%d\n", m.Marks, m.Count)
	}

	fmt.Fprintln(tw, "\nQUESTION\tFREQ\tAVG MARKS\tLATEST\tSCORE")
	for _, q := range a.ImportantQuestions {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%d\t%.2f\n", q.Question, q.Frequency, q.AvgMarks, q.LatestYear, q.Score)
	}

	return tw.Flush()
}
