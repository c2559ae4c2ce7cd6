package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/asreval/dataset"
	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/evaluation"
	"github.com/kbukum/asreval/textnorm"
)

var showWords bool

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <samples.csv>",
	Short: "Score a CSV of reference and hypothesis transcripts",
	Long: `Reads a CSV with a header row and scores every row. The id, reference
and hypothesis columns are named in the samples section of the config.
Use "-" to read from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := readSamples(cmd, args[0])
		if err != nil {
			return err
		}
		cfg := appCfg.Cleaning.Build()
		return runTask(cmd, func(ctx context.Context) error {
			ev := &evaluation.Evaluator{
				Config:      cfg,
				Concurrency: appCfg.Evaluation.Concurrency,
				Logger:      app.Logger,
				Metrics:     newMetrics(),
			}
			report, err := ev.Evaluate(ctx, samples)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report, samples, cfg)
			return nil
		})
	},
}

func readSamples(cmd *cobra.Command, path string) ([]evaluation.Sample, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NotFound("samples file", path).WithCause(err)
		}
		defer f.Close()
		r = f
	}
	return dataset.ReadSamples(r, appCfg.Samples)
}

func printReport(w io.Writer, report *evaluation.Report, samples []evaluation.Sample, cfg textnorm.CleaningConfig) {
	idWidth := len("ID")
	for _, r := range report.Results {
		idWidth = max(idWidth, len(r.ID))
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %8s %8s", idWidth, "ID", "WER", "CER")))
	for i, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintln(w, failedStyle.Render(fmt.Sprintf("%-*s skipped: %v", idWidth, r.ID, r.Err)))
			continue
		}
		fmt.Fprintf(w, "%-*s %7.2f%% %7.2f%%\n", idWidth, r.ID, r.WER, r.CER)
		if showWords {
			ref := textnorm.Tokenize(textnorm.Clean(samples[i].Reference, cfg))
			hyp := textnorm.Tokenize(textnorm.Clean(samples[i].Hypothesis, cfg))
			_, missing, extra := evaluation.CompareWords(ref, hyp)
			if len(missing) > 0 {
				fmt.Fprintf(w, "%*s missing: %s\n", idWidth, "", strings.Join(missing, " "))
			}
			if len(extra) > 0 {
				fmt.Fprintf(w, "%*s extra:   %s\n", idWidth, "", strings.Join(extra, " "))
			}
		}
	}

	fmt.Fprintln(w, ruleStyle.Render(strings.Repeat("-", idWidth+18)))
	fmt.Fprintf(w, "%-*s %7.2f%% %7.2f%%\n", idWidth, "weighted", report.WeightedWER, report.WeightedCER)
	summary := fmt.Sprintf("scored %d, skipped %d (run %s)", report.Scored, report.Skipped, report.RunID)
	if report.Skipped > 0 {
		fmt.Fprintln(w, failedStyle.Render(summary))
	} else {
		fmt.Fprintln(w, okStyle.Render(summary))
	}
}

func init() {
	evaluateCmd.Flags().BoolVar(&showWords, "words", false, "list missing and extra words per sample")
	rootCmd.AddCommand(evaluateCmd)
}
