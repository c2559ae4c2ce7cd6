package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/asreval/align"
	"github.com/kbukum/asreval/render"
	"github.com/kbukum/asreval/scoring"
	"github.com/kbukum/asreval/textnorm"
)

var (
	refText string
	hypText string

	width   int
	margin  int
	compact bool
	stacked bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <text>...",
	Short: "Print the normalised text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg.Cleaning.Build()
		fmt.Fprintln(cmd.OutOrStdout(), textnorm.Clean(strings.Join(args, " "), cfg))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Show a reference and a hypothesis aligned word by word",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg.Cleaning.Build()
		pair := align.Equalize(textnorm.Clean(refText, cfg), textnorm.Clean(hypText, cfg))

		opts := appCfg.Render.Options()
		opts.SideBySide = !stacked
		opts.Compact = opts.Compact || compact
		if cmd.Flags().Changed("width") {
			opts.Width = width
		}
		if cmd.Flags().Changed("margin") {
			opts.Margin = margin
		}

		out := cmd.OutOrStdout()
		if opts.SideBySide {
			for i, line := range render.Header([]string{"Reference", "Hypothesis"}, opts.Width) {
				style := ruleStyle
				if i == 1 {
					style = headerStyle
				}
				fmt.Fprintln(out, style.Render(line))
			}
		}
		for line := range render.Render(pair, opts) {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print the word and character error rates of one pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg.Cleaning.Build()
		words, err := scoring.WordMeasures(refText, hypText, cfg)
		if err != nil {
			return err
		}
		chars, err := scoring.CharMeasures(refText, hypText, cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "WER: %.2f%% %s\n", words.Rate(), measuresLine(words))
		fmt.Fprintf(out, "CER: %.2f%% %s\n", chars.Rate(), measuresLine(chars))
		return nil
	},
}

func measuresLine(m scoring.Measures) string {
	if !m.Detailed {
		return ruleStyle.Render(fmt.Sprintf("(edits=%d N=%d)", m.Edits(), m.RefLen))
	}
	return ruleStyle.Render(fmt.Sprintf("(S=%d D=%d I=%d N=%d)", m.Substitutions, m.Deletions, m.Insertions, m.RefLen))
}

func init() {
	for _, c := range []*cobra.Command{compareCmd, scoreCmd} {
		c.Flags().StringVar(&refText, "ref", "", "reference transcript")
		c.Flags().StringVar(&hypText, "hyp", "", "hypothesis transcript")
		_ = c.MarkFlagRequired("ref")
		_ = c.MarkFlagRequired("hyp")
	}
	compareCmd.Flags().IntVar(&width, "width", render.DefaultOptions().Width, "column width in characters")
	compareCmd.Flags().IntVar(&margin, "margin", render.DefaultOptions().Margin, "how far back a line may break at a space")
	compareCmd.Flags().BoolVar(&compact, "compact", false, "drop placeholders and repeated spaces")
	compareCmd.Flags().BoolVar(&stacked, "stacked", false, "print the texts one above the other")

	rootCmd.AddCommand(cleanCmd, compareCmd, scoreCmd)
}
