// Package cmd holds the asreval command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/asreval/bootstrap"
	"github.com/kbukum/asreval/config"
)

const appName = "asreval"

var (
	cfgFile string
	verbose bool

	appCfg *AppConfig
	app    *bootstrap.App[*AppConfig]
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Evaluate speech recognition transcripts",
	Long: `asreval scores ASR hypotheses against reference transcripts and
drives batch transcription jobs.

Text:
  clean      normalise a transcript
  compare    show two transcripts aligned side by side
  score      word and character error rates of one pair
  evaluate   score a CSV of samples

Jobs:
  transcribe upload|run|download|export|cleanup
  vocabulary create`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yml, ./asreval.yml or ~/.asreval/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and a startup summary")
}

// setup loads the configuration and builds the application before any
// subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	cfg := &AppConfig{}
	if err := config.LoadConfig(appName, cfg, config.WithConfigFile(cfgFile)); err != nil {
		return err
	}
	opts := []bootstrap.Option{}
	if verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
		opts = append(opts, bootstrap.WithSummary(cmd.ErrOrStderr()))
	}
	a, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return err
	}
	appCfg, app = cfg, a
	return nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
