package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kbukum/asreval/dataset"
	"github.com/kbukum/asreval/errors"
	"github.com/kbukum/asreval/logger"
	"github.com/kbukum/asreval/transcription"
	"github.com/kbukum/asreval/util"
)

var (
	jobVersion   string
	inputPrefix  string
	outputPrefix string
	expected     int
	exportFile   string
	keepJobs     bool
	keepFolders  bool

	vocabPhrases  []string
	vocabFile     string
	vocabTable    string
	vocabLanguage string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Run batch transcription jobs over a storage folder",
}

var uploadCmd = &cobra.Command{
	Use:   "upload <dir>",
	Short: "Upload a local folder of media to the input folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, func(ctx context.Context) error {
			r, err := newRunner(ctx)
			if err != nil {
				return err
			}
			if err := r.EnsureStorage(ctx); err != nil {
				return err
			}
			n, err := r.UploadFolder(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d files to %s\n", n, r.Config().InputPrefix)
			return nil
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a job for every media file in the input folder and wait for all of them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, func(ctx context.Context) error {
			r, err := newRunner(ctx)
			if err != nil {
				return err
			}
			s, err := r.TranscribeFolder(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s: %d files, %d completed, %d failed, %d skipped\n",
				s.RunID, s.Total, s.Completed, s.Failed, s.Skipped)
			for _, name := range s.FailedJobs {
				fmt.Fprintln(out, failedStyle.Render("failed: "+name))
			}
			if s.Failed > 0 {
				return errors.JobFailed("transcription run", s.RunID, fmt.Sprintf("%d of %d jobs failed", s.Failed, s.Total))
			}
			return nil
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <dir>",
	Short: "Download the result documents of the output folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, func(ctx context.Context) error {
			r, err := newRunner(ctx)
			if err != nil {
				return err
			}
			paths, err := r.DownloadResults(ctx, args[0], expected)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d results to %s\n", len(paths), args[0])
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the downloaded transcripts of a folder as one CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcripts, err := dataset.CollectTranscripts(args[0])
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if exportFile != "" && exportFile != "-" {
			f, err := os.Create(exportFile)
			if err != nil {
				return errors.Internal(err).WithDetail("path", exportFile)
			}
			defer f.Close()
			w = f
		}
		if err := dataset.WriteTranscripts(w, transcripts); err != nil {
			return err
		}
		app.Logger.Info("Transcripts exported", logger.Fields(logger.FieldCount, len(transcripts), "path", util.Coalesce(exportFile, "-")))
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete the jobs of the configured version and the input and output folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, func(ctx context.Context) error {
			r, err := newRunner(ctx)
			if err != nil {
				return err
			}
			cfg := r.Config()
			out := cmd.OutOrStdout()
			if !keepJobs {
				n, err := r.DeleteJobs(ctx, cfg.Version)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted %d jobs\n", n)
			}
			if !keepFolders {
				for _, prefix := range util.Unique([]string{cfg.InputPrefix, cfg.OutputPrefix}) {
					n, err := r.DeleteFolder(ctx, prefix)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "deleted %d objects under %s\n", n, prefix)
				}
			}
			return nil
		})
	},
}

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "Manage custom vocabularies",
}

var vocabularyCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a custom vocabulary and wait until it is ready",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phrases := vocabPhrases
		if vocabFile != "" {
			lines, err := readLines(vocabFile)
			if err != nil {
				return err
			}
			phrases = append(phrases, lines...)
		}
		req := transcription.VocabularyRequest{
			Name:         args[0],
			LanguageCode: vocabLanguage,
			Phrases:      util.Unique(util.CleanList(phrases)),
			TableURI:     vocabTable,
		}
		if len(req.Phrases) == 0 && req.TableURI == "" {
			return errors.MissingField("phrases or table")
		}
		return runTask(cmd, func(ctx context.Context) error {
			r, err := newRunner(ctx)
			if err != nil {
				return err
			}
			if err := r.EnsureVocabulary(ctx, req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vocabulary %s ready\n", req.Name)
			return nil
		})
	},
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.NotFound("phrase file", path).WithCause(err)
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, util.SanitizeString(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.InvalidFormat(path, "text lines").WithCause(err)
	}
	return lines, nil
}

// applyRunnerFlags loads the configuration, then overrides the runner
// section with the flags that were set.
func applyRunnerFlags(cmd *cobra.Command, args []string) error {
	if err := setup(cmd, args); err != nil {
		return err
	}
	rc := &appCfg.Runner
	if cmd.Flags().Changed("version") {
		rc.Version = jobVersion
	}
	rc.InputPrefix = util.Coalesce(inputPrefix, rc.InputPrefix)
	rc.OutputPrefix = util.Coalesce(outputPrefix, rc.OutputPrefix)
	return nil
}

func init() {
	transcribeCmd.PersistentFlags().StringVar(&jobVersion, "version", "", "single letter prefixed to job names")
	transcribeCmd.PersistentFlags().StringVar(&inputPrefix, "input", "", "storage folder holding the media, e.g. input/")
	transcribeCmd.PersistentFlags().StringVar(&outputPrefix, "output", "", "storage folder receiving the results, e.g. output/")
	transcribeCmd.PersistentPreRunE = applyRunnerFlags
	vocabularyCmd.PersistentPreRunE = applyRunnerFlags

	downloadCmd.Flags().IntVar(&expected, "expected", 0, "wait until this many results exist")
	exportCmd.Flags().StringVarP(&exportFile, "out", "o", "", "CSV file to write (default: standard output)")
	cleanupCmd.Flags().BoolVar(&keepJobs, "keep-jobs", false, "do not delete jobs")
	cleanupCmd.Flags().BoolVar(&keepFolders, "keep-folders", false, "do not delete the input and output folders")

	vocabularyCreateCmd.Flags().StringSliceVar(&vocabPhrases, "phrase", nil, "phrase to add (repeatable)")
	vocabularyCreateCmd.Flags().StringVar(&vocabFile, "file", "", "file with one phrase per line")
	vocabularyCreateCmd.Flags().StringVar(&vocabTable, "table", "", "storage URI of a vocabulary table")
	vocabularyCreateCmd.Flags().StringVar(&vocabLanguage, "language", "", "language code (default: runner.language_code)")

	transcribeCmd.AddCommand(uploadCmd, runCmd, downloadCmd, exportCmd, cleanupCmd)
	vocabularyCmd.AddCommand(vocabularyCreateCmd)
	rootCmd.AddCommand(transcribeCmd, vocabularyCmd)
}
