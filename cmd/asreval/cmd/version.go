package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/asreval/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// No configuration needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Product, version.Current())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
