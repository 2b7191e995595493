// Package cli is the readmeai command line: one-shot analyses and the HTTP
// server.
package cli

import (
	"os"

	"readmeai/config"

	"github.com/rohanthewiz/logger"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. The configuration is loaded once,
// before any subcommand runs.
func NewRootCommand() *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "readmeai",
		Short: "Analyze a repository for README generation",
		Long: `readmeai walks a local directory or a shallow clone of a remote
repository, classifies its files by language, counts tokens and extracts
the dependencies declared in its manifests.

Settings come from READMEAI_* environment variables, optionally read
from a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			debug, _ := cmd.Flags().GetBool("debug")
			if debug || cfg.Debug {
				logger.SetLevel(logger.LevelDebug)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	current := func() *config.Config { return cfg }
	rootCmd.AddCommand(
		newAnalyzeCommand(current),
		newServeCommand(current),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
