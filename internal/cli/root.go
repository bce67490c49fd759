// Package cli defines the veille command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "veille",
	Short: "Crawl competitor sites into structured intelligence records",
	Long: `veille crawls a list of company sites, choosing between plain HTTP
and a headless browser per site, and distills each one into a structured
record of services, clients, jobs, blog posts and contact data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

func init() {
	config.RegisterPersistentFlags(rootCmd)
	rootCmd.AddCommand(runCmd, probeCmd)
}

func setupLogging(cmd *cobra.Command) {
	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if jsonLog, _ := cmd.Flags().GetBool("json-log"); !jsonLog {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}
