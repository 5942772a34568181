package cli

import (
	"fmt"
	"os"

	"github.com/dshills/prismfold/internal/review"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "prismfold",
	Short: "Fold AI code review comments into collapsible widgets",
	Long: "Prismfold finds AI-generated code review comments in saved review pages, " +
		"rewrites each one into a compact collapsible widget with a severity badge, " +
		"and keeps watched pages formatted as they change.",
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print prismfold version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "prismfold version %s\n", review.Version)
	},
}

// Global flags
var (
	flagConfig    string
	flagSelectors string
	flagLogLevel  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&flagSelectors, "selectors", "", "Comment selectors (comma-separated)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}
