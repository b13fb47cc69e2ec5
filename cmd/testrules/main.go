// Command testrules discovers and runs Go test cases written against
// pkg/testkit, interpreting each one with yaegi rather than compiling it,
// and reports results the way the original host-language tool did.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose   bool
	workspace string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "testrules [group|module1 module2 ...|lint|check|unit|integration|e2e|regression]",
	Short: "A lightweight, reflective test runner",
	Long: `testrules discovers Go test cases that embed pkg/testkit.Case or are
declared as top-level Test* functions, runs each one in its own yaegi
interpreter, and reports pass/fail/error counts, coverage, and lint
results.

Run without arguments to run every discovered test.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = ""
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		built, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := run(cmd.Context(), args)
		exitCode = code
		return err
	},
}

// exitCode carries the pipeline's resolved exit status out of RunE so
// main can exit after PersistentPostRun has flushed the logger.
var exitCode int

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "directory to search for tests (default: current directory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
