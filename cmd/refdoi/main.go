// Package main provides the refdoi CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/matsen/refdoi/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// verbose enables debug logging to stderr
	verbose bool
	// activeLogger is the logger flushed by exit
	activeLogger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refdoi",
	Short: "Resolve numbered bibliography references to DOIs",
	Long: `refdoi resolves pasted bibliography references to DOIs via Crossref.

References are numbered list items ([1], [2], ...) that may span several
lines. Each one is looked up with a bibliographic search, three at a time,
and the best match is reported with its DOI, title and score.

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and scheduling to stderr")
	rootCmd.Version = Version
}

// mustLogger builds the logger selected by --verbose, exits on error.
func mustLogger() *zap.Logger {
	logger, err := logging.New(verbose)
	if err != nil {
		exitWithError(ExitError, "creating logger: %v", err)
	}
	activeLogger = logger
	return logger
}

// flushLogger syncs the logger built by mustLogger, if any.
func flushLogger() {
	if activeLogger != nil {
		_ = activeLogger.Sync()
	}
}

// exit flushes buffered logs and terminates with code.
func exit(code int) {
	flushLogger()
	os.Exit(code)
}
