package main

import (
	"fmt"
	"os"

	"github.com/matsen/refdoi/internal/clipboard"
	"github.com/matsen/refdoi/internal/export"
	"github.com/spf13/cobra"
)

var summaryCopy bool

func init() {
	summaryCmd.Flags().BoolVar(&summaryCopy, "copy", false, "Copy the DOI summary to the clipboard")
	rootCmd.AddCommand(summaryCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary <file.jsonl>",
	Short: "Show the results of a run saved with resolve --jsonl",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		exitWithError(ExitError, "opening %s: %v", args[0], err)
	}
	defer f.Close()

	entries, err := export.ReadEntries(f)
	if err != nil {
		exitWithError(ExitDataError, "%s: %v", args[0], err)
	}

	if summaryCopy {
		if err := clipboard.Copy(newRunResponse(entries).Summary); err != nil {
			fmt.Fprintf(os.Stderr, "warning: copying summary: %v\n", err)
		}
	}

	if humanOutput {
		writeResultsHuman(os.Stdout, entries)
		return nil
	}
	return outputJSON(newRunResponse(entries))
}
