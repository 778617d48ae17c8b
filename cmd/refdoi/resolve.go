package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matsen/refdoi/internal/clipboard"
	"github.com/matsen/refdoi/internal/config"
	"github.com/matsen/refdoi/internal/crossref"
	"github.com/matsen/refdoi/internal/export"
	"github.com/matsen/refdoi/internal/queue"
	"github.com/matsen/refdoi/internal/reference"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long lookup results are reused within a process.
const DefaultCacheTTL = 10 * time.Minute

var (
	resolvePDF         string
	resolvePDFPages    int
	resolveMailto      string
	resolveCrossrefURL string
	resolveCopy        bool
	resolveBibTeX      string
	resolveJSONL       string
	resolveCacheTTL    time.Duration
	resolveTimeout     time.Duration
	resolveExample     bool
)

func init() {
	resolveCmd.Flags().StringVar(&resolvePDF, "pdf", "", "Extract references from a PDF file")
	resolveCmd.Flags().IntVar(&resolvePDFPages, "pdf-pages", 0, "Only read the first n PDF pages (0 = all)")
	resolveCmd.Flags().StringVar(&resolveMailto, "mailto", "", "Contact email sent to Crossref (default from config or REFDOI_MAILTO)")
	resolveCmd.Flags().StringVar(&resolveCrossrefURL, "crossref-url", "", "Crossref works endpoint")
	resolveCmd.Flags().BoolVar(&resolveCopy, "copy", false, "Copy the DOI summary to the clipboard")
	resolveCmd.Flags().StringVar(&resolveBibTeX, "bibtex", "", "Append BibTeX for resolved entries to this file")
	resolveCmd.Flags().StringVar(&resolveJSONL, "jsonl", "", "Write final entries to this file as JSON lines")
	resolveCmd.Flags().DurationVar(&resolveCacheTTL, "cache-ttl", DefaultCacheTTL, "Reuse results for repeated references (0 disables)")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 0, "Per-request HTTP timeout (default from config, else 30s)")
	resolveCmd.Flags().BoolVar(&resolveExample, "example", false, "Resolve the built-in example references")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve numbered references to DOIs",
	Long: `Resolve numbered references to DOIs.

Reads references from a file, from stdin ("-" or a pipe), from a PDF's
bibliography section (--pdf), or from the built-in example (--example).
Every reference is queued, then looked up on Crossref with at most three
requests in flight. Lookups that fail or find nothing are reported per
entry and do not stop the run.

Examples:
  refdoi resolve refs.txt --human
  pbpaste | refdoi resolve --mailto me@university.edu --copy
  refdoi resolve --pdf paper.pdf --bibtex refs.bib`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	src := inputSource{
		PDFPath:  resolvePDF,
		PDFPages: resolvePDFPages,
		Example:  resolveExample,
	}
	if len(args) == 1 {
		src.Path = args[0]
	}
	if err := src.validate(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if !src.Example && src.PDFPath == "" {
		src.Stdin = stdinFor(src.Path)
	}

	settings := mustLoadSettings(config.Overrides{
		Mailto:      resolveMailto,
		CrossrefURL: resolveCrossrefURL,
		Timeout:     resolveTimeout,
	})

	logger := mustLogger()
	defer logger.Sync()

	text, err := src.read()
	if err != nil {
		exitWithError(exitCodeForInput(err), "%v", err)
	}

	entries := reference.Parse(text)
	state, err := queue.NewRunState(entries)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		unsubscribe := state.Subscribe(progressPrinter(os.Stderr))
		defer unsubscribe()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := queue.NewScheduler(newLookuper(settings, resolveCacheTTL, logger), queue.WithLogger(logger))
	runErr := scheduler.Run(ctx, state, settings.Mailto)
	final := state.Snapshot()

	if runErr == nil || errors.Is(runErr, context.Canceled) {
		if err := writeOutputs(final); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		writeResultsHuman(os.Stdout, final)
	} else {
		outputJSON(newRunResponse(final))
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted: entries not yet searched remain queued")
		stop()
		exit(ExitInterrupted)
	default:
		exitWithError(ExitError, "%v", runErr)
	}
	return nil
}

// newLookuper builds the Crossref client for settings, wrapped in a cache
// unless ttl is zero.
func newLookuper(settings config.Settings, ttl time.Duration, logger *zap.Logger) crossref.Lookuper {
	client := crossref.NewClient(
		crossref.WithBaseURL(settings.CrossrefURL),
		crossref.WithTimeout(settings.Timeout),
		crossref.WithUserAgent("refdoi/"+Version),
		crossref.WithLogger(logger),
	)
	if ttl <= 0 {
		return client
	}
	return crossref.NewCache(client, ttl)
}

// writeOutputs performs the --copy, --bibtex and --jsonl side effects.
func writeOutputs(entries []reference.Entry) error {
	if resolveJSONL != "" {
		if err := export.WriteEntriesFile(resolveJSONL, entries); err != nil {
			return err
		}
	}

	if resolveBibTeX != "" {
		n, err := export.AppendBibTeX(resolveBibTeX, export.ResolvedReferences(entries))
		if err != nil {
			return fmt.Errorf("writing %s: %w", resolveBibTeX, err)
		}
		if humanOutput {
			fmt.Fprintf(os.Stderr, "Added %d entries to %s\n", n, resolveBibTeX)
		}
	}

	if resolveCopy && len(entries) > 0 {
		if err := clipboard.Copy(reference.Summary(entries)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: copying summary: %v\n", err)
		} else if humanOutput {
			fmt.Fprintln(os.Stderr, "Copied summary to clipboard")
		}
	}
	return nil
}
