package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/refdoi/internal/reference"
)

// Title and source truncation lengths for human output.
const (
	TitleMaxLen  = 70
	SourceMaxLen = 90
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunResponse is the JSON output of resolve and summary.
type RunResponse struct {
	Entries []reference.Entry        `json:"entries"`
	Counts  map[reference.Status]int `json:"counts"`
	Summary string                   `json:"summary"`
}

// newRunResponse builds the response for a set of entries.
func newRunResponse(entries []reference.Entry) RunResponse {
	counts := make(map[reference.Status]int, len(reference.Statuses))
	for _, st := range reference.Statuses {
		counts[st] = 0
	}
	for _, e := range entries {
		counts[e.Status]++
	}
	if entries == nil {
		entries = []reference.Entry{}
	}
	return RunResponse{
		Entries: entries,
		Counts:  counts,
		Summary: reference.Summary(entries),
	}
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// writeResultsHuman prints the results header followed by one block per entry.
func writeResultsHuman(w io.Writer, entries []reference.Entry) {
	fmt.Fprintln(w, reference.ResultsHeader(entries))
	if len(entries) == 0 {
		fmt.Fprintln(w, "No references found. Entries must start with a bracketed number such as [1].")
		return
	}

	for _, e := range entries {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[%d] %s\n", e.Position, statusLabel(e))
		switch e.Status {
		case reference.StatusResolved:
			fmt.Fprintf(w, "    %s%s  (score %.2f)\n", reference.DOIResolverURL, e.DOI, e.Score)
			fmt.Fprintf(w, "    %s\n", truncateString(e.Title, TitleMaxLen))
		case reference.StatusFailed:
			fmt.Fprintf(w, "    %s\n", e.ErrorMessage)
		}
		fmt.Fprintf(w, "    Source: %s\n", truncateString(e.OriginalText, SourceMaxLen))
	}
}

// statusLabel names an entry's state for human output.
func statusLabel(e reference.Entry) string {
	switch e.Status {
	case reference.StatusResolved:
		return "Resolved"
	case reference.StatusNotFound:
		return "Unidentified"
	case reference.StatusFailed:
		return "Error"
	case reference.StatusQueued, reference.StatusInFlight:
		return "Scanning..."
	default:
		return "Idle"
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimSpace(string(runes[:maxLen-3])) + "..."
}
