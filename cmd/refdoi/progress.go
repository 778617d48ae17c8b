package main

import (
	"fmt"
	"io"

	"github.com/matsen/refdoi/internal/queue"
	"github.com/matsen/refdoi/internal/reference"
)

// QueryMaxLen bounds the query shown when a lookup starts.
const QueryMaxLen = 60

// formatEvent renders one status transition as a progress line.
func formatEvent(ev queue.Event) string {
	e := ev.Entry
	switch ev.To {
	case reference.StatusQueued:
		return fmt.Sprintf("[%d] queued", e.Position)
	case reference.StatusInFlight:
		return fmt.Sprintf("[%d] searching: %s", e.Position, truncateString(e.QueryText, QueryMaxLen))
	case reference.StatusResolved:
		return fmt.Sprintf("[%d] resolved %s (score %.2f)", e.Position, e.DOI, e.Score)
	case reference.StatusNotFound:
		return fmt.Sprintf("[%d] not found", e.Position)
	case reference.StatusFailed:
		return fmt.Sprintf("[%d] failed: %s", e.Position, e.ErrorMessage)
	default:
		return fmt.Sprintf("[%d] %s", e.Position, ev.To)
	}
}

// progressPrinter returns a subscriber that writes each transition to w.
func progressPrinter(w io.Writer) func(queue.Event) {
	return func(ev queue.Event) {
		fmt.Fprintln(w, formatEvent(ev))
	}
}
