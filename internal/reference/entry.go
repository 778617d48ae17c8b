package reference

import "fmt"

// Status is the lifecycle state of an entry within a single run.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusQueued   Status = "queued"
	StatusInFlight Status = "in_flight"
	StatusResolved Status = "resolved"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// NoTitle is used as the title of a match that carries no title list.
const NoTitle = "No title available"

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusIdle,
	StatusQueued,
	StatusInFlight,
	StatusResolved,
	StatusNotFound,
	StatusFailed,
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusNotFound || s == StatusFailed
}

// CanTransition reports whether from -> to is a valid step of
// idle -> queued -> in_flight -> {resolved | not_found | failed}.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusIdle:
		return to == StatusQueued
	case StatusQueued:
		return to == StatusInFlight
	case StatusInFlight:
		return to.IsTerminal()
	default:
		return false
	}
}

// Entry is one reference parsed from pasted bibliography text.
//
// The result fields are populated according to Status: DOI, Title, Score and
// Metadata only when resolved, ErrorMessage only when failed.
type Entry struct {
	ID           string `json:"id"`
	Position     int    `json:"position"` // 1-based position in the parsed sequence
	OriginalText string `json:"original_text"`
	QueryText    string `json:"query_text"`
	Status       Status `json:"status"`

	DOI      string     `json:"doi,omitempty"`
	Title    string     `json:"title,omitempty"`
	Score    float64    `json:"score"`
	Metadata *Reference `json:"metadata,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
}

// Resolve records a match. Title falls back to NoTitle when empty.
func (e *Entry) Resolve(doi, title string, score float64, meta *Reference) {
	if title == "" {
		title = NoTitle
	}
	e.Status = StatusResolved
	e.DOI = doi
	e.Title = title
	e.Score = score
	e.Metadata = meta
	e.ErrorMessage = ""
}

// MarkNotFound records a lookup that returned no match.
func (e *Entry) MarkNotFound() {
	e.clearResult()
	e.Status = StatusNotFound
}

// Fail records a lookup error. An empty message is replaced so that failed
// entries always carry one.
func (e *Entry) Fail(msg string) {
	if msg == "" {
		msg = "unknown error"
	}
	e.clearResult()
	e.Status = StatusFailed
	e.ErrorMessage = msg
}

func (e *Entry) clearResult() {
	e.DOI = ""
	e.Title = ""
	e.Score = 0
	e.Metadata = nil
	e.ErrorMessage = ""
}

// Validate checks that the populated result fields agree with Status.
func (e Entry) Validate() error {
	hasMatch := e.DOI != "" || e.Title != "" || e.Score != 0 || e.Metadata != nil
	hasError := e.ErrorMessage != ""

	switch e.Status {
	case StatusResolved:
		if e.DOI == "" || e.Title == "" {
			return fmt.Errorf("entry %s: resolved without doi or title", e.ID)
		}
		if hasError {
			return fmt.Errorf("entry %s: resolved with error message", e.ID)
		}
	case StatusFailed:
		if !hasError {
			return fmt.Errorf("entry %s: failed without error message", e.ID)
		}
		if hasMatch {
			return fmt.Errorf("entry %s: failed with match fields", e.ID)
		}
	case StatusIdle, StatusQueued, StatusInFlight, StatusNotFound:
		if hasMatch || hasError {
			return fmt.Errorf("entry %s: %s with result fields", e.ID, e.Status)
		}
	default:
		return fmt.Errorf("entry %s: unknown status %q", e.ID, e.Status)
	}
	return nil
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	if e.Metadata != nil {
		meta := *e.Metadata
		meta.Authors = append([]Author(nil), e.Metadata.Authors...)
		e.Metadata = &meta
	}
	return e
}
