// Package crossref provides a client for the Crossref REST API works search.
package crossref

import (
	"fmt"
	"strings"
)

// Work is a single record from the works endpoint, restricted to the fields
// requested via SelectFields.
type Work struct {
	DOI            string     `json:"DOI"`
	Title          []string   `json:"title,omitempty"`
	Score          float64    `json:"score"`
	Authors        []Author   `json:"author,omitempty"`
	ContainerTitle []string   `json:"container-title,omitempty"`
	Published      *DateParts `json:"published,omitempty"`
}

// Author is a contributor as returned by Crossref.
type Author struct {
	Given  string `json:"given,omitempty"`
	Family string `json:"family,omitempty"`
	Name   string `json:"name,omitempty"` // Organizational authors
	ORCID  string `json:"ORCID,omitempty"`
}

// DateParts is Crossref's partial date: [[year, month, day]].
type DateParts struct {
	DateParts [][]int `json:"date-parts,omitempty"`
}

// WorksResponse is the envelope of a works search.
type WorksResponse struct {
	Status  string        `json:"status"`
	Message *WorksMessage `json:"message"`
}

// WorksMessage holds the ranked items of a works search.
type WorksMessage struct {
	Items        []Work `json:"items"`
	TotalResults int    `json:"total-results"`
}

// FirstTitle returns the first title, or "" when the work has none.
func (w Work) FirstTitle() string {
	for _, t := range w.Title {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// Venue returns the first container title, or "".
func (w Work) Venue() string {
	for _, t := range w.ContainerTitle {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// Date returns year, month and day of publication, zero where unknown.
func (w Work) Date() (year, month, day int) {
	if w.Published == nil || len(w.Published.DateParts) == 0 {
		return 0, 0, 0
	}
	parts := w.Published.DateParts[0]
	if len(parts) >= 1 {
		year = parts[0]
	}
	if len(parts) >= 2 && parts[1] >= 1 && parts[1] <= 12 {
		month = parts[1]
	}
	if len(parts) >= 3 && parts[2] >= 1 && parts[2] <= 31 {
		day = parts[2]
	}
	return year, month, day
}

// first validates the envelope and returns its top-ranked work, or nil when
// the search matched nothing.
func (r *WorksResponse) first() (*Work, error) {
	if r.Status != "" && r.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidResponse, r.Status)
	}
	if r.Message == nil {
		return nil, fmt.Errorf("%w: missing message", ErrInvalidResponse)
	}
	if len(r.Message.Items) == 0 {
		return nil, nil
	}

	work := r.Message.Items[0]
	work.DOI = NormalizeDOI(work.DOI)
	if !IsValidDOI(work.DOI) {
		return nil, fmt.Errorf("%w: malformed DOI %q", ErrInvalidResponse, r.Message.Items[0].DOI)
	}
	return &work, nil
}
