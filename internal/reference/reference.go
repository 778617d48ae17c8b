// Package reference defines the domain types for pasted bibliography entries
// and the metadata they resolve to.
package reference

// Reference is the bibliographic metadata of a resolved entry.
type Reference struct {
	// Identity
	ID  string `json:"id"`  // Citation key (e.g., "Hammer2009-at")
	DOI string `json:"doi"` // Digital Object Identifier

	// Metadata
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Venue   string   `json:"venue"` // Journal, proceedings, or preprint server

	// Publication Date
	Published PublicationDate `json:"published"`
}

// PublicationDate represents a publication date with optional month and day.
type PublicationDate struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}
