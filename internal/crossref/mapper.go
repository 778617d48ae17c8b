package crossref

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matsen/refdoi/internal/reference"
)

// ToReference converts a work to bibliographic metadata.
func ToReference(w Work) reference.Reference {
	year, month, day := w.Date()

	ref := reference.Reference{
		DOI:     NormalizeDOI(w.DOI),
		Title:   w.FirstTitle(),
		Venue:   w.Venue(),
		Authors: mapAuthors(w.Authors),
		Published: reference.PublicationDate{
			Year:  year,
			Month: month,
			Day:   day,
		},
	}
	ref.ID = generateCiteKey(ref)

	return ref
}

// mapAuthors converts Crossref contributors to Reference authors.
// Organizational authors keep their name as the last name.
func mapAuthors(authors []Author) []reference.Author {
	out := make([]reference.Author, 0, len(authors))
	for _, a := range authors {
		last := strings.TrimSpace(a.Family)
		if last == "" {
			last = strings.TrimSpace(a.Name)
		}
		if last == "" {
			continue
		}
		out = append(out, reference.Author{
			First: strings.TrimSpace(a.Given),
			Last:  last,
			ORCID: normalizeORCID(a.ORCID),
		})
	}
	return out
}

// normalizeORCID strips the URL prefix Crossref puts on ORCID iDs.
func normalizeORCID(orcid string) string {
	orcid = strings.TrimSpace(orcid)
	orcid = strings.TrimPrefix(orcid, "https://orcid.org/")
	return strings.TrimPrefix(orcid, "http://orcid.org/")
}

// generateCiteKey generates a citation key from reference metadata.
// Format: LastName + Year + suffix (e.g., "Hammer2009-at").
// Not unique; export.UniqueKeys resolves collisions.
func generateCiteKey(ref reference.Reference) string {
	lastName := "Unknown"
	if len(ref.Authors) > 0 {
		if s := sanitizeForCiteKey(ref.Authors[0].Last); s != "" {
			lastName = s
		}
	}

	year := ref.Published.Year
	if year == 0 {
		year = 9999
	}

	return fmt.Sprintf("%s%d-%s", lastName, year, generateTitleSuffix(ref.Title))
}

// sanitizeForCiteKey removes non-alphanumeric characters.
func sanitizeForCiteKey(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// generateTitleSuffix creates a 2-letter suffix from the title.
func generateTitleSuffix(title string) string {
	words := strings.Fields(strings.ToLower(title))
	stopWords := map[string]bool{"a": true, "an": true, "the": true, "of": true, "and": true, "in": true, "on": true, "for": true, "to": true, "with": true, "is": true}

	var suffix strings.Builder
	for _, word := range words {
		if stopWords[word] {
			continue
		}
		for _, r := range word {
			if r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				suffix.WriteRune(r)
				break
			}
		}
		if suffix.Len() >= 2 {
			break
		}
	}

	for suffix.Len() < 2 {
		suffix.WriteByte('x')
	}

	return suffix.String()
}
