package crossref

import (
	"regexp"
	"strings"
)

// doiPattern is the shape every registered DOI has:
// 10.<registrant>[.<sub>...]/<suffix>.
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}(\.\d+)*/\S+$`)

// NormalizeDOI strips resolver prefixes and surrounding whitespace.
// Case is preserved; DOIs compare case-insensitively.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi.org/", "doi:", "DOI:"} {
		if strings.HasPrefix(doi, prefix) {
			doi = strings.TrimPrefix(doi, prefix)
			break
		}
	}
	return strings.TrimSpace(doi)
}

// IsValidDOI performs basic shape validation on a normalized DOI.
func IsValidDOI(doi string) bool {
	return doiPattern.MatchString(doi)
}

// DOIURL returns the https://doi.org link for a DOI.
func DOIURL(doi string) string {
	return "https://doi.org/" + NormalizeDOI(doi)
}
