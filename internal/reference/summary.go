package reference

import (
	"fmt"
	"strings"
)

// DOIResolverURL is the prefix used to turn a DOI into a link.
const DOIResolverURL = "https://doi.org/"

// UnknownLabel marks entries without a resolved DOI in summaries.
const UnknownLabel = "Unknown/Unidentified"

// SummaryLine formats one entry for the plain-text summary:
// "[k] https://doi.org/<doi>" when resolved, "[k] Unknown/Unidentified"
// otherwise. k is the 1-based position.
func SummaryLine(position int, e Entry) string {
	if e.Status == StatusResolved && e.DOI != "" {
		return fmt.Sprintf("[%d] %s%s", position, DOIResolverURL, e.DOI)
	}
	return fmt.Sprintf("[%d] %s", position, UnknownLabel)
}

// Summary formats all entries, one line each, numbered by their order in
// the slice.
func Summary(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = SummaryLine(i+1, e)
	}
	return strings.Join(lines, "\n")
}

// ResultsHeader returns "Results (<resolved> / <total> Resolved)".
func ResultsHeader(entries []Entry) string {
	resolved := 0
	for _, e := range entries {
		if e.Status == StatusResolved {
			resolved++
		}
	}
	return fmt.Sprintf("Results (%d / %d Resolved)", resolved, len(entries))
}
