// Package export renders the entries of a finished run as BibTeX or JSON lines.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/refdoi/internal/reference"
)

// ToBibTeX converts a reference to BibTeX format.
func ToBibTeX(ref reference.Reference) string {
	entryType := determineEntryType(ref)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, ref.ID))

	if len(ref.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(ref.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(ref.Title)))

	if ref.Venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(ref.Venue)))
	}

	// Crossref leaves some records undated
	if ref.Published.Year > 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", ref.Published.Year))
	}
	if ref.Published.Month > 0 {
		b.WriteString(fmt.Sprintf("  month = {%d},\n", ref.Published.Month))
	}

	if ref.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", ref.DOI))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple references to BibTeX format.
func ToBibTeXList(refs []reference.Reference) string {
	var entries []string
	for _, ref := range refs {
		entries = append(entries, ToBibTeX(ref))
	}
	return strings.Join(entries, "\n")
}

// ResolvedReferences returns the metadata of every resolved entry in
// sequence order, with cite keys made unique across the result.
// Entries resolved without metadata get a reference built from their DOI
// and title.
func ResolvedReferences(entries []reference.Entry) []reference.Reference {
	var refs []reference.Reference
	for _, e := range entries {
		if e.Status != reference.StatusResolved {
			continue
		}
		var ref reference.Reference
		if e.Metadata != nil {
			ref = *e.Metadata
		} else {
			ref = reference.Reference{ID: e.ID, DOI: e.DOI, Title: e.Title}
		}
		if ref.DOI == "" {
			ref.DOI = e.DOI
		}
		if ref.Title == "" {
			ref.Title = e.Title
		}
		refs = append(refs, ref)
	}
	return UniqueKeys(refs, nil)
}

// UniqueKeys rewrites colliding cite keys so every key is distinct from
// the others and from taken. A key already in use becomes key-2, key-3
// and so on.
func UniqueKeys(refs []reference.Reference, taken map[string]bool) []reference.Reference {
	used := make(map[string]bool, len(refs)+len(taken))
	for k := range taken {
		used[k] = true
	}

	out := make([]reference.Reference, len(refs))
	for i, ref := range refs {
		ref.ID = uniqueKey(used, ref.ID)
		used[ref.ID] = true
		out[i] = ref
	}
	return out
}

func uniqueKey(used map[string]bool, base string) string {
	if !used[base] {
		return base
	}

	// Start at 2: base is taken, so first duplicate becomes base-2
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !used[candidate] {
			return candidate
		}
	}
}

// determineEntryType returns the BibTeX entry type for a reference.
func determineEntryType(ref reference.Reference) string {
	venue := strings.ToLower(ref.Venue)

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	return "article"
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First"
func formatAuthors(authors []reference.Author) string {
	var formatted []string
	for _, a := range authors {
		if a.First != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", a.Last, a.First))
		} else {
			formatted = append(formatted, a.Last)
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
