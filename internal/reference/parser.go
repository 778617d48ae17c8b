package reference

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// labelPattern matches a bracketed decimal label such as "[1]" or "[12]".
var labelPattern = regexp.MustCompile(`^\[\d+\]`)

// isSpace reports Unicode whitespace plus the byte order mark, which PDF
// copy-paste leaves in text alongside no-break spaces.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// collapseSpace joins the whitespace-separated fields of s with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// opensEntry reports whether line starts a new entry once leading
// whitespace is ignored.
func opensEntry(line string) bool {
	return labelPattern.MatchString(strings.TrimLeftFunc(line, isSpace))
}

// Parse splits pasted bibliography text into entries.
//
// Each entry starts at a line beginning with "[<digits>]". Lines that do not
// start a new entry are continuations of the open one (references broken
// across lines by a PDF copy-paste); lines before the first marker are
// dropped. All entries are returned idle, with IDs assigned in order.
func Parse(text string) []Entry {
	if text == "" {
		return nil
	}

	var (
		entries []Entry
		buffer  []string
		opened  int
	)

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		full := collapseSpace(strings.Join(buffer, " "))
		buffer = nil
		if full == "" {
			return
		}
		entries = append(entries, Entry{
			ID:           fmt.Sprintf("ref-%d", opened),
			Position:     len(entries) + 1,
			OriginalText: full,
			QueryText:    StripLabel(full),
			Status:       StatusIdle,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		if opensEntry(line) {
			flush()
			opened++
			buffer = []string{trimSpace(line)}
			continue
		}
		// Garbage before the first marker is dropped
		if opened > 0 {
			buffer = append(buffer, trimSpace(line))
		}
	}
	flush()

	return entries
}

// StripLabel removes a single leading "[<digits>]" label and the whitespace
// that follows it.
func StripLabel(text string) string {
	loc := labelPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return strings.TrimLeftFunc(text[loc[1]:], isSpace)
}
