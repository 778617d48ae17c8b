// Package pdf extracts bibliography text from PDF files.
package pdf

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// headingPattern matches a line that opens a paper's bibliography.
var headingPattern = regexp.MustCompile(`(?im)^\s*(?:\d+\.?\s*)?(references|bibliography|literature cited|works cited)\s*:?\s*$`)

// ExtractText extracts all text from the first maxPages pages of the PDF at
// path. A maxPages of zero or less means every page.
func ExtractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	return pageText(r, maxPages), nil
}

// ExtractTextReader extracts text from a PDF held by r.
func ExtractTextReader(r io.ReaderAt, size int64, maxPages int) (string, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	return pageText(pdfReader, maxPages), nil
}

// pageText concatenates the plain text of each readable page. Pages that
// fail to decode are skipped.
func pageText(r *pdf.Reader, maxPages int) string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String()
}

// ReferencesSection returns the text after the last bibliography heading
// ("References", "Bibliography" and similar, alone on a line). When no
// heading is found the whole text is returned.
func ReferencesSection(text string) string {
	locs := headingPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	return strings.TrimLeft(text[locs[len(locs)-1][1]:], "\r\n")
}
