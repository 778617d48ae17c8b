package export

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/refdoi/internal/crossref"
	"github.com/matsen/refdoi/internal/reference"
)

var (
	// Match entry start: @type{key,
	entryStartRegex = regexp.MustCompile(`@\w+\{([^,]+),`)
	// Match DOI field: doi = {value} or doi = "value"
	doiFieldRegex = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// BibIndex records the cite keys and DOIs already present in a .bib file.
type BibIndex struct {
	Keys map[string]bool
	// DOIs maps lowercased DOIs to their cite key
	DOIs map[string]string
}

// NewBibIndex creates an empty index.
func NewBibIndex() *BibIndex {
	return &BibIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// HasDOI reports whether an entry with doi is already indexed.
func (idx *BibIndex) HasDOI(doi string) bool {
	if doi == "" {
		return false
	}
	_, ok := idx.DOIs[doiKey(doi)]
	return ok
}

// ReadBibIndex builds an index from an existing .bib file.
// A missing file yields an empty index.
func ReadBibIndex(path string) (*BibIndex, error) {
	idx := NewBibIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("opening bib file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var currentKey string
	for scanner.Scan() {
		line := scanner.Text()

		if m := entryStartRegex.FindStringSubmatch(line); len(m) > 1 {
			currentKey = strings.TrimSpace(m[1])
			idx.Keys[currentKey] = true
		}
		if m := doiFieldRegex.FindStringSubmatch(line); len(m) > 1 && currentKey != "" {
			if doi := doiKey(m[1]); doi != "" {
				idx.DOIs[doi] = currentKey
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading bib file: %w", err)
	}
	return idx, nil
}

// AppendBibTeX appends refs to the .bib file at path, creating it if needed.
// References whose DOI is already in the file are skipped and cite keys are
// renamed to avoid the file's existing keys. It returns the number of
// entries written.
func AppendBibTeX(path string, refs []reference.Reference) (int, error) {
	idx, err := ReadBibIndex(path)
	if err != nil {
		return 0, err
	}

	var fresh []reference.Reference
	for _, ref := range refs {
		if idx.HasDOI(ref.DOI) {
			continue
		}
		fresh = append(fresh, ref)
		if ref.DOI != "" {
			idx.DOIs[doiKey(ref.DOI)] = ref.ID
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}
	fresh = UniqueKeys(fresh, idx.Keys)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, fmt.Errorf("opening bib file for append: %w", err)
	}
	defer file.Close()

	content := ToBibTeXList(fresh)
	if len(idx.Keys) > 0 {
		// Keep a blank line between existing and new entries
		content = "\n" + content
	}
	if _, err := file.WriteString(content); err != nil {
		return 0, fmt.Errorf("writing bib file: %w", err)
	}
	return len(fresh), nil
}

// doiKey normalizes a DOI for comparison.
func doiKey(doi string) string {
	return strings.ToLower(crossref.NormalizeDOI(doi))
}
