package reference

import (
	"regexp"
	"strings"
	"testing"
)

func TestParse_TwoEntries(t *testing.T) {
	entries := Parse("[1] A\n[2] B")

	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}

	want := []struct {
		id, original, query string
	}{
		{"ref-1", "[1] A", "A"},
		{"ref-2", "[2] B", "B"},
	}
	for i, w := range want {
		e := entries[i]
		if e.ID != w.id {
			t.Errorf("entries[%d].ID = %q, want %q", i, e.ID, w.id)
		}
		if e.OriginalText != w.original {
			t.Errorf("entries[%d].OriginalText = %q, want %q", i, e.OriginalText, w.original)
		}
		if e.QueryText != w.query {
			t.Errorf("entries[%d].QueryText = %q, want %q", i, e.QueryText, w.query)
		}
		if e.Status != StatusIdle {
			t.Errorf("entries[%d].Status = %q, want %q", i, e.Status, StatusIdle)
		}
		if e.Position != i+1 {
			t.Errorf("entries[%d].Position = %d, want %d", i, e.Position, i+1)
		}
	}
}

func TestParse_ContinuationLines(t *testing.T) {
	input := `Some heading copied from the PDF
References
[1] P. Huang, "Is
   the asynchronous phase
of thoracoabdominal movement," 2021.
[2]   C. Criee,	"Body plethysmography," 2011.`

	entries := Parse(input)
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}

	wantFirst := `[1] P. Huang, "Is the asynchronous phase of thoracoabdominal movement," 2021.`
	if entries[0].OriginalText != wantFirst {
		t.Errorf("OriginalText = %q, want %q", entries[0].OriginalText, wantFirst)
	}
	wantQuery := `P. Huang, "Is the asynchronous phase of thoracoabdominal movement," 2021.`
	if entries[0].QueryText != wantQuery {
		t.Errorf("QueryText = %q, want %q", entries[0].QueryText, wantQuery)
	}

	wantSecond := `[2] C. Criee, "Body plethysmography," 2011.`
	if entries[1].OriginalText != wantSecond {
		t.Errorf("OriginalText = %q, want %q", entries[1].OriginalText, wantSecond)
	}
}

func TestParse_NoEntries(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace only", input: "  \n\t\n"},
		{name: "no markers", input: "Smith J. A paper. 2020.\nDoe J. Another. 2021."},
		{name: "non-numeric label", input: "[a] Not a reference\n[] Nor this"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); len(got) != 0 {
				t.Errorf("Parse(%q) returned %d entries, want 0", tt.input, len(got))
			}
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	entries := Parse("[1] First line\r\ncontinued\r\n[2] Second\r\n")
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}
	if entries[0].OriginalText != "[1] First line continued" {
		t.Errorf("OriginalText = %q", entries[0].OriginalText)
	}
	if entries[1].OriginalText != "[2] Second" {
		t.Errorf("OriginalText = %q", entries[1].OriginalText)
	}
}

func TestParse_LabelsNotValidated(t *testing.T) {
	// Labels are neither sequential nor unique; IDs follow opening order.
	entries := Parse("[7] Seven\n[7] Seven again\n  [3] Three")
	if len(entries) != 3 {
		t.Fatalf("Parse() returned %d entries, want 3", len(entries))
	}
	for i, wantID := range []string{"ref-1", "ref-2", "ref-3"} {
		if entries[i].ID != wantID {
			t.Errorf("entries[%d].ID = %q, want %q", i, entries[i].ID, wantID)
		}
	}
	if entries[2].QueryText != "Three" {
		t.Errorf("QueryText = %q, want %q", entries[2].QueryText, "Three")
	}
}

func TestParse_MarkerOnly(t *testing.T) {
	entries := Parse("[1]\n[2]Tight")
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}
	if entries[0].OriginalText != "[1]" || entries[0].QueryText != "" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].QueryText != "Tight" {
		t.Errorf("entries[1].QueryText = %q, want %q", entries[1].QueryText, "Tight")
	}
}

func TestParse_EntryCountMatchesMarkers(t *testing.T) {
	inputs := []string{
		"[1] a\nb\n[2] c",
		"junk\n[1] a\n\n\n[2] b\n[3] c\nd",
		"[10] x\n [11] y\n\t[12] z",
		"no markers here",
	}
	marker := regexp.MustCompile(`^\s*\[\d+\]`)

	for _, input := range inputs {
		want := 0
		for _, line := range strings.Split(input, "\n") {
			if marker.MatchString(line) {
				want++
			}
		}
		if got := len(Parse(input)); got != want {
			t.Errorf("Parse(%q) returned %d entries, want %d", input, got, want)
		}
	}
}

func TestStripLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1] A", "A"},
		{"[12]   Spaced", "Spaced"},
		{"[3]NoSpace", "NoSpace"},
		{"[1] [2] Only one label", "[2] Only one label"},
		{"No label", "No label"},
		{"[x] Not digits", "[x] Not digits"},
	}

	for _, tt := range tests {
		if got := StripLabel(tt.input); got != tt.expected {
			t.Errorf("StripLabel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParse_UnicodeWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		originals []string
		queries   []string
	}{
		{
			name:      "no-break spaces",
			input:     "\u00a0[1] Smith J. A paper\n[2]\u00a0Jones\u00a0\u00a0K. Other",
			originals: []string{"[1] Smith J. A paper", "[2] Jones K. Other"},
			queries:   []string{"Smith J. A paper", "Jones K. Other"},
		},
		{
			name:      "tab indent",
			input:     "\t\t[1]\tTabbed\tentry",
			originals: []string{"[1] Tabbed entry"},
			queries:   []string{"Tabbed entry"},
		},
		{
			name:      "vertical tab and form feed",
			input:     "\v[1] First\f\fpart\n\v\ncontinued",
			originals: []string{"[1] First part continued"},
			queries:   []string{"First part continued"},
		},
		{
			name:      "byte order mark and wide spaces",
			input:     "\uFEFF[1] Wide spaced\u3000title",
			originals: []string{"[1] Wide spaced title"},
			queries:   []string{"Wide spaced title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Parse(tt.input)
			if len(entries) != len(tt.originals) {
				t.Fatalf("Parse(%q) returned %d entries, want %d", tt.input, len(entries), len(tt.originals))
			}
			for i, e := range entries {
				if e.OriginalText != tt.originals[i] {
					t.Errorf("entries[%d].OriginalText = %q, want %q", i, e.OriginalText, tt.originals[i])
				}
				if e.QueryText != tt.queries[i] {
					t.Errorf("entries[%d].QueryText = %q, want %q", i, e.QueryText, tt.queries[i])
				}
			}
		})
	}
}

func TestStripLabel_UnicodeWhitespace(t *testing.T) {
	if got := StripLabel("[4]\u00a0\u00a0Title"); got != "Title" {
		t.Errorf("StripLabel() = %q, want %q", got, "Title")
	}
}
