package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matsen/refdoi/internal/pdf"
)

//go:embed example.txt
var exampleReferences string

// errBadSource marks an input that exists but cannot be read as text.
var errBadSource = errors.New("unreadable input source")

// inputSource selects where reference text comes from. At most one of
// Example, PDFPath and Path is used, in that order; otherwise Stdin is read.
type inputSource struct {
	Path     string
	PDFPath  string
	PDFPages int
	Example  bool
	Stdin    io.Reader
}

// read returns the reference text of the selected source.
func (s inputSource) read() (string, error) {
	switch {
	case s.Example:
		return exampleReferences, nil
	case s.PDFPath != "":
		text, err := pdf.ExtractText(s.PDFPath, s.PDFPages)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", err
			}
			return "", fmt.Errorf("%w: %s: %v", errBadSource, s.PDFPath, err)
		}
		return pdf.ReferencesSection(text), nil
	case s.Path != "" && s.Path != "-":
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", s.Path, err)
		}
		return string(data), nil
	default:
		if s.Stdin == nil {
			return "", fmt.Errorf("no input: pass a file, pipe text on stdin, or use --example")
		}
		data, err := io.ReadAll(s.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

// validate rejects contradictory source selections.
func (s inputSource) validate() error {
	n := 0
	if s.Example {
		n++
	}
	if s.PDFPath != "" {
		n++
	}
	if s.Path != "" {
		n++
	}
	if n > 1 {
		return fmt.Errorf("choose one input: a file argument, --pdf or --example")
	}
	if s.PDFPages < 0 {
		return fmt.Errorf("--pdf-pages must not be negative")
	}
	return nil
}

// exitCodeForInput maps an input error to its exit code.
func exitCodeForInput(err error) int {
	if errors.Is(err, errBadSource) {
		return ExitDataError
	}
	return ExitError
}

// stdinFor returns os.Stdin when path is "-" or stdin is not an
// interactive terminal.
func stdinFor(path string) io.Reader {
	if path == "-" {
		return os.Stdin
	}
	info, err := os.Stdin.Stat()
	if err != nil {
		return nil
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return os.Stdin
}
