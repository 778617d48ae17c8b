package main

import (
	"fmt"

	"github.com/matsen/refdoi/internal/reference"
	"github.com/spf13/cobra"
)

var (
	parsePDF      string
	parsePDFPages int
	parseExample  bool
)

func init() {
	parseCmd.Flags().StringVar(&parsePDF, "pdf", "", "Extract references from a PDF file")
	parseCmd.Flags().IntVar(&parsePDFPages, "pdf-pages", 0, "Only read the first n PDF pages (0 = all)")
	parseCmd.Flags().BoolVar(&parseExample, "example", false, "Parse the built-in example references")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Split text into numbered references without looking them up",
	Long: `Split text into numbered references without looking them up.

Shows how resolve will see the input: one entry per [n] marker, with
continuation lines joined and the label stripped from the search query.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	src := inputSource{
		PDFPath:  parsePDF,
		PDFPages: parsePDFPages,
		Example:  parseExample,
	}
	if len(args) == 1 {
		src.Path = args[0]
	}
	if err := src.validate(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if !src.Example && src.PDFPath == "" {
		src.Stdin = stdinFor(src.Path)
	}

	text, err := src.read()
	if err != nil {
		exitWithError(exitCodeForInput(err), "%v", err)
	}
	entries := reference.Parse(text)

	if !humanOutput {
		if entries == nil {
			entries = []reference.Entry{}
		}
		return outputJSON(entries)
	}

	fmt.Printf("%d references\n", len(entries))
	for _, e := range entries {
		fmt.Printf("\n[%d] %s\n", e.Position, e.ID)
		fmt.Printf("    Query: %s\n", e.QueryText)
	}
	return nil
}
