// millsheet-parse runs the field parser over OCR text from a file or stdin
// and prints the extracted fields plus the filename they would produce.
// Useful for tuning the extraction patterns without burning OCR calls.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ujiie/millsheetflow/internal/parser"
	"github.com/ujiie/millsheetflow/internal/rename"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "millsheet-parse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: millsheet-parse [flags] [textfile]\n\nReads OCR text from textfile (or stdin) and prints the parsed fields.\n\n")
		flag.PrintDefaults()
	}
	originalName := flag.String("original", "input.pdf", "Original PDF filename used for the fallback name")
	flag.Parse()

	text, err := readInput(flag.Arg(0))
	if err != nil {
		return err
	}

	info := parser.Extract(text)
	out := struct {
		Date         string `json:"date"`
		CompanyName  string `json:"companyName"`
		DocumentType string `json:"documentType"`
		Material     string `json:"materialGrade"`
		Dimensions   string `json:"dimensions"`
		ChargeNumber string `json:"chargeNumber"`
		ProposedName string `json:"proposedName"`
	}{
		Date:         info.Date,
		CompanyName:  info.CompanyName,
		DocumentType: info.DocumentType,
		Material:     info.MaterialGrade,
		Dimensions:   info.Dimensions,
		ChargeNumber: info.ChargeNumber,
		ProposedName: rename.Build(info, *originalName),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
