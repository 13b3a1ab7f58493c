package models

import "time"

// Processing outcomes recorded per file.
const (
	StatusRenamed = "RENAMED"
	StatusSkipped = "SKIPPED"
	StatusFailed  = "FAILED"
)

// ProcessResult is the outcome of processing a single PDF.
type ProcessResult struct {
	SourcePath string
	OutputPath string
	Status     string
	Info       DocumentInfo
	OCRChars   int
	Duration   time.Duration
	Err        error
}

// RunSummary aggregates one pass over the input directory.
type RunSummary struct {
	Total    int
	Renamed  int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Add folds one file result into the summary.
func (s *RunSummary) Add(r ProcessResult) {
	s.Total++
	switch r.Status {
	case StatusRenamed:
		s.Renamed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// ReportRow is one line of the optional CSV run report.
type ReportRow struct {
	Source       string `csv:"source"`
	NewName      string `csv:"new_name"`
	Status       string `csv:"status"`
	Date         string `csv:"date"`
	Company      string `csv:"company"`
	DocumentType string `csv:"document_type"`
	Material     string `csv:"material"`
	Dimensions   string `csv:"dimensions"`
	ChargeNumber string `csv:"charge_number"`
	OCRChars     int    `csv:"ocr_chars"`
	DurationMS   int64  `csv:"duration_ms"`
	Error        string `csv:"error"`
}

// NewReportRow flattens a ProcessResult for the CSV report.
func NewReportRow(r ProcessResult) ReportRow {
	row := ReportRow{
		Source:       r.SourcePath,
		NewName:      r.OutputPath,
		Status:       r.Status,
		Date:         r.Info.Date,
		Company:      r.Info.CompanyName,
		DocumentType: r.Info.DocumentType,
		Material:     r.Info.MaterialGrade,
		Dimensions:   r.Info.Dimensions,
		ChargeNumber: r.Info.ChargeNumber,
		OCRChars:     r.OCRChars,
		DurationMS:   r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		row.Error = r.Err.Error()
	}
	return row
}
