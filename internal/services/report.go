package services

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/ujiie/millsheetflow/internal/models"
)

// WriteReport writes one CSV row per processed file so a run can be audited
// without digging through logs.
func WriteReport(path string, results []models.ProcessResult) error {
	rows := make([]models.ReportRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, models.NewReportRow(r))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to marshal report rows: %w", err)
	}
	return nil
}
