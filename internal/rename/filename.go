package rename

import (
	"path/filepath"
	"strings"

	"github.com/ujiie/millsheetflow/internal/models"
)

// Build generates the output filename from the extracted fields, in the
// order date, company, material, dimensions, charge number, document type,
// skipping whatever was not found. When nothing was extracted beyond the
// default document type, the original stem gets a _renamed suffix instead.
// Deterministic for a given input.
func Build(info models.DocumentInfo, originalName string) string {
	var parts []string

	if info.Date != "" {
		parts = append(parts, info.Date)
	}
	for _, field := range []string{
		info.CompanyName,
		info.MaterialGrade,
		info.Dimensions,
		info.ChargeNumber,
		info.DocumentType,
	} {
		if field == "" {
			continue
		}
		if s := Sanitize(field); s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 || (len(parts) == 1 && parts[0] == models.DefaultDocumentType) {
		stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
		return Sanitize(stem) + "_renamed.pdf"
	}
	return strings.Join(parts, "_") + ".pdf"
}
