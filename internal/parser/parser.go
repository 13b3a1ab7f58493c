// Package parser extracts structured fields from the OCR text of Japanese
// business documents, mill sheets above all.
package parser

import "github.com/ujiie/millsheetflow/internal/models"

// Extract runs every field extractor over the recognized text and
// assembles the transient document record.
func Extract(text string) models.DocumentInfo {
	return models.DocumentInfo{
		Date:          ExtractDate(text),
		CompanyName:   ExtractCompany(text),
		DocumentType:  ExtractDocumentType(text),
		MaterialGrade: ExtractMaterial(text),
		Dimensions:    ExtractDimensions(text),
		ChargeNumber:  ExtractChargeNumber(text),
		RawText:       text,
	}
}
