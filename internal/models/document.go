package models

// DefaultDocumentType is the document type assigned when no known type
// keyword appears in the recognized text.
const DefaultDocumentType = "document"

// DocumentInfo holds the fields extracted from one document's OCR text.
// It is transient: derived from a single text blob, used once to compute
// the output filename, then discarded.
type DocumentInfo struct {
	Date          string `json:"date,omitempty"`          // YYYY-MM-DD
	CompanyName   string `json:"companyName,omitempty"`   // issuer or manufacturer
	DocumentType  string `json:"documentType"`            // never empty, defaults to "document"
	MaterialGrade string `json:"materialGrade,omitempty"` // JIS steel grade, e.g. SPHC
	Dimensions    string `json:"dimensions,omitempty"`    // TxWxL, e.g. 1.6x1219xC
	ChargeNumber  string `json:"chargeNumber,omitempty"`  // heat/charge number
	RawText       string `json:"-"`
}

// Sparse reports whether the pattern pass produced nothing usable beyond
// the default document type.
func (d DocumentInfo) Sparse() bool {
	return d.Date == "" && d.CompanyName == "" &&
		(d.DocumentType == "" || d.DocumentType == DefaultDocumentType)
}

// FillFrom copies fields from o into d, but only where d has nothing: empty
// fields, or a DocumentType still at the default. Populated fields are
// never overwritten.
func (d *DocumentInfo) FillFrom(o DocumentInfo) {
	if d.Date == "" {
		d.Date = o.Date
	}
	if d.CompanyName == "" {
		d.CompanyName = o.CompanyName
	}
	if (d.DocumentType == "" || d.DocumentType == DefaultDocumentType) && o.DocumentType != "" {
		d.DocumentType = o.DocumentType
	}
	if d.MaterialGrade == "" {
		d.MaterialGrade = o.MaterialGrade
	}
	if d.Dimensions == "" {
		d.Dimensions = o.Dimensions
	}
	if d.ChargeNumber == "" {
		d.ChargeNumber = o.ChargeNumber
	}
}
