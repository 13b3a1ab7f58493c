// Package ocr defines the contract for plugging OCR providers into the
// renaming pipeline. The interface is intentionally small so engines can be
// backed by native libraries or remote APIs without leaking provider-specific
// concerns into callers.
package ocr

import "context"

// Engine is the OCR provider contract: one page image in, its full text out.
type Engine interface {
	// Name identifies the engine in logs and reports.
	Name() string
	// Recognize extracts the text of the image at imagePath.
	Recognize(ctx context.Context, imagePath string) (string, error)
}
