// Package tesseract provides an offline OCR engine backed by the gosseract
// client. It requires the libtesseract native library plus the jpn and eng
// language data to be installed on the host.
package tesseract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements ocr.Engine using a local Tesseract installation. A fresh
// gosseract client is created per page because the client is not safe for
// reuse across images with different resolutions.
type Engine struct {
	languages     []string
	dpi           int
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed OCR engine. Japanese and English
// models are loaded together since mill sheets mix both scripts.
func NewEngine(dpi int) *Engine {
	return &Engine{
		languages:     []string{"jpn", "eng"},
		dpi:           dpi,
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs Tesseract over the image at imagePath and returns the
// extracted text.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image %s: %w", imagePath, err)
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("failed to set languages: %w", err)
	}
	if e.dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(e.dpi)); err != nil {
			return "", fmt.Errorf("failed to set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
