package pdfproc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// DefaultDPI is the rasterization resolution used when none is configured.
const DefaultDPI = 300

// Rasterizer renders single PDF pages to PNG images using the Poppler
// pdftoppm CLI tool.
type Rasterizer struct {
	binPath string
	dpi     int
}

// NewRasterizer creates a Rasterizer. If binPath is empty, "pdftoppm" is
// used; if dpi is not positive, DefaultDPI is used.
func NewRasterizer(binPath string, dpi int) *Rasterizer {
	if binPath == "" {
		binPath = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{binPath: binPath, dpi: dpi}
}

// RenderPage rasterizes a single page (1-based) of the given PDF into
// destDir and returns the path of the generated PNG.
func (r *Rasterizer) RenderPage(ctx context.Context, pdfPath string, page int, destDir string) (string, error) {
	outBase := filepath.Join(destDir, "page")
	pageArg := strconv.Itoa(page)

	cmd := exec.CommandContext(ctx, r.binPath,
		"-png",
		"-f", pageArg,
		"-l", pageArg,
		"-r", strconv.Itoa(r.dpi),
		pdfPath,
		outBase,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm failed for %s page %d: %w: %s", pdfPath, page, err, stderr.String())
	}

	imagePath, err := findRenderedPage(outBase, page)
	if err != nil {
		return "", fmt.Errorf("pdftoppm produced no output for %s page %d: %w", pdfPath, page, err)
	}
	return imagePath, nil
}

// findRenderedPage locates the PNG emitted by pdftoppm. The page number in
// the output filename is zero-padded to the width of the document's total
// page count, so several paddings have to be probed.
func findRenderedPage(outBase string, page int) (string, error) {
	candidates := []string{
		fmt.Sprintf("%s-%d.png", outBase, page),
		fmt.Sprintf("%s-%02d.png", outBase, page),
		fmt.Sprintf("%s-%03d.png", outBase, page),
		fmt.Sprintf("%s-%04d.png", outBase, page),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no file matching %s-*.png", outBase)
}
