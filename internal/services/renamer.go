package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ujiie/millsheetflow/internal/models"
	"github.com/ujiie/millsheetflow/internal/ocr"
	"github.com/ujiie/millsheetflow/internal/parser"
	"github.com/ujiie/millsheetflow/internal/pdfproc"
	"github.com/ujiie/millsheetflow/internal/rename"
)

// Rasterizer renders one PDF page to an image file.
type Rasterizer interface {
	RenderPage(ctx context.Context, pdfPath string, page int, destDir string) (string, error)
}

// FieldFallback extracts document fields from OCR text when the regex
// parser comes up empty.
type FieldFallback interface {
	ExtractFields(ctx context.Context, text string) (models.DocumentInfo, error)
}

// FileMirror uploads renamed files for archival after a run.
type FileMirror interface {
	UploadRun(ctx context.Context, runID string, paths []string) error
}

// RenamerConfig carries the directory layout and optional report location.
type RenamerConfig struct {
	InputDir  string
	OutputDir string
	ReportCSV string
}

// Renamer drives the per-file pipeline: rasterize the first page, OCR it,
// parse the text into fields, and copy the PDF to the output directory
// under its descriptive name.
type Renamer struct {
	config     RenamerConfig
	runID      string
	rasterizer Rasterizer
	engine     ocr.Engine
	fallback   FieldFallback
	mirror     FileMirror
	seenHashes map[string]string
}

// NewRenamer wires up a Renamer. fallback and mirror may be nil when the
// corresponding features are not configured.
func NewRenamer(cfg RenamerConfig, runID string, rasterizer Rasterizer, engine ocr.Engine, fallback FieldFallback, mirror FileMirror) *Renamer {
	return &Renamer{
		config:     cfg,
		runID:      runID,
		rasterizer: rasterizer,
		engine:     engine,
		fallback:   fallback,
		mirror:     mirror,
		seenHashes: make(map[string]string),
	}
}

// Run processes every PDF in the input directory sequentially. A failure on
// one file is recorded and the run moves on to the next; Run itself only
// fails when the directories are unusable.
func (r *Renamer) Run(ctx context.Context) (models.RunSummary, error) {
	start := time.Now()
	var summary models.RunSummary

	logCtx := slog.With("runId", r.runID, "inputDir", r.config.InputDir, "outputDir", r.config.OutputDir)
	logCtx.Info("Starting rename run.", "ocrEngine", r.engine.Name())

	if err := os.MkdirAll(r.config.InputDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create input directory: %w", err)
	}
	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}
	pdfs, err := listPDFs(r.config.InputDir)
	if err != nil {
		return summary, err
	}
	if len(pdfs) == 0 {
		logCtx.Info("No PDF files found in input directory.")
	}

	var results []models.ProcessResult
	var renamedPaths []string
	for _, name := range pdfs {
		if ctx.Err() != nil {
			logCtx.Warn("Run interrupted.", "error", ctx.Err())
			break
		}
		res := r.ProcessFile(ctx, filepath.Join(r.config.InputDir, name))
		summary.Add(res)
		results = append(results, res)
		if res.Status == models.StatusRenamed {
			renamedPaths = append(renamedPaths, res.OutputPath)
		}
	}
	summary.Duration = time.Since(start)

	if r.config.ReportCSV != "" {
		if err := WriteReport(r.config.ReportCSV, results); err != nil {
			logCtx.Error("Failed to write CSV report.", "path", r.config.ReportCSV, "error", err)
		}
	}
	if r.mirror != nil && len(renamedPaths) > 0 {
		if err := r.mirror.UploadRun(ctx, r.runID, renamedPaths); err != nil {
			logCtx.Error("Failed to mirror renamed files.", "error", err)
		}
	}

	logCtx.Info("Rename run complete.",
		"total", summary.Total,
		"renamed", summary.Renamed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration.String(),
	)
	return summary, nil
}

// ProcessFile runs the pipeline for a single PDF. Errors never escape; they
// are logged and recorded on the returned result so the caller can keep
// going.
func (r *Renamer) ProcessFile(ctx context.Context, pdfPath string) (res models.ProcessResult) {
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	res = models.ProcessResult{SourcePath: pdfPath, Status: models.StatusFailed}
	logCtx := slog.With("file", filepath.Base(pdfPath))
	logCtx.Info("Processing PDF.")

	fileHash, err := calculateFileHash(pdfPath)
	if err != nil {
		return r.fail(logCtx, res, "failed to calculate file hash", err)
	}
	logCtx = logCtx.With("fileHash", fileHash)

	if existing, ok := r.seenHashes[fileHash]; ok {
		logCtx.Info("Duplicate file detected. Skipping.", "existingOutput", existing)
		res.Status = models.StatusSkipped
		return res
	}

	if pageCount, err := pdfproc.Inspect(pdfPath); err != nil {
		logCtx.Warn("PDF validation failed. Attempting OCR anyway.", "error", err)
	} else {
		logCtx = logCtx.With("pageCount", pageCount)
	}

	tempDir, err := os.MkdirTemp("", "millsheet-renamer-*")
	if err != nil {
		return r.fail(logCtx, res, "failed to create temp dir", err)
	}
	defer os.RemoveAll(tempDir)

	imagePath, err := r.rasterizer.RenderPage(ctx, pdfPath, 1, tempDir)
	if err != nil {
		return r.fail(logCtx, res, "failed to rasterize first page", err)
	}

	text, err := r.engine.Recognize(ctx, imagePath)
	if err != nil {
		return r.fail(logCtx, res, "OCR failed", err)
	}
	if text == "" {
		return r.fail(logCtx, res, "OCR produced no text", fmt.Errorf("empty recognition result for %s", imagePath))
	}
	res.OCRChars = utf8.RuneCountInString(text)
	logCtx = logCtx.With("ocrChars", res.OCRChars)

	info := parser.Extract(text)
	if info.Sparse() && r.fallback != nil {
		logCtx.Info("Regex parser found little. Asking generative fallback.")
		llmInfo, err := r.fallback.ExtractFields(ctx, text)
		if err != nil {
			logCtx.Warn("Generative fallback failed. Continuing with regex fields only.", "error", err)
		} else {
			info.FillFrom(llmInfo)
		}
	}
	res.Info = info

	newName := rename.Build(info, filepath.Base(pdfPath))
	uniqueName := rename.UniqueName(r.config.OutputDir, newName)
	destPath := filepath.Join(r.config.OutputDir, uniqueName)

	if err := copyFile(pdfPath, destPath); err != nil {
		return r.fail(logCtx, res, "failed to copy file to output directory", err)
	}

	r.seenHashes[fileHash] = uniqueName
	res.OutputPath = destPath
	res.Status = models.StatusRenamed
	logCtx.Info("File renamed.",
		"newName", uniqueName,
		"date", info.Date,
		"company", info.CompanyName,
		"documentType", info.DocumentType,
	)
	return res
}

func (r *Renamer) fail(logCtx *slog.Logger, res models.ProcessResult, message string, err error) models.ProcessResult {
	logCtx.Error(message, "error", err)
	res.Status = models.StatusFailed
	res.Err = fmt.Errorf("%s: %w", message, err)
	return res
}

// listPDFs returns the PDF filenames in dir in lexical order.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}
	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfs = append(pdfs, entry.Name())
		}
	}
	return pdfs, nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("could not open file for hashing: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("could not read file for hashing: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// copyFile copies src to dest and carries the source's modification time
// over, so renamed files still sort by scan date.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("could not create destination file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finalize destination file: %w", err)
	}

	if fi, err := os.Stat(src); err == nil {
		_ = os.Chtimes(dest, fi.ModTime(), fi.ModTime())
	}
	return nil
}
