package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/ujiie/millsheetflow/internal/config"
	"github.com/ujiie/millsheetflow/internal/gcp"
	"github.com/ujiie/millsheetflow/internal/ocr"
	"github.com/ujiie/millsheetflow/internal/ocr/tesseract"
	"github.com/ujiie/millsheetflow/internal/pdfproc"
	"github.com/ujiie/millsheetflow/internal/services"
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
}

func main() {
	if err := run(); err != nil {
		slog.Error("millsheet-renamer failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	runID := uuid.New().String()
	slog.Info("millsheet-renamer starting.", "runId", runID, "ocrEngine", cfg.OCR.Engine)

	var engine ocr.Engine
	switch cfg.OCR.Engine {
	case config.EngineTesseract:
		engine = tesseract.NewEngine(cfg.OCR.RasterDPI)
	default:
		visionEngine, err := gcp.NewVisionOCR(ctx, cfg.OCR.CredentialsFile, cfg.OCR.VisionQPS)
		if err != nil {
			return fmt.Errorf("failed to set up Vision OCR: %w", err)
		}
		defer visionEngine.Close()
		engine = visionEngine
	}

	var fallback services.FieldFallback
	if cfg.VertexEnabled() {
		vertexClient, err := gcp.NewVertexClient(ctx, cfg.Vertex.ProjectID, cfg.Vertex.Location, cfg.Vertex.Model)
		if err != nil {
			return fmt.Errorf("failed to set up Vertex fallback: %w", err)
		}
		defer vertexClient.Close()
		fallback = vertexClient
		slog.Info("Generative fallback enabled.", "model", cfg.Vertex.Model)
	}

	var mirror services.FileMirror
	if cfg.MirrorEnabled() {
		m, err := gcp.NewMirror(ctx, cfg.Mirror.Bucket, cfg.OCR.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to set up GCS mirror: %w", err)
		}
		defer m.Close()
		mirror = m
		slog.Info("GCS mirroring enabled.", "bucket", cfg.Mirror.Bucket)
	}

	renamer := services.NewRenamer(services.RenamerConfig{
		InputDir:  cfg.Paths.InputDir,
		OutputDir: cfg.Paths.OutputDir,
		ReportCSV: cfg.Report.CSVPath,
	}, runID, pdfproc.NewRasterizer("", cfg.OCR.RasterDPI), engine, fallback, mirror)

	if cfg.Watch.Cron != "" {
		err := services.RunWatch(ctx, cfg.Watch.Cron, func() {
			if _, err := renamer.Run(ctx); err != nil {
				slog.Error("Rename run failed.", "error", err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	summary, err := renamer.Run(ctx)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}
