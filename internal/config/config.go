// Package config loads the application configuration from environment
// variables, with a .env file picked up when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported OCR engine names.
const (
	EngineVision    = "vision"
	EngineTesseract = "tesseract"
)

// Config holds all application configuration.
type Config struct {
	Paths  PathsConfig
	OCR    OCRConfig
	Vertex VertexConfig
	Mirror MirrorConfig
	Watch  WatchConfig
	Report ReportConfig
}

// PathsConfig locates the input and output directories.
type PathsConfig struct {
	InputDir  string
	OutputDir string
}

type OCRConfig struct {
	Engine          string
	CredentialsFile string
	RasterDPI       int
	VisionQPS       float64
}

// VertexConfig enables the generative fallback extractor when ProjectID is
// set.
type VertexConfig struct {
	ProjectID string
	Location  string
	Model     string
}

// MirrorConfig enables mirroring renamed files to GCS when Bucket is set.
type MirrorConfig struct {
	Bucket string
}

// WatchConfig enables periodic runs when Cron is set.
type WatchConfig struct {
	Cron string
}

// ReportConfig enables the per-run CSV report when CSVPath is set.
type ReportConfig struct {
	CSVPath string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment takes precedence anyway.
	_ = godotenv.Load()

	cfg := &Config{
		Paths: PathsConfig{
			InputDir:  getEnv("PDF_INPUT_DIR", "./input"),
			OutputDir: getEnv("PDF_OUTPUT_DIR", "./output"),
		},
		OCR: OCRConfig{
			Engine:          getEnv("OCR_ENGINE", EngineVision),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			RasterDPI:       getEnvAsInt("RASTER_DPI", 300),
			VisionQPS:       getEnvAsFloat("VISION_QPS", 2),
		},
		Vertex: VertexConfig{
			ProjectID: getEnv("VERTEX_PROJECT_ID", ""),
			Location:  getEnv("VERTEX_LOCATION", "us-central1"),
			Model:     getEnv("VERTEX_MODEL", "gemini-2.0-flash"),
		},
		Mirror: MirrorConfig{
			Bucket: getEnv("MIRROR_BUCKET", ""),
		},
		Watch: WatchConfig{
			Cron: getEnv("WATCH_CRON", ""),
		},
		Report: ReportConfig{
			CSVPath: getEnv("REPORT_CSV", ""),
		},
	}

	if cfg.OCR.Engine != EngineVision && cfg.OCR.Engine != EngineTesseract {
		return nil, fmt.Errorf("OCR_ENGINE must be %q or %q, got %q", EngineVision, EngineTesseract, cfg.OCR.Engine)
	}
	if cfg.OCR.RasterDPI <= 0 {
		return nil, fmt.Errorf("RASTER_DPI must be positive, got %d", cfg.OCR.RasterDPI)
	}
	if cfg.OCR.VisionQPS <= 0 {
		return nil, fmt.Errorf("VISION_QPS must be positive, got %g", cfg.OCR.VisionQPS)
	}

	return cfg, nil
}

// VertexEnabled reports whether the generative fallback is configured.
func (c *Config) VertexEnabled() bool {
	return c.Vertex.ProjectID != ""
}

// MirrorEnabled reports whether GCS mirroring is configured.
func (c *Config) MirrorEnabled() bool {
	return c.Mirror.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
