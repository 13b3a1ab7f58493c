package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujiie/millsheetflow/internal/models"
)

const millSheetText = `ミルシート
検査証明書
東京製鉄株式会社
発行日: 2024/01/15
材質: SPHC
寸法
1.6X1219XCOIL
溶鋼番号: AB1234`

type stubResponse struct {
	text string
	err  error
}

type stubEngine struct {
	responses []stubResponse
	calls     int
}

func (e *stubEngine) Name() string { return "stub" }

func (e *stubEngine) Recognize(_ context.Context, _ string) (string, error) {
	if e.calls >= len(e.responses) {
		return "", fmt.Errorf("unexpected OCR call %d", e.calls)
	}
	r := e.responses[e.calls]
	e.calls++
	return r.text, r.err
}

type stubRasterizer struct {
	err error
}

func (r *stubRasterizer) RenderPage(_ context.Context, _ string, page int, destDir string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	path := filepath.Join(destDir, fmt.Sprintf("page-%d.png", page))
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type stubFallback struct {
	info   models.DocumentInfo
	err    error
	called bool
}

func (f *stubFallback) ExtractFields(_ context.Context, _ string) (models.DocumentInfo, error) {
	f.called = true
	return f.info, f.err
}

type stubMirror struct {
	runID string
	paths []string
}

func (m *stubMirror) UploadRun(_ context.Context, runID string, paths []string) error {
	m.runID = runID
	m.paths = paths
	return nil
}

func writeInputPDF(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestConfig(t *testing.T) RenamerConfig {
	t.Helper()
	return RenamerConfig{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
	}
}

func TestRenamer_Run_RenamesByParsedFields(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: millSheetText}}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Renamed)
	assert.Equal(t, 0, summary.Failed)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "2024-01-15_東京製鉄_SPHC_1.6x1219xC_AB1234_ミルシート.pdf"))
}

func TestRenamer_Run_FailureDoesNotStopRun(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "a.pdf", "%PDF-1.4 aaa")
	writeInputPDF(t, cfg.InputDir, "b.pdf", "%PDF-1.4 bbb")

	engine := &stubEngine{responses: []stubResponse{
		{err: fmt.Errorf("vision API error")},
		{text: millSheetText},
	}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Renamed)

	outputs, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Len(t, outputs, 1)
}

func TestRenamer_Run_SkipsDuplicateContent(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "a.pdf", "%PDF-1.4 same bytes")
	writeInputPDF(t, cfg.InputDir, "b.pdf", "%PDF-1.4 same bytes")

	engine := &stubEngine{responses: []stubResponse{{text: millSheetText}}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Renamed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, engine.calls, "duplicate must be skipped before OCR")
}

func TestRenamer_Run_CollidingNamesGetCounter(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "a.pdf", "%PDF-1.4 aaa")
	writeInputPDF(t, cfg.InputDir, "b.pdf", "%PDF-1.4 bbb")

	engine := &stubEngine{responses: []stubResponse{
		{text: millSheetText},
		{text: millSheetText},
	}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "2024-01-15_東京製鉄_SPHC_1.6x1219xC_AB1234_ミルシート.pdf"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "2024-01-15_東京製鉄_SPHC_1.6x1219xC_AB1234_ミルシート_1.pdf"))
}

func TestRenamer_Run_FallbackFillsSparseFields(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: "This page intentionally left blank"}}}
	fallback := &stubFallback{info: models.DocumentInfo{
		Date:         "2024-02-02",
		CompanyName:  "東京製鉄",
		DocumentType: "ミルシート",
	}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, fallback, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, fallback.called)
	assert.Equal(t, 1, summary.Renamed)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "2024-02-02_東京製鉄_ミルシート.pdf"))
}

func TestRenamer_Run_FallbackNotConsultedWhenParserSucceeds(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: millSheetText}}}
	fallback := &stubFallback{}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, fallback, nil)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, fallback.called)
}

func TestRenamer_Run_FallbackErrorIsNotFatal(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: "This page intentionally left blank"}}}
	fallback := &stubFallback{err: fmt.Errorf("quota exceeded")}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, fallback, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	// All extractors empty: the file still gets the deterministic fallback name.
	assert.Equal(t, 1, summary.Renamed)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "scan001_renamed.pdf"))
}

func TestRenamer_Run_EmptyOCRTextFails(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: ""}}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
}

func TestRenamer_Run_WritesReport(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.ReportCSV = filepath.Join(t.TempDir(), "report.csv")
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: millSheetText}}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.ReportCSV)
	require.NoError(t, err)
	assert.Contains(t, string(data), "source,new_name,status")
	assert.Contains(t, string(data), "RENAMED")
	assert.Contains(t, string(data), "東京製鉄")
}

func TestRenamer_Run_MirrorsRenamedFiles(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "a.pdf", "%PDF-1.4 aaa")
	writeInputPDF(t, cfg.InputDir, "b.pdf", "%PDF-1.4 bbb")

	engine := &stubEngine{responses: []stubResponse{
		{text: millSheetText},
		{err: fmt.Errorf("vision API error")},
	}}
	mirror := &stubMirror{}
	r := NewRenamer(cfg, "run-42", &stubRasterizer{}, engine, nil, mirror)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-42", mirror.runID)
	require.Len(t, mirror.paths, 1, "only successfully renamed files are mirrored")
	assert.Contains(t, mirror.paths[0], cfg.OutputDir)
}

func TestRenamer_Run_EmptyInputDirectory(t *testing.T) {
	cfg := newTestConfig(t)

	engine := &stubEngine{}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, engine.calls)
}

func TestRenamer_Run_IgnoresNonPDFFiles(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "notes.txt", "not a pdf")
	writeInputPDF(t, cfg.InputDir, "scan001.PDF", "%PDF-1.4 fake")

	engine := &stubEngine{responses: []stubResponse{{text: millSheetText}}}
	r := NewRenamer(cfg, "run-1", &stubRasterizer{}, engine, nil, nil)

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Renamed)
}

func TestRenamer_ProcessFile_RasterizerFailure(t *testing.T) {
	cfg := newTestConfig(t)
	writeInputPDF(t, cfg.InputDir, "scan001.pdf", "%PDF-1.4 fake")

	r := NewRenamer(cfg, "run-1", &stubRasterizer{err: fmt.Errorf("pdftoppm not found")}, &stubEngine{}, nil, nil)

	res := r.ProcessFile(context.Background(), filepath.Join(cfg.InputDir, "scan001.pdf"))

	assert.Equal(t, models.StatusFailed, res.Status)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "rasterize")
}
