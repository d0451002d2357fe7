package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/execrun"
)

// Config for PDF rasterization.
type Config struct {
	Pdftoppm    string // binary name or absolute path; if empty -> "pdftoppm"
	DPI         int    // first attempt, default 300
	FallbackDPI int    // retry attempt, default 200
	MaxPages    int    // default 1: multi-page invoices lose pages 2+ (known limitation)
}

// Page is one rasterized PDF page on disk. The file lives inside the temp
// directory owned by the cleanup function returned from Rasterize.
type Page struct {
	Path  string
	Index int
}

// Rasterizer converts a PDF into page images via pdftoppm.
type Rasterizer struct {
	cfg    Config
	runner execrun.Runner
	logger *slog.Logger
}

func NewRasterizer(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.FallbackDPI <= 0 {
		cfg.FallbackDPI = 200
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Rasterizer{cfg: cfg, runner: execrun.ExecRunner{}, logger: logger}
}

// NewRasterizerWithRunner is NewRasterizer with the command runner swapped
// out, for callers that stub pdftoppm.
func NewRasterizerWithRunner(cfg Config, r execrun.Runner, logger *slog.Logger) *Rasterizer {
	rast := NewRasterizer(cfg, logger)
	rast.runner = r
	return rast
}

// Rasterize renders the PDF to PNG page images. The first attempt runs at
// high resolution with precise page-box cropping; any failure triggers one
// retry at lower resolution with simpler options. Zero pages after both
// attempts is a conversion failure; a blank page is never fabricated.
//
// cleanup removes the rendered files and must be called on every exit path,
// even when err is non-nil.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath string) (pages []Page, cleanup func(), err error) {
	tmpDir, err := os.MkdirTemp("", "inv-raster-*")
	if err != nil {
		return nil, func() {}, fmt.Errorf("raster temp dir: %w", err)
	}
	cleanup = func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.logger.Warn("raster.cleanup.failed", "dir", tmpDir, "error", rmErr)
		}
	}

	pages, firstErr := r.attempt(ctx, pdfPath, tmpDir, r.cfg.DPI, true)
	if firstErr == nil {
		return pages, cleanup, nil
	}
	r.logger.Warn("raster.high_quality.failed; retrying at lower resolution",
		"pdf", pdfPath, "dpi", r.cfg.DPI, "error", firstErr)

	pages, retryErr := r.attempt(ctx, pdfPath, tmpDir, r.cfg.FallbackDPI, false)
	if retryErr == nil {
		return pages, cleanup, nil
	}

	r.logger.Error("raster.failed", "pdf", pdfPath, "error", retryErr)
	return nil, cleanup, common.WrapError(common.ErrConversion, retryErr.Error())
}

func (r *Rasterizer) attempt(ctx context.Context, pdfPath, tmpDir string, dpi int, cropBox bool) ([]Page, error) {
	prefix := filepath.Join(tmpDir, fmt.Sprintf("page-%d", dpi))
	args := []string{
		"-r", fmt.Sprintf("%d", dpi),
		"-png",
		"-f", "1",
		"-l", fmt.Sprintf("%d", r.cfg.MaxPages),
	}
	if cropBox {
		args = append(args, "-cropbox")
	}
	args = append(args, pdfPath, prefix)

	if _, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm (%d dpi): %w: %s", dpi, err, truncateErr(errb))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm (%d dpi) produced no images", dpi)
	}

	pages := make([]Page, 0, len(matches))
	for i, m := range matches {
		pages = append(pages, Page{Path: m, Index: i})
	}
	return pages, nil
}

func truncateErr(b []byte) string {
	const maxLen = 512
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "...(truncated)"
}
