package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/execrun"
	"github.com/MohdAli056/invoice-processor-backend/internal/imgprep"
	"github.com/MohdAli056/invoice-processor-backend/internal/raster"
)

// charWhitelist restricts recognition to characters that actually occur on
// invoices: alphanumerics plus common punctuation and currency symbols.
const charWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,()/-:@#$%&+=€£¥ "

// PageMarker separates per-page text in multi-page output. Pages are never
// silently merged: downstream "first occurrence wins" rules are
// order-sensitive.
const PageMarker = "\n\f\n"

// Config for the tesseract engine.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // 6: uniform block of mixed text
	OEM         int // 3: default engine selection
}

// ExtractedText is recovered plain text plus provenance. Text is always a
// value; the empty string means "no text recovered", which is distinct from
// an execution error.
type ExtractedText struct {
	Text   string
	Pages  int
	Engine string
}

// Engine runs tesseract over preprocessed page images.
type Engine struct {
	cfg    Config
	runner execrun.Runner
	prep   *imgprep.Preprocessor
	raster *raster.Rasterizer
	logger *slog.Logger
}

func NewEngine(cfg Config, prep *imgprep.Preprocessor, rast *raster.Rasterizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.OEM <= 0 {
		cfg.OEM = 3
	}
	return &Engine{cfg: cfg, runner: execrun.ExecRunner{}, prep: prep, raster: rast, logger: logger}
}

// Available probes the tesseract binary. Recognition on an unavailable
// engine returns empty text rather than an error, so the orchestrator can
// apply its minimum-length rule uniformly.
func (e *Engine) Available(ctx context.Context) bool {
	_, _, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
	if err != nil {
		e.logger.Warn("ocr.engine.unavailable", "bin", e.cfg.Tesseract, "error", err)
		return false
	}
	return true
}

// Recognize preprocesses one page image and runs tesseract over it.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (ExtractedText, error) {
	if !e.Available(ctx) {
		return ExtractedText{Text: "", Pages: 1, Engine: "tesseract"}, nil
	}

	processed := e.prep.Preprocess(img)

	tmpDir, err := os.MkdirTemp("", "inv-ocr-*")
	if err != nil {
		return ExtractedText{}, fmt.Errorf("ocr temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("ocr.cleanup.failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	pagePath := filepath.Join(tmpDir, "page.png")
	if err := imgprep.WritePNG(processed, pagePath); err != nil {
		return ExtractedText{}, err
	}

	txt, err := e.tesseract(ctx, pagePath)
	if err != nil {
		return ExtractedText{}, err
	}
	return ExtractedText{Text: CleanText(txt), Pages: 1, Engine: "tesseract"}, nil
}

// ExtractFile recovers text from a whole input document. PDF pages are joined
// with PageMarker; the rasterizer's first-page policy applies.
func (e *Engine) ExtractFile(ctx context.Context, path string, format constants.FileFormat) (ExtractedText, error) {
	switch format {
	case constants.IMAGE:
		img, err := imgprep.DecodeFile(path)
		if err != nil {
			return ExtractedText{}, err
		}
		return e.Recognize(ctx, img)
	case constants.PDF:
		return e.extractPDF(ctx, path)
	default:
		return ExtractedText{}, fmt.Errorf("unsupported format: %q", format)
	}
}

func (e *Engine) extractPDF(ctx context.Context, path string) (ExtractedText, error) {
	pages, cleanup, err := e.raster.Rasterize(ctx, path)
	defer cleanup()
	if err != nil {
		return ExtractedText{}, err
	}

	var b strings.Builder
	for _, pg := range pages {
		img, err := imgprep.DecodeFile(pg.Path)
		if err != nil {
			return ExtractedText{}, fmt.Errorf("decode page %d: %w", pg.Index, err)
		}
		res, err := e.Recognize(ctx, img)
		if err != nil {
			return ExtractedText{}, err
		}
		if b.Len() > 0 {
			b.WriteString(PageMarker)
		}
		b.WriteString(res.Text)
	}
	return ExtractedText{Text: b.String(), Pages: len(pages), Engine: "tesseract"}, nil
}

func (e *Engine) tesseract(ctx context.Context, imgPath string) (string, error) {
	args := []string{
		imgPath, "stdout",
		"-l", e.cfg.Lang,
		"--oem", fmt.Sprintf("%d", e.cfg.OEM),
		"--psm", fmt.Sprintf("%d", e.cfg.PSM),
		"-c", "tessedit_char_whitelist=" + charWhitelist,
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
