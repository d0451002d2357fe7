// Package pipeline arbitrates between the two extraction strategies. The
// state machine here, not either extractor, is the system's central
// contract: every path ends in the same envelope shape.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
	"github.com/MohdAli056/invoice-processor-backend/internal/ocr"
	"github.com/MohdAli056/invoice-processor-backend/internal/parser"
)

// MinTextLength is the OCR viability threshold: recovered text shorter than
// this is treated as total failure and the pattern extractor never runs.
const MinTextLength = 10

type state string

const (
	stateStart      state = "START"
	stateAIAttempt  state = "AI_ATTEMPT"
	stateAISuccess  state = "AI_SUCCESS"
	stateAIFailed   state = "AI_FAILED"
	stateOCRAttempt state = "OCR_ATTEMPT"
	stateOCRSuccess state = "OCR_SUCCESS"
	stateOCRFailed  state = "OCR_FAILED"
)

// AIStrategy is the hosted-model strategy boundary. Failures are result
// values; the orchestrator never switches on caught panics.
type AIStrategy interface {
	Available() bool
	Extract(ctx context.Context, path string, format constants.FileFormat) (invoice.Record, error)
}

// TextRecoverer is the local text-recovery boundary (rasterize, preprocess,
// OCR).
type TextRecoverer interface {
	ExtractFile(ctx context.Context, path string, format constants.FileFormat) (ocr.ExtractedText, error)
}

// Options selects the strategy path: AI-with-fallback, AI-only, or OCR-only.
type Options struct {
	UseAI       bool
	OCRFallback bool // attempt OCR when the AI strategy fails
}

// Meta is caller-supplied document metadata echoed into the envelope.
type Meta struct {
	Filename  string
	SizeBytes int64
	Format    constants.FileFormat
}

type Orchestrator struct {
	ai     AIStrategy
	text   TextRecoverer
	logger *slog.Logger
}

// NewOrchestrator wires the two strategies. ai may be nil when no hosted
// model is configured; the AI state is then skipped for every request.
func NewOrchestrator(ai AIStrategy, text TextRecoverer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{ai: ai, text: text, logger: logger}
}

// Process runs one document through the strategy state machine and always
// returns a well-formed envelope, never panics.
func (o *Orchestrator) Process(ctx context.Context, path string, meta Meta, opts Options) (res invoice.Result) {
	runID := uuid.New().String()
	st := stateStart

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline.panic", "run_id", runID, "state", string(st), "panic", r)
			res = o.failure(meta, constants.MethodOCRPattern, "internal error during extraction")
		}
	}()

	o.logger.Info("pipeline.start",
		"run_id", runID,
		"filename", meta.Filename,
		"format", string(meta.Format),
		"size_bytes", meta.SizeBytes,
		"use_ai", opts.UseAI,
		"ocr_fallback", opts.OCRFallback,
	)

	if opts.UseAI && o.ai != nil && o.ai.Available() {
		st = stateAIAttempt
		rec, err := o.ai.Extract(ctx, path, meta.Format)
		if err == nil {
			st = stateAISuccess
			o.logger.Info("pipeline.ai.ok", "run_id", runID)
			return o.success(meta, constants.MethodAIVision, constants.ConfidenceHigh, rec)
		}

		// Request error, parse error, extractor unavailable: all fall back
		// the same way. The user never retries by hand.
		st = stateAIFailed
		o.logger.Warn("pipeline.ai.failed", "run_id", runID, "error", err, "fallback", opts.OCRFallback)
		if !opts.OCRFallback {
			return o.failure(meta, constants.MethodAIVision, err.Error())
		}
	}

	st = stateOCRAttempt
	ext, err := o.text.ExtractFile(ctx, path, meta.Format)
	if err != nil {
		if errors.Is(err, common.ErrConversion) {
			st = stateOCRFailed
			o.logger.Error("pipeline.ocr.conversion_failed", "run_id", runID, "error", err)
			return o.failure(meta, constants.MethodOCRPattern, err.Error())
		}
		// Engine trouble degrades to "no text recovered" so the minimum-
		// length rule below classifies it uniformly.
		o.logger.Warn("pipeline.ocr.error", "run_id", runID, "error", err)
		ext = ocr.ExtractedText{}
	}

	if len(strings.TrimSpace(ext.Text)) < MinTextLength {
		st = stateOCRFailed
		o.logger.Warn("pipeline.ocr.insufficient_text", "run_id", runID, "text_len", len(ext.Text))
		return o.failure(meta, constants.MethodOCRPattern, common.ErrInsufficientText.Error())
	}

	rec := parser.Extract(ext.Text)
	st = stateOCRSuccess
	o.logger.Info("pipeline.ocr.ok", "run_id", runID, "pages", ext.Pages, "text_len", len(ext.Text))
	return o.success(meta, constants.MethodOCRPattern, constants.ConfidenceMedium, rec)
}

func (o *Orchestrator) success(meta Meta, method string, conf constants.Confidence, rec invoice.Record) invoice.Result {
	return invoice.Result{
		Success:          true,
		ProcessingMethod: method,
		ExtractedData:    &rec,
		Confidence:       conf,
		Filename:         meta.Filename,
		FileSizeBytes:    meta.SizeBytes,
		FileFormat:       meta.Format,
		ProcessedAt:      time.Now().UTC(),
	}
}

func (o *Orchestrator) failure(meta Meta, method, errMsg string) invoice.Result {
	return invoice.Result{
		Success:          false,
		ProcessingMethod: method,
		Error:            errMsg,
		Filename:         meta.Filename,
		FileSizeBytes:    meta.SizeBytes,
		FileFormat:       meta.Format,
		ProcessedAt:      time.Now().UTC(),
	}
}
