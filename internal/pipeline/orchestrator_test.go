package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
	"github.com/MohdAli056/invoice-processor-backend/internal/ocr"
)

type fakeAI struct {
	available bool
	rec       invoice.Record
	err       error
	calls     int
}

func (f *fakeAI) Available() bool { return f.available }

func (f *fakeAI) Extract(_ context.Context, _ string, _ constants.FileFormat) (invoice.Record, error) {
	f.calls++
	return f.rec, f.err
}

type fakeText struct {
	text  string
	pages int
	err   error
	calls int
}

func (f *fakeText) ExtractFile(_ context.Context, _ string, _ constants.FileFormat) (ocr.ExtractedText, error) {
	f.calls++
	return ocr.ExtractedText{Text: f.text, Pages: f.pages, Engine: "tesseract"}, f.err
}

func strPtr(s string) *string { return &s }

var testMeta = Meta{Filename: "invoice.pdf", SizeBytes: 2048, Format: constants.PDF}

func TestProcessAISuccess(t *testing.T) {
	ai := &fakeAI{available: true, rec: invoice.Record{InvoiceNumber: strPtr("INV-1")}}
	text := &fakeText{text: "should never be read"}
	o := NewOrchestrator(ai, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{UseAI: true, OCRFallback: true})

	assert.True(t, res.Success)
	assert.Equal(t, constants.MethodAIVision, res.ProcessingMethod)
	assert.Equal(t, constants.ConfidenceHigh, res.Confidence)
	require.NotNil(t, res.ExtractedData)
	assert.Equal(t, "INV-1", *res.ExtractedData.InvoiceNumber)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, 0, text.calls, "fallback must not run after AI success")
	assert.Equal(t, "invoice.pdf", res.Filename)
	assert.Equal(t, int64(2048), res.FileSizeBytes)
	assert.Equal(t, constants.PDF, res.FileFormat)
	assert.False(t, res.ProcessedAt.IsZero())
}

func TestProcessAIFailureFallsBackToOCR(t *testing.T) {
	ai := &fakeAI{available: true, err: common.WrapError(common.ErrAIRequest, "status 500")}
	text := &fakeText{text: "Invoice Number: INV-2024-001\nTotal: $1,234.56", pages: 1}
	o := NewOrchestrator(ai, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{UseAI: true, OCRFallback: true})

	assert.True(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
	assert.Equal(t, constants.ConfidenceMedium, res.Confidence)
	require.NotNil(t, res.ExtractedData)
	assert.Equal(t, "INV-2024-001", *res.ExtractedData.InvoiceNumber)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, 1, text.calls)
}

func TestProcessAIFailureWithoutFallback(t *testing.T) {
	ai := &fakeAI{available: true, err: common.WrapError(common.ErrAIParse, "not json")}
	text := &fakeText{text: "plenty of recoverable text here"}
	o := NewOrchestrator(ai, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{UseAI: true, OCRFallback: false})

	assert.False(t, res.Success)
	assert.Equal(t, constants.MethodAIVision, res.ProcessingMethod)
	assert.Contains(t, res.Error, "not json")
	assert.Nil(t, res.ExtractedData)
	assert.Equal(t, 0, text.calls)
}

func TestProcessAIDisabledSkipsStrategy(t *testing.T) {
	ai := &fakeAI{available: true, rec: invoice.Record{InvoiceNumber: strPtr("wrong")}}
	text := &fakeText{text: "Invoice Number: OCR-1\nTotal: $10.00"}
	o := NewOrchestrator(ai, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{UseAI: false, OCRFallback: true})

	assert.Equal(t, 0, ai.calls)
	assert.True(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
}

func TestProcessAIUnavailableSkipsStrategy(t *testing.T) {
	ai := &fakeAI{available: false}
	text := &fakeText{text: "Invoice Number: OCR-2\nTotal: $10.00"}
	o := NewOrchestrator(ai, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{UseAI: true, OCRFallback: true})

	assert.Equal(t, 0, ai.calls)
	assert.True(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
}

func TestProcessNilAIStrategy(t *testing.T) {
	text := &fakeText{text: "Invoice Number: OCR-3\nTotal: $10.00"}
	o := NewOrchestrator(nil, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{UseAI: true, OCRFallback: true})

	assert.True(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
}

func TestProcessInsufficientText(t *testing.T) {
	text := &fakeText{text: "hi"}
	o := NewOrchestrator(nil, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{OCRFallback: true})

	assert.False(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
	assert.Equal(t, common.ErrInsufficientText.Error(), res.Error)
	assert.Nil(t, res.ExtractedData)
}

func TestProcessWhitespaceOnlyTextIsInsufficient(t *testing.T) {
	text := &fakeText{text: "   \n\t\n     \n  "}
	o := NewOrchestrator(nil, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{})

	assert.False(t, res.Success)
	assert.Equal(t, common.ErrInsufficientText.Error(), res.Error)
}

func TestProcessConversionErrorIsTerminal(t *testing.T) {
	text := &fakeText{err: common.WrapError(common.ErrConversion, "pdftoppm failed at both resolutions")}
	o := NewOrchestrator(nil, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{})

	assert.False(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
	assert.Contains(t, res.Error, "pdftoppm failed")
	assert.Nil(t, res.ExtractedData)
}

func TestProcessOtherOCRErrorDegradesToInsufficient(t *testing.T) {
	// A non-conversion engine error is treated as zero recovered text, not a
	// distinct failure mode.
	text := &fakeText{text: "ignored when err set", err: common.WrapError(common.ErrOCRUnavailable, "no tesseract")}
	o := NewOrchestrator(nil, text, nil)

	res := o.Process(context.Background(), "/tmp/invoice.pdf", testMeta, Options{})

	assert.False(t, res.Success)
	assert.Equal(t, common.ErrInsufficientText.Error(), res.Error)
}

func TestProcessEnvelopeEchoesMetadataOnFailure(t *testing.T) {
	text := &fakeText{text: ""}
	o := NewOrchestrator(nil, text, nil)
	meta := Meta{Filename: "scan.png", SizeBytes: 512, Format: constants.IMAGE}

	res := o.Process(context.Background(), "/tmp/scan.png", meta, Options{})

	assert.Equal(t, "scan.png", res.Filename)
	assert.Equal(t, int64(512), res.FileSizeBytes)
	assert.Equal(t, constants.IMAGE, res.FileFormat)
	assert.False(t, res.ProcessedAt.IsZero())
}
