package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError builds an AppError with an optional cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Pipeline failure kinds. Strategy code wraps these so the orchestrator can
// classify a failure with errors.Is instead of inspecting strings.
var (
	// ErrUnsupportedInput: media type rejected before any pipeline stage runs.
	ErrUnsupportedInput = errors.New("unsupported input type")
	// ErrConversion: PDF rasterization yielded zero pages after both quality
	// attempts. Terminal; there is no text to recover.
	ErrConversion = errors.New("pdf conversion produced no pages")
	// ErrOCRUnavailable: OCR engine not reachable/configured.
	ErrOCRUnavailable = errors.New("ocr engine unavailable")
	// ErrAIRequest: transport or service failure calling the hosted model.
	ErrAIRequest = errors.New("ai request failed")
	// ErrAIParse: the hosted model replied but the payload was not valid JSON
	// after fence stripping.
	ErrAIParse = errors.New("ai response not parseable")
	// ErrInsufficientText: recovered OCR text under the minimum length;
	// pattern extraction is skipped entirely.
	ErrInsufficientText = errors.New("no meaningful text recovered")
)

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnsupportedInput builds the rejection for a file type the pipeline does not
// accept. Both entry points report it before any stage runs.
func UnsupportedInput(ext string) *AppError {
	return NewAppError("UNSUPPORTED_INPUT",
		fmt.Sprintf("unsupported file type %q; allowed: pdf, jpg, jpeg, png, tiff, bmp, webp", ext),
		ErrUnsupportedInput)
}
