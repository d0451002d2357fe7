package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.Equal(t, "http://localhost:3000", cfg.Server.AllowOrigins)

	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, "eng", cfg.OCR.Lang)
	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.Equal(t, 3, cfg.OCR.OEM)

	assert.Equal(t, "pdftoppm", cfg.Raster.Pdftoppm)
	assert.Equal(t, 300, cfg.Raster.DPI)
	assert.Equal(t, 200, cfg.Raster.FallbackDPI)
	assert.Equal(t, 1, cfg.Raster.MaxPages)

	assert.Equal(t, "", cfg.AI.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.Equal(t, float32(0.1), cfg.AI.Temperature)
	assert.Equal(t, 16, cfg.AI.TopK)
	assert.Equal(t, 2048, cfg.AI.MaxOutputTokens)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("RASTER_DPI", "150")
	t.Setenv("GEMINI_API_KEY", "k-123")
	t.Setenv("GEMINI_TIMEOUT", "30s")

	cfg := LoadConfig()
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
	assert.Equal(t, 150, cfg.Raster.DPI)
	assert.Equal(t, "k-123", cfg.AI.APIKey)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "many")
	t.Setenv("GEMINI_TEMPERATURE", "warm")
	t.Setenv("GEMINI_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 20, cfg.Server.MaxUploadMB)
	assert.Equal(t, float32(0.1), cfg.AI.Temperature)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	appErr := NewAppError("OCR_FAILED", "recognition failed", cause)

	assert.True(t, errors.Is(appErr, cause))
	assert.Contains(t, appErr.Error(), "OCR_FAILED")
	assert.Contains(t, appErr.Error(), "root cause")

	noCause := NewAppError("BAD_INPUT", "rejected", nil)
	assert.Equal(t, "BAD_INPUT: rejected", noCause.Error())
}

func TestUnsupportedInputCarriesSentinel(t *testing.T) {
	err := UnsupportedInput(".txt")

	assert.True(t, errors.Is(err, ErrUnsupportedInput))
	assert.Contains(t, err.Error(), "UNSUPPORTED_INPUT")
	assert.Contains(t, err.Error(), `".txt"`)
	assert.Contains(t, err.Error(), "allowed: pdf")
}

func TestWrapErrorPreservesSentinel(t *testing.T) {
	err := WrapError(ErrConversion, "both attempts failed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConversion))
	assert.Contains(t, err.Error(), "both attempts failed")

	assert.NoError(t, WrapError(nil, "ignored"))
}
