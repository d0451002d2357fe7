package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	OCR    OCRConfig
	Raster RasterConfig
	AI     AIConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr         string
	MaxUploadMB  int
	AllowOrigins string
}

// OCRConfig holds tesseract configuration.
type OCRConfig struct {
	Tesseract   string
	Lang        string
	TessdataDir string
	PSM         int
	OEM         int
}

// RasterConfig holds PDF rasterization configuration.
type RasterConfig struct {
	Pdftoppm    string
	DPI         int
	FallbackDPI int
	MaxPages    int
}

// AIConfig holds hosted vision-model configuration.
type AIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
	Timeout         time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         getEnv("HTTP_ADDR", ":8000"),
			MaxUploadMB:  getEnvAsInt("MAX_UPLOAD_MB", 20),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000"),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Lang:        getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			PSM:         getEnvAsInt("TESSERACT_PSM", 6),
			OEM:         getEnvAsInt("TESSERACT_OEM", 3),
		},
		Raster: RasterConfig{
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:         getEnvAsInt("RASTER_DPI", 300),
			FallbackDPI: getEnvAsInt("RASTER_FALLBACK_DPI", 200),
			MaxPages:    getEnvAsInt("RASTER_MAX_PAGES", 1),
		},
		AI: AIConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			BaseURL:         getEnv("GEMINI_BASE_URL", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature:     getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			TopP:            getEnvAsFloat32("GEMINI_TOP_P", 0.1),
			TopK:            getEnvAsInt("GEMINI_TOP_K", 16),
			MaxOutputTokens: getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 2048),
			Timeout:         getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
	}
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
