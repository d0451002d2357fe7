// Package server exposes the extraction pipeline over HTTP: a multipart
// upload endpoint plus health checks, with CORS for the browser frontend.
package server

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
	"github.com/MohdAli056/invoice-processor-backend/internal/pipeline"
)

// Processor is what the HTTP layer needs from the pipeline.
type Processor interface {
	Process(ctx context.Context, path string, meta pipeline.Meta, opts pipeline.Options) invoice.Result
}

type Server struct {
	app    *fiber.App
	proc   Processor
	cfg    common.ServerConfig
	logger *slog.Logger
}

func New(cfg common.ServerConfig, proc Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	app := fiber.New(fiber.Config{
		AppName:   "Invoice Processing API",
		BodyLimit: cfg.MaxUploadMB << 20,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "*",
	}))

	s := &Server{app: app, proc: proc, cfg: cfg, logger: logger}
	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)
	app.Post("/process", s.handleProcess)
	return s
}

func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Addr)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to Invoice Processing API",
		"endpoints": fiber.Map{
			"POST /process": "Upload and process an invoice file",
			"GET /health":   "Check API health status",
		},
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// handleProcess accepts one multipart file, rejects unsupported types before
// any pipeline stage runs, and always answers with the envelope shape.
func (s *Server) handleProcess(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field 'file' is required")
	}

	ext := filepath.Ext(fh.Filename)
	format := constants.MapExtToFormat(ext)
	if format == "" {
		return fiber.NewError(fiber.StatusBadRequest, common.UnsupportedInput(ext).Error())
	}

	tmpPath := filepath.Join(os.TempDir(), "inv-upload-"+uuid.New().String()+ext)
	if err := c.SaveFile(fh, tmpPath); err != nil {
		s.logger.Error("server.upload.save_failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not store upload")
	}
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			s.logger.Warn("server.upload.cleanup_failed", "path", tmpPath, "error", rmErr)
		}
	}()

	opts := pipeline.Options{UseAI: true, OCRFallback: true}
	switch c.Query("strategy", "auto") {
	case "ai":
		opts = pipeline.Options{UseAI: true, OCRFallback: false}
	case "ocr":
		opts = pipeline.Options{UseAI: false}
	}

	meta := pipeline.Meta{
		Filename:  fh.Filename,
		SizeBytes: fh.Size,
		Format:    format,
	}
	res := s.proc.Process(c.Context(), tmpPath, meta, opts)
	return c.JSON(res)
}
