package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/imgprep"
	"github.com/MohdAli056/invoice-processor-backend/internal/llm"
	"github.com/MohdAli056/invoice-processor-backend/internal/llm/gemini"
	"github.com/MohdAli056/invoice-processor-backend/internal/ocr"
	"github.com/MohdAli056/invoice-processor-backend/internal/pipeline"
	"github.com/MohdAli056/invoice-processor-backend/internal/raster"
	"github.com/MohdAli056/invoice-processor-backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	prep := imgprep.NewPreprocessor(imgprep.Config{}, logger)
	rast := raster.NewRasterizer(raster.Config{
		Pdftoppm:    cfg.Raster.Pdftoppm,
		DPI:         cfg.Raster.DPI,
		FallbackDPI: cfg.Raster.FallbackDPI,
		MaxPages:    cfg.Raster.MaxPages,
	}, logger)
	engine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
	}, prep, rast, logger)

	// The AI strategy only exists when credentials were provided at startup.
	var ai pipeline.AIStrategy
	if cfg.AI.APIKey != "" {
		client, err := gemini.NewClient(gemini.Config{
			APIKey:          cfg.AI.APIKey,
			BaseURL:         cfg.AI.BaseURL,
			Model:           cfg.AI.Model,
			Temperature:     cfg.AI.Temperature,
			TopP:            cfg.AI.TopP,
			TopK:            cfg.AI.TopK,
			MaxOutputTokens: cfg.AI.MaxOutputTokens,
			Timeout:         cfg.AI.Timeout,
		}, logger)
		if err != nil {
			logger.Error("gemini client init failed", "error", err)
			os.Exit(1)
		}
		ai = llm.NewExtractor(client, rast, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set; AI strategy disabled, OCR only")
	}

	orch := pipeline.NewOrchestrator(ai, engine, logger)
	srv := server.New(cfg.Server, orch, logger)

	logger.Info("invoiced listening", "addr", cfg.Server.Addr)
	if err := srv.Listen(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
