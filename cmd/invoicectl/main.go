package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/imgprep"
	"github.com/MohdAli056/invoice-processor-backend/internal/llm"
	"github.com/MohdAli056/invoice-processor-backend/internal/llm/gemini"
	"github.com/MohdAli056/invoice-processor-backend/internal/ocr"
	"github.com/MohdAli056/invoice-processor-backend/internal/pipeline"
	"github.com/MohdAli056/invoice-processor-backend/internal/raster"
)

func main() {
	useAI := flag.Bool("ai", true, "attempt the hosted vision model first")
	fallback := flag.Bool("fallback", true, "fall back to OCR when the AI strategy fails")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall processing timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "invoicectl [-ai] [-fallback] <invoice file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	st, err := os.Stat(path)
	if err != nil {
		logger.Error("input file", "path", path, "error", err)
		os.Exit(1)
	}
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		logger.Error("input rejected", "path", path,
			"error", common.UnsupportedInput(filepath.Ext(path)))
		os.Exit(1)
	}

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
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	orch := pipeline.NewOrchestrator(ai, engine, logger)
	res := orch.Process(ctx, path, pipeline.Meta{
		Filename:  filepath.Base(path),
		SizeBytes: st.Size(),
		Format:    format,
	}, pipeline.Options{UseAI: *useAI, OCRFallback: *fallback})

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("marshal result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if !res.Success {
		os.Exit(1)
	}
}
