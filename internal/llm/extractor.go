package llm

import (
	"context"
	"log/slog"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
	"github.com/MohdAli056/invoice-processor-backend/internal/raster"
)

// Extractor is the AI strategy. It sends the page image straight to the
// hosted model; PDFs are first reduced to a single page image through the
// rasterizer and that intermediate file is discarded regardless of outcome.
//
// A nil client makes the strategy unavailable, which the orchestrator treats
// as "skip the AI state", not as an error.
type Extractor struct {
	client ImageExtractor
	raster *raster.Rasterizer
	logger *slog.Logger
}

func NewExtractor(client ImageExtractor, rast *raster.Rasterizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, raster: rast, logger: logger}
}

func (e *Extractor) Available() bool {
	return e != nil && e.client != nil
}

// Extract runs the AI strategy on a whole input document. All failures come
// back as error values wrapping common.ErrAIRequest, common.ErrAIParse or
// common.ErrConversion; nothing panics across this boundary.
func (e *Extractor) Extract(ctx context.Context, path string, format constants.FileFormat) (invoice.Record, error) {
	if !e.Available() {
		return invoice.Record{}, common.WrapError(common.ErrAIRequest, "ai client not configured")
	}

	imagePath := path
	if format == constants.PDF {
		pages, cleanup, err := e.raster.Rasterize(ctx, path)
		defer cleanup()
		if err != nil {
			return invoice.Record{}, err
		}
		imagePath = pages[0].Path
	}

	fields, err := e.client.ExtractImage(ctx, imagePath)
	if err != nil {
		return invoice.Record{}, err
	}
	return fields.ToRecord(), nil
}
