package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/llm"
)

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Invoices are not adversarial content; keep the safety layer out of the way
// so replies never get blocked mid-extraction.
var relaxedSafety = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractImage implements llm.ImageExtractor: one fixed prompt plus one page
// image in, the twelve-field JSON object out. Transport and service failures
// wrap common.ErrAIRequest; an unparseable or schema-violating reply wraps
// common.ErrAIParse. Nothing else escapes.
func (c *Client) ExtractImage(ctx context.Context, imagePath string) (llm.Fields, error) {
	rid := uuid.New().String()
	start := time.Now()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return llm.Fields{}, common.WrapError(common.ErrAIRequest, fmt.Sprintf("read page image: %v", err))
	}

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"image_bytes", len(data),
	)

	body := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: llm.ExtractionPrompt},
				{InlineData: &inlineData{
					MIMEType: mimeForImage(imagePath),
					Data:     base64.StdEncoding.EncodeToString(data),
				}},
			},
		}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			TopP:            c.cfg.TopP,
			TopK:            c.cfg.TopK,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
		SafetySettings: relaxedSafety,
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Fields{}, common.WrapError(common.ErrAIRequest, err.Error())
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return llm.Fields{}, common.WrapError(common.ErrAIRequest, fmt.Sprintf("decode api envelope: %v", err))
	}
	if len(gr.Candidates) == 0 {
		return llm.Fields{}, common.WrapError(common.ErrAIRequest, "no candidates in response")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	reply := llm.StripCodeFence(sb.String())

	schema := llm.BuildInvoiceJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, []byte(reply)); err != nil {
		c.log.Error("llm.extract.parse_error",
			"req_id", rid, "error", err, "reply_bytes", len(reply),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Fields{}, common.WrapError(common.ErrAIParse, err.Error())
	}

	var out llm.Fields
	if err := json.Unmarshal([]byte(reply), &out); err != nil {
		return llm.Fields{}, common.WrapError(common.ErrAIParse, fmt.Sprintf("unmarshal fields: %v", err))
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"invoice_number", deref(out.InvoiceNumber),
		"total", deref(out.TotalAmount),
		"dates", len(out.DatesFound),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, body generateRequest) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("gemini response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

func mimeForImage(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff", "tif":
		return "image/tiff"
	default:
		return "image/png"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
