package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohdAli056/invoice-processor-backend/constants"
	"github.com/MohdAli056/invoice-processor-backend/internal/common"
	"github.com/MohdAli056/invoice-processor-backend/internal/invoice"
	"github.com/MohdAli056/invoice-processor-backend/internal/pipeline"
)

type fakeProcessor struct {
	res   invoice.Result
	calls int
	meta  pipeline.Meta
	opts  pipeline.Options
}

func (f *fakeProcessor) Process(_ context.Context, _ string, meta pipeline.Meta, opts pipeline.Options) invoice.Result {
	f.calls++
	f.meta = meta
	f.opts = opts
	return f.res
}

func newTestServer(proc *fakeProcessor) *Server {
	cfg := common.ServerConfig{Addr: ":0", MaxUploadMB: 20, AllowOrigins: "*"}
	return New(cfg, proc, nil)
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakeProcessor{})
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(&fakeProcessor{})
	req, _ := http.NewRequest(http.MethodGet, "/", nil)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProcessReturnsEnvelope(t *testing.T) {
	inv := "INV-1"
	proc := &fakeProcessor{res: invoice.Result{
		Success:          true,
		ProcessingMethod: constants.MethodOCRPattern,
		Confidence:       constants.ConfidenceMedium,
		ExtractedData:    &invoice.Record{InvoiceNumber: &inv, DatesFound: []string{}},
	}}
	s := newTestServer(proc)

	body, ctype := multipartUpload(t, "file", "invoice.pdf", []byte("%PDF-1.4 fake"))
	req, _ := http.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, "invoice.pdf", proc.meta.Filename)
	assert.Equal(t, constants.PDF, proc.meta.Format)
	assert.Equal(t, int64(len("%PDF-1.4 fake")), proc.meta.SizeBytes)

	var res invoice.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, constants.MethodOCRPattern, res.ProcessingMethod)
	require.NotNil(t, res.ExtractedData)
	assert.Equal(t, "INV-1", *res.ExtractedData.InvoiceNumber)
}

func TestProcessRejectsUnsupportedExtension(t *testing.T) {
	proc := &fakeProcessor{}
	s := newTestServer(proc)

	body, ctype := multipartUpload(t, "file", "notes.txt", []byte("plain text"))
	req, _ := http.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, proc.calls, "pipeline must not run for rejected uploads")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(respBody), "UNSUPPORTED_INPUT")
	assert.Contains(t, string(respBody), common.ErrUnsupportedInput.Error())
}

func TestProcessRequiresFileField(t *testing.T) {
	proc := &fakeProcessor{}
	s := newTestServer(proc)

	body, ctype := multipartUpload(t, "wrongfield", "invoice.pdf", []byte("x"))
	req, _ := http.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, proc.calls)
}

func TestProcessStrategyQueryParam(t *testing.T) {
	cases := map[string]pipeline.Options{
		"auto": {UseAI: true, OCRFallback: true},
		"ai":   {UseAI: true, OCRFallback: false},
		"ocr":  {UseAI: false, OCRFallback: false},
		"":     {UseAI: true, OCRFallback: true},
	}
	for strategy, want := range cases {
		proc := &fakeProcessor{res: invoice.Result{Success: true}}
		s := newTestServer(proc)

		url := "/process"
		if strategy != "" {
			url += "?strategy=" + strategy
		}
		body, ctype := multipartUpload(t, "file", "scan.jpg", []byte("jpg bytes"))
		req, _ := http.NewRequest(http.MethodPost, url, body)
		req.Header.Set("Content-Type", ctype)

		resp, err := s.App().Test(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, want, proc.opts, "strategy=%q", strategy)
		assert.Equal(t, constants.IMAGE, proc.meta.Format)
	}
}

func TestProcessFailureEnvelopePassesThrough(t *testing.T) {
	proc := &fakeProcessor{res: invoice.Result{
		Success:          false,
		ProcessingMethod: constants.MethodOCRPattern,
		Error:            common.ErrInsufficientText.Error(),
	}}
	s := newTestServer(proc)

	body, ctype := multipartUpload(t, "file", "blank.png", []byte("png"))
	req, _ := http.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", ctype)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// failure envelopes are results, not HTTP errors
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var res invoice.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.False(t, res.Success)
	assert.Equal(t, common.ErrInsufficientText.Error(), res.Error)
	assert.Nil(t, res.ExtractedData)
}
