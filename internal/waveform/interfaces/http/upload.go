// Package http serves the waveform analysis API.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"flicker-cloud/internal/observability/metrics"
	"flicker-cloud/internal/waveform/application"
	"flicker-cloud/internal/waveform/interfaces/ingest"

	waveform "flicker-cloud/internal/waveform/domain"
)

// DefaultMaxUploadBytes bounds upload payloads (50 MB, oscilloscope CSV
// exports can be large).
const DefaultMaxUploadBytes = 50 << 20

// UploadHandler handles waveform imports: multipart file uploads and pasted
// CSV text.
type UploadHandler struct {
	service  *application.AnalysisService
	maxBytes int64
	logger   *log.Logger
}

// NewUploadHandler constructs an upload handler.
func NewUploadHandler(service *application.AnalysisService, maxBytes int64, logger *log.Logger) (*UploadHandler, error) {
	if service == nil {
		return nil, errors.New("upload handler: nil service")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	return &UploadHandler{service: service, maxBytes: maxBytes, logger: logger}, nil
}

// ServeHTTP handles POST /api/v1/waveforms.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	name, samples, err := h.parseUpload(r)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultError)
		h.logger.Printf("upload: parse error: %v", err)
		respondAnalysisError(w, err)
		return
	}
	metrics.ObserveUpload(metrics.ResultSuccess)

	start := time.Now()
	session, err := h.service.Analyze(r.Context(), name, samples)
	if err != nil {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		h.logger.Printf("upload: analyze error: %v", err)
		respondAnalysisError(w, err)
		return
	}
	metrics.ObserveAnalyze(metrics.ResultSuccess, time.Since(start))

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": session.ID,
		"preview":    ingest.BuildPreview(session.Samples, 10),
		"analysis":   toAnalysisDTO(session.Result),
	})
}

// parseUpload extracts samples from a multipart file or a JSON body with
// pasted CSV text.
func (h *UploadHandler) parseUpload(r *http.Request) (string, []waveform.Sample, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return parseMultipart(r, h.maxBytes)
	}

	var req struct {
		CSVData string `json:"csv_data"`
		Name    string `json:"name"`
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return "", nil, ingest.ErrNoData
	}
	if req.CSVData == "" {
		return "", nil, ingest.ErrNoData
	}
	name := req.Name
	if name == "" {
		name = "pasted_data"
	}
	samples, err := ingest.ParseCSV(req.CSVData)
	return name, samples, err
}

func parseMultipart(r *http.Request, maxBytes int64) (string, []waveform.Sample, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, ingest.ErrNoData
	}
	defer file.Close()

	name := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	if name == "" {
		name = "uploaded_data"
	}

	if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		samples, err := ingest.ParseXLSX(file)
		return name, samples, err
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	samples, err := ingest.ParseCSV(string(content))
	return name, samples, err
}
