package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"flicker-cloud/internal/observability/metrics"
	"flicker-cloud/internal/report"
	"flicker-cloud/internal/waveform/application"
)

const sessionPathPrefix = "/api/v1/waveforms/"

// SessionHandler serves stored analysis sessions: retrieval, comprehensive
// analysis, and report export.
type SessionHandler struct {
	service        *application.AnalysisService
	reportSettings report.Settings
	logger         *log.Logger
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(service *application.AnalysisService, settings report.Settings, logger *log.Logger) (*SessionHandler, error) {
	if service == nil {
		return nil, errors.New("session handler: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SessionHandler{service: service, reportSettings: settings, logger: logger}, nil
}

// ServeHTTP routes session requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, sessionPathPrefix) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, sessionPathPrefix)
	parts := strings.Split(path, "/")
	if len(parts) < 1 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sessionID := parts[0]

	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGet(w, r, sessionID)
		return
	}
	if len(parts) == 1 && r.Method == http.MethodDelete {
		h.handleDelete(w, r, sessionID)
		return
	}
	if len(parts) == 2 && parts[1] == "analyze" && r.Method == http.MethodPost {
		h.handleComprehensive(w, r, sessionID)
		return
	}
	if len(parts) == 2 && parts[1] == "export" && r.Method == http.MethodGet {
		h.handleExport(w, r, sessionID)
		return
	}

	w.WriteHeader(http.StatusNotFound)
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"session_id": session.ID,
		"name":       session.Name,
		"created_at": session.CreatedAt.Format(time.RFC3339),
		"analysis":   toAnalysisDTO(session.Result),
	})
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.service.Delete(r.Context(), sessionID); err != nil {
		respondAnalysisError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *SessionHandler) handleComprehensive(w http.ResponseWriter, r *http.Request, sessionID string) {
	start := time.Now()
	result, err := h.service.Comprehensive(r.Context(), sessionID)
	if err != nil {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
		h.logger.Printf("session: comprehensive error: %v", err)
		respondAnalysisError(w, err)
		return
	}
	metrics.ObserveAnalyze(metrics.ResultSuccess, time.Since(start))

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"analysis": map[string]any{
			"base":                   toAnalysisDTO(result.AnalysisResult),
			"fft_dominant_frequency": roundTo(result.Spectrum.DominantHz, 1),
			"fft_frequencies":        result.Spectrum.FrequenciesHz,
			"fft_magnitudes":         result.Spectrum.Magnitudes,
			"rms_variation":          roundTo(result.RMSVariation, 3),
		},
	})
}

var exportContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"csv":  "text/csv",
}

func (h *SessionHandler) handleExport(w http.ResponseWriter, r *http.Request, sessionID string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}
	contentType, ok := exportContentTypes[format]
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid format")
		return
	}

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	start := time.Now()
	var payload []byte
	switch format {
	case "pdf":
		payload, err = report.BuildPDF(session, h.reportSettings)
	case "xlsx":
		payload, err = report.BuildXLSX(session, h.reportSettings)
	case "csv":
		payload, err = report.BuildCSV(session, h.reportSettings)
	}
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		h.logger.Printf("session: export %s error: %v", format, err)
		respondError(w, http.StatusInternalServerError, "export error")
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=flicker_report.%s", format))
	_, _ = w.Write(payload)
}
