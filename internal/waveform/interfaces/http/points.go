package http

import (
	"encoding/json"
	"net/http"

	"flicker-cloud/internal/observability/metrics"

	standards "flicker-cloud/internal/standards/domain"
)

// PointsHandler classifies manually entered (frequency, modulation) points
// against IEEE 1789-2015 without a waveform upload.
type PointsHandler struct{}

// NewPointsHandler constructs a points handler.
func NewPointsHandler() *PointsHandler {
	return &PointsHandler{}
}

type manualPoint struct {
	Frequency         float64 `json:"frequency"`
	ModulationPercent float64 `json:"modulation_percent"`
	Label             string  `json:"label"`
}

type classifiedPoint struct {
	manualPoint
	IEEE17892015 string `json:"ieee_1789_2015"`
}

// ServeHTTP handles POST /api/v1/points/classify.
func (h *PointsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Points []manualPoint `json:"points"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Points) == 0 {
		respondError(w, http.StatusBadRequest, "no points provided")
		return
	}

	results := make([]classifiedPoint, 0, len(req.Points))
	for _, p := range req.Points {
		category, err := standards.ClassifyPoint(standards.Point{
			FrequencyHz:       p.Frequency,
			ModulationPercent: p.ModulationPercent,
			Label:             p.Label,
		})
		if err != nil {
			metrics.ObserveManualClassification(metrics.ResultError)
			respondAnalysisError(w, err)
			return
		}
		results = append(results, classifiedPoint{manualPoint: p, IEEE17892015: string(category)})
	}
	metrics.ObserveManualClassification(metrics.ResultSuccess)

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "points": results})
}
