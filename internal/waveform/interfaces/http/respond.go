package http

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"flicker-cloud/internal/waveform/application"
	"flicker-cloud/internal/waveform/interfaces/ingest"

	standards "flicker-cloud/internal/standards/domain"
	waveform "flicker-cloud/internal/waveform/domain"
)

// analysisDTO mirrors the wire format of the analysis result.
type analysisDTO struct {
	VMax              float64 `json:"v_max"`
	VMin              float64 `json:"v_min"`
	VPP               float64 `json:"v_pp"`
	VAvg              float64 `json:"v_avg"`
	Frequency         float64 `json:"frequency"`
	Period            float64 `json:"period"`
	PercentFlicker    float64 `json:"percent_flicker"`
	FlickerIndex      float64 `json:"flicker_index"`
	FrameRate         int     `json:"framerate"`
	IEEE17892015      string  `json:"ieee_1789_2015"`
	CaliforniaJA82019 bool    `json:"california_ja8_2019"`
	WELLStandardV2    bool    `json:"well_standard_v2"`
}

func toAnalysisDTO(result application.AnalysisResult) analysisDTO {
	return analysisDTO{
		VMax:              roundTo(result.VMax, 3),
		VMin:              roundTo(result.VMin, 3),
		VPP:               roundTo(result.VPP, 3),
		VAvg:              roundTo(result.VAvg, 3),
		Frequency:         roundTo(result.FrequencyHz, 1),
		Period:            result.PeriodSeconds,
		PercentFlicker:    roundTo(result.PercentFlicker, 1),
		FlickerIndex:      roundTo(result.FlickerIndex, 3),
		FrameRate:         result.FrameRate,
		IEEE17892015:      string(result.Compliance.IEEE17892015),
		CaliforniaJA82019: result.Compliance.CaliforniaJA82019,
		WELLStandardV2:    result.Compliance.WELLStandardV2,
	}
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "error": message})
}

// respondAnalysisError maps core errors to status codes and user-facing
// messages. The no-period case gets a distinct message so the UI can tell
// "no flicker detected" apart from a bad upload.
func respondAnalysisError(w http.ResponseWriter, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		respondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
	case errors.Is(err, waveform.ErrNoPeriodDetected):
		respondError(w, http.StatusBadRequest, "no flicker detected: signal is flat or not periodic")
	case errors.Is(err, waveform.ErrMalformedWaveform),
		errors.Is(err, waveform.ErrInsufficientData),
		errors.Is(err, ingest.ErrNoData):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, standards.ErrFrequencyOutOfRange),
		errors.Is(err, standards.ErrModulationOutOfRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "invalid session")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
