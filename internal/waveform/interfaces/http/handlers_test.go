package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flicker-cloud/internal/report"
	"flicker-cloud/internal/waveform/application"
	"flicker-cloud/internal/waveform/infrastructure/memory"

	waveform "flicker-cloud/internal/waveform/domain"
)

func newTestService(t *testing.T) *application.AnalysisService {
	t.Helper()
	service, err := application.NewAnalysisService(memory.NewSessionRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func sineCSV(frequency float64, sampleRate, n int) string {
	var b strings.Builder
	b.WriteString("time,voltage\n")
	dt := 1 / float64(sampleRate)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		v := 1 + 0.5*math.Sin(2*math.Pi*frequency*t)
		fmt.Fprintf(&b, "%g,%g\n", t, v)
	}
	return b.String()
}

type uploadResponse struct {
	Success   bool        `json:"success"`
	SessionID string      `json:"session_id"`
	Analysis  analysisDTO `json:"analysis"`
	Error     string      `json:"error"`
}

func TestUploadPastedCSV(t *testing.T) {
	handler, err := NewUploadHandler(newTestService(t), 0, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	body, _ := json.Marshal(map[string]string{
		"csv_data": sineCSV(50, 10000, 2000),
		"name":     "bench capture",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.SessionID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if math.Abs(resp.Analysis.Frequency-50) > 1 {
		t.Fatalf("frequency %v too far from 50", resp.Analysis.Frequency)
	}
	if resp.Analysis.IEEE17892015 == "" {
		t.Fatal("missing IEEE verdict")
	}
}

func TestUploadMultipartFile(t *testing.T) {
	handler, err := NewUploadHandler(newTestService(t), 0, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "led_capture.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(sineCSV(50, 10000, 2000))); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUploadFlatSignal(t *testing.T) {
	handler, _ := NewUploadHandler(newTestService(t), 0, nil)

	var b strings.Builder
	b.WriteString("time,voltage\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "%g,1.0\n", float64(i)*0.001)
	}
	body, _ := json.Marshal(map[string]string{"csv_data": b.String()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Error, "no flicker detected") {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestUploadRejectsEmptyBody(t *testing.T) {
	handler, _ := NewUploadHandler(newTestService(t), 0, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestUploadMethodNotAllowed(t *testing.T) {
	handler, _ := NewUploadHandler(newTestService(t), 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d, want 405", rec.Code)
	}
}

func analyzeFixture(t *testing.T, service *application.AnalysisService) *application.AnalysisSession {
	t.Helper()
	samples := make([]waveform.Sample, 2000)
	for i := range samples {
		ts := float64(i) / 10000
		samples[i] = waveform.Sample{T: ts, V: 1 + 0.5*math.Sin(2*math.Pi*50*ts)}
	}
	session, err := service.Analyze(context.Background(), "fixture", samples)
	if err != nil {
		t.Fatalf("analyze fixture: %v", err)
	}
	return session
}

func TestSessionGet(t *testing.T) {
	service := newTestService(t)
	session := analyzeFixture(t, service)
	handler, err := NewSessionHandler(service, report.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/"+session.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success   bool        `json:"success"`
		SessionID string      `json:"session_id"`
		Name      string      `json:"name"`
		Analysis  analysisDTO `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != session.ID || resp.Name != "fixture" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSessionGetUnknown(t *testing.T) {
	handler, _ := NewSessionHandler(newTestService(t), report.DefaultSettings(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/wf-missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestSessionDelete(t *testing.T) {
	service := newTestService(t)
	session := analyzeFixture(t, service)
	handler, _ := NewSessionHandler(service, report.DefaultSettings(), nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/waveforms/"+session.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/"+session.ID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestSessionComprehensive(t *testing.T) {
	service := newTestService(t)
	session := analyzeFixture(t, service)
	handler, _ := NewSessionHandler(service, report.DefaultSettings(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms/"+session.ID+"/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success  bool `json:"success"`
		Analysis struct {
			FFTDominant  float64   `json:"fft_dominant_frequency"`
			Frequencies  []float64 `json:"fft_frequencies"`
			Magnitudes   []float64 `json:"fft_magnitudes"`
			RMSVariation float64   `json:"rms_variation"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(resp.Analysis.FFTDominant-50) > 5.01 {
		t.Fatalf("dominant %v too far from 50", resp.Analysis.FFTDominant)
	}
	if len(resp.Analysis.Frequencies) == 0 || resp.Analysis.RMSVariation <= 0 {
		t.Fatalf("unexpected analysis payload: %+v", resp.Analysis)
	}
}

func TestSessionExport(t *testing.T) {
	service := newTestService(t)
	session := analyzeFixture(t, service)
	handler, _ := NewSessionHandler(service, report.DefaultSettings(), nil)

	cases := []struct {
		format      string
		contentType string
	}{
		{"pdf", "application/pdf"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"csv", "text/csv"},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/"+session.ID+"/export?format="+tc.format, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tc.contentType {
				t.Fatalf("content type %q, want %q", got, tc.contentType)
			}
			if rec.Body.Len() == 0 {
				t.Fatal("empty export payload")
			}
		})
	}
}

func TestSessionExportInvalidFormat(t *testing.T) {
	service := newTestService(t)
	session := analyzeFixture(t, service)
	handler, _ := NewSessionHandler(service, report.DefaultSettings(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/"+session.ID+"/export?format=docx", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestPointsClassify(t *testing.T) {
	handler := NewPointsHandler()

	body := `{"points":[{"frequency":120,"modulation_percent":100,"label":"office panel"},{"frequency":1000,"modulation_percent":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/points/classify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Points  []struct {
			Frequency    float64 `json:"frequency"`
			IEEE17892015 string  `json:"ieee_1789_2015"`
		} `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(resp.Points))
	}
	if resp.Points[0].IEEE17892015 != "High Risk" {
		t.Fatalf("first point: got %q", resp.Points[0].IEEE17892015)
	}
	if resp.Points[1].IEEE17892015 != "No Risk" {
		t.Fatalf("second point: got %q", resp.Points[1].IEEE17892015)
	}
}

func TestPointsClassifyValidation(t *testing.T) {
	handler := NewPointsHandler()

	cases := []struct {
		name string
		body string
	}{
		{"out of range frequency", `{"points":[{"frequency":0.1,"modulation_percent":10}]}`},
		{"out of range modulation", `{"points":[{"frequency":120,"modulation_percent":500}]}`},
		{"no points", `{"points":[]}`},
		{"bad json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/points/classify", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", rec.Code)
			}
		})
	}
}
