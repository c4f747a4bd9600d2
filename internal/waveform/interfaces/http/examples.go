package http

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"flicker-cloud/internal/observability/metrics"
	"flicker-cloud/internal/waveform/application"
	"flicker-cloud/internal/waveform/interfaces/ingest"
)

const examplesPathPrefix = "/api/v1/examples"

// ExamplesHandler lists bundled example CSV captures and loads them into
// analysis sessions.
type ExamplesHandler struct {
	service *application.AnalysisService
	baseDir string
	logger  *log.Logger
}

// NewExamplesHandler constructs an examples handler rooted at baseDir.
func NewExamplesHandler(service *application.AnalysisService, baseDir string, logger *log.Logger) (*ExamplesHandler, error) {
	if service == nil {
		return nil, errors.New("examples handler: nil service")
	}
	if baseDir == "" {
		return nil, errors.New("examples handler: empty base dir")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ExamplesHandler{service: service, baseDir: abs, logger: logger}, nil
}

// ServeHTTP routes example requests.
func (h *ExamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, examplesPathPrefix)
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		h.handleList(w)
		return
	}
	h.handleLoad(w, r, rest)
}

type exampleEntry struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (h *ExamplesHandler) handleList(w http.ResponseWriter) {
	var examples []exampleEntry
	err := filepath.WalkDir(h.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		rel, err := filepath.Rel(h.baseDir, path)
		if err != nil {
			return err
		}
		examples = append(examples, exampleEntry{
			Path: filepath.ToSlash(rel),
			Name: displayName(rel),
		})
		return nil
	})
	if err != nil {
		h.logger.Printf("examples: list error: %v", err)
		respondError(w, http.StatusInternalServerError, "list error")
		return
	}
	sort.Slice(examples, func(i, j int) bool { return examples[i].Name < examples[j].Name })
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "examples": examples})
}

func (h *ExamplesHandler) handleLoad(w http.ResponseWriter, r *http.Request, rel string) {
	full := filepath.Join(h.baseDir, filepath.FromSlash(rel))
	full, err := filepath.Abs(full)
	if err != nil || !strings.HasPrefix(full, h.baseDir+string(filepath.Separator)) {
		respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if !strings.EqualFold(filepath.Ext(full), ".csv") {
		full += ".csv"
	}

	content, err := os.ReadFile(full)
	if err != nil {
		respondError(w, http.StatusNotFound, "example not found")
		return
	}
	samples, err := ingest.ParseCSV(string(content))
	if err != nil {
		respondAnalysisError(w, err)
		return
	}

	start := time.Now()
	session, err := h.service.Analyze(r.Context(), displayName(rel), samples)
	if err != nil {
		metrics.ObserveAnalyze(metrics.ResultError, time.Since(start))
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

func displayName(rel string) string {
	name := strings.TrimSuffix(rel, filepath.Ext(rel))
	name = strings.NewReplacer("_", " ", "-", " ", "/", " / ").Replace(filepath.ToSlash(name))
	return strings.TrimSpace(name)
}
