package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"flicker-cloud/internal/audit"
	"flicker-cloud/internal/auth"
	"flicker-cloud/internal/observability/metrics"
	"flicker-cloud/internal/report"
	"flicker-cloud/internal/waveform/application"
	memoryrepo "flicker-cloud/internal/waveform/infrastructure/memory"
	postgresrepo "flicker-cloud/internal/waveform/infrastructure/postgres"
	waveformhttp "flicker-cloud/internal/waveform/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	var (
		db       *sql.DB
		sessions application.SessionRepository
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		pgSessions := postgresrepo.NewSessionRepository(db)
		sessions = pgSessions
		go sweepSessions(pgSessions, cfg.SessionTTL, logger)
		logger.Printf("sessions: postgres store")
	} else {
		sessions = memoryrepo.NewSessionRepository(memoryrepo.WithTTL(cfg.SessionTTL))
		logger.Printf("sessions: in-memory store, ttl=%s", cfg.SessionTTL)
	}

	serviceOpts := []application.ServiceOption{application.WithLogger(logger)}
	if auditRepo := audit.NewRepository(db); auditRepo != nil {
		serviceOpts = append(serviceOpts, application.WithAuditLogger(auditRepo))
	}
	service, err := application.NewAnalysisService(sessions, serviceOpts...)
	if err != nil {
		logger.Fatalf("analysis service error: %v", err)
	}

	reportSettings, err := report.LoadSettings()
	if err != nil {
		logger.Fatalf("report settings error: %v", err)
	}

	uploadHandler, err := waveformhttp.NewUploadHandler(service, cfg.MaxUploadBytes, logger)
	if err != nil {
		logger.Fatalf("upload handler error: %v", err)
	}
	sessionHandler, err := waveformhttp.NewSessionHandler(service, reportSettings, logger)
	if err != nil {
		logger.Fatalf("session handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/waveforms", uploadHandler)
	mux.Handle("/api/v1/waveforms/", sessionHandler)
	mux.Handle("/api/v1/points/classify", waveformhttp.NewPointsHandler())
	if cfg.ExamplesDir != "" {
		examplesHandler, err := waveformhttp.NewExamplesHandler(service, cfg.ExamplesDir, logger)
		if err != nil {
			logger.Fatalf("examples handler error: %v", err)
		}
		mux.Handle("/api/v1/examples", examplesHandler)
		mux.Handle("/api/v1/examples/", examplesHandler)
	}
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), []string{"/healthz", "/metrics"})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

func sweepSessions(repo *postgresrepo.SessionRepository, ttl time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		removed, err := repo.DeleteExpired(context.Background(), ttl)
		if err != nil {
			logger.Printf("sessions: sweep error: %v", err)
			continue
		}
		if removed > 0 {
			logger.Printf("sessions: swept %d expired", removed)
		}
	}
}

type config struct {
	HTTPAddr       string
	DatabaseURL    string
	JWTSecret      string
	ExamplesDir    string
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

func loadConfig() config {
	return config{
		HTTPAddr:       getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:    getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		JWTSecret:      getenvDefault("AUTH_JWT_SECRET", ""),
		ExamplesDir:    getenvDefault("EXAMPLES_DIR", ""),
		SessionTTL:     getenvDuration("SESSION_TTL", time.Hour),
		MaxUploadBytes: int64(getenvIntDefault("MAX_UPLOAD_BYTES", waveformhttp.DefaultMaxUploadBytes)),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
