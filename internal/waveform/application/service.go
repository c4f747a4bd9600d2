package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"flicker-cloud/internal/audit"
	standards "flicker-cloud/internal/standards/domain"
	waveform "flicker-cloud/internal/waveform/domain"
)

// AnalysisService imports waveforms, runs the analyzer and classifier, and
// manages analysis sessions.
type AnalysisService struct {
	sessions SessionRepository
	auditLog audit.Logger
	logger   *log.Logger
}

// ServiceOption configures the analysis service.
type ServiceOption func(*AnalysisService)

// WithAuditLogger enables best-effort analysis history logging.
func WithAuditLogger(auditLog audit.Logger) ServiceOption {
	return func(s *AnalysisService) { s.auditLog = auditLog }
}

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *AnalysisService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAnalysisService constructs the service.
func NewAnalysisService(sessions SessionRepository, opts ...ServiceOption) (*AnalysisService, error) {
	if sessions == nil {
		return nil, errors.New("analysis service: nil session repository")
	}
	s := &AnalysisService{sessions: sessions, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Analyze builds a waveform from imported samples, classifies it against
// every standard, and stores the session. Either a full result is produced
// or an error is returned; there are no partial results and a failed
// analysis is never retried.
func (s *AnalysisService) Analyze(ctx context.Context, name string, samples []waveform.Sample, opts ...waveform.Option) (*AnalysisSession, error) {
	w, err := waveform.New(name, samples, opts...)
	if err != nil {
		return nil, err
	}

	session := &AnalysisSession{
		ID:        NewSessionID(),
		Name:      name,
		Samples:   w.Samples(),
		Result:    buildResult(w),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, session)
	s.logger.Printf("analysis: session=%s name=%q frequency=%.1fHz flicker=%.1f%% index=%.3f",
		session.ID, session.Name, session.Result.FrequencyHz, session.Result.PercentFlicker, session.Result.FlickerIndex)
	return session, nil
}

// Get loads a stored session.
func (s *AnalysisService) Get(ctx context.Context, id string) (*AnalysisSession, error) {
	return s.sessions.Get(ctx, id)
}

// Delete discards a stored session.
func (s *AnalysisService) Delete(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// Window re-derives the waveform of a session truncated to n whole periods.
func (s *AnalysisService) Window(ctx context.Context, id string, periods int) ([]waveform.Sample, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	w, err := waveform.New(session.Name, session.Samples)
	if err != nil {
		return nil, err
	}
	return w.NPeriods(periods)
}

func buildResult(w *waveform.Waveform) AnalysisResult {
	return AnalysisResult{
		VMin:           w.VMin(),
		VMax:           w.VMax(),
		VPP:            w.VPP(),
		VAvg:           w.VAvg(),
		FrameRate:      w.FrameRate(),
		FrequencyHz:    w.Frequency(),
		PeriodSeconds:  w.Period(),
		PercentFlicker: w.PercentFlicker(),
		FlickerIndex:   w.FlickerIndex(),
		Compliance:     standards.Classify(w.Frequency(), w.PercentFlicker()),
	}
}

func (s *AnalysisService) recordAudit(ctx context.Context, session *AnalysisSession) {
	if s.auditLog == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"frequency_hz":    session.Result.FrequencyHz,
		"percent_flicker": session.Result.PercentFlicker,
		"flicker_index":   session.Result.FlickerIndex,
		"ieee_1789_2015":  session.Result.Compliance.IEEE17892015,
	})
	entry := audit.Entry{
		Action:       "waveform.analyze",
		ResourceType: "analysis_session",
		ResourceID:   session.ID,
		Metadata:     meta,
	}
	if err := s.auditLog.Log(ctx, entry); err != nil {
		s.logger.Printf("analysis: audit log error: %v", err)
	}
}
