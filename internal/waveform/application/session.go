package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	standards "flicker-cloud/internal/standards/domain"
	waveform "flicker-cloud/internal/waveform/domain"
)

// ErrSessionNotFound is returned when an analysis session id is unknown.
var ErrSessionNotFound = errors.New("session: not found")

// AnalysisResult is the immutable metric set derived from one waveform.
type AnalysisResult struct {
	VMin           float64
	VMax           float64
	VPP            float64
	VAvg           float64
	FrameRate      int
	FrequencyHz    float64
	PeriodSeconds  float64
	PercentFlicker float64
	FlickerIndex   float64
	Compliance     standards.Compliance
}

// AnalysisSession owns one imported waveform and its analysis. Sessions are
// independent; no state is shared between them.
type AnalysisSession struct {
	ID        string
	Name      string
	Samples   []waveform.Sample
	Result    AnalysisResult
	CreatedAt time.Time
}

// SessionRepository persists analysis sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *AnalysisSession) error
	Get(ctx context.Context, id string) (*AnalysisSession, error)
	Delete(ctx context.Context, id string) error
}

// NewSessionID generates a random session id.
func NewSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "wf-" + hex.EncodeToString(buf)
}
