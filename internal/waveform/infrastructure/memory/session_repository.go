package memory

import (
	"context"
	"sync"
	"time"

	"flicker-cloud/internal/waveform/application"
)

// DefaultTTL bounds how long an unused analysis session is kept.
const DefaultTTL = time.Hour

// SessionRepository is an in-memory session store with lazy TTL eviction.
// Suitable for single-instance deployments and tests.
type SessionRepository struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]*application.AnalysisSession
	now  func() time.Time
}

// Option configures the repository.
type Option func(*SessionRepository)

// WithTTL overrides the default session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(r *SessionRepository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(r *SessionRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewSessionRepository constructs a repository.
func NewSessionRepository(opts ...Option) *SessionRepository {
	r := &SessionRepository{
		ttl:  DefaultTTL,
		data: make(map[string]*application.AnalysisSession),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save stores a session and sweeps expired entries.
func (r *SessionRepository) Save(ctx context.Context, session *application.AnalysisSession) error {
	_ = ctx
	if session == nil || session.ID == "" {
		return application.ErrSessionNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.data[session.ID] = session
	return nil
}

// Get loads a session by id.
func (r *SessionRepository) Get(ctx context.Context, id string) (*application.AnalysisSession, error) {
	_ = ctx
	r.mu.RLock()
	session, ok := r.data[id]
	r.mu.RUnlock()
	if !ok || r.expired(session) {
		return nil, application.ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return application.ErrSessionNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *SessionRepository) expired(session *application.AnalysisSession) bool {
	return r.now().Sub(session.CreatedAt) > r.ttl
}

func (r *SessionRepository) sweepLocked() {
	for id, session := range r.data {
		if r.expired(session) {
			delete(r.data, id)
		}
	}
}
