package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flicker-cloud/internal/waveform/application"
	waveform "flicker-cloud/internal/waveform/domain"
)

const defaultSessionTable = "waveform_sessions"

// SessionRepository is a Postgres implementation of the session store.
// Samples and results are stored as JSONB.
type SessionRepository struct {
	db    *sql.DB
	table string
}

// Option configures the repository.
type Option func(*SessionRepository)

// WithTable overrides the default table name.
func WithTable(table string) Option {
	return func(r *SessionRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewSessionRepository constructs a repository.
func NewSessionRepository(db *sql.DB, opts ...Option) *SessionRepository {
	r := &SessionRepository{db: db, table: defaultSessionTable}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type storedSample struct {
	T float64 `json:"t"`
	V float64 `json:"v"`
}

// Save upserts a session.
func (r *SessionRepository) Save(ctx context.Context, session *application.AnalysisSession) error {
	if r == nil || r.db == nil {
		return errors.New("session repo: nil db")
	}
	if session == nil || session.ID == "" {
		return application.ErrSessionNotFound
	}

	samples := make([]storedSample, len(session.Samples))
	for i, s := range session.Samples {
		samples[i] = storedSample{T: s.T, V: s.V}
	}
	samplesJSON, err := json.Marshal(samples)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(session.Result)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, name, samples, result, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	samples = EXCLUDED.samples,
	result = EXCLUDED.result`, r.table)

	_, err = r.db.ExecContext(ctx, query, session.ID, session.Name, samplesJSON, resultJSON, session.CreatedAt)
	return err
}

// Get loads a session by id.
func (r *SessionRepository) Get(ctx context.Context, id string) (*application.AnalysisSession, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("session repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT name, samples, result, created_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var (
		name        string
		samplesJSON []byte
		resultJSON  []byte
		createdAt   time.Time
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&name, &samplesJSON, &resultJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, application.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored []storedSample
	if err := json.Unmarshal(samplesJSON, &stored); err != nil {
		return nil, err
	}
	samples := make([]waveform.Sample, len(stored))
	for i, s := range stored {
		samples[i] = waveform.Sample{T: s.T, V: s.V}
	}

	var result application.AnalysisResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, err
	}

	return &application.AnalysisSession{
		ID:        id,
		Name:      name,
		Samples:   samples,
		Result:    result,
		CreatedAt: createdAt,
	}, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("session repo: nil db")
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return application.ErrSessionNotFound
	}
	return nil
}

// DeleteExpired removes sessions older than the TTL. Returns the number of
// sessions removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("session repo: nil db")
	}
	cutoff := time.Now().UTC().Add(-ttl)
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE created_at < $1`, r.table), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
