package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func mustToken(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "tester",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewarePassThroughWithoutSecret(t *testing.T) {
	wrapped := NewMiddleware(nil, nil).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestMiddlewareRequiresToken(t *testing.T) {
	wrapped := NewMiddleware(testSecret, nil).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/x", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	wrapped := NewMiddleware(testSecret, nil).Wrap(okHandler())

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "Bearer not.a.token"},
		{"wrong scheme", "Basic abc"},
		{"expired", "Bearer " + mustToken(t, RoleAnalyst, time.Now().Add(-time.Hour))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/x", nil)
			req.Header.Set("Authorization", tc.token)
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", rec.Code)
			}
		})
	}
}

func TestMiddlewareViewerReadOnly(t *testing.T) {
	wrapped := NewMiddleware(testSecret, nil).Wrap(okHandler())
	token := mustToken(t, RoleViewer, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/waveforms/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("viewer GET: status %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer POST: status %d, want 403", rec.Code)
	}
}

func TestMiddlewareAnalystWrites(t *testing.T) {
	claimsSeen := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		claimsSeen = ok && claims.Role == RoleAnalyst
		w.WriteHeader(http.StatusOK)
	})
	wrapped := NewMiddleware(testSecret, nil).Wrap(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/waveforms", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, RoleAnalyst, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if !claimsSeen {
		t.Fatal("claims not propagated to handler context")
	}
}

func TestMiddlewareSkipPaths(t *testing.T) {
	wrapped := NewMiddleware(testSecret, []string{"/healthz", "/metrics"}).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

func TestNormalizeRole(t *testing.T) {
	if _, ok := NormalizeRole("admin"); ok {
		t.Fatal("unknown role accepted")
	}
	if role, ok := NormalizeRole(RoleAnalyst); !ok || role != RoleAnalyst {
		t.Fatalf("analyst rejected: %q %v", role, ok)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token := mustToken(t, RoleAnalyst, time.Now().Add(time.Hour))
	if _, err := ParseJWT(token, []byte("other-secret")); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseJWTRejectsInvalidRole(t *testing.T) {
	claims := Claims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseJWT(token, testSecret); err == nil {
		t.Fatal("expected invalid role error")
	}
}
