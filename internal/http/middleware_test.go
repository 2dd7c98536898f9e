package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nkwor-Jane/pomodoro-study-app/internal/app"
	"github.com/Nkwor-Jane/pomodoro-study-app/pkg/auth"
)

func testConfig() app.Config {
	return app.Config{
		Env:       "test",
		JWTSecret: "test-secret",
		CORSAllow: []string{"http://localhost:5173"},
	}
}

func TestMiddleware_AuthRejectsMissingToken(t *testing.T) {
	mw := NewMiddleware(testConfig())
	h := mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthRejectsBadToken(t *testing.T) {
	mw := NewMiddleware(testConfig())
	h := mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_AuthPassesUserID(t *testing.T) {
	cfg := testConfig()
	mw := NewMiddleware(cfg)

	tok, err := auth.New(cfg.JWTSecret).Sign("user-42", time.Hour)
	require.NoError(t, err)

	var gotUID string
	h := mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-42", gotUID)
}
