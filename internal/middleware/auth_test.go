package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubSessions struct {
	user string
	err  error
}

func (s *stubSessions) Validate(_ context.Context, token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.user, nil
}

func TestRequireSession_ValidToken(t *testing.T) {
	var gotUser string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := RequireSession(&stubSessions{user: "alice"})
	wrapped := mw(handler)

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set("Authorization", "some-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", gotUser)
}

func TestRequireSession_BearerScheme(t *testing.T) {
	var gotUser string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := RequireSession(&stubSessions{user: "bob"})
	wrapped := mw(handler)

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", gotUser)
}

func TestRequireSession_MissingHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	mw := RequireSession(&stubSessions{user: "alice"})
	wrapped := mw(handler)

	req := httptest.NewRequest("GET", "/version", nil)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "auth_required")
}

func TestRequireSession_InvalidToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	mw := RequireSession(&stubSessions{err: errors.New("session invalid")})
	wrapped := mw(handler)

	req := httptest.NewRequest("GET", "/version", nil)
	req.Header.Set("Authorization", "expired-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "auth_invalid")
}

func TestGetUser_Missing(t *testing.T) {
	_, ok := GetUser(context.Background())
	assert.False(t, ok)
}
