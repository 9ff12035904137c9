package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/infrastructure/config"
	"github.com/TradeTrust/api-storage/internal/infrastructure/observability"
	"github.com/TradeTrust/api-storage/internal/service"
	"github.com/TradeTrust/api-storage/internal/testutil"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessionManager struct {
	sessions map[string]string
}

func newMemSessionManager() *memSessionManager {
	return &memSessionManager{sessions: map[string]string{}}
}

func (m *memSessionManager) Create(_ context.Context, user string) (string, error) {
	token := uuid.New().String()
	m.sessions[token] = user
	return token, nil
}

func (m *memSessionManager) Validate(_ context.Context, token string) (string, error) {
	user, ok := m.sessions[token]
	if !ok {
		return "", domainErrors.ErrSessionInvalid
	}
	return user, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup(policy.Policy{Category: "category-a", Quota: 30, MaxDuration: 1000})
	quota := service.NewQuotaEngine(repo, policies)
	svc := service.NewTransactionService(
		repo, policies, quota,
		testutil.StubIdentityValidator{Valid: true},
		testutil.StubValidationConfig{Enabled: false},
		testutil.NewFixedClock(500),
	)

	cfg := &config.Config{Version: "1.0.0", Features: map[string]bool{"transactions": true}}
	cfg.Auth.AccessKey = "secret-key"

	return NewRouter(RouterDeps{
		TransactionService: svc,
		Policies:           policies,
		Sessions:           newMemSessionManager(),
		Documents:          newMemDocumentStore(),
		Metrics:            observability.NewMetrics("test", prometheus.NewRegistry()),
		Config:             cfg,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/version"},
		{http.MethodGet, "/transactions/S1234567D"},
		{http.MethodPost, "/transactions/S1234567D"},
		{http.MethodGet, "/documents/doc-1"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestRouter_SessionFlow(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(CreateSessionRequest{AccessKey: "secret-key", User: "collector-7"})
	req := httptest.NewRequest(http.MethodPost, "/auth/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var session SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	require.NotEmpty(t, session.Token)

	// Create a transaction with the issued token.
	txBody, _ := json.Marshal([]PurchaseLineRequest{{Category: "category-a", Quantity: 3}})
	req = httptest.NewRequest(http.MethodPost, "/transactions/S1234567D", bytes.NewReader(txBody))
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Read it back.
	req = httptest.NewRequest(http.MethodGet, "/transactions/S1234567D", nil)
	req.Header.Set("Authorization", session.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PastTransactionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.PastTransactions, 1)
	assert.Equal(t, int64(3), resp.PastTransactions[0].Quantity)
}

func TestRouter_VersionWithSession(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(CreateSessionRequest{AccessKey: "secret-key", User: "collector-7"})
	req := httptest.NewRequest(http.MethodPost, "/auth/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var session SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Authorization", session.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var version VersionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&version))
	assert.Equal(t, "1.0.0", version.Version)
	require.Len(t, version.Policies, 1)
	assert.Equal(t, "category-a", version.Policies[0].Category)
}
