package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/domain/transaction"
	"github.com/TradeTrust/api-storage/internal/infrastructure/observability"
	"github.com/TradeTrust/api-storage/internal/service"
	"github.com/TradeTrust/api-storage/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionHandler(t *testing.T, repo *testutil.MockTransactionRepository, policies *testutil.MockPolicyLookup, clock *testutil.FixedClock) *TransactionController {
	t.Helper()
	quota := service.NewQuotaEngine(repo, policies)
	svc := service.NewTransactionService(
		repo, policies, quota,
		testutil.StubIdentityValidator{Valid: true},
		testutil.StubValidationConfig{Enabled: false},
		clock,
	)
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	return NewTransactionController(svc, metrics)
}

func requestWithParam(method, target, key, value string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTransactionController_Create(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup(policy.Policy{Category: "category-a", Quota: 30, MaxDuration: 1000})
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(500))

	body, _ := json.Marshal([]PurchaseLineRequest{{Category: "category-a", Quantity: 5}})
	req := requestWithParam(http.MethodPost, "/transactions/S1234567D", "customerId", "S1234567D", body)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PastTransactionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "S1234567D", resp.CustomerID)
	require.Len(t, resp.PastTransactions, 1)
	assert.Equal(t, "category-a", resp.PastTransactions[0].Category)
	assert.Equal(t, int64(5), resp.PastTransactions[0].Quantity)
	assert.Equal(t, int64(500), resp.PastTransactions[0].TransactionTime)

	assert.Len(t, repo.Stored("S1234567D"), 1)
}

func TestTransactionController_Create_InsufficientQuota(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup(policy.Policy{Category: "category-a", Quota: 3, MaxDuration: 1000})
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(500))

	body, _ := json.Marshal([]PurchaseLineRequest{{Category: "category-a", Quantity: 4}})
	req := requestWithParam(http.MethodPost, "/transactions/S1234567D", "customerId", "S1234567D", body)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "insufficient_quota", resp.Code)
	assert.Empty(t, repo.Stored("S1234567D"))
}

func TestTransactionController_Create_UnknownCategory(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup()
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(500))

	body, _ := json.Marshal([]PurchaseLineRequest{{Category: "mystery", Quantity: 1}})
	req := requestWithParam(http.MethodPost, "/transactions/S1234567D", "customerId", "S1234567D", body)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "policy_not_found", resp.Code)
}

func TestTransactionController_Create_InvalidBody(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup()
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(500))

	req := requestWithParam(http.MethodPost, "/transactions/S1234567D", "customerId", "S1234567D", []byte("{not json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionController_Create_MissingCategory(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup()
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(500))

	body := []byte(`[{"quantity": 2}]`)
	req := requestWithParam(http.MethodPost, "/transactions/S1234567D", "customerId", "S1234567D", body)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionController_Get(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup(policy.Policy{Category: "category-a", Quota: 30, MaxDuration: 100})
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(150))

	require.NoError(t, repo.Append(context.Background(), "S1234567D", []transaction.Record{
		{CustomerID: "S1234567D", Category: "category-a", Quantity: 2, TransactionTime: 40},
		{CustomerID: "S1234567D", Category: "category-a", Quantity: 3, TransactionTime: 120},
	}))

	req := requestWithParam(http.MethodGet, "/transactions/S1234567D", "customerId", "S1234567D", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PastTransactionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.PastTransactions, 1)
	assert.Equal(t, int64(120), resp.PastTransactions[0].TransactionTime)
}

func TestTransactionController_Get_Empty(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	policies := testutil.NewMockPolicyLookup()
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(150))

	req := requestWithParam(http.MethodGet, "/transactions/F2345678T", "customerId", "F2345678T", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pastTransactions":[]`)
}

func TestTransactionController_Get_StoreError(t *testing.T) {
	repo := testutil.NewMockTransactionRepository()
	repo.QueryByCustomerFunc = func(ctx context.Context, customerID, category string) ([]transaction.Record, error) {
		return nil, errors.New("connection refused")
	}
	policies := testutil.NewMockPolicyLookup()
	handler := newTransactionHandler(t, repo, policies, testutil.NewFixedClock(150))

	req := requestWithParam(http.MethodGet, "/transactions/S1234567D", "customerId", "S1234567D", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}
