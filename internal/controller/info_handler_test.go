package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoController_Version(t *testing.T) {
	policies := testutil.NewMockPolicyLookup(
		policy.Policy{Category: "category-a", Quota: 30, MaxDuration: 604800000},
		policy.Policy{Category: "category-b", Quota: 10, MaxDuration: 86400000},
	)
	handler := NewInfoController("1.4.2", map[string]bool{"transactions": true, "documents": false}, policies)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	handler.Version(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VersionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "1.4.2", resp.Version)
	assert.True(t, resp.Features["transactions"])
	assert.False(t, resp.Features["documents"])
	require.Len(t, resp.Policies, 2)
	assert.Equal(t, "category-a", resp.Policies[0].Category)
	assert.Equal(t, int64(30), resp.Policies[0].Quota)
	assert.Equal(t, int64(604800000), resp.Policies[0].MaxPolicyDuration)
}

func TestInfoController_Version_LookupError(t *testing.T) {
	policies := testutil.NewMockPolicyLookup()
	policies.PoliciesFunc = func() ([]policy.Policy, error) {
		return nil, assert.AnError
	}
	handler := NewInfoController("1.4.2", nil, policies)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	handler.Version(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
