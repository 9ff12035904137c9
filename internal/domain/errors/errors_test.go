package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotaError_UnwrapsToInsufficientQuota(t *testing.T) {
	err := NewQuotaError("category-a", 50, 3)
	assert.ErrorIs(t, err, ErrInsufficientQuota)
	assert.Contains(t, err.Error(), "category-a")
	assert.Contains(t, err.Error(), "requested 50")
	assert.Contains(t, err.Error(), "remaining 3")
}

func TestQuotaError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create transaction: %w", NewQuotaError("rice", 10, 0))

	assert.ErrorIs(t, err, ErrInsufficientQuota)

	var qe *QuotaError
	assert.True(t, errors.As(err, &qe))
	assert.Equal(t, "rice", qe.Category)
	assert.Equal(t, int64(10), qe.Requested)
	assert.Equal(t, int64(0), qe.Remaining)
}

func TestDomainError_Unwrap(t *testing.T) {
	inner := ErrPolicyNotFound
	err := NewDomainError("policy_not_found", "lookup failed for category-x", inner)

	assert.ErrorIs(t, err, ErrPolicyNotFound)
	assert.Contains(t, err.Error(), "lookup failed for category-x")
}

func TestDomainError_NoInner(t *testing.T) {
	err := NewDomainError("code", "plain message", nil)
	assert.Equal(t, "plain message", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("quantity", "must not be negative")
	assert.Contains(t, err.Error(), "quantity")
	assert.Contains(t, err.Error(), "must not be negative")
}
