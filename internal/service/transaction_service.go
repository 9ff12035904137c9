package service

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/domain/transaction"
)

// IdentityValidator is the pure predicate deciding whether a customer
// identifier is well formed.
type IdentityValidator interface {
	IsValid(id string) bool
}

// ValidationConfig exposes the runtime toggle for identity validation.
// It is consulted on every call, not cached at construction, so a
// hot-reloaded configuration takes effect immediately.
type ValidationConfig interface {
	IsValidationEnabled() bool
}

// TransactionService orchestrates purchase requests: validation, per-line
// quota checks and the final append. A request either persists completely
// or not at all; there are no partial writes to roll back.
type TransactionService struct {
	store      transaction.Repository
	policies   policy.Lookup
	quota      *QuotaEngine
	identity   IdentityValidator
	validation ValidationConfig
	clock      Clock
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	store transaction.Repository,
	policies policy.Lookup,
	quota *QuotaEngine,
	identity IdentityValidator,
	validation ValidationConfig,
	clock Clock,
) *TransactionService {
	return &TransactionService{
		store:      store,
		policies:   policies,
		quota:      quota,
		identity:   identity,
		validation: validation,
		clock:      clock,
	}
}

// CreateTransactionRequest holds the input for creating a transaction.
type CreateTransactionRequest struct {
	CustomerID      string
	User            string
	PurchaseRecords []transaction.PurchaseLine
	// SkipValidation bypasses the sign check so that returns and
	// corrections can be recorded as negative quantities. It does not
	// bypass quota checks.
	SkipValidation bool
	RequestID      string
}

// CreateTransaction validates the request, quota-checks every purchase line
// and appends one record per line on success. Checks run in order and the
// first failure aborts the whole request before any write:
//
//  1. customer identity, only when validation is enabled
//  2. quantity sign per line, unless SkipValidation
//  3. quota per line, each against stored state at a single "now"
//
// Lines within one request are evaluated independently; an earlier line does
// not reduce the quota seen by a later one.
func (s *TransactionService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) ([]transaction.Record, error) {
	now := s.clock.Now().UnixMilli()

	if s.validation.IsValidationEnabled() && !s.identity.IsValid(req.CustomerID) {
		return nil, fmt.Errorf("customer %q: %w", req.CustomerID, domainErrors.ErrInvalidCustomerID)
	}

	if !req.SkipValidation {
		for _, line := range req.PurchaseRecords {
			if line.Quantity < 0 {
				return nil, fmt.Errorf("negative quantity %d for category %s: %w",
					line.Quantity, line.Category, domainErrors.ErrInvalidPurchaseRequest)
			}
		}
	}

	for _, line := range req.PurchaseRecords {
		decision, err := s.quota.Evaluate(ctx, req.CustomerID, line.Category, line.Quantity, now)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, domainErrors.NewQuotaError(line.Category, line.Quantity, decision.Remaining)
		}
	}

	return s.putTransactionsAt(ctx, req.CustomerID, req.PurchaseRecords, req.RequestID, now)
}

// PutTransactions appends records without validation or quota checks. It is
// the direct ingestion path for callers that have already validated. All
// records from one call share a single timestamp.
func (s *TransactionService) PutTransactions(ctx context.Context, customerID string, lines []transaction.PurchaseLine, requestID string) ([]transaction.Record, error) {
	return s.putTransactionsAt(ctx, customerID, lines, requestID, s.clock.Now().UnixMilli())
}

func (s *TransactionService) putTransactionsAt(ctx context.Context, customerID string, lines []transaction.PurchaseLine, requestID string, now int64) ([]transaction.Record, error) {
	records := make([]transaction.Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, transaction.Record{
			CustomerID:      customerID,
			Category:        line.Category,
			Quantity:        line.Quantity,
			TransactionTime: now,
			RequestID:       requestID,
		})
	}

	if err := s.store.Append(ctx, customerID, records); err != nil {
		return nil, fmt.Errorf("append transactions: %w", err)
	}
	return records, nil
}

// GetTransactionsByCustomer returns the customer's transactions still inside
// their category's policy window, in insertion order. Each category's window
// is resolved independently. A customer with no records gets an empty slice,
// not an error.
func (s *TransactionService) GetTransactionsByCustomer(ctx context.Context, customerID string) ([]transaction.Record, error) {
	now := s.clock.Now().UnixMilli()

	records, err := s.store.QueryByCustomer(ctx, customerID, "")
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	windows := make(map[string]int64)
	active := make([]transaction.Record, 0, len(records))
	for _, r := range records {
		window, ok := windows[r.Category]
		if !ok {
			window, err = s.policies.MaxPolicyDuration(ctx, r.Category)
			if err != nil {
				if errors.Is(err, domainErrors.ErrPolicyNotFound) {
					return nil, fmt.Errorf("category %s: %w", r.Category, err)
				}
				return nil, fmt.Errorf("policy duration for %s: %w", r.Category, err)
			}
			windows[r.Category] = window
		}
		if now-r.TransactionTime < window {
			active = append(active, r)
		}
	}
	return active, nil
}
