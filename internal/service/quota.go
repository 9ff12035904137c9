package service

import (
	"context"
	"fmt"

	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/domain/transaction"
)

// QuotaEngine decides whether a proposed purchase fits the remaining quota
// for a category. It is purely computational: quota state is never stored,
// only recomputed from the transaction store on every evaluation.
type QuotaEngine struct {
	store    transaction.Repository
	policies policy.Lookup
}

// NewQuotaEngine creates a new QuotaEngine.
func NewQuotaEngine(store transaction.Repository, policies policy.Lookup) *QuotaEngine {
	return &QuotaEngine{store: store, policies: policies}
}

// QuotaDecision is the outcome of evaluating one proposed purchase.
type QuotaDecision struct {
	Allowed bool
	// Remaining is the quota left before the proposed quantity is applied.
	Remaining int64
}

// Evaluate checks a proposed purchase quantity against the category's quota
// over the active window ending at now (epoch milliseconds). A record whose
// age equals the window length no longer counts.
//
// The read-evaluate sequence is not isolated against concurrent writers for
// the same customer and category; two concurrent requests can both see quota
// as available. See DESIGN.md.
func (e *QuotaEngine) Evaluate(ctx context.Context, customerID, category string, proposedQuantity, now int64) (QuotaDecision, error) {
	limit, err := e.policies.QuotaLimit(ctx, category)
	if err != nil {
		return QuotaDecision{}, fmt.Errorf("quota limit for %s: %w", category, err)
	}
	window, err := e.policies.MaxPolicyDuration(ctx, category)
	if err != nil {
		return QuotaDecision{}, fmt.Errorf("policy duration for %s: %w", category, err)
	}

	records, err := e.store.QueryByCustomer(ctx, customerID, category)
	if err != nil {
		return QuotaDecision{}, fmt.Errorf("query transactions: %w", err)
	}

	sum := transaction.SumQuantities(transaction.ActiveWithin(records, now, window))

	return QuotaDecision{
		Allowed:   sum+proposedQuantity <= limit,
		Remaining: limit - sum,
	}, nil
}
