package policy

import "context"

// Policy is the rationing rule for one purchasable category: how much may be
// bought within a sliding window, and how long a transaction keeps counting
// toward that limit.
type Policy struct {
	Category string `json:"category"`
	// Quota is the maximum cumulative quantity within the active window.
	Quota int64 `json:"quota"`
	// MaxDuration is the policy window length in the same unit as
	// transaction timestamps (epoch milliseconds).
	MaxDuration int64 `json:"maxPolicyDuration"`
}

// Lookup resolves quota policies per category. Implementations are
// read-only; the policy source is external and logically authoritative.
// Unknown categories yield errors.ErrPolicyNotFound, never a default.
type Lookup interface {
	// QuotaLimit returns the configured quota for the category.
	QuotaLimit(ctx context.Context, category string) (int64, error)

	// MaxPolicyDuration returns the window length in epoch milliseconds.
	MaxPolicyDuration(ctx context.Context, category string) (int64, error)

	// Policies returns every known policy, used for app init info.
	Policies(ctx context.Context) ([]Policy, error)
}
