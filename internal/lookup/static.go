// Package lookup provides policy.Lookup implementations: a static table
// loaded from configuration, a remote HTTP policy service client, and a
// redis read-through cache that can wrap either.
package lookup

import (
	"context"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
)

// Static is a policy.Lookup backed by an in-memory table, typically built
// from configuration at startup. The table is read-only after construction.
type Static struct {
	policies map[string]policy.Policy
	ordered  []policy.Policy
}

// NewStatic creates a Static lookup from the given policies. Later entries
// win on duplicate categories.
func NewStatic(policies []policy.Policy) *Static {
	s := &Static{policies: make(map[string]policy.Policy, len(policies))}
	for _, p := range policies {
		if _, seen := s.policies[p.Category]; !seen {
			s.ordered = append(s.ordered, p)
		}
		s.policies[p.Category] = p
	}
	for i, p := range s.ordered {
		s.ordered[i] = s.policies[p.Category]
	}
	return s
}

func (s *Static) QuotaLimit(ctx context.Context, category string) (int64, error) {
	p, ok := s.policies[category]
	if !ok {
		return 0, domainErrors.ErrPolicyNotFound
	}
	return p.Quota, nil
}

func (s *Static) MaxPolicyDuration(ctx context.Context, category string) (int64, error) {
	p, ok := s.policies[category]
	if !ok {
		return 0, domainErrors.ErrPolicyNotFound
	}
	return p.MaxDuration, nil
}

func (s *Static) Policies(ctx context.Context) ([]policy.Policy, error) {
	return append([]policy.Policy(nil), s.ordered...), nil
}
