package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/domain/transaction"
)

// --- Transaction Repository Mock ---

// MockTransactionRepository is an in-memory implementation of
// transaction.Repository. Records are kept per customer in insertion order,
// matching the behavior of the postgres repository.
type MockTransactionRepository struct {
	mu      sync.Mutex
	records map[string][]transaction.Record

	AppendFunc          func(ctx context.Context, customerID string, records []transaction.Record) error
	QueryByCustomerFunc func(ctx context.Context, customerID string, category string) ([]transaction.Record, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		records: make(map[string][]transaction.Record),
	}
}

func (m *MockTransactionRepository) Append(ctx context.Context, customerID string, records []transaction.Record) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, customerID, records)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[customerID] = append(m.records[customerID], records...)
	return nil
}

func (m *MockTransactionRepository) QueryByCustomer(ctx context.Context, customerID string, category string) ([]transaction.Record, error) {
	if m.QueryByCustomerFunc != nil {
		return m.QueryByCustomerFunc(ctx, customerID, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]transaction.Record, 0)
	for _, r := range m.records[customerID] {
		if category == "" || r.Category == category {
			result = append(result, r)
		}
	}
	return result, nil
}

// Stored returns a copy of everything appended for the customer.
func (m *MockTransactionRepository) Stored(customerID string) []transaction.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transaction.Record(nil), m.records[customerID]...)
}

// --- Policy Lookup Mock ---

// MockPolicyLookup is a policy.Lookup backed by a static table.
type MockPolicyLookup struct {
	mu       sync.Mutex
	policies map[string]policy.Policy

	QuotaLimitFunc        func(ctx context.Context, category string) (int64, error)
	MaxPolicyDurationFunc func(ctx context.Context, category string) (int64, error)
	PoliciesFunc          func() ([]policy.Policy, error)
}

func NewMockPolicyLookup(policies ...policy.Policy) *MockPolicyLookup {
	m := &MockPolicyLookup{policies: make(map[string]policy.Policy)}
	for _, p := range policies {
		m.policies[p.Category] = p
	}
	return m
}

// SetPolicy adds or replaces the policy for a category.
func (m *MockPolicyLookup) SetPolicy(p policy.Policy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.Category] = p
}

func (m *MockPolicyLookup) QuotaLimit(ctx context.Context, category string) (int64, error) {
	if m.QuotaLimitFunc != nil {
		return m.QuotaLimitFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.policies[category]
	if !ok {
		return 0, domainErrors.ErrPolicyNotFound
	}
	return p.Quota, nil
}

func (m *MockPolicyLookup) MaxPolicyDuration(ctx context.Context, category string) (int64, error) {
	if m.MaxPolicyDurationFunc != nil {
		return m.MaxPolicyDurationFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.policies[category]
	if !ok {
		return 0, domainErrors.ErrPolicyNotFound
	}
	return p.MaxDuration, nil
}

func (m *MockPolicyLookup) Policies(ctx context.Context) ([]policy.Policy, error) {
	if m.PoliciesFunc != nil {
		return m.PoliciesFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]policy.Policy, 0, len(m.policies))
	for _, p := range m.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

// --- Clock ---

// FixedClock returns a pinned time until moved.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock pins the clock at the given epoch milliseconds.
func NewFixedClock(millis int64) *FixedClock {
	return &FixedClock{t: time.UnixMilli(millis)}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// SetMillis moves the clock to the given epoch milliseconds.
func (c *FixedClock) SetMillis(millis int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = time.UnixMilli(millis)
}

// --- Identity / validation config stubs ---

// StubIdentityValidator accepts or rejects every identifier, or delegates
// to Func when set.
type StubIdentityValidator struct {
	Valid bool
	Func  func(id string) bool
}

func (s StubIdentityValidator) IsValid(id string) bool {
	if s.Func != nil {
		return s.Func(id)
	}
	return s.Valid
}

// StubValidationConfig is a fixed validation toggle.
type StubValidationConfig struct {
	Enabled bool
}

func (s StubValidationConfig) IsValidationEnabled() bool { return s.Enabled }

// --- Session validator stub ---

// StubSessionValidator resolves any token present in Users.
type StubSessionValidator struct {
	Users map[string]string // token -> user
}

func (s StubSessionValidator) Validate(ctx context.Context, token string) (string, error) {
	user, ok := s.Users[token]
	if !ok {
		return "", domainErrors.ErrSessionInvalid
	}
	return user, nil
}
