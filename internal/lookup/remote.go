package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/pkg/retry"
	"github.com/sony/gobreaker/v2"
)

// Remote is a policy.Lookup client for an external policy service. Calls go
// through a circuit breaker so a degraded policy service sheds load fast,
// and transient failures are retried with backoff. A 404 from the service
// maps to ErrPolicyNotFound and is neither retried nor counted against the
// breaker as anything but success.
type Remote struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*policy.Policy]
	listCB  *gobreaker.CircuitBreaker[[]policy.Policy]
	retry   retry.Config
}

// NewRemote creates a Remote lookup for the policy service at baseURL.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	settings := gobreaker.Settings{
		Name:    "policy-lookup",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// an unknown category is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domainErrors.ErrPolicyNotFound)
		},
	}
	listSettings := settings
	listSettings.Name = "policy-lookup-list"

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = 3
	cfg.InitialDelay = 100 * time.Millisecond

	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*policy.Policy](settings),
		listCB:  gobreaker.NewCircuitBreaker[[]policy.Policy](listSettings),
		retry:   cfg,
	}
}

func (r *Remote) QuotaLimit(ctx context.Context, category string) (int64, error) {
	p, err := r.fetch(ctx, category)
	if err != nil {
		return 0, err
	}
	return p.Quota, nil
}

func (r *Remote) MaxPolicyDuration(ctx context.Context, category string) (int64, error) {
	p, err := r.fetch(ctx, category)
	if err != nil {
		return 0, err
	}
	return p.MaxDuration, nil
}

func (r *Remote) Policies(ctx context.Context) ([]policy.Policy, error) {
	policies, err := r.listCB.Execute(func() ([]policy.Policy, error) {
		return retry.DoWithResult(ctx, r.retry, func() ([]policy.Policy, error) {
			var out []policy.Policy
			if err := r.getJSON(ctx, r.baseURL+"/policies", &out); err != nil {
				return nil, err
			}
			return out, nil
		})
	})
	if err != nil {
		return nil, r.mapBreakerErr(err)
	}
	return policies, nil
}

func (r *Remote) fetch(ctx context.Context, category string) (*policy.Policy, error) {
	p, err := r.breaker.Execute(func() (*policy.Policy, error) {
		return retry.DoWithResult(ctx, r.retry, func() (*policy.Policy, error) {
			var out policy.Policy
			u := r.baseURL + "/policies/" + url.PathEscape(category)
			if err := r.getJSON(ctx, u, &out); err != nil {
				return nil, err
			}
			return &out, nil
		})
	})
	if err != nil {
		return nil, r.mapBreakerErr(err)
	}
	return p, nil
}

func (r *Remote) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("policy service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return retry.Unrecoverable(domainErrors.ErrPolicyNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("policy service returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode policy response: %w", err)
	}
	return nil
}

func (r *Remote) mapBreakerErr(err error) error {
	switch err {
	case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
		return fmt.Errorf("%w: %v", domainErrors.ErrPolicyUnavailable, err)
	}
	return err
}
