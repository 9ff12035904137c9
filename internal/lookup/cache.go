package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Cached is a read-through redis cache in front of another policy.Lookup.
// Cache misses and redis failures fall through to the inner lookup; a cache
// write failure never fails the read. Negative results (policy not found)
// are cached too, so repeated requests for an unknown category do not
// hammer the policy service.
type Cached struct {
	inner   policy.Lookup
	client  *redis.Client
	ttl     time.Duration
	lookups *prometheus.CounterVec
}

const notFoundMarker = "__not_found__"

// NewCached wraps inner with a redis cache holding entries for ttl.
func NewCached(inner policy.Lookup, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, client: client, ttl: ttl}
}

// WithMetrics records lookup outcomes (hit, miss, error) on the given
// counter. Label: result.
func (c *Cached) WithMetrics(lookups *prometheus.CounterVec) *Cached {
	c.lookups = lookups
	return c
}

func (c *Cached) count(result string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(result).Inc()
	}
}

func (c *Cached) QuotaLimit(ctx context.Context, category string) (int64, error) {
	p, err := c.get(ctx, category)
	if err != nil {
		return 0, err
	}
	return p.Quota, nil
}

func (c *Cached) MaxPolicyDuration(ctx context.Context, category string) (int64, error) {
	p, err := c.get(ctx, category)
	if err != nil {
		return 0, err
	}
	return p.MaxDuration, nil
}

// Policies is not cached: it is only called on app init info requests.
func (c *Cached) Policies(ctx context.Context) ([]policy.Policy, error) {
	return c.inner.Policies(ctx)
}

func (c *Cached) get(ctx context.Context, category string) (*policy.Policy, error) {
	key := "policy:" + category

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if cached == notFoundMarker {
			c.count("hit")
			return nil, domainErrors.ErrPolicyNotFound
		}
		var p policy.Policy
		if jsonErr := json.Unmarshal([]byte(cached), &p); jsonErr == nil {
			c.count("hit")
			return &p, nil
		}
		// corrupt entry, fall through and overwrite
	}

	p, err := c.fetchInner(ctx, category)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPolicyNotFound) {
			c.count("miss")
			c.client.Set(ctx, key, notFoundMarker, c.ttl)
		} else {
			c.count("error")
		}
		return nil, err
	}
	c.count("miss")

	if data, jsonErr := json.Marshal(p); jsonErr == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return p, nil
}

func (c *Cached) fetchInner(ctx context.Context, category string) (*policy.Policy, error) {
	quota, err := c.inner.QuotaLimit(ctx, category)
	if err != nil {
		return nil, err
	}
	duration, err := c.inner.MaxPolicyDuration(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("policy duration for %s: %w", category, err)
	}
	return &policy.Policy{Category: category, Quota: quota, MaxDuration: duration}, nil
}
