package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/TradeTrust/api-storage/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore issues and validates opaque session tokens backed by redis.
// Tokens expire after the configured TTL; validation does not refresh them.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create issues a new session token bound to the given user.
func (s *SessionStore) Create(ctx context.Context, user string) (string, error) {
	token := uuid.New().String()
	if err := s.client.Set(ctx, sessionKey(token), user, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Validate resolves a token to its user, or ErrSessionInvalid when the
// token is unknown or expired.
func (s *SessionStore) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domainErrors.ErrSessionInvalid
	}
	user, err := s.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domainErrors.ErrSessionInvalid
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return user, nil
}

// Revoke deletes a session token. Revoking an unknown token is not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
