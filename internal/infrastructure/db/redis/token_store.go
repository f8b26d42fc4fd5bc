package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// TokenStore persists single-use impersonation tokens.
// Key format: imptoken:<token_id>
// Redemption is a GETDEL, so the take is atomic server-side: whichever call
// reaches Redis first gets the record, every later call sees nothing.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save stores the token record under id with the issue TTL.
func (s *TokenStore) Save(ctx context.Context, id string, tok ports.ImpersonationToken, ttl time.Duration) error {
	payload, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Redeem atomically removes and returns the record. Unknown, expired-out,
// and already-taken ids all come back as domain.ErrTokenInvalid.
func (s *TokenStore) Redeem(ctx context.Context, id string) (*ports.ImpersonationToken, error) {
	payload, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("redeem token: %w", err)
	}
	var tok ports.ImpersonationToken
	if err := json.Unmarshal(payload, &tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &tok, nil
}

func (s *TokenStore) key(id string) string {
	return "imptoken:" + id
}
