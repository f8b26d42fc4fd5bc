package ports

import (
	"context"
	"time"
)

// ImpersonationToken is the server-side record behind a one-time token.
// Only the bcrypt hash of the secret half is persisted.
type ImpersonationToken struct {
	BusinessID string    `json:"business_id"`
	SecretHash string    `json:"secret_hash"`
	IssuedBy   string    `json:"issued_by"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// TokenStore persists single-use impersonation tokens.
type TokenStore interface {
	// Save stores the token record under id for at most ttl.
	Save(ctx context.Context, id string, tok ImpersonationToken, ttl time.Duration) error
	// Redeem atomically removes and returns the record, so a second call
	// with the same id always fails with domain.ErrTokenInvalid.
	Redeem(ctx context.Context, id string) (*ImpersonationToken, error)
}
