// Package identity adapts the hosted identity provider: access tokens are
// HS256 JWTs carrying the principal in `sub` and `email` claims.
package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

// JWTProvider verifies provider-issued access tokens. The current token for
// a session is stashed in the Session Store at sign-in, so CurrentSession
// is a store read plus a local signature check; no provider round trip.
type JWTProvider struct {
	secret   []byte
	sessions ports.SessionStore
}

func NewJWTProvider(secret string, sessions ports.SessionStore) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), sessions: sessions}
}

// Verify checks the token signature and expiry and returns the identity it
// asserts.
func (p *JWTProvider) Verify(_ context.Context, accessToken string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("verify access token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("access token missing subject")
	}
	email, _ := claims["email"].(string)

	return &domain.Identity{ID: sub, Email: email}, nil
}

// CurrentSession returns the identity bound to the session, or (nil, nil)
// when no token is stashed: an anonymous session, not an error.
func (p *JWTProvider) CurrentSession(ctx context.Context, sessionID string) (*domain.Identity, error) {
	token, err := p.sessions.Get(ctx, sessionID, domain.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		return nil, nil
	}
	return p.Verify(ctx, token)
}
