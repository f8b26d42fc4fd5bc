package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/groomly/platform-api/internal/core/domain"
)

type memSessions struct {
	values map[string]map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{values: make(map[string]map[string]string)}
}

func (s *memSessions) Get(_ context.Context, sessionID, key string) (string, error) {
	return s.values[sessionID][key], nil
}

func (s *memSessions) Set(_ context.Context, sessionID, key, value string) error {
	if s.values[sessionID] == nil {
		s.values[sessionID] = make(map[string]string)
	}
	s.values[sessionID][key] = value
	return nil
}

func (s *memSessions) Delete(_ context.Context, sessionID string, keys ...string) error {
	for _, key := range keys {
		delete(s.values[sessionID], key)
	}
	return nil
}

func (s *memSessions) Clear(_ context.Context, sessionID string) error {
	delete(s.values, sessionID)
	return nil
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTProvider_Verify(t *testing.T) {
	p := NewJWTProvider("secret", newMemSessions())
	token := signToken(t, "secret", jwt.MapClaims{
		"sub":   "usr_1",
		"email": "owner@acme.test",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	id, err := p.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id.ID != "usr_1" || id.Email != "owner@acme.test" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestJWTProvider_VerifyRejectsBadSignature(t *testing.T) {
	p := NewJWTProvider("secret", newMemSessions())
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": "usr_1"})

	if _, err := p.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestJWTProvider_VerifyRejectsExpired(t *testing.T) {
	p := NewJWTProvider("secret", newMemSessions())
	token := signToken(t, "secret", jwt.MapClaims{
		"sub": "usr_1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := p.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestJWTProvider_VerifyRejectsMissingSubject(t *testing.T) {
	p := NewJWTProvider("secret", newMemSessions())
	token := signToken(t, "secret", jwt.MapClaims{"email": "owner@acme.test"})

	if _, err := p.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected missing-subject error")
	}
}

func TestJWTProvider_CurrentSession(t *testing.T) {
	sessions := newMemSessions()
	p := NewJWTProvider("secret", sessions)
	ctx := context.Background()

	// No stashed token: anonymous, not an error.
	id, err := p.CurrentSession(ctx, "sess_1")
	if err != nil || id != nil {
		t.Fatalf("expected anonymous session, got %+v (%v)", id, err)
	}

	token := signToken(t, "secret", jwt.MapClaims{"sub": "usr_1"})
	_ = sessions.Set(ctx, "sess_1", domain.KeyAccessToken, token)

	id, err = p.CurrentSession(ctx, "sess_1")
	if err != nil {
		t.Fatalf("current session failed: %v", err)
	}
	if id == nil || id.ID != "usr_1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
