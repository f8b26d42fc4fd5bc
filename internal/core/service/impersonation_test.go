package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]ports.ImpersonationToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]ports.ImpersonationToken)}
}

func (s *memTokenStore) Save(_ context.Context, id string, tok ports.ImpersonationToken, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[id] = tok
	return nil
}

func (s *memTokenStore) Redeem(_ context.Context, id string) (*ports.ImpersonationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[id]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	delete(s.tokens, id)
	return &tok, nil
}

type mapBusinesses struct {
	byID map[string]*domain.Business
}

func (r *mapBusinesses) Find(_ context.Context, id string) (*domain.Business, error) {
	if b, ok := r.byID[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, domain.ErrBusinessNotFound
}

func (r *mapBusinesses) Update(_ context.Context, id string, _ ports.BusinessUpdate) (*domain.Business, error) {
	return r.Find(context.Background(), id)
}

func newTestImpersonation(tokens ports.TokenStore, businesses ports.BusinessRepository, sessions ports.SessionStore) *Impersonation {
	return NewImpersonation(tokens, businesses, sessions, 10*time.Minute, zerolog.Nop())
}

func acmeBusinesses() *mapBusinesses {
	return &mapBusinesses{byID: map[string]*domain.Business{
		"biz_1": {ID: "biz_1", Name: "Acme Grooming"},
	}}
}

func TestImpersonation_IssueAndRedeem(t *testing.T) {
	sessions := newStubSessionStore()
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), sessions)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "usr_adm", "biz_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if issued.Token == "" {
		t.Fatalf("expected a token")
	}

	res, err := svc.Redeem(ctx, "sess_1", issued.Token)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if res.BusinessID != "biz_1" || res.BusinessName != "Acme Grooming" {
		t.Fatalf("unexpected redeem result: %+v", res)
	}
	if res.RedirectTo != "/acme-grooming/dashboard" {
		t.Fatalf("unexpected redirect target: %s", res.RedirectTo)
	}

	checks := map[string]string{
		domain.KeyIsImpersonating:    "true",
		domain.KeyImpersonatingBizID: "biz_1",
		domain.KeyImpersonatingName:  "Acme Grooming",
		domain.KeyBusinessSlug:       "acme-grooming",
		domain.KeyAuthContext:        domain.AuthContextAdmin,
	}
	for key, want := range checks {
		if got, _ := sessions.Get(ctx, "sess_1", key); got != want {
			t.Fatalf("session key %s = %q, want %q", key, got, want)
		}
	}
}

func TestImpersonation_SecondRedemptionFails(t *testing.T) {
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), newStubSessionStore())
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "usr_adm", "biz_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.Redeem(ctx, "sess_1", issued.Token); err != nil {
		t.Fatalf("first redeem failed: %v", err)
	}
	if _, err := svc.Redeem(ctx, "sess_2", issued.Token); err != domain.ErrTokenInvalid {
		t.Fatalf("second redeem must fail with ErrTokenInvalid, got %v", err)
	}
}

func TestImpersonation_MalformedToken(t *testing.T) {
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), newStubSessionStore())

	for _, token := range []string{"", "no-dot", ".secret", "id."} {
		if _, err := svc.Redeem(context.Background(), "sess_1", token); err != domain.ErrTokenInvalid {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}

func TestImpersonation_WrongSecret(t *testing.T) {
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), newStubSessionStore())
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "usr_adm", "biz_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	id, _, _ := splitToken(issued.Token)
	if _, err := svc.Redeem(ctx, "sess_1", id+".deadbeef"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestImpersonation_ExpiredToken(t *testing.T) {
	tokens := newMemTokenStore()
	svc := newTestImpersonation(tokens, acmeBusinesses(), newStubSessionStore())
	ctx := context.Background()

	_ = tokens.Save(ctx, "tok_old", ports.ImpersonationToken{
		BusinessID: "biz_1",
		SecretHash: "irrelevant",
		ExpiresAt:  time.Now().UTC().Add(-time.Minute),
	}, time.Minute)

	if _, err := svc.Redeem(ctx, "sess_1", "tok_old.secret"); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestImpersonation_IssueUnknownBusiness(t *testing.T) {
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), newStubSessionStore())
	if _, err := svc.Issue(context.Background(), "usr_adm", "biz_ghost"); err != domain.ErrBusinessNotFound {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestImpersonation_ExitFallsBackToProfileBusiness(t *testing.T) {
	sessions := newStubSessionStore()
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), sessions)
	ctx := context.Background()
	profile := &domain.Profile{ID: "usr_adm", BusinessID: "biz_9"}

	issued, err := svc.Issue(ctx, "usr_adm", "biz_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.Redeem(ctx, "sess_1", issued.Token); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	resolved, err := svc.ResolveBusinessID(ctx, "sess_1", profile)
	if err != nil || resolved != "biz_1" {
		t.Fatalf("while impersonating, resolution must use biz_1, got %q (%v)", resolved, err)
	}

	landing, err := svc.Exit(ctx, "sess_1")
	if err != nil {
		t.Fatalf("exit failed: %v", err)
	}
	if landing != domain.PathAdminDashboard {
		t.Fatalf("exit must land on the admin dashboard, got %s", landing)
	}
	if v, _ := sessions.Get(ctx, "sess_1", domain.KeyIsImpersonating); v != "" {
		t.Fatalf("is_impersonating must be absent after exit, got %q", v)
	}

	resolved, err = svc.ResolveBusinessID(ctx, "sess_1", profile)
	if err != nil || resolved != "biz_9" {
		t.Fatalf("after exit, resolution must fall back to biz_9, got %q (%v)", resolved, err)
	}
}

func TestImpersonation_RecordInactiveByDefault(t *testing.T) {
	svc := newTestImpersonation(newMemTokenStore(), acmeBusinesses(), newStubSessionStore())
	rec, err := svc.Record(context.Background(), "sess_1")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if rec.Active || rec.BusinessID != "" {
		t.Fatalf("expected inactive record, got %+v", rec)
	}
}

func splitToken(token string) (id, secret string, ok bool) {
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			return token[:i], token[i+1:], true
		}
	}
	return "", "", false
}
