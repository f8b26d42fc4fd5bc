package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSessionStore_AbsentKeyReadsDefault(t *testing.T) {
	store := NewSessionStore(newTestClient(t), time.Hour)
	ctx := context.Background()

	v, err := store.Get(ctx, "sess_1", domain.KeyIsImpersonating)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if v != "" {
		t.Fatalf("absent key must read as empty, got %q", v)
	}
}

func TestSessionStore_SetGetDelete(t *testing.T) {
	store := NewSessionStore(newTestClient(t), time.Hour)
	ctx := context.Background()

	if err := store.Set(ctx, "sess_1", domain.KeyBusinessSlug, "acme-grooming"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if v, _ := store.Get(ctx, "sess_1", domain.KeyBusinessSlug); v != "acme-grooming" {
		t.Fatalf("unexpected value: %q", v)
	}

	// Keys are namespaced per session.
	if v, _ := store.Get(ctx, "sess_2", domain.KeyBusinessSlug); v != "" {
		t.Fatalf("value leaked across sessions: %q", v)
	}

	if err := store.Delete(ctx, "sess_1", domain.KeyBusinessSlug); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if v, _ := store.Get(ctx, "sess_1", domain.KeyBusinessSlug); v != "" {
		t.Fatalf("expected key gone, got %q", v)
	}
}

func TestSessionStore_ClearDropsAllKeys(t *testing.T) {
	store := NewSessionStore(newTestClient(t), time.Hour)
	ctx := context.Background()

	_ = store.Set(ctx, "sess_1", domain.KeyIsImpersonating, "true")
	_ = store.Set(ctx, "sess_1", domain.KeyDemoMode, "true")
	if err := store.Clear(ctx, "sess_1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	for _, key := range []string{domain.KeyIsImpersonating, domain.KeyDemoMode} {
		if v, _ := store.Get(ctx, "sess_1", key); v != "" {
			t.Fatalf("key %s survived clear: %q", key, v)
		}
	}
}

func TestTokenStore_RedeemIsSingleUse(t *testing.T) {
	store := NewTokenStore(newTestClient(t))
	ctx := context.Background()

	tok := ports.ImpersonationToken{
		BusinessID: "biz_1",
		SecretHash: "$2a$10$fake",
		IssuedBy:   "usr_adm",
		ExpiresAt:  time.Now().UTC().Add(time.Minute),
	}
	if err := store.Save(ctx, "tok_1", tok, time.Minute); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Redeem(ctx, "tok_1")
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if got.BusinessID != "biz_1" || got.IssuedBy != "usr_adm" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := store.Redeem(ctx, "tok_1"); err != domain.ErrTokenInvalid {
		t.Fatalf("second redeem must fail with ErrTokenInvalid, got %v", err)
	}
}

func TestTokenStore_UnknownTokenInvalid(t *testing.T) {
	store := NewTokenStore(newTestClient(t))
	if _, err := store.Redeem(context.Background(), "tok_ghost"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestRouteMemory_SaveAndRestore(t *testing.T) {
	mem := NewRouteMemory(newTestClient(t))
	ctx := context.Background()

	if last, _ := mem.Last(ctx, "usr_1"); last != "" {
		t.Fatalf("expected empty memory, got %q", last)
	}
	if err := mem.Save(ctx, "usr_1", "/acme-grooming/invoices?page=2"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	last, err := mem.Last(ctx, "usr_1")
	if err != nil {
		t.Fatalf("last failed: %v", err)
	}
	if last != "/acme-grooming/invoices?page=2" {
		t.Fatalf("unexpected path: %q", last)
	}
}
