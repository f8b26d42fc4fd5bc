package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
	"github.com/groomly/platform-api/internal/core/service"
)

type recordingAuthState struct {
	mu     sync.Mutex
	events map[string][]domain.AuthEvent
}

func newRecordingAuthState() *recordingAuthState {
	return &recordingAuthState{events: make(map[string][]domain.AuthEvent)}
}

func (r *recordingAuthState) Hydrate(_ context.Context, _ string, _ *domain.Identity) domain.AuthSnapshot {
	return domain.AuthSnapshot{}
}

func (r *recordingAuthState) OnAuthEvent(_ context.Context, sessionID string, event domain.AuthEvent, _ *domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[sessionID] = append(r.events[sessionID], event)
}

func (r *recordingAuthState) Snapshot(_ string) domain.AuthSnapshot {
	return domain.AuthSnapshot{}
}

func (r *recordingAuthState) Subscribe(_ string) (<-chan domain.AuthSnapshot, func()) {
	ch := make(chan domain.AuthSnapshot)
	return ch, func() { close(ch) }
}

func (r *recordingAuthState) count(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events[sessionID])
}

func (r *recordingAuthState) sequence(sessionID string) []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuthEvent, len(r.events[sessionID]))
	copy(out, r.events[sessionID])
	return out
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	recorder := newRecordingAuthState()
	d := NewDispatcher(4, recorder, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	emitted := []domain.AuthEvent{
		domain.EventSignedIn,
		domain.EventTokenRefreshed,
		domain.EventSignedOut,
		domain.EventSignedIn,
		domain.EventTokenRefreshed,
	}
	for _, ev := range emitted {
		d.Enqueue(ports.AuthEventInput{SessionID: "sess_ordered", Event: ev})
	}
	// Interleave other sessions on other shards.
	for i := 0; i < 20; i++ {
		d.Enqueue(ports.AuthEventInput{SessionID: "sess_other", Event: domain.EventTokenRefreshed})
	}

	deadline := time.Now().Add(2 * time.Second)
	for recorder.count("sess_ordered") < len(emitted) {
		if time.Now().After(deadline) {
			t.Fatalf("events not delivered: got %d of %d", recorder.count("sess_ordered"), len(emitted))
		}
		time.Sleep(time.Millisecond)
	}

	got := recorder.sequence("sess_ordered")
	for i, ev := range emitted {
		if got[i] != ev {
			t.Fatalf("event %d out of order: got %s, want %s (full: %v)", i, got[i], ev, got)
		}
	}
}

type fixedProvider struct {
	identity *domain.Identity
}

func (p *fixedProvider) Verify(_ context.Context, _ string) (*domain.Identity, error) {
	return p.identity, nil
}

func (p *fixedProvider) CurrentSession(_ context.Context, _ string) (*domain.Identity, error) {
	return p.identity, nil
}

type fixedProfiles struct {
	profile *domain.Profile
}

func (r *fixedProfiles) FindByIdentity(_ context.Context, _ string) (*domain.Profile, error) {
	return r.profile, nil
}

type emptyBusinesses struct{}

func (emptyBusinesses) Find(_ context.Context, _ string) (*domain.Business, error) {
	return nil, domain.ErrBusinessNotFound
}

func (emptyBusinesses) Update(_ context.Context, _ string, _ ports.BusinessUpdate) (*domain.Business, error) {
	return nil, domain.ErrBusinessNotFound
}

type noopSessions struct{}

func (noopSessions) Get(_ context.Context, _, _ string) (string, error)    { return "", nil }
func (noopSessions) Set(_ context.Context, _, _, _ string) error           { return nil }
func (noopSessions) Delete(_ context.Context, _ string, _ ...string) error { return nil }
func (noopSessions) Clear(_ context.Context, _ string) error               { return nil }

// A sign-out emitted after a sign-in must leave the session anonymous even
// when both were queued before any worker ran: delivery through one shard
// preserves emission order, so the earlier sign-in can never resurrect the
// signed-out session.
func TestDispatcher_SignOutAfterQueuedSignInWins(t *testing.T) {
	identity := &domain.Identity{ID: "usr_1"}
	auth := service.NewAuthState(
		&fixedProvider{identity: identity},
		&fixedProfiles{profile: &domain.Profile{ID: "usr_1"}},
		emptyBusinesses{},
		noopSessions{},
		time.Second,
		zerolog.Nop(),
	)
	d := NewDispatcher(1, auth, zerolog.Nop())

	d.Enqueue(ports.AuthEventInput{SessionID: "sess_1", Event: domain.EventSignedIn, Identity: identity})
	d.Enqueue(ports.AuthEventInput{SessionID: "sess_1", Event: domain.EventSignedOut})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// The sign-in bumps the generation to 1, the sign-out to 2.
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := auth.Snapshot("sess_1")
		if snap.Generation >= 2 && !snap.Loading {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("events not applied, snapshot %+v", snap)
		}
		time.Sleep(time.Millisecond)
	}

	if snap := auth.Snapshot("sess_1"); !snap.Anonymous() {
		t.Fatalf("last event was a sign-out, but snapshot is authenticated: %+v", snap)
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, newRecordingAuthState(), zerolog.Nop())

	for _, sid := range []string{"sess_a", "sess_b", "sess_c"} {
		first := d.shardIndex(sid)
		for i := 0; i < 10; i++ {
			if d.shardIndex(sid) != first {
				t.Fatalf("shard index for %s not stable", sid)
			}
		}
	}
}
