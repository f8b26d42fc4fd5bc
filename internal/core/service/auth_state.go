package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

const defaultFetchTimeout = 5 * time.Second

// subscriber channels are buffered; a slow consumer drops snapshots rather
// than stalling hydration.
const subscriberBuffer = 8

// AuthState maintains one auth snapshot per session and runs the hydration
// protocol: resolve identity, fetch profile, fetch linked business, each
// under its own bounded wait, degrading to nil on failure. A monotonic
// generation counter per session discards completions superseded by a
// fresher identity event, so out-of-order fetch completions can never
// overwrite newer state.
type AuthState struct {
	provider     ports.IdentityProvider
	profiles     ports.ProfileRepository
	businesses   ports.BusinessRepository
	sessions     ports.SessionStore
	fetchTimeout time.Duration
	logger       zerolog.Logger

	mu     sync.Mutex
	states map[string]*sessionState
	// staleDiscard, when set, runs once per hydration result discarded as
	// superseded. The api layer wires it to a counter.
	staleDiscard func()
}

type sessionState struct {
	gen     uint64
	snap    domain.AuthSnapshot
	subs    map[int]chan domain.AuthSnapshot
	nextSub int
}

func NewAuthState(
	provider ports.IdentityProvider,
	profiles ports.ProfileRepository,
	businesses ports.BusinessRepository,
	sessions ports.SessionStore,
	fetchTimeout time.Duration,
	logger zerolog.Logger,
) *AuthState {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &AuthState{
		provider:     provider,
		profiles:     profiles,
		businesses:   businesses,
		sessions:     sessions,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		states:       make(map[string]*sessionState),
	}
}

// OnStaleDiscard registers fn to run whenever a hydration result is
// discarded because a fresher generation superseded it. Must be called
// before the controller starts serving sessions.
func (s *AuthState) OnStaleDiscard(fn func()) {
	s.staleDiscard = fn
}

// Hydrate runs one hydration cycle and returns the committed snapshot.
// When a fresher cycle has started for the same session in the meantime,
// the result of this one is discarded and the current snapshot returned.
func (s *AuthState) Hydrate(ctx context.Context, sessionID string, override *domain.Identity) (snap domain.AuthSnapshot) {
	gen := s.begin(sessionID)

	result := domain.AuthSnapshot{}
	// The commit runs deferred so loading=false is published no matter how
	// hydration exits, including panics inside a repository.
	defer func() {
		snap = s.commit(sessionID, gen, result)
	}()

	identity := override
	if identity == nil {
		id, err := s.provider.CurrentSession(ctx, sessionID)
		if err != nil {
			// A failed session query is indistinguishable from "no identity".
			s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("session query failed")
			return
		}
		identity = id
	}
	if identity == nil {
		// Anonymous is a valid terminal state, not an error.
		return
	}
	result.Identity = identity

	profile := s.fetchProfile(ctx, identity.ID)
	if profile == nil {
		return
	}
	result.Profile = profile
	result.IsAdmin = profile.IsAdmin

	if profile.BusinessID == "" {
		s.logger.Info().Str("profile_id", profile.ID).Msg("profile has no linked business")
		return
	}
	result.Business = s.fetchBusiness(ctx, profile.BusinessID)
	return
}

// OnAuthEvent applies an identity lifecycle event. Callers must deliver
// events for one session in emission order; the dispatcher guarantees this.
func (s *AuthState) OnAuthEvent(ctx context.Context, sessionID string, event domain.AuthEvent, identity *domain.Identity) {
	switch event {
	case domain.EventSignedOut:
		s.signOut(ctx, sessionID)
	case domain.EventSignedIn, domain.EventTokenRefreshed:
		s.Hydrate(ctx, sessionID, identity)
	default:
		s.logger.Warn().Str("event", string(event)).Msg("ignoring unknown auth event")
	}
}

// Snapshot returns the current snapshot without triggering hydration.
// Unknown sessions read as anonymous and settled.
func (s *AuthState) Snapshot(sessionID string) domain.AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[sessionID]; ok {
		return st.snap
	}
	return domain.AuthSnapshot{}
}

// Subscribe registers a snapshot listener for the session. The returned
// release function must be called on teardown.
func (s *AuthState) Subscribe(sessionID string) (<-chan domain.AuthSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensureLocked(sessionID)
	id := st.nextSub
	st.nextSub++
	ch := make(chan domain.AuthSnapshot, subscriberBuffer)
	st.subs[id] = ch

	release := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.states[sessionID]; ok {
			if sub, ok := cur.subs[id]; ok {
				delete(cur.subs, id)
				close(sub)
			}
		}
	}
	return ch, release
}

// signOut resets the session to anonymous synchronously, with no network round
// trip, and clears the impersonation record plus the stashed access token.
func (s *AuthState) signOut(ctx context.Context, sessionID string) {
	s.mu.Lock()
	st := s.ensureLocked(sessionID)
	st.gen++ // supersede any in-flight hydration
	st.snap = domain.AuthSnapshot{Generation: st.gen}
	s.publishLocked(st)
	s.mu.Unlock()

	err := s.sessions.Delete(ctx, sessionID,
		domain.KeyAccessToken,
		domain.KeyIsImpersonating,
		domain.KeyImpersonatingBizID,
		domain.KeyImpersonatingName,
		domain.KeyAuthContext,
		domain.KeyBusinessSlug,
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear session flags on sign-out")
	}
	s.logger.Info().Str("session_id", sessionID).Msg("signed out")
}

// begin starts a new hydration generation and publishes the loading state.
func (s *AuthState) begin(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensureLocked(sessionID)
	st.gen++
	st.snap.Loading = true
	st.snap.Generation = st.gen
	s.publishLocked(st)
	return st.gen
}

// commit installs the hydration result unless a fresher generation has
// started, in which case the stale result is discarded.
func (s *AuthState) commit(sessionID string, gen uint64, result domain.AuthSnapshot) domain.AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensureLocked(sessionID)
	if gen != st.gen {
		if s.staleDiscard != nil {
			s.staleDiscard()
		}
		s.logger.Debug().
			Str("session_id", sessionID).
			Uint64("generation", gen).
			Uint64("current", st.gen).
			Msg("discarding stale hydration result")
		return st.snap
	}
	result.Loading = false
	result.Generation = gen
	st.snap = result
	s.publishLocked(st)
	return st.snap
}

func (s *AuthState) fetchProfile(ctx context.Context, identityID string) *domain.Profile {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	profile, err := s.profiles.FindByIdentity(fetchCtx, identityID)
	if err != nil {
		s.logFetchFailure(err, "profile", identityID)
		return nil
	}
	return profile
}

func (s *AuthState) fetchBusiness(ctx context.Context, businessID string) *domain.Business {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	business, err := s.businesses.Find(fetchCtx, businessID)
	if err != nil {
		s.logFetchFailure(err, "business", businessID)
		return nil
	}
	return business
}

// logFetchFailure records a degraded fetch. Aborts caused by the caller
// going away are swallowed without a log line.
func (s *AuthState) logFetchFailure(err error, kind, id string) {
	switch {
	case errors.Is(err, context.Canceled):
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn().Str(kind+"_id", id).Dur("timeout", s.fetchTimeout).Msg(kind + " fetch timed out")
	default:
		s.logger.Warn().Err(err).Str(kind+"_id", id).Msg(kind + " fetch failed")
	}
}

func (s *AuthState) ensureLocked(sessionID string) *sessionState {
	st, ok := s.states[sessionID]
	if !ok {
		st = &sessionState{subs: make(map[int]chan domain.AuthSnapshot)}
		s.states[sessionID] = st
	}
	return st
}

func (s *AuthState) publishLocked(st *sessionState) {
	for _, ch := range st.subs {
		select {
		case ch <- st.snap:
		default:
		}
	}
}
