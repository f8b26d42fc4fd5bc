package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/groomly/platform-api/internal/core/domain"
	"github.com/groomly/platform-api/internal/core/ports"
)

const defaultTokenTTL = 10 * time.Minute

// Impersonation implements the administrator support flow. A token is
// "<id>.<secret>"; the store keeps only the bcrypt hash of the secret, and
// redemption is an atomic take, so each token can succeed at most once.
type Impersonation struct {
	tokens     ports.TokenStore
	businesses ports.BusinessRepository
	sessions   ports.SessionStore
	tokenTTL   time.Duration
	logger     zerolog.Logger
}

func NewImpersonation(
	tokens ports.TokenStore,
	businesses ports.BusinessRepository,
	sessions ports.SessionStore,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *Impersonation {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Impersonation{
		tokens:     tokens,
		businesses: businesses,
		sessions:   sessions,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

// Issue mints a single-use, time-bounded token scoped to one business.
func (s *Impersonation) Issue(ctx context.Context, issuedBy, businessID string) (*ports.IssueResult, error) {
	if _, err := s.businesses.Find(ctx, businessID); err != nil {
		return nil, err
	}

	id, err := randomHex(8)
	if err != nil {
		return nil, fmt.Errorf("generate token id: %w", err)
	}
	secret, err := randomHex(24)
	if err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash token secret: %w", err)
	}

	tok := ports.ImpersonationToken{
		BusinessID: businessID,
		SecretHash: string(hash),
		IssuedBy:   issuedBy,
		ExpiresAt:  time.Now().UTC().Add(s.tokenTTL),
	}
	if err := s.tokens.Save(ctx, id, tok, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	s.logger.Info().
		Str("business_id", businessID).
		Str("issued_by", issuedBy).
		Msg("impersonation token issued")

	return &ports.IssueResult{
		Token:     id + "." + secret,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

// Redeem exchanges a token for impersonation of its business. On success
// the session's impersonation record is written and the slugged dashboard
// path returned. The exchange consumes the token even when a later step
// fails, so a retry with the same token always fails.
func (s *Impersonation) Redeem(ctx context.Context, sessionID, token string) (*ports.RedeemResult, error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok || id == "" || secret == "" {
		return nil, domain.ErrTokenInvalid
	}

	tok, err := s.tokens.Redeem(ctx, id)
	if err != nil {
		return nil, err
	}
	if time.Now().UTC().After(tok.ExpiresAt) {
		return nil, domain.ErrTokenExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(tok.SecretHash), []byte(secret)) != nil {
		return nil, domain.ErrTokenInvalid
	}

	business, err := s.businesses.Find(ctx, tok.BusinessID)
	if err != nil {
		return nil, err
	}

	slug := business.Slug()
	writes := map[string]string{
		domain.KeyIsImpersonating:    "true",
		domain.KeyImpersonatingBizID: business.ID,
		domain.KeyImpersonatingName:  business.Name,
		domain.KeyBusinessSlug:       slug,
		domain.KeyAuthContext:        domain.AuthContextAdmin,
	}
	for key, value := range writes {
		if err := s.sessions.Set(ctx, sessionID, key, value); err != nil {
			return nil, fmt.Errorf("write impersonation state: %w", err)
		}
	}

	s.logger.Info().
		Str("business_id", business.ID).
		Str("issued_by", tok.IssuedBy).
		Msg("impersonation started")

	return &ports.RedeemResult{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		RedirectTo:   "/" + slug + "/dashboard",
	}, nil
}

// Exit clears the impersonation record and returns the admin dashboard path.
func (s *Impersonation) Exit(ctx context.Context, sessionID string) (string, error) {
	err := s.sessions.Delete(ctx, sessionID,
		domain.KeyIsImpersonating,
		domain.KeyImpersonatingBizID,
		domain.KeyImpersonatingName,
		domain.KeyBusinessSlug,
	)
	if err != nil {
		return "", fmt.Errorf("clear impersonation state: %w", err)
	}
	s.logger.Info().Str("session_id", sessionID).Msg("impersonation ended")
	return domain.PathAdminDashboard, nil
}

// Record returns the session's impersonation record; absent keys read as an
// inactive record.
func (s *Impersonation) Record(ctx context.Context, sessionID string) (domain.ImpersonationRecord, error) {
	active, err := s.sessions.Get(ctx, sessionID, domain.KeyIsImpersonating)
	if err != nil {
		return domain.ImpersonationRecord{}, err
	}
	if active != "true" {
		return domain.ImpersonationRecord{}, nil
	}
	businessID, err := s.sessions.Get(ctx, sessionID, domain.KeyImpersonatingBizID)
	if err != nil {
		return domain.ImpersonationRecord{}, err
	}
	name, err := s.sessions.Get(ctx, sessionID, domain.KeyImpersonatingName)
	if err != nil {
		return domain.ImpersonationRecord{}, err
	}
	return domain.ImpersonationRecord{Active: true, BusinessID: businessID, BusinessName: name}, nil
}

// ResolveBusinessID returns the tenant id all data access must use. The
// impersonated business always wins over the profile's own link; using the
// profile's link while impersonating reads another tenant's data.
func (s *Impersonation) ResolveBusinessID(ctx context.Context, sessionID string, profile *domain.Profile) (string, error) {
	rec, err := s.Record(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if rec.Active {
		return rec.BusinessID, nil
	}
	if profile != nil {
		return profile.BusinessID, nil
	}
	return "", nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
