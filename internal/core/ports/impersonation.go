package ports

import (
	"context"

	"github.com/groomly/platform-api/internal/core/domain"
)

// IssueResult is the outcome of minting an impersonation token.
type IssueResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// RedeemResult is the outcome of a successful token redemption.
type RedeemResult struct {
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name"`
	RedirectTo   string `json:"redirect_to"`
}

// ImpersonationService implements the administrator support flow: one-time
// token issuance and redemption, exit, and tenant-id resolution.
type ImpersonationService interface {
	Issue(ctx context.Context, issuedBy, businessID string) (*IssueResult, error)
	Redeem(ctx context.Context, sessionID, token string) (*RedeemResult, error)
	// Exit clears the impersonation record and returns the safe landing path.
	Exit(ctx context.Context, sessionID string) (string, error)
	// Record returns the session's impersonation record (inactive when absent).
	Record(ctx context.Context, sessionID string) (domain.ImpersonationRecord, error)
	// ResolveBusinessID returns the tenant id all data access must use:
	// the impersonated business when active, else the profile's link.
	ResolveBusinessID(ctx context.Context, sessionID string, profile *domain.Profile) (string, error)
}
