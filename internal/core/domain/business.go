package domain

import (
	"strings"
	"time"
)

// Subscription tiers.
const (
	TierBasic      = "basic"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// Subscription statuses.
const (
	SubActive   = "active"
	SubCanceled = "canceled"
	SubPastDue  = "past_due"
	SubTrialing = "trialing"
)

// Business is a tenant: a grooming shop owning its own data partition.
type Business struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email,omitempty"`
	Phone              string    `json:"phone,omitempty"`
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
	BillingCustomerID  string    `json:"-"`
	TrialEndsAt        time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt time.Time `json:"subscription_ends_at,omitempty"`
	OnboardingDone     bool      `json:"onboarding_done"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Slug returns the URL-safe routing slug derived from the business name,
// e.g. "Acme Grooming" -> "acme-grooming".
func (b *Business) Slug() string {
	return Slugify(b.Name)
}

// Slugify lowercases s and folds every run of non-alphanumeric characters
// into a single hyphen.
func Slugify(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	hyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
