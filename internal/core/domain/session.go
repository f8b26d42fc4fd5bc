package domain

import "strings"

// Session Store keys. Writers own distinct keys per concern; readers treat
// an absent key as its zero default, never as an error.
const (
	KeyAccessToken        = "access_token"
	KeyIsImpersonating    = "is_impersonating"
	KeyImpersonatingBizID = "impersonating_business_id"
	KeyImpersonatingName  = "impersonating_business_name"
	KeyAuthContext        = "authContext"
	KeyDemoMode           = "demoMode"
	KeyBusinessSlug       = "business_slug"
	KeyLanguage           = "language"
)

// Coarse session kinds stored under KeyAuthContext.
const (
	AuthContextAdmin    = "admin"
	AuthContextBusiness = "business"
	AuthContextDemo     = "demo"
	AuthContextNone     = "none"
)

// AuthSnapshot is the current, atomically-replaced view of auth state.
// While Loading is true consumers must not make routing decisions on the
// other fields.
type AuthSnapshot struct {
	Identity   *Identity `json:"identity,omitempty"`
	Profile    *Profile  `json:"profile,omitempty"`
	Business   *Business `json:"business,omitempty"`
	IsAdmin    bool      `json:"is_admin"`
	Loading    bool      `json:"loading"`
	Generation uint64    `json:"-"`
}

// Anonymous reports whether the snapshot carries no identity.
func (s AuthSnapshot) Anonymous() bool {
	return s.Identity == nil
}

// ImpersonationRecord is the session-scoped state written when an
// administrator redeems an impersonation token. It is a client-trust
// convenience, not a security boundary.
type ImpersonationRecord struct {
	Active       bool   `json:"active"`
	BusinessID   string `json:"business_id,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

// Well-known paths.
const (
	PathRoot           = "/"
	PathLogin          = "/login"
	PathAdminDashboard = "/admin"
	PathDemo           = "/demo"
)

// IsPublicPath reports whether path renders without any auth checks.
func IsPublicPath(path string) bool {
	return path == PathDemo || strings.HasPrefix(path, PathDemo+"/")
}

// Memorable reports whether path may be persisted to Route Memory.
// The landing and login pages are never stored, with or without a query
// string; the stored value keeps the query.
func Memorable(path string) bool {
	p := path
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == PathRoot {
		return false
	}
	return p != PathLogin && !strings.HasPrefix(p, PathLogin+"/")
}
