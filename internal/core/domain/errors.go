package domain

import "errors"

var (
	// ErrProfileNotFound means no profile exists for the identity.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrBusinessNotFound means the referenced business does not exist.
	ErrBusinessNotFound = errors.New("business not found")
	// ErrTokenInvalid covers malformed, unknown, already-used, and
	// signature-mismatched impersonation tokens.
	ErrTokenInvalid = errors.New("impersonation token invalid")
	// ErrTokenExpired means the impersonation token outlived its TTL.
	ErrTokenExpired = errors.New("impersonation token expired")
	// ErrNotAuthenticated means the session carries no identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrForbidden means the authenticated principal lacks the required role.
	ErrForbidden = errors.New("access forbidden")
	// ErrInvalidEvent means the posted identity event kind is unknown.
	ErrInvalidEvent = errors.New("invalid auth event")
)
