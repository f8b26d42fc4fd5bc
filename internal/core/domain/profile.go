package domain

import "time"

// Profile is the application-level user record linked to an Identity.
// Profiles are created by the out-of-band signup flow; this service only
// reads them. A profile with an empty BusinessID is an unprovisioned
// account, not an error.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	BusinessID  string    `json:"business_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
