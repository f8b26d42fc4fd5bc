package domain

// Identity is the authenticated principal supplied by the hosted identity
// provider. The application only observes identities, it never mutates them.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthEvent is an identity lifecycle notification from the provider.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// Valid reports whether e is one of the known event kinds.
func (e AuthEvent) Valid() bool {
	switch e {
	case EventSignedIn, EventSignedOut, EventTokenRefreshed:
		return true
	}
	return false
}
