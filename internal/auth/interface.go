package auth

// AuthStore defines the interface for admin credential and session handling.
// The game and statistics core never consults it; admin endpoints are gated
// by middleware before a request reaches the core.
type AuthStore interface {
	// IsConfigured reports whether an admin password has been set.
	IsConfigured() (bool, error)
	// Setup stores the admin password hash. Fails once one exists.
	Setup(password string) error
	// Login verifies the password and issues a bearer token.
	Login(password string) (string, error)
	// Validate reports whether the token belongs to a live session.
	Validate(token string) (bool, error)
	// Revoke ends the session for the given token.
	Revoke(token string) error
}
