package auth

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// sessionTTL is how long an issued bearer token stays valid.
const sessionTTL = 24 * time.Hour

// store handles the admin credential and bearer-token sessions.
type store struct {
	db *sql.DB
	mu sync.Mutex
	// now is swappable in tests.
	now func() time.Time
}

var (
	// ErrAlreadyConfigured is returned when setup runs against an existing credential.
	ErrAlreadyConfigured = errors.New("admin password already configured")
	// ErrInvalidCredentials is returned for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfigured is returned when logging in before setup.
	ErrNotConfigured = errors.New("admin password not configured")
)
