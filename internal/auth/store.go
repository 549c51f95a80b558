package auth

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// New creates a new AuthStore.
func New(db *sql.DB) AuthStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

func (s *store) IsConfigured() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM admin_credentials WHERE id = 1)").Scan(&exists)
	return exists, err
}

func (s *store) Setup(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM admin_credentials WHERE id = 1)").Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrAlreadyConfigured
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO admin_credentials (id, password_hash) VALUES (1, ?)", string(hash)); err != nil {
		return err
	}
	log.Info("Admin password configured")
	return nil
}

func (s *store) Login(password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash string
	err := s.db.QueryRow("SELECT password_hash FROM admin_credentials WHERE id = 1").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotConfigured
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		log.Warn("Rejected admin login attempt")
		return "", ErrInvalidCredentials
	}

	s.sweepExpiredLocked()

	token := uuid.NewString()
	expiresAt := s.now().Add(sessionTTL).Unix()
	if _, err := s.db.Exec("INSERT INTO admin_sessions (token, expires_at) VALUES (?, ?)", token, expiresAt); err != nil {
		return "", err
	}
	log.Info("Issued admin session token")
	return token, nil
}

func (s *store) Validate(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepExpiredLocked()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM admin_sessions WHERE token = ?)", token).Scan(&exists)
	return exists, err
}

func (s *store) Revoke(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM admin_sessions WHERE token = ?", token)
	return err
}

// sweepExpiredLocked drops expired sessions. Runs inline on access instead of
// as a background task.
func (s *store) sweepExpiredLocked() {
	if _, err := s.db.Exec("DELETE FROM admin_sessions WHERE expires_at <= ?", s.now().Unix()); err != nil {
		log.Error("Failed to sweep expired sessions", "error", err)
	}
}
