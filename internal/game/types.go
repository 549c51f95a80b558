package game

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for games.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Seating is an ordered assignment of players to table positions.
type Seating []string

// Game is one seating/tournament record. Seating and fingerprint are
// immutable once created; placements are set by result recording or admin
// edits. A game with no first place recorded is the active game.
type Game struct {
	ID          int64   `json:"id"`
	CreatedAt   int64   `json:"created_at"`
	Seating     Seating `json:"seating"`
	Fingerprint string  `json:"fingerprint"`
	BuyIn       float64 `json:"buy_in"`
	First       string  `json:"first,omitempty"`
	Second      string  `json:"second,omitempty"`
	Third       string  `json:"third,omitempty"`
}

// IsActive reports whether the game is still in progress.
func (g *Game) IsActive() bool {
	return g.First == ""
}

// HasPlayer reports whether name is part of the game's seating.
func (g *Game) HasPlayer(name string) bool {
	for _, p := range g.Seating {
		if p == name {
			return true
		}
	}
	return false
}

// Payouts is the prize split for one game.
type Payouts struct {
	First    float64 `json:"first"`
	Second   float64 `json:"second"`
	Third    float64 `json:"third"`
	TotalPot float64 `json:"total_pot"`
}

// GamePatch holds the fields an admin edit may change. Nil fields are left
// untouched. Seating is deliberately absent: the fingerprint is derived from
// it, so a different seating means a different game.
type GamePatch struct {
	BuyIn  *float64 `json:"buy_in,omitempty"`
	First  *string  `json:"first,omitempty"`
	Second *string  `json:"second,omitempty"`
	Third  *string  `json:"third,omitempty"`
}

var (
	// ErrInvalidInput is returned for malformed or too-small rosters.
	ErrInvalidInput = errors.New("invalid players list")
	// ErrConflictActiveGame is returned when a game is already in progress.
	ErrConflictActiveGame = errors.New("a game is already in progress")
	// ErrExhaustedAttempts is returned when the bounded retry loop cannot find
	// an unseen seating. Practically only reachable for a tiny roster that has
	// been replayed many times.
	ErrExhaustedAttempts = errors.New("exhausted attempts to find a new seating")
	// ErrNotFound is returned for an unknown game id.
	ErrNotFound = errors.New("game not found")
	// ErrInvalidPlacement is returned when a placement names a player outside
	// the game's seating, or the same player in more than one slot.
	ErrInvalidPlacement = errors.New("invalid placement")
	// ErrStatsUpdateFailed is returned when persisting the derived statistics
	// fails. The game mutation itself is committed; callers should trigger a
	// full recompute to restore consistency.
	ErrStatsUpdateFailed = errors.New("player statistics update failed")
)
