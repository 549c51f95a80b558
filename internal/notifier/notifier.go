package notifier

import (
	"github.com/mauv0809/poker-night/internal/game"
	"github.com/mauv0809/poker-night/internal/stats"
)

// Notifier defines a high-level interface for announcing game events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For a freshly drawn table
	SendSeatingNotification(g *game.Game, dryRun bool) error
	// For a settled game
	SendResultNotification(g *game.Game, payouts game.Payouts, dryRun bool) error
	// For the leaderboard
	SendLeaderboard(all []stats.PlayerStats, dryRun bool) error
}

// Noop is a Notifier that does nothing. Used when no provider is configured.
type Noop struct{}

// NewNoop creates a new no-op notifier.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) SendSeatingNotification(g *game.Game, dryRun bool) error { return nil }
func (n *Noop) SendResultNotification(g *game.Game, payouts game.Payouts, dryRun bool) error {
	return nil
}
func (n *Noop) SendLeaderboard(all []stats.PlayerStats, dryRun bool) error { return nil }
