package notifier

import (
	"sync"

	"github.com/mauv0809/poker-night/internal/game"
	"github.com/mauv0809/poker-night/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendSeatingNotificationFunc func(g *game.Game, dryRun bool) error
	SendResultNotificationFunc  func(g *game.Game, payouts game.Payouts, dryRun bool) error
	SendLeaderboardFunc         func(all []stats.PlayerStats, dryRun bool) error

	// Call records
	SendSeatingNotificationCalls []*game.Game
	SendResultNotificationCalls  []struct {
		Game    *game.Game
		Payouts game.Payouts
	}
	SendLeaderboardCalls [][]stats.PlayerStats
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSeatingNotificationCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendSeatingNotification(g *game.Game, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSeatingNotificationCalls = append(m.SendSeatingNotificationCalls, g)
	if m.SendSeatingNotificationFunc != nil {
		return m.SendSeatingNotificationFunc(g, dryRun)
	}
	return nil
}

func (m *Mock) SendResultNotification(g *game.Game, payouts game.Payouts, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct {
		Game    *game.Game
		Payouts game.Payouts
	}{g, payouts})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(g, payouts, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(all []stats.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, all)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(all, dryRun)
	}
	return nil
}
