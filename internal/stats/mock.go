package stats

import (
	"sync"

	"github.com/mauv0809/poker-night/internal/game"
)

// Mock is a mock implementation of the StatsStore interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	ApplyGameCreatedFunc     func(seating game.Seating, buyIn float64) error
	ApplyResultsRecordedFunc func(g *game.Game) error
	RecomputeAllFunc         func(history []*game.Game) error
	GetAllFunc               func() ([]PlayerStats, error)

	// Call records
	ApplyGameCreatedCalls []struct {
		Seating game.Seating
		BuyIn   float64
	}
	ApplyResultsRecordedCalls []*game.Game
	RecomputeAllCalls         [][]*game.Game
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) ApplyGameCreated(seating game.Seating, buyIn float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyGameCreatedCalls = append(m.ApplyGameCreatedCalls, struct {
		Seating game.Seating
		BuyIn   float64
	}{seating, buyIn})
	if m.ApplyGameCreatedFunc != nil {
		return m.ApplyGameCreatedFunc(seating, buyIn)
	}
	return nil
}

func (m *Mock) ApplyResultsRecorded(g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyResultsRecordedCalls = append(m.ApplyResultsRecordedCalls, g)
	if m.ApplyResultsRecordedFunc != nil {
		return m.ApplyResultsRecordedFunc(g)
	}
	return nil
}

func (m *Mock) RecomputeAll(history []*game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecomputeAllCalls = append(m.RecomputeAllCalls, history)
	if m.RecomputeAllFunc != nil {
		return m.RecomputeAllFunc(history)
	}
	return nil
}

func (m *Mock) GetAll() ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	return nil, nil
}
