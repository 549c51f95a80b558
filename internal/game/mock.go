package game

import "sync"

// MockStore is a mock implementation of the GameStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	InsertFunc              func(g *Game) (int64, error)
	GetByIDFunc             func(id int64) (*Game, error)
	GetActiveFunc           func() (*Game, error)
	FingerprintExistsFunc   func(fingerprint string) (bool, error)
	SetPlacementsFunc       func(id int64, first, second, third string) error
	UpdateGameFunc          func(g *Game) error
	DeleteFunc              func(id int64) error
	GetRecentFunc           func(limit int) ([]*Game, error)
	GetAllChronologicalFunc func() ([]*Game, error)

	// Call records
	InsertCalls            []*Game
	FingerprintExistsCalls []string
	SetPlacementsCalls     []struct {
		ID                   int64
		First, Second, Third string
	}
	DeleteCalls []int64
}

// NewMockStore creates a new mock instance.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Insert(g *Game) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls = append(m.InsertCalls, g)
	if m.InsertFunc != nil {
		return m.InsertFunc(g)
	}
	return int64(len(m.InsertCalls)), nil
}

func (m *MockStore) GetByID(id int64) (*Game, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetActive() (*Game, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc()
	}
	return nil, nil
}

func (m *MockStore) FingerprintExists(fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FingerprintExistsCalls = append(m.FingerprintExistsCalls, fingerprint)
	if m.FingerprintExistsFunc != nil {
		return m.FingerprintExistsFunc(fingerprint)
	}
	return false, nil
}

func (m *MockStore) SetPlacements(id int64, first, second, third string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPlacementsCalls = append(m.SetPlacementsCalls, struct {
		ID                   int64
		First, Second, Third string
	}{id, first, second, third})
	if m.SetPlacementsFunc != nil {
		return m.SetPlacementsFunc(id, first, second, third)
	}
	return nil
}

func (m *MockStore) UpdateGame(g *Game) error {
	if m.UpdateGameFunc != nil {
		return m.UpdateGameFunc(g)
	}
	return nil
}

func (m *MockStore) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *MockStore) GetRecent(limit int) ([]*Game, error) {
	if m.GetRecentFunc != nil {
		return m.GetRecentFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) GetAllChronological() ([]*Game, error) {
	if m.GetAllChronologicalFunc != nil {
		return m.GetAllChronologicalFunc()
	}
	return nil, nil
}
