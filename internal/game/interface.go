package game

// GameStore defines the interface for the durable game history.
type GameStore interface {
	Insert(g *Game) (int64, error)
	GetByID(id int64) (*Game, error)
	// GetActive returns the single active game, or nil when none exists.
	GetActive() (*Game, error)
	FingerprintExists(fingerprint string) (bool, error)
	SetPlacements(id int64, first, second, third string) error
	UpdateGame(g *Game) error
	Delete(id int64) error
	// GetRecent returns up to limit games, newest first.
	GetRecent(limit int) ([]*Game, error)
	// GetAllChronological returns the full history in creation order. This is
	// the replay input for the statistics recompute.
	GetAllChronological() ([]*Game, error)
}

// StatsApplier is the slice of the statistics engine the allocator drives.
// The stats package provides the implementation; defining the interface here
// keeps the dependency pointing one way.
type StatsApplier interface {
	ApplyGameCreated(seating Seating, buyIn float64) error
	ApplyResultsRecorded(g *Game) error
	RecomputeAll(history []*Game) error
}
