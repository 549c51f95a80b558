package stats

import "github.com/mauv0809/poker-night/internal/game"

// StatsStore defines the interface for maintaining derived player aggregates.
// It implements game.StatsApplier: the incremental methods are the fast path
// taken on normal mutations, RecomputeAll is the authoritative path that
// replays the full history and is used after any administrative correction.
type StatsStore interface {
	ApplyGameCreated(seating game.Seating, buyIn float64) error
	ApplyResultsRecorded(g *game.Game) error
	RecomputeAll(history []*game.Game) error
	GetAll() ([]PlayerStats, error)
}
