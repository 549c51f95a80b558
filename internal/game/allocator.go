package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/poker-night/internal/metrics"
)

// maxSeatingAttempts bounds the collision retry loop. The cap is a deliberate
// latency bound: hitting it means the roster's seating space is saturated.
const maxSeatingAttempts = 50

// Allocator orchestrates seating generation and result recording. Its mutex
// is the single global critical section over the game history: the
// check-active / check-fingerprint / insert sequence must not interleave with
// another mutation, and neither may a recompute.
type Allocator struct {
	mu      sync.Mutex
	store   GameStore
	stats   StatsApplier
	metrics metrics.Metrics
}

// NewAllocator creates a new Allocator.
func NewAllocator(store GameStore, stats StatsApplier, metricsSvc metrics.Metrics) *Allocator {
	return &Allocator{
		store:   store,
		stats:   stats,
		metrics: metricsSvc,
	}
}

// GenerateSeating produces a seating permutation guaranteed distinct from all
// previously recorded seatings, persists it as the new active game, and
// applies the incremental statistics update. Colliding attempts write nothing.
func (a *Allocator) GenerateSeating(players []string, buyIn float64) (*Game, error) {
	if err := validateRoster(players); err != nil {
		return nil, err
	}
	if buyIn < 0 {
		return nil, fmt.Errorf("%w: buy-in must be non-negative", ErrInvalidInput)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	active, err := a.store.GetActive()
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("%w: game %d is unfinished", ErrConflictActiveGame, active.ID)
	}

	for attempt := 1; attempt <= maxSeatingAttempts; attempt++ {
		seating := Shuffle(players)
		fingerprint := Fingerprint(seating)

		exists, err := a.store.FingerprintExists(fingerprint)
		if err != nil {
			return nil, err
		}
		if exists {
			log.Debug("Seating collision, retrying", "attempt", attempt, "fingerprint", fingerprint)
			continue
		}

		g := &Game{
			CreatedAt:   time.Now().Unix(),
			Seating:     seating,
			Fingerprint: fingerprint,
			BuyIn:       buyIn,
		}
		id, err := a.store.Insert(g)
		if err != nil {
			return nil, err
		}
		g.ID = id

		a.metrics.IncSeatingsGenerated()
		a.metrics.ObserveSeatingAttempts(float64(attempt))

		if err := a.stats.ApplyGameCreated(seating, buyIn); err != nil {
			log.Error("Incremental stats update failed after game insert", "error", err, "gameID", id)
			return g, fmt.Errorf("%w: %v", ErrStatsUpdateFailed, err)
		}
		return g, nil
	}

	log.Warn("Seating space saturated for roster", "players", len(players), "attempts", maxSeatingAttempts)
	return nil, fmt.Errorf("%w after %d tries", ErrExhaustedAttempts, maxSeatingAttempts)
}

// GetActiveGame returns the in-progress game, or nil when none exists.
func (a *Allocator) GetActiveGame() (*Game, error) {
	return a.store.GetActive()
}

// RecordResults sets the placements on a game, settling it and freeing the
// single-active-game slot, then applies the incremental statistics update.
func (a *Allocator) RecordResults(gameID int64, first, second, third string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.store.GetByID(gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if err := validatePlacements(g, first, second, third); err != nil {
		return err
	}

	if err := a.store.SetPlacements(gameID, first, second, third); err != nil {
		return err
	}
	g.First, g.Second, g.Third = first, second, third

	a.metrics.IncResultsRecorded()

	if err := a.stats.ApplyResultsRecorded(g); err != nil {
		log.Error("Incremental stats update failed after result recording", "error", err, "gameID", gameID)
		return fmt.Errorf("%w: %v", ErrStatsUpdateFailed, err)
	}
	return nil
}

// DeleteGame removes a game and reconciles all derived statistics from the
// remaining history. Admin corrections never go through the incremental path.
func (a *Allocator) DeleteGame(gameID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.store.GetByID(gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	if err := a.store.Delete(gameID); err != nil {
		return err
	}
	return a.recomputeLocked()
}

// UpdateGame applies an admin edit to a game's buy-in or placements and
// reconciles all derived statistics from the full history.
func (a *Allocator) UpdateGame(gameID int64, patch GamePatch) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	g, err := a.store.GetByID(gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}

	if patch.BuyIn != nil {
		if *patch.BuyIn < 0 {
			return fmt.Errorf("%w: buy-in must be non-negative", ErrInvalidInput)
		}
		g.BuyIn = *patch.BuyIn
	}
	if patch.First != nil {
		g.First = *patch.First
	}
	if patch.Second != nil {
		g.Second = *patch.Second
	}
	if patch.Third != nil {
		g.Third = *patch.Third
	}

	if g.First == "" {
		if g.Second != "" || g.Third != "" {
			return fmt.Errorf("%w: cannot keep second/third without a winner", ErrInvalidPlacement)
		}
		// Clearing the winner re-activates the game, which must not violate
		// the single-active-game invariant.
		active, err := a.store.GetActive()
		if err != nil {
			return err
		}
		if active != nil && active.ID != g.ID {
			return fmt.Errorf("%w: game %d is unfinished", ErrConflictActiveGame, active.ID)
		}
	} else if err := validatePlacements(g, g.First, g.Second, g.Third); err != nil {
		return err
	}

	if err := a.store.UpdateGame(g); err != nil {
		return err
	}
	return a.recomputeLocked()
}

// Recompute rebuilds all player statistics from the full game history.
func (a *Allocator) Recompute() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recomputeLocked()
}

func (a *Allocator) recomputeLocked() error {
	start := time.Now()
	history, err := a.store.GetAllChronological()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatsUpdateFailed, err)
	}
	if err := a.stats.RecomputeAll(history); err != nil {
		return fmt.Errorf("%w: %v", ErrStatsUpdateFailed, err)
	}
	a.metrics.IncRecomputeRuns()
	a.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
	log.Info("Recomputed player statistics", "games", len(history), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func validateRoster(players []string) error {
	if len(players) < 2 {
		return fmt.Errorf("%w: need at least 2 players", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("%w: empty player name", ErrInvalidInput)
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidInput, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// validatePlacements checks membership and distinctness. First is required;
// second and third are optional but a third without a second is rejected.
func validatePlacements(g *Game, first, second, third string) error {
	if first == "" {
		return fmt.Errorf("%w: first place is required", ErrInvalidPlacement)
	}
	if second == "" && third != "" {
		return fmt.Errorf("%w: third place without second", ErrInvalidPlacement)
	}
	seen := make(map[string]struct{}, 3)
	for _, p := range []string{first, second, third} {
		if p == "" {
			continue
		}
		if !g.HasPlayer(p) {
			return fmt.Errorf("%w: %q is not seated in game %d", ErrInvalidPlacement, p, g.ID)
		}
		if _, ok := seen[p]; ok {
			return fmt.Errorf("%w: %q appears in more than one placement", ErrInvalidPlacement, p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
