package stats_test

import (
	"testing"
	"time"

	"github.com/mauv0809/poker-night/internal/database"
	"github.com/mauv0809/poker-night/internal/game"
	"github.com/mauv0809/poker-night/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary in-memory SQLite database for testing.
func setupTestStore(t *testing.T) (stats.StatsStore, game.GameStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return stats.New(db), game.New(db), teardown
}

func byPlayer(t *testing.T, store stats.StatsStore) map[string]stats.PlayerStats {
	t.Helper()
	all, err := store.GetAll()
	require.NoError(t, err)
	m := make(map[string]stats.PlayerStats, len(all))
	for _, ps := range all {
		m[ps.Player] = ps
	}
	return m
}

func settledGame(id int64, seating game.Seating, buyIn float64, first, second, third string) *game.Game {
	return &game.Game{
		ID:          id,
		CreatedAt:   time.Now().Unix(),
		Seating:     seating,
		Fingerprint: game.Fingerprint(seating),
		BuyIn:       buyIn,
		First:       first,
		Second:      second,
		Third:       third,
	}
}

func TestApplyGameCreated_CreditsEverySeat(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	require.NoError(t, store.ApplyGameCreated(game.Seating{"Alice", "Bob", "Charlie"}, 50))

	players := byPlayer(t, store)
	require.Len(t, players, 3)
	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		ps := players[name]
		assert.Equal(t, 1, ps.GamesPlayed)
		assert.Equal(t, 50.0, ps.TotalBuyIns)
		assert.Equal(t, 0.0, ps.TotalWinnings)
		assert.Equal(t, -50.0, ps.NetProfit)
	}

	// A second game accumulates on existing rows.
	require.NoError(t, store.ApplyGameCreated(game.Seating{"Alice", "Bob"}, 100))
	players = byPlayer(t, store)
	assert.Equal(t, 2, players["Alice"].GamesPlayed)
	assert.Equal(t, 150.0, players["Alice"].TotalBuyIns)
	assert.Equal(t, -150.0, players["Alice"].NetProfit)
	assert.Equal(t, 1, players["Charlie"].GamesPlayed)
}

func TestApplyResultsRecorded_WinnerTakesThePot(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	g := settledGame(1, game.Seating{"Alice", "Bob", "Charlie"}, 50, "Bob", "Alice", "")
	require.NoError(t, store.ApplyGameCreated(g.Seating, g.BuyIn))
	require.NoError(t, store.ApplyResultsRecorded(g))

	players := byPlayer(t, store)
	bob := players["Bob"]
	assert.Equal(t, 1, bob.Wins)
	assert.Equal(t, 1, bob.Top3Count)
	assert.Equal(t, 150.0, bob.TotalWinnings)
	assert.Equal(t, 100.0, bob.NetProfit)
	assert.Equal(t, 1.0, bob.WinRate)

	alice := players["Alice"]
	assert.Equal(t, 0, alice.Wins)
	assert.Equal(t, 1, alice.Top3Count)
	assert.Equal(t, 0.0, alice.TotalWinnings)
	assert.Equal(t, -50.0, alice.NetProfit)

	charlie := players["Charlie"]
	assert.Equal(t, 0, charlie.Top3Count)
	assert.Equal(t, -50.0, charlie.NetProfit)
}

func TestRecomputeAll_MatchesIncrementalPath(t *testing.T) {
	incStore, _, teardownA := setupTestStore(t)
	defer teardownA()
	recStore, _, teardownB := setupTestStore(t)
	defer teardownB()

	history := []*game.Game{
		settledGame(1, game.Seating{"Alice", "Bob", "Charlie"}, 50, "Bob", "Alice", ""),
		settledGame(2, game.Seating{"Charlie", "Alice", "Bob", "Dana"}, 25, "Alice", "Dana", "Bob"),
		settledGame(3, game.Seating{"Bob", "Dana"}, 0, "Dana", "", ""),
		settledGame(4, game.Seating{"Alice", "Charlie"}, 100, "", "", ""),
	}

	for _, g := range history {
		require.NoError(t, incStore.ApplyGameCreated(g.Seating, g.BuyIn))
		if g.First != "" {
			require.NoError(t, incStore.ApplyResultsRecorded(g))
		}
	}
	require.NoError(t, recStore.RecomputeAll(history))

	incremental, err := incStore.GetAll()
	require.NoError(t, err)
	recomputed, err := recStore.GetAll()
	require.NoError(t, err)
	assert.Equal(t, recomputed, incremental, "both derivation paths must land on identical aggregates")
}

func TestRecomputeAll_Idempotent(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	history := []*game.Game{
		settledGame(1, game.Seating{"Alice", "Bob"}, 50, "Alice", "", ""),
		settledGame(2, game.Seating{"Bob", "Alice"}, 50, "Bob", "Alice", ""),
	}

	require.NoError(t, store.RecomputeAll(history))
	first, err := store.GetAll()
	require.NoError(t, err)

	require.NoError(t, store.RecomputeAll(history))
	second, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecomputeAll_EmptyHistoryClearsRows(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	require.NoError(t, store.ApplyGameCreated(game.Seating{"Alice", "Bob"}, 50))
	require.NoError(t, store.RecomputeAll(nil))

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all, "stale rows must not survive a recompute")
}

func TestGetAll_LeaderboardOrderAndRates(t *testing.T) {
	store, _, teardown := setupTestStore(t)
	defer teardown()

	history := []*game.Game{
		settledGame(1, game.Seating{"Alice", "Bob", "Charlie"}, 100, "Alice", "Bob", ""),
		settledGame(2, game.Seating{"Charlie", "Alice", "Bob"}, 100, "Alice", "Charlie", ""),
		settledGame(3, game.Seating{"Bob", "Charlie", "Alice"}, 100, "Bob", "", ""),
	}
	require.NoError(t, store.RecomputeAll(history))

	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Alice: 2 wins of 300 each vs 300 in buy-ins.
	assert.Equal(t, "Alice", all[0].Player)
	assert.Equal(t, 300.0, all[0].NetProfit)
	assert.InDelta(t, 2.0/3.0, all[0].WinRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, all[0].Top3Rate, 1e-9)

	// Bob: one win of 300 vs 300 in buy-ins.
	assert.Equal(t, "Bob", all[1].Player)
	assert.Equal(t, 0.0, all[1].NetProfit)
	assert.InDelta(t, 1.0/3.0, all[1].WinRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, all[1].Top3Rate, 1e-9)

	assert.Equal(t, "Charlie", all[2].Player)
	assert.Equal(t, -300.0, all[2].NetProfit)
	assert.Equal(t, 0.0, all[2].WinRate)
}
