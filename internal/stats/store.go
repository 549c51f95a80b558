package stats

import (
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/poker-night/internal/game"
)

var _ game.StatsApplier = (StatsStore)(nil)

// New creates a new StatsStore.
func New(db *sql.DB) StatsStore {
	return &store{
		db: db,
	}
}

// ApplyGameCreated credits every seated player with one game played and their
// buy-in contribution. Rows are zero-initialized on a player's first
// appearance. Net profit is always written as winnings minus buy-ins so the
// incremental and recompute paths produce identical values.
func (s *store) ApplyGameCreated(seating game.Seating, buyIn float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO player_stats (player, games_played, total_buy_ins, net_profit)
		VALUES (?, 1, ?, -?)
		ON CONFLICT(player) DO UPDATE SET
			games_played = games_played + 1,
			total_buy_ins = total_buy_ins + excluded.total_buy_ins,
			net_profit = total_winnings - (total_buy_ins + excluded.total_buy_ins);
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, player := range seating {
		if _, err := stmt.Exec(player, buyIn, buyIn); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// ApplyResultsRecorded credits the winner with a win and a top-3 placement,
// the runners-up with top-3 placements, and applies the payout shares to
// winnings. Invoked exactly once per result-recording transition; double
// invocation is a caller error and is not guarded here.
func (s *store) ApplyResultsRecorded(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	payouts := game.ComputePayouts(len(g.Seating), g.BuyIn)
	placements := []struct {
		player  string
		win     int
		payout  float64
		present bool
	}{
		{g.First, 1, payouts.First, g.First != ""},
		{g.Second, 0, payouts.Second, g.Second != ""},
		{g.Third, 0, payouts.Third, g.Third != ""},
	}

	stmt, err := tx.Prepare(`
		UPDATE player_stats SET
			wins = wins + ?,
			top3_count = top3_count + 1,
			total_winnings = total_winnings + ?,
			net_profit = (total_winnings + ?) - total_buy_ins
		WHERE player = ?;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range placements {
		if !p.present {
			continue
		}
		if _, err := stmt.Exec(p.win, p.payout, p.payout, p.player); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// RecomputeAll is the authoritative path: it clears every row and replays the
// entire game history from scratch inside one transaction. It is idempotent,
// and for the same history it lands on the same aggregates as the incremental
// path applied in chronological order.
func (s *store) RecomputeAll(history []*game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	aggregates := make(map[string]*PlayerStats)
	ensure := func(player string) *PlayerStats {
		if ps, ok := aggregates[player]; ok {
			return ps
		}
		ps := &PlayerStats{Player: player}
		aggregates[player] = ps
		return ps
	}

	for _, g := range history {
		for _, player := range g.Seating {
			ps := ensure(player)
			ps.GamesPlayed++
			ps.TotalBuyIns += g.BuyIn
		}
		if g.First == "" {
			continue
		}
		if ps, ok := aggregates[g.First]; ok {
			ps.Wins++
			ps.Top3Count++
		}
		for _, runnerUp := range []string{g.Second, g.Third} {
			if runnerUp == "" {
				continue
			}
			if ps, ok := aggregates[runnerUp]; ok {
				ps.Top3Count++
			}
		}
		if g.BuyIn > 0 {
			payouts := game.ComputePayouts(len(g.Seating), g.BuyIn)
			creditWinnings(aggregates, g.First, payouts.First)
			creditWinnings(aggregates, g.Second, payouts.Second)
			creditWinnings(aggregates, g.Third, payouts.Third)
		}
	}
	for _, ps := range aggregates {
		ps.NetProfit = ps.TotalWinnings - ps.TotalBuyIns
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM player_stats"); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO player_stats (player, games_played, wins, top3_count, total_buy_ins, total_winnings, net_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, ps := range aggregates {
		if _, err := stmt.Exec(ps.Player, ps.GamesPlayed, ps.Wins, ps.Top3Count, ps.TotalBuyIns, ps.TotalWinnings, ps.NetProfit); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Rebuilt player statistics from history", "games", len(history), "players", len(aggregates))
	return nil
}

// creditWinnings skips placement players that never appeared in a seating.
// Defensive only, placements are validated against the seating on write.
func creditWinnings(aggregates map[string]*PlayerStats, player string, amount float64) {
	if player == "" {
		return
	}
	ps, ok := aggregates[player]
	if !ok {
		return
	}
	ps.TotalWinnings += amount
}

// GetAll returns every player's aggregates sorted for the leaderboard:
// net profit, then wins, then games played, all descending.
func (s *store) GetAll() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT player, games_played, wins, top3_count, total_buy_ins, total_winnings, net_profit
		FROM player_stats
		ORDER BY net_profit DESC, wins DESC, games_played DESC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []PlayerStats
	for rows.Next() {
		var ps PlayerStats
		err := rows.Scan(&ps.Player, &ps.GamesPlayed, &ps.Wins, &ps.Top3Count, &ps.TotalBuyIns, &ps.TotalWinnings, &ps.NetProfit)
		if err != nil {
			return nil, err
		}
		if ps.GamesPlayed > 0 {
			ps.WinRate = float64(ps.Wins) / float64(ps.GamesPlayed)
			ps.Top3Rate = float64(ps.Top3Count) / float64(ps.GamesPlayed)
		}
		all = append(all, ps)
	}
	return all, rows.Err()
}
