package game

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new GameStore backed by the given database.
func New(db *sql.DB) GameStore {
	return &store{
		db: db,
	}
}

func (s *store) Insert(g *Game) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seatingJSON, err := json.Marshal(g.Seating)
	if err != nil {
		return 0, err
	}

	res, err := s.db.Exec(`
		INSERT INTO games (created_at, seating_json, fingerprint, buy_in, first_place, second_place, third_place)
		VALUES (?, ?, ?, ?, NULL, NULL, NULL)
	`, g.CreatedAt, string(seatingJSON), g.Fingerprint, g.BuyIn)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Info("Inserted new game", "gameID", id, "players", len(g.Seating), "buyIn", g.BuyIn)
	return id, nil
}

func (s *store) GetByID(id int64) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, created_at, seating_json, fingerprint, buy_in, first_place, second_place, third_place
		FROM games WHERE id = ?
	`, id)
	g, err := s.scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (s *store) GetActive() (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, created_at, seating_json, fingerprint, buy_in, first_place, second_place, third_place
		FROM games WHERE first_place IS NULL LIMIT 1
	`)
	g, err := s.scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (s *store) FingerprintExists(fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM games WHERE fingerprint = ?)", fingerprint).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *store) SetPlacements(id int64, first, second, third string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE games SET first_place = ?, second_place = ?, third_place = ? WHERE id = ?
	`, nullable(first), nullable(second), nullable(third), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("set placements: %w", ErrNotFound)
	}
	log.Info("Recorded placements", "gameID", id, "first", first, "second", second, "third", third)
	return nil
}

// UpdateGame persists the mutable fields of an existing game. Seating and
// fingerprint are immutable and never written here.
func (s *store) UpdateGame(g *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE games SET buy_in = ?, first_place = ?, second_place = ?, third_place = ? WHERE id = ?
	`, g.BuyIn, nullable(g.First), nullable(g.Second), nullable(g.Third), g.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("update game: %w", ErrNotFound)
	}
	return nil
}

func (s *store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("delete game: %w", ErrNotFound)
	}
	log.Info("Deleted game", "gameID", id)
	return nil
}

func (s *store) GetRecent(limit int) ([]*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, created_at, seating_json, fingerprint, buy_in, first_place, second_place, third_place
		FROM games ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectGames(rows)
}

func (s *store) GetAllChronological() ([]*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, created_at, seating_json, fingerprint, buy_in, first_place, second_place, third_place
		FROM games ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectGames(rows)
}

// collectGames fails on the first unreadable row. The result feeds the
// statistics recompute, so a dropped row would corrupt the derived aggregates.
func (s *store) collectGames(rows *sql.Rows) ([]*Game, error) {
	var games []*Game
	for rows.Next() {
		g, err := s.scanGame(rows)
		if err != nil {
			log.Error("Failed to scan game row", "error", err)
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// scanGame is a helper function to scan a single game row.
func (s *store) scanGame(scanner interface{ Scan(...any) error }) (*Game, error) {
	var g Game
	var seatingJSON string
	var first, second, third sql.NullString

	err := scanner.Scan(&g.ID, &g.CreatedAt, &seatingJSON, &g.Fingerprint, &g.BuyIn, &first, &second, &third)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(seatingJSON), &g.Seating); err != nil {
		log.Error("Failed to unmarshal seating_json", "error", err, "gameID", g.ID)
		return nil, err
	}
	g.First = first.String
	g.Second = second.String
	g.Third = third.String
	return &g, nil
}

// nullable maps an empty placement to NULL so the active-game predicate
// (first_place IS NULL) holds in SQL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
