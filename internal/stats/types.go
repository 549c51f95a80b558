package stats

import (
	"database/sql"
	"sync"
)

// store handles all database operations for derived player statistics.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerStats is one derived aggregate per distinct player ever seated.
// Rows are owned entirely by this package: created and overwritten from the
// game history, never hand-edited.
type PlayerStats struct {
	Player        string  `json:"player"`
	GamesPlayed   int     `json:"gamesPlayed"`
	Wins          int     `json:"wins"`
	Top3Count     int     `json:"top3"`
	TotalBuyIns   float64 `json:"buyins"`
	TotalWinnings float64 `json:"winnings"`
	NetProfit     float64 `json:"netProfit"`
	WinRate       float64 `json:"winRate"`
	Top3Rate      float64 `json:"top3Rate"`
}
