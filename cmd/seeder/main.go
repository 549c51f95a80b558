package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/poker-night/internal/database"
	"github.com/mauv0809/poker-night/internal/game"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], "", "", "./migrations")
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	roster := []string{
		"Seeder Player A", "Seeder Player B", "Seeder Player C",
		"Seeder Player D", "Seeder Player E", "Seeder Player F",
	}

	const numGames = 10000
	log.Info("Preparing to insert settled games...", "total", numGames)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO games (created_at, seating_json, fingerprint, buy_in, first_place, second_place, third_place)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		log.Fatalf("Failed to prepare statement: %s", err)
	}
	defer stmt.Close()

	inserted := 0
	createdAt := time.Now().Add(-numGames * time.Hour).Unix()
	for i := 0; i < numGames; i++ {
		seating := game.Shuffle(roster)
		seatingJSON, err := json.Marshal(seating)
		if err != nil {
			log.Fatalf("Failed to marshal seating: %s", err)
		}
		// Placements drawn from the seating itself so the history is valid.
		buyIn := float64(50 + 50*rand.IntN(4))
		res, err := stmt.Exec(createdAt+int64(i)*3600, string(seatingJSON), game.Fingerprint(seating), buyIn, seating[0], seating[1], seating[2])
		if err != nil {
			log.Fatalf("Failed to insert game %d: %s", i, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	log.Info("Seeding complete", "inserted", inserted, "skipped_collisions", numGames-inserted, "duration", time.Since(startTime))
	fmt.Println("Run the admin recompute endpoint to rebuild player statistics.")
}
