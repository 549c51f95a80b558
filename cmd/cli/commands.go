package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	generatePlayers []string
	generateBuyIn   float64
	resultsGameID   int64
	resultsFirst    string
	resultsSecond   string
	resultsThird    string
	loginPassword   string
)

func init() {
	generateCmd.Flags().StringSliceVar(&generatePlayers, "players", nil, "Comma-separated list of players")
	generateCmd.Flags().Float64Var(&generateBuyIn, "buyin", 0, "Buy-in per player")
	resultsCmd.Flags().Int64Var(&resultsGameID, "game", 0, "Game id")
	resultsCmd.Flags().StringVar(&resultsFirst, "first", "", "Winner")
	resultsCmd.Flags().StringVar(&resultsSecond, "second", "", "Second place")
	resultsCmd.Flags().StringVar(&resultsThird, "third", "", "Third place")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Admin password")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(activeCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a fresh seating for the given players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/generate", map[string]any{
			"players": generatePlayers,
			"buyIn":   generateBuyIn,
		})
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the game currently in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/active-game")
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Record the results of the active game",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/results", map[string]any{
			"gameId": resultsGameID,
			"first":  resultsFirst,
			"second": resultsSecond,
			"third":  resultsThird,
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the player leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the most recent games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/history")
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as admin and print a bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/admin/login", map[string]any{
			"password": loginPassword,
		})
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Trigger a full statistics recomputation (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/admin/recompute", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, url, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
