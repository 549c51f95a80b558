package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/poker-night/internal/auth"
	"github.com/mauv0809/poker-night/internal/game"
	"github.com/mauv0809/poker-night/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

type generateRequest struct {
	Players []string `json:"players"`
	BuyIn   float64  `json:"buyIn"`
}

type generateResponse struct {
	Seating game.Seating `json:"seating"`
	GameID  int64        `json:"gameId"`
}

func (s *Server) GenerateSeatingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		g, err := s.Allocator.GenerateSeating(req.Players, req.BuyIn)
		if err != nil {
			writeGameError(w, err)
			return
		}

		dryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendSeatingNotification(g, dryRun); err != nil {
			log.Error("Failed to send seating notification", "error", err, "gameID", g.ID)
		}
		s.publishEvent(pubsub.GameEvent{
			Type:    pubsub.EventGameCreated,
			GameID:  g.ID,
			Seating: g.Seating,
			BuyIn:   g.BuyIn,
		})

		writeJSON(w, generateResponse{Seating: g.Seating, GameID: g.ID})
	}
}

type activeGameResponse struct {
	ID      int64        `json:"id"`
	Seating game.Seating `json:"seating"`
	BuyIn   float64      `json:"buyIn"`
}

func (s *Server) ActiveGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.Allocator.GetActiveGame()
		if err != nil {
			log.Error("Failed to get active game", "error", err)
			http.Error(w, "Failed to get active game", http.StatusInternalServerError)
			return
		}
		if g == nil {
			writeJSON(w, nil)
			return
		}
		writeJSON(w, activeGameResponse{ID: g.ID, Seating: g.Seating, BuyIn: g.BuyIn})
	}
}

type resultsRequest struct {
	GameID int64  `json:"gameId"`
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

func (s *Server) RecordResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resultsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := s.Allocator.RecordResults(req.GameID, req.First, req.Second, req.Third); err != nil {
			writeGameError(w, err)
			return
		}

		g, err := s.GameStore.GetByID(req.GameID)
		if err == nil && g != nil {
			dryRun := isDryRunFromContext(r)
			payouts := game.ComputePayouts(len(g.Seating), g.BuyIn)
			if err := s.Notifier.SendResultNotification(g, payouts, dryRun); err != nil {
				log.Error("Failed to send result notification", "error", err, "gameID", g.ID)
			}
			s.publishEvent(pubsub.GameEvent{
				Type:   pubsub.EventGameSettled,
				GameID: g.ID,
				BuyIn:  g.BuyIn,
				First:  g.First,
				Second: g.Second,
				Third:  g.Third,
			})

			// Follow the result announcement with the updated standings.
			if all, err := s.Stats.GetAll(); err != nil {
				log.Error("Failed to get player stats for leaderboard", "error", err)
			} else if err := s.Notifier.SendLeaderboard(all, dryRun); err != nil {
				log.Error("Failed to send leaderboard", "error", err)
			}
		}

		writeJSON(w, map[string]bool{"success": true})
	}
}

func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.Stats.GetAll()
		if err != nil {
			log.Error("Failed to get player stats", "error", err)
			http.Error(w, "Failed to get player stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, all)
	}
}

type historyEntry struct {
	ID        int64        `json:"id"`
	CreatedAt int64        `json:"created_at"`
	Seating   game.Seating `json:"seating"`
	BuyIn     float64      `json:"buyIn"`
	First     string       `json:"first,omitempty"`
	Second    string       `json:"second,omitempty"`
	Third     string       `json:"third,omitempty"`
	Payouts   game.Payouts `json:"payouts"`
}

func (s *Server) HistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := s.GameStore.GetRecent(s.Cfg.HistoryLimit)
		if err != nil {
			log.Error("Failed to get game history", "error", err)
			http.Error(w, "Failed to get game history", http.StatusInternalServerError)
			return
		}

		entries := make([]historyEntry, 0, len(games))
		for _, g := range games {
			entries = append(entries, historyEntry{
				ID:        g.ID,
				CreatedAt: g.CreatedAt,
				Seating:   g.Seating,
				BuyIn:     g.BuyIn,
				First:     g.First,
				Second:    g.Second,
				Third:     g.Third,
				Payouts:   game.ComputePayouts(len(g.Seating), g.BuyIn),
			})
		}
		writeJSON(w, entries)
	}
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (s *Server) AdminSetupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
			http.Error(w, "Password is required", http.StatusBadRequest)
			return
		}
		if err := s.Auth.Setup(req.Password); err != nil {
			if errors.Is(err, auth.ErrAlreadyConfigured) {
				http.Error(w, "Admin password already configured", http.StatusConflict)
				return
			}
			log.Error("Failed to set up admin password", "error", err)
			http.Error(w, "Failed to set up admin password", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"success": true})
	}
}

func (s *Server) AdminLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		token, err := s.Auth.Login(req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrNotConfigured) {
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
			log.Error("Failed to log in", "error", err)
			http.Error(w, "Failed to log in", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"token": token})
	}
}

func (s *Server) AdminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Auth.Revoke(bearerToken(r)); err != nil {
			log.Error("Failed to revoke session", "error", err)
			http.Error(w, "Failed to revoke session", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]bool{"success": true})
	}
}

func (s *Server) AdminRecomputeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Allocator.Recompute(); err != nil {
			log.Error("Failed to recompute statistics", "error", err)
			http.Error(w, "Failed to recompute statistics", http.StatusInternalServerError)
			return
		}
		s.publishEvent(pubsub.GameEvent{Type: pubsub.EventStatsRecomputed})
		writeJSON(w, map[string]bool{"success": true})
	}
}

func (s *Server) AdminDeleteGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid game id", http.StatusBadRequest)
			return
		}
		if err := s.Allocator.DeleteGame(id); err != nil {
			writeGameError(w, err)
			return
		}
		s.publishEvent(pubsub.GameEvent{Type: pubsub.EventStatsRecomputed, GameID: id})
		writeJSON(w, map[string]bool{"success": true})
	}
}

func (s *Server) AdminPatchGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid game id", http.StatusBadRequest)
			return
		}
		var patch game.GamePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.Allocator.UpdateGame(id, patch); err != nil {
			writeGameError(w, err)
			return
		}
		s.publishEvent(pubsub.GameEvent{Type: pubsub.EventStatsRecomputed, GameID: id})
		writeJSON(w, map[string]bool{"success": true})
	}
}

// publishEvent forwards an event to the configured topic. Publishing is best
// effort; a failure never fails the request.
func (s *Server) publishEvent(event pubsub.GameEvent) {
	if s.Cfg.PubSubTopic == "" {
		return
	}
	if err := s.PubSub.SendMessage(s.Cfg.PubSubTopic, event); err != nil {
		log.Error("Failed to publish event", "error", err, "type", event.Type)
	}
}

// writeGameError maps the error taxonomy onto HTTP status codes.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidInput), errors.Is(err, game.ErrInvalidPlacement):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrConflictActiveGame), errors.Is(err, game.ErrExhaustedAttempts):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, game.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, game.ErrStatsUpdateFailed):
		log.Error("Statistics out of sync, run a recompute", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		log.Error("Unexpected error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}
