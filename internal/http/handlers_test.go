package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/poker-night/internal/auth"
	"github.com/mauv0809/poker-night/internal/config"
	"github.com/mauv0809/poker-night/internal/database"
	"github.com/mauv0809/poker-night/internal/game"
	server "github.com/mauv0809/poker-night/internal/http"
	"github.com/mauv0809/poker-night/internal/metrics"
	"github.com/mauv0809/poker-night/internal/notifier"
	"github.com/mauv0809/poker-night/internal/pubsub"
	"github.com/mauv0809/poker-night/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *server.Server
	notifier *notifier.Mock
	pubsub   *pubsub.Mock
}

func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)

	gameStore := game.New(db)
	statsStore := stats.New(db)
	allocator := game.NewAllocator(gameStore, statsStore, metricsSvc)

	cfg := config.Config{
		HistoryLimit: 50,
		PubSubTopic:  "poker-events",
	}
	notifierMock := notifier.NewMock()
	pubsubMock := pubsub.NewMock("TEST")

	srv := server.NewServer(allocator, gameStore, statsStore, auth.New(db), metricsSvc, metricsHandler, cfg, notifierMock, pubsubMock)
	return &testEnv{server: srv, notifier: notifierMock, pubsub: pubsubMock}, teardown
}

func doJSON(t *testing.T, srv *server.Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func generateGame(t *testing.T, env *testEnv, players []string, buyIn float64) int64 {
	t.Helper()

	rec := doJSON(t, env.server, http.MethodPost, "/api/generate", map[string]any{
		"players": players,
		"buyIn":   buyIn,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Seating []string `json:"seating"`
		GameID  int64    `json:"gameId"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.ElementsMatch(t, players, resp.Seating)
	return resp.GameID
}

func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()

	rec := doJSON(t, env.server, http.MethodPost, "/api/admin/setup", map[string]string{"password": "hunter2"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, env.server, http.MethodPost, "/api/admin/login", map[string]string{"password": "hunter2"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthCheckHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestGenerateSeatingHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	gameID := generateGame(t, env, []string{"Alice", "Bob", "Charlie"}, 50)
	assert.Positive(t, gameID)

	require.Len(t, env.notifier.SendSeatingNotificationCalls, 1)
	assert.Equal(t, gameID, env.notifier.SendSeatingNotificationCalls[0].ID)

	require.Len(t, env.pubsub.SendMessageCalls, 1)
	assert.Equal(t, "poker-events", env.pubsub.SendMessageCalls[0].Topic)
	event, ok := env.pubsub.SendMessageCalls[0].Data.(pubsub.GameEvent)
	require.True(t, ok)
	assert.Equal(t, pubsub.EventGameCreated, event.Type)
	assert.Equal(t, gameID, event.GameID)
}

func TestGenerateSeatingHandler_Conflict(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	generateGame(t, env, []string{"Alice", "Bob"}, 0)

	rec := doJSON(t, env.server, http.MethodPost, "/api/generate", map[string]any{
		"players": []string{"Charlie", "Dana"},
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateSeatingHandler_InvalidRoster(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodPost, "/api/generate", map[string]any{
		"players": []string{"Alice"},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.notifier.SendSeatingNotificationCalls)
	assert.Empty(t, env.pubsub.SendMessageCalls)
}

func TestActiveGameHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodGet, "/api/active-game", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	gameID := generateGame(t, env, []string{"Alice", "Bob"}, 25)

	rec = doJSON(t, env.server, http.MethodGet, "/api/active-game", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID      int64    `json:"id"`
		Seating []string `json:"seating"`
		BuyIn   float64  `json:"buyIn"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, gameID, resp.ID)
	assert.Len(t, resp.Seating, 2)
	assert.Equal(t, 25.0, resp.BuyIn)
}

func TestRecordResultsHandler_FullFlow(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	gameID := generateGame(t, env, []string{"Alice", "Bob", "Charlie"}, 50)

	rec := doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": gameID,
		"first":  "Bob",
		"second": "Alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, env.notifier.SendResultNotificationCalls, 1)
	call := env.notifier.SendResultNotificationCalls[0]
	assert.Equal(t, "Bob", call.Game.First)
	assert.Equal(t, 150.0, call.Payouts.First)

	// Settling also posts the refreshed standings.
	require.Len(t, env.notifier.SendLeaderboardCalls, 1)
	standings := env.notifier.SendLeaderboardCalls[0]
	require.Len(t, standings, 3)
	assert.Equal(t, "Bob", standings[0].Player)

	rec = doJSON(t, env.server, http.MethodGet, "/api/active-game", nil, "")
	assert.JSONEq(t, "null", rec.Body.String(), "settling frees the active slot")

	rec = doJSON(t, env.server, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all []stats.PlayerStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	require.Len(t, all, 3)
	assert.Equal(t, "Bob", all[0].Player, "the winner leads the leaderboard")
	assert.Equal(t, 100.0, all[0].NetProfit)
	assert.Equal(t, 1, all[0].Wins)
}

func TestRecordResultsHandler_Validation(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": 42,
		"first":  "Alice",
	}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	gameID := generateGame(t, env, []string{"Alice", "Bob"}, 0)

	rec = doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": gameID,
		"first":  "Mallory",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.notifier.SendResultNotificationCalls)
}

func TestHistoryHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	firstID := generateGame(t, env, []string{"Alice", "Bob"}, 10)
	rec := doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": firstID,
		"first":  "Alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	secondID := generateGame(t, env, []string{"Alice", "Bob"}, 20)

	rec = doJSON(t, env.server, http.MethodGet, "/api/history", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []struct {
		ID      int64   `json:"id"`
		BuyIn   float64 `json:"buyIn"`
		First   string  `json:"first"`
		Payouts struct {
			First    float64 `json:"first"`
			TotalPot float64 `json:"total_pot"`
		} `json:"payouts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, secondID, entries[0].ID, "newest game first")
	assert.Equal(t, firstID, entries[1].ID)
	assert.Equal(t, "Alice", entries[1].First)
	assert.Equal(t, 20.0, entries[1].Payouts.First)
	assert.Equal(t, 20.0, entries[1].Payouts.TotalPot)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodPost, "/api/admin/recompute", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, env.server, http.MethodDelete, "/api/admin/game/1", nil, "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSetupHandler_OnlyOnce(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodPost, "/api/admin/setup", map[string]string{"password": "hunter2"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodPost, "/api/admin/setup", map[string]string{"password": "other"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, env.server, http.MethodPost, "/api/admin/setup", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminLoginHandler_WrongPassword(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	rec := doJSON(t, env.server, http.MethodPost, "/api/admin/setup", map[string]string{"password": "hunter2"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodPost, "/api/admin/login", map[string]string{"password": "letmein"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogoutHandler_RevokesToken(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	token := adminToken(t, env)

	rec := doJSON(t, env.server, http.MethodPost, "/api/admin/logout", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodPost, "/api/admin/recompute", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminDeleteGameHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	token := adminToken(t, env)

	gameID := generateGame(t, env, []string{"Alice", "Bob"}, 50)
	rec := doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": gameID,
		"first":  "Alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodDelete, fmt.Sprintf("/api/admin/game/%d", gameID), nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String(), "deleting the only game wipes the leaderboard")

	rec = doJSON(t, env.server, http.MethodDelete, fmt.Sprintf("/api/admin/game/%d", gameID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.server, http.MethodDelete, "/api/admin/game/not-a-number", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminPatchGameHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	token := adminToken(t, env)

	gameID := generateGame(t, env, []string{"Alice", "Bob"}, 50)
	rec := doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": gameID,
		"first":  "Alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodPatch, fmt.Sprintf("/api/admin/game/%d", gameID), map[string]any{
		"first": "Bob",
	}, token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, env.server, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []stats.PlayerStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	require.Len(t, all, 2)
	assert.Equal(t, "Bob", all[0].Player)
	assert.Equal(t, 1, all[0].Wins)
	assert.Equal(t, 50.0, all[0].NetProfit)

	rec = doJSON(t, env.server, http.MethodPatch, fmt.Sprintf("/api/admin/game/%d", gameID), map[string]any{
		"first": "Mallory",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRecomputeHandler(t *testing.T) {
	env, teardown := setupTestServer(t)
	defer teardown()

	token := adminToken(t, env)

	gameID := generateGame(t, env, []string{"Alice", "Bob"}, 50)
	rec := doJSON(t, env.server, http.MethodPost, "/api/results", map[string]any{
		"gameId": gameID,
		"first":  "Alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server, http.MethodPost, "/api/admin/recompute", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The rebuilt aggregates match what the incremental path produced.
	rec = doJSON(t, env.server, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []stats.PlayerStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Player)
	assert.Equal(t, 50.0, all[0].NetProfit)
}
