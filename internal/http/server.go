package http

import (
	"net/http"

	"github.com/mauv0809/poker-night/internal/auth"
	"github.com/mauv0809/poker-night/internal/config"
	"github.com/mauv0809/poker-night/internal/game"
	"github.com/mauv0809/poker-night/internal/metrics"
	"github.com/mauv0809/poker-night/internal/notifier"
	"github.com/mauv0809/poker-night/internal/pubsub"
	"github.com/mauv0809/poker-night/internal/stats"
)

func NewServer(allocator *game.Allocator, gameStore game.GameStore, statsStore stats.StatsStore, authStore auth.AuthStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Allocator:      allocator,
		GameStore:      gameStore,
		Stats:          statsStore,
		Auth:           authStore,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		PubSub:         pubsub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Admin routes additionally require a valid bearer token.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/generate", Chain(s.GenerateSeatingHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/active-game", Chain(s.ActiveGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/results", Chain(s.RecordResultsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/stats", Chain(s.StatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/history", Chain(s.HistoryHandler(), paramsMiddleware))

	s.Router.Handle("POST /api/admin/setup", Chain(s.AdminSetupHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/admin/login", Chain(s.AdminLoginHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/admin/logout", Chain(s.AdminLogoutHandler(), paramsMiddleware, s.adminOnly))
	s.Router.Handle("POST /api/admin/recompute", Chain(s.AdminRecomputeHandler(), paramsMiddleware, s.adminOnly))
	s.Router.Handle("DELETE /api/admin/game/{id}", Chain(s.AdminDeleteGameHandler(), paramsMiddleware, s.adminOnly))
	s.Router.Handle("PATCH /api/admin/game/{id}", Chain(s.AdminPatchGameHandler(), paramsMiddleware, s.adminOnly))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
