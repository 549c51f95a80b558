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

type Server struct {
	Allocator      *game.Allocator
	GameStore      game.GameStore
	Stats          stats.StatsStore
	Auth           auth.AuthStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}
