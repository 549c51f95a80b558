package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SeatingsGenerated  prometheus.Counter
	SeatingAttempts    prometheus.Histogram
	ResultsRecorded    prometheus.Counter
	RecomputeRuns      prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
