// Package monitoring exposes Prometheus metrics for session and registry
// activity. The exporter endpoint is optional and wired up in cmd.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionsSpawned prometheus.Counter
	SessionsExited  prometheus.Counter

	// Registry metrics
	RegistryRecords prometheus.Gauge
	DeadCleaned     prometheus.Counter

	// Adoption metrics
	AdoptionScans prometheus.Counter
	OrphansFound  prometheus.Gauge

	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector registered on the default
// registerer.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "termdeck_sessions_active",
			Help: "Number of currently attached PTY sessions",
		}),
		SessionsSpawned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termdeck_sessions_spawned_total",
			Help: "Total number of sessions spawned",
		}),
		SessionsExited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termdeck_sessions_exited_total",
			Help: "Total number of sessions that reached a terminal state",
		}),

		RegistryRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "termdeck_registry_records",
			Help: "Number of records in the process registry",
		}),
		DeadCleaned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termdeck_registry_dead_cleaned_total",
			Help: "Total number of dead process records removed",
		}),

		AdoptionScans: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termdeck_adoption_scans_total",
			Help: "Total number of session-state directory scans",
		}),
		OrphansFound: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "termdeck_adoption_orphans",
			Help: "Orphan sessions found in the most recent scan",
		}),

		Uptime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "termdeck_uptime_seconds",
			Help: "Process uptime in seconds",
		}),
	}
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
