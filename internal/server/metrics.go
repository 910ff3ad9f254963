package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "dcftracker"

// Metrics records tracker events on a private registry. It implements
// tracker.Observer.
type Metrics struct {
	registry          *prometheus.Registry
	activitiesLogged  prometheus.Counter
	emissionKg        prometheus.Counter
	operationDuration *prometheus.HistogramVec
	rankedUsers       prometheus.Gauge
	lastActivity      prometheus.Gauge
}

// NewMetrics builds and registers every collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activitiesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "activity",
			Name:      "logged_total",
			Help:      "Number of activity submissions stored.",
		}),
		emissionKg: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "activity",
			Name:      "emission_kg_total",
			Help:      "Sum of kg CO2 attributed to stored submissions.",
		}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "operation_duration_seconds",
			Help:      "Latency of tracker operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		rankedUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "leaderboard",
			Name:      "ranked_users",
			Help:      "Number of users in the most recent leaderboard refresh.",
		}),
		lastActivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "activity",
			Name:      "last_logged_timestamp_seconds",
			Help:      "Unix timestamp of the most recent stored submission.",
		}),
	}

	m.registry.MustRegister(
		m.activitiesLogged,
		m.emissionKg,
		m.operationDuration,
		m.rankedUsers,
		m.lastActivity,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ActivityLogged counts one stored submission.
func (m *Metrics) ActivityLogged(_ string, kg float64) {
	m.activitiesLogged.Inc()
	if kg > 0 {
		m.emissionKg.Add(kg)
	}
	m.lastActivity.Set(float64(time.Now().Unix()))
}

// OperationCompleted observes one operation's latency.
func (m *Metrics) OperationCompleted(op string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.operationDuration.WithLabelValues(op, outcome).Observe(d.Seconds())
}

// LeaderboardRefreshed records the ranked population size.
func (m *Metrics) LeaderboardRefreshed(users int) {
	m.rankedUsers.Set(float64(users))
}
