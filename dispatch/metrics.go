package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes run outcomes to Prometheus. All collectors are registered
// on the registry passed to NewMetrics, so hosts control the scrape surface.
type Metrics struct {
	runsTotal         *prometheus.CounterVec
	assignedTotal     prometheus.Counter
	unassignedTotal   prometheus.Counter
	weightedTardiness prometheus.Gauge
	totalTardiness    prometheus.Gauge
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "runs_total",
			Help:      "Distribution runs by outcome.",
		}, []string{"outcome"}),
		assignedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "assigned_studies_total",
			Help:      "Studies assigned across all runs.",
		}),
		unassignedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "unassigned_studies_total",
			Help:      "Studies left unassigned across all runs.",
		}),
		weightedTardiness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dispatch",
			Name:      "last_run_weighted_tardiness_hours",
			Help:      "Total weighted tardiness (objective Z) of the last run.",
		}),
		totalTardiness: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dispatch",
			Name:      "last_run_tardiness_hours",
			Help:      "Total tardiness of the last run.",
		}),
	}
	reg.MustRegister(m.runsTotal, m.assignedTotal, m.unassignedTotal, m.weightedTardiness, m.totalTardiness)
	return m
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(env *ResultEnvelope) {
	outcome := "ok"
	if env.Degraded {
		outcome = "degraded"
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.assignedTotal.Add(float64(env.Assigned))
	m.unassignedTotal.Add(float64(env.Unassigned))
	m.weightedTardiness.Set(env.TotalWeightedTardiness)
	m.totalTardiness.Set(env.TotalTardiness)
}
