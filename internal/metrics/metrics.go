package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "league"

// Persistence targets
const (
	TargetStore  = "store"
	TargetRemote = "remote"
)

// Metrics holds the collectors for playoff activity on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	PlayoffsStarted  prometheus.Counter
	ResultsSubmitted *prometheus.CounterVec
	ResultsRejected  *prometheus.CounterVec
	Champions        prometheus.Counter
	SeasonsArchived  prometheus.Counter
	PersistFailures  *prometheus.CounterVec
	BracketTeams     prometheus.Gauge
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PlayoffsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playoffs_started_total",
			Help:      "Brackets seeded.",
		}),
		ResultsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_submitted_total",
			Help:      "Accepted playoff results by match type.",
		}, []string{"match_type"}),
		ResultsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_rejected_total",
			Help:      "Rejected playoff submissions by reason.",
		}, []string{"reason"}),
		Champions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "champions_crowned_total",
			Help:      "Finals decided.",
		}),
		SeasonsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seasons_archived_total",
			Help:      "Seasons archived and reset.",
		}),
		PersistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Best-effort writes that failed, by target.",
		}, []string{"target"}),
		BracketTeams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bracket_teams",
			Help:      "Teams seeded into the current bracket.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		m.PlayoffsStarted,
		m.ResultsSubmitted,
		m.ResultsRejected,
		m.Champions,
		m.SeasonsArchived,
		m.PersistFailures,
		m.BracketTeams,
	)
	return m
}
