package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/watercap/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "watercap"

// Metrics holds the solver collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	MovesApplied  *prometheus.CounterVec
	Backtracks    prometheus.Counter
	Solves        *prometheus.CounterVec
	SolveDuration *prometheus.HistogramVec
	SolveSteps    prometheus.Histogram
	CacheLookups  *prometheus.CounterVec
}

// NewMetrics creates and registers every collector on a fresh registry.
// Go runtime and process collectors are included so /metrics is useful on its own.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MovesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moves_applied_total",
				Help:      "Total number of moves applied during search, by kind",
			},
			[]string{"kind"},
		),
		Backtracks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backtracks_total",
				Help:      "Total number of moves undone during search",
			},
		),
		Solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Total number of finished searches, by outcome",
			},
			[]string{"outcome"},
		),
		SolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Duration of searches",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"outcome"},
		),
		SolveSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solution_steps",
				Help:      "Number of moves in found solutions",
				Buckets:   prometheus.LinearBuckets(0, 2, 10),
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of solution cache lookups, by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.MovesApplied,
		m.Backtracks,
		m.Solves,
		m.SolveDuration,
		m.SolveSteps,
		m.CacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns search hooks that feed the collectors.
func (m *Metrics) Hooks() domain.SearchHooks {
	return domain.SearchHooks{
		OnMoveApplied: func(_ context.Context, ev *domain.MoveEvent) {
			m.MovesApplied.WithLabelValues(string(ev.Move.Kind)).Inc()
		},
		OnBacktrack: func(_ context.Context, _ *domain.MoveEvent) {
			m.Backtracks.Inc()
		},
		OnSolveEnd: func(_ context.Context, ev *domain.SolveEvent) {
			outcome := string(ev.Outcome)
			m.Solves.WithLabelValues(outcome).Inc()
			m.SolveDuration.WithLabelValues(outcome).Observe(ev.Stats.Duration.Seconds())
			if ev.Outcome == domain.OutcomeSolved {
				m.SolveSteps.Observe(float64(ev.Steps))
			}
		},
	}
}

// ObserveCache records the result ("hit" or "miss") of a cache lookup.
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Chain combines several hook sets; each callback runs in order.
func Chain(hooks ...domain.SearchHooks) domain.SearchHooks {
	var out domain.SearchHooks
	for _, h := range hooks {
		h := h
		if h.OnMoveApplied != nil {
			prev := out.OnMoveApplied
			out.OnMoveApplied = func(ctx context.Context, ev *domain.MoveEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnMoveApplied(ctx, ev)
			}
		}
		if h.OnBacktrack != nil {
			prev := out.OnBacktrack
			out.OnBacktrack = func(ctx context.Context, ev *domain.MoveEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnBacktrack(ctx, ev)
			}
		}
		if h.OnSolveEnd != nil {
			prev := out.OnSolveEnd
			out.OnSolveEnd = func(ctx context.Context, ev *domain.SolveEvent) {
				if prev != nil {
					prev(ctx, ev)
				}
				h.OnSolveEnd(ctx, ev)
			}
		}
	}
	return out
}
