// Package metrics exposes Prometheus collectors for the sentiment pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Decision outcomes for the cache check.
const (
	DecisionReuse        = "reuse"
	DecisionScore        = "score"
	DecisionInsufficient = "insufficient_data"
)

// Scorer call outcomes.
const (
	ScorerSuccess     = "success"
	ScorerDegraded    = "degraded"
	ScorerUnavailable = "unavailable"
)

// SentimentMetrics counts cache decisions and scorer calls.
type SentimentMetrics struct {
	decisions     *prometheus.CounterVec
	scorerCalls   *prometheus.CounterVec
	scorerLatency prometheus.Histogram
	chatTurns     *prometheus.CounterVec
}

// NewSentimentMetrics registers collectors with reg, or the default registerer when nil.
func NewSentimentMetrics(reg prometheus.Registerer) *SentimentMetrics {
	m := &SentimentMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "manamitra",
			Subsystem: "sentiment",
			Name:      "cache_decisions_total",
			Help:      "Sentiment evaluations by cache decision",
		}, []string{"decision"}),
		scorerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "manamitra",
			Subsystem: "sentiment",
			Name:      "scorer_calls_total",
			Help:      "External scorer invocations by outcome",
		}, []string{"outcome"}),
		scorerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "manamitra",
			Subsystem: "sentiment",
			Name:      "scorer_latency_seconds",
			Help:      "Latency of external scorer invocations",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		chatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "manamitra",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Stored chat turns by classified intent",
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.decisions, m.scorerCalls, m.scorerLatency, m.chatTurns)
	return m
}

func (m *SentimentMetrics) ObserveDecision(decision string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(decision).Inc()
}

func (m *SentimentMetrics) ObserveScorer(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.scorerCalls.WithLabelValues(outcome).Inc()
	m.scorerLatency.Observe(seconds)
}

func (m *SentimentMetrics) ObserveTurn(intent string) {
	if m == nil {
		return
	}
	m.chatTurns.WithLabelValues(intent).Inc()
}
