package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes
const (
	OutcomeOK        = "ok"
	OutcomeNoMatches = "no_matches"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Poster lookup outcomes
const (
	PosterFound       = "found"
	PosterMissing     = "missing"
	PosterCached      = "cached"
	PosterError       = "error"
	PosterBreakerOpen = "breaker_open"
	PosterThrottled   = "throttled"
)

// Metrics holds the Prometheus collectors for the recommendation path.
// A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	results       *prometheus.HistogramVec
	fallbacks     prometheus.Counter
	posterLookups *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cinematch_recommendation_requests_total",
			Help: "Recommendation requests by industry and outcome",
		}, []string{"industry", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cinematch_recommendation_duration_seconds",
			Help:    "Time spent producing recommendations, excluding poster lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"industry"}),
		results: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cinematch_recommendation_results",
			Help:    "Number of results returned per request",
			Buckets: []float64{0, 1, 2, 5, 10},
		}, []string{"industry"}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "cinematch_collaborative_fallbacks_total",
			Help: "Collaborative requests where the genre filter left nothing and the unrestricted pass ran",
		}),
		posterLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cinematch_poster_lookups_total",
			Help: "Poster lookups by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveRequest(industry, outcome string, results int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(industry, outcome).Inc()
	m.latency.WithLabelValues(industry).Observe(elapsed.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeNoMatches {
		m.results.WithLabelValues(industry).Observe(float64(results))
	}
}

func (m *Metrics) Fallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

func (m *Metrics) PosterLookup(outcome string) {
	if m == nil {
		return
	}
	m.posterLookups.WithLabelValues(outcome).Inc()
}
