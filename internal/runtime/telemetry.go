// Package runtime holds process-level plumbing shared by the HTTP server
// and the CLI.
package runtime

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Question outcomes recorded on the questions counter.
const (
	OutcomeAnswered  = "answered"
	OutcomeNoContext = "no_context"
	OutcomeRejected  = "rejected"
	OutcomeTimeout   = "timeout"
	OutcomeError     = "error"
)

// Telemetry aggregates service metrics behind a private registry so tests
// and embedded instances never collide on the global one.
type Telemetry struct {
	registry *prometheus.Registry

	questions      *prometheus.CounterVec
	searches       prometheus.Counter
	answerDuration prometheus.Histogram
	episodes       prometheus.Gauge
	segments       prometheus.Gauge
}

// NewTelemetry builds the metric set and registers it together with the
// standard Go and process collectors.
func NewTelemetry() *Telemetry {
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "podbotnik_questions_total",
			Help: "Questions handled, partitioned by outcome.",
		}, []string{"outcome"}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "podbotnik_searches_total",
			Help: "Raw transcript searches served.",
		}),
		answerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "podbotnik_answer_duration_seconds",
			Help:    "Latency of question answering, retrieval plus generation.",
			Buckets: prometheus.DefBuckets,
		}),
		episodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "podbotnik_episodes_loaded",
			Help: "Episodes in the active transcript snapshot.",
		}),
		segments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "podbotnik_segments_indexed",
			Help: "Transcript segments in the active search index.",
		}),
	}
	t.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		t.questions,
		t.searches,
		t.answerDuration,
		t.episodes,
		t.segments,
	)
	return t
}

// ObserveQuestion records one handled question and its latency.
func (t *Telemetry) ObserveQuestion(outcome string, elapsed time.Duration) {
	if t == nil {
		return
	}
	t.questions.WithLabelValues(outcome).Inc()
	t.answerDuration.Observe(elapsed.Seconds())
}

// ObserveSearch records one raw search request.
func (t *Telemetry) ObserveSearch() {
	if t == nil {
		return
	}
	t.searches.Inc()
}

// SetCorpusSize records the size of the active transcript snapshot.
func (t *Telemetry) SetCorpusSize(episodes, segments int) {
	if t == nil {
		return
	}
	t.episodes.Set(float64(episodes))
	t.segments.Set(float64(segments))
}

// Handler serves the registry in Prometheus exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
