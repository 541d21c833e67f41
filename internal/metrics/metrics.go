// Package metrics exposes Prometheus collectors for page traffic, typewriter
// playbacks and contact form submissions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bsquared"

// Playback outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	pageViews       *prometheus.CounterVec
	playbacks       *prometheus.CounterVec
	playbacksActive *prometheus.GaugeVec
	contacts        *prometheus.CounterVec
}

// New registers all collectors plus the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Pages served, by route.",
		}, []string{"route"}),
		playbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "typewriter",
			Name:      "playbacks_total",
			Help:      "Finished typewriter playbacks, by script, transport and outcome.",
		}, []string{"script", "transport", "outcome"}),
		playbacksActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "typewriter",
			Name:      "playbacks_active",
			Help:      "Typewriter playbacks currently streaming.",
		}, []string{"script"}),
		contacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.pageViews, m.playbacks, m.playbacksActive, m.contacts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) PageView(route string) {
	if m == nil {
		return
	}
	m.pageViews.WithLabelValues(route).Inc()
}

// PlaybackStarted marks a playback active and returns the func that records
// its outcome.
func (m *Metrics) PlaybackStarted(script, transport string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	m.playbacksActive.WithLabelValues(script).Inc()
	return func(outcome string) {
		m.playbacksActive.WithLabelValues(script).Dec()
		m.playbacks.WithLabelValues(script, transport, outcome).Inc()
	}
}

func (m *Metrics) ContactSubmitted(result string) {
	if m == nil {
		return
	}
	m.contacts.WithLabelValues(result).Inc()
}
