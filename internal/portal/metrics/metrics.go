// Package metrics exposes portal counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
)

// Metrics implements service.Observer on top of a Prometheus registry.
type Metrics struct {
	reg *prometheus.Registry

	authAttempts    *prometheus.CounterVec
	statusFetches   *prometheus.CounterVec
	proofs          *prometheus.CounterVec
	views           *prometheus.CounterVec
	returnRedirects prometheus.Counter
}

// New registers the portal collectors, plus Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_auth_attempts_total",
			Help: "Login and registration attempts by outcome.",
		}, []string{"kind", "success"}),
		statusFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_status_fetches_total",
			Help: "Subscription status fetches against the API by outcome.",
		}, []string{"success"}),
		proofs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_proof_submissions_total",
			Help: "Proof submissions by outcome (sent, failed, invalid).",
		}, []string{"outcome"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_dashboard_views_total",
			Help: "Computed dashboard views by kind.",
		}, []string{"kind"}),
		returnRedirects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_return_redirects_total",
			Help: "Visitors sent back to their originating application.",
		}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.authAttempts,
		m.statusFetches,
		m.proofs,
		m.views,
		m.returnRedirects,
	)
	return m
}

// Registry returns the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) AuthAttempt(kind string, ok bool) {
	m.authAttempts.WithLabelValues(kind, strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) StatusFetched(ok bool) {
	m.statusFetches.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) ProofSubmitted(outcome string) {
	m.proofs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ViewComputed(kind domain.ViewKind) {
	m.views.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) ReturnRedirect() {
	m.returnRedirects.Inc()
}
