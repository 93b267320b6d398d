package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
)

// Metrics holds the auth counters. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	loginTotal     *prometheus.CounterVec
	registerTotal  *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
}

// New registers the counters plus Go and process collectors on a fresh
// registry served by Handler.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := NewMetricsWithRegisterer(namespace, reg)
	m.registry = reg
	return m
}

func NewMetricsWithRegisterer(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "rbac"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		loginTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "login_total",
				Help:      "Login attempts by result",
			},
			[]string{"result"},
		),
		registerTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "register_total",
				Help:      "Registration attempts by result",
			},
			[]string{"result"},
		),
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "authz",
				Name:      "decisions_total",
				Help:      "Authorization gate decisions",
			},
			[]string{"decision"},
		),
	}

	registerer.MustRegister(m.loginTotal, m.registerTotal, m.decisionsTotal)
	return m
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRegister(result string) {
	if m == nil {
		return
	}
	m.registerTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveDecision(decision string) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(decision).Inc()
}

// Handler serves the registry built by New, or the default gatherer.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
