// Package metrics exposes Prometheus collectors for pricing resolution,
// cache refreshes and installment distribution.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config labels every series with the service and environment.
type Config struct {
	ServiceName string
	Environment string
}

// Collectors implements pricing.Recorder and installments.Recorder.
type Collectors struct {
	resolutions   *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	distributions *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New(cfg Config) *Collectors {
	return NewWithRegistry(prometheus.NewRegistry(), cfg)
}

// NewWithRegistry registers the collectors on registry.
func NewWithRegistry(registry *prometheus.Registry, cfg Config) *Collectors {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "billboard-engine"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	c := &Collectors{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "billboard_price_resolutions_total",
			Help:        "Price lookups by kind and the tier that answered them.",
			ConstLabels: constLabels,
		}, []string{"kind", "tier"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "billboard_pricing_cache_refreshes_total",
			Help:        "Pricing cache reloads by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		distributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "billboard_installment_distributions_total",
			Help:        "Installment distributions by strategy and outcome.",
			ConstLabels: constLabels,
		}, []string{"strategy", "outcome"}),
		gatherer: registry,
	}
	registry.MustRegister(c.resolutions, c.refreshes, c.distributions)
	return c
}

// ObserveResolution counts one price lookup.
func (c *Collectors) ObserveResolution(kind, tier string) {
	c.resolutions.WithLabelValues(kind, tier).Inc()
}

// ObserveRefresh counts one cache reload. A reload with any failed table
// counts as partial.
func (c *Collectors) ObserveRefresh(ok bool) {
	c.refreshes.WithLabelValues(outcome(ok, "partial")).Inc()
}

// ObserveDistribution counts one schedule distribution attempt.
func (c *Collectors) ObserveDistribution(strategy string, ok bool) {
	c.distributions.WithLabelValues(strategy, outcome(ok, "rejected")).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func outcome(ok bool, failure string) string {
	if ok {
		return "ok"
	}
	return failure
}
