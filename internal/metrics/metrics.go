// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// ResultLabel is the label describing the outcome of an operation.
	ResultLabel = "result"

	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultNotFound = "not_found"
)

// Metrics contains the Prometheus collectors for application events.
type Metrics struct {
	URLsShortened *prometheus.CounterVec
	Redirects     *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	Registrations *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		URLsShortened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "urls_shortened_total",
			Help: "The number of shortened URLs, by owner kind",
		}, []string{"owner"}),
		Redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "The number of short code lookups",
		}, []string{ResultLabel}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logins_total",
			Help: "The number of login attempts",
		}, []string{ResultLabel}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "The number of registration attempts",
		}, []string{ResultLabel}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_cache_hit_count",
			Help: "The number of short code cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_cache_miss_count",
			Help: "The number of short code cache misses",
		}),
	}

	reg.MustRegister(
		m.URLsShortened,
		m.Redirects,
		m.Logins,
		m.Registrations,
		m.CacheHits,
		m.CacheMisses,
	)

	return m
}
