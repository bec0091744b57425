package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	ResultHit    = "hit"
	ResultMiss   = "miss"

	FallbackPeople = "people"
	FallbackEvents = "events"

	// KindContacts labels vCard downloads next to the encyclopedia feed kinds.
	KindContacts = "contacts"

	// RouteUnmatched labels requests that hit no route, keeping label cardinality bounded.
	RouteUnmatched = "unmatched"
)

// Metrics groups the collectors of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	UpstreamFetches *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	Fallbacks       *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "birthday_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		UpstreamFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_upstream_fetches_total",
			Help: "Encyclopedia feed and vCard downloads by kind and outcome",
		}, []string{"kind", "outcome"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "birthday_upstream_fetch_duration_seconds",
			Help:    "Encyclopedia feed and vCard download latency by kind",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_feed_cache_lookups_total",
			Help: "Feed cache lookups by result",
		}, []string{"result"}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "birthday_onthisday_fallbacks_total",
			Help: "Responses served from the built-in lists by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveRequest(route string, code int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveUpstream(kind string, err error, start time.Time) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.UpstreamFetches.WithLabelValues(kind, outcome).Inc()
	m.UpstreamLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncFallback(kind string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(kind).Inc()
}
