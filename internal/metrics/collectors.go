package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors groups the Prometheus series exported by the dashboard.
type Collectors struct {
	fetches   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inFlight  prometheus.Gauge
	discarded prometheus.Counter
	loading   prometheus.Gauge
}

// NewCollectors registers the dashboard series on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		fetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dash_fetch_total",
				Help: "Dashboard data fetches by source and outcome",
			},
			[]string{"source", "outcome"}, // outcome: success, transport, http_status, parse, application
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dash_fetch_duration_seconds",
				Help:    "Time until a dashboard fetch settles",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		inFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "dash_fetch_in_flight",
				Help: "Fetches started and not yet settled",
			},
		),
		discarded: f.NewCounter(
			prometheus.CounterOpts{
				Name: "dash_stale_settlements_discarded_total",
				Help: "Settlements dropped because a newer refresh was already applied",
			},
		),
		loading: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "dash_view_loading",
				Help: "1 while the view state is loading",
			},
		),
	}
}

func (c *Collectors) FetchStarted() { c.inFlight.Inc() }

func (c *Collectors) FetchSettled(source, outcome string, d time.Duration) {
	c.inFlight.Dec()
	c.fetches.WithLabelValues(source, outcome).Inc()
	c.duration.WithLabelValues(source).Observe(d.Seconds())
}

func (c *Collectors) StaleDiscarded() { c.discarded.Inc() }

func (c *Collectors) Loading(on bool) {
	if on {
		c.loading.Set(1)
		return
	}
	c.loading.Set(0)
}
