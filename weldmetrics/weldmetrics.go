// Package weldmetrics exports injector lifecycle activity as prometheus
// metrics through weld's observer hooks.
package weldmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weldlabs/weld"
)

// Collector holds the metric families for one injector.
type Collector struct {
	injections  *prometheus.CounterVec
	connects    *prometheus.CounterVec
	disconnects *prometheus.CounterVec
	pings       *prometheus.HistogramVec
}

// NewCollector builds and registers the metric families on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		injections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weld_injections_total",
			Help: "Dependencies resolved by the injector.",
		}, []string{"dependency", "result"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weld_connects_total",
			Help: "Dependency connect attempts.",
		}, []string{"dependency", "result"}),
		disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weld_disconnects_total",
			Help: "Dependency disconnect attempts.",
		}, []string{"dependency", "result"}),
		pings: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weld_ping_duration_seconds",
			Help:    "Dependency ping latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"dependency", "result"}),
	}
	reg.MustRegister(c.injections, c.connects, c.disconnects, c.pings)
	return c
}

// Options returns the injector options wiring this collector's hooks.
// Pass them to weld.New alongside the rest of the configuration:
//
//	c := weldmetrics.NewCollector(prometheus.DefaultRegisterer)
//	in := weld.New(c.Options()...)
func (c *Collector) Options() []weld.Option {
	return []weld.Option{
		weld.WithInjectObserver(func(dependency string, _ time.Duration, err error) {
			c.injections.WithLabelValues(dependency, result(err)).Inc()
		}),
		weld.WithConnectObserver(func(dependency string, _ time.Duration, err error) {
			c.connects.WithLabelValues(dependency, result(err)).Inc()
		}),
		weld.WithDisconnectObserver(func(dependency string, _ time.Duration, err error) {
			c.disconnects.WithLabelValues(dependency, result(err)).Inc()
		}),
		weld.WithPingObserver(func(dependency string, duration time.Duration, err error) {
			c.pings.WithLabelValues(dependency, result(err)).Observe(duration.Seconds())
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
