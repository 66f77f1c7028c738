package harness

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports run results as Prometheus metrics, labelled by strategy.
type Metrics struct {
	buildSeconds *prometheus.GaugeVec
	nsPerLookup  *prometheus.GaugeVec
	lookups      *prometheus.CounterVec
	misses       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		buildSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecidx_build_seconds",
			Help: "Wall time of the last Build per strategy",
		}, []string{"strategy"}),
		nsPerLookup: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vecidx_lookup_nanoseconds",
			Help: "Mean wall time per lookup across all readers",
		}, []string{"strategy"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecidx_lookups_total",
			Help: "Lookups performed",
		}, []string{"strategy"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecidx_misses_total",
			Help: "Lookups in one pass that reported NotFound",
		}, []string{"strategy"}),
	}
	reg.MustRegister(m.buildSeconds, m.nsPerLookup, m.lookups, m.misses)
	return m
}

func (m *Metrics) observe(r Result) {
	m.buildSeconds.WithLabelValues(r.Name).Set(r.Build.Seconds())
	m.nsPerLookup.WithLabelValues(r.Name).Set(r.NsPerLookup())
	m.lookups.WithLabelValues(r.Name).Add(float64(r.Lookups))
	m.misses.WithLabelValues(r.Name).Add(float64(r.Misses))
}
