package codex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the collectors of one Registry. A nil *metrics records nothing.
type metrics struct {
	resolutions *prometheus.CounterVec
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "codex_resolve_total", Help: "adapter resolutions by result"},
			[]string{"result"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "codex_codec_operations_total", Help: "codec operations by operation and status"},
			[]string{"op", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "codex_codec_duration_seconds",
				Help:    "codec operation duration.",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.resolutions, m.operations, m.duration)
	return m
}

func (m *metrics) resolved(result string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(result).Inc()
}

func (m *metrics) observe(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.operations.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}
