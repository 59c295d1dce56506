package app

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times the processed transactions. A nil *Metrics
// records nothing.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	height   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "msig",
			Name:      "tx_total",
			Help:      "Processed transactions by phase, message path and result code.",
		}, []string{"phase", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "msig",
			Name:      "tx_duration_seconds",
			Help:      "Time spent processing a single transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"phase"}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "msig",
			Name:      "committed_height",
			Help:      "Height of the last committed block.",
		}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration, m.height} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeTx(phase, path string, code uint32, start time.Time) {
	if m == nil {
		return
	}
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeCommit(height int64) {
	if m == nil {
		return
	}
	m.height.Set(float64(height))
}
