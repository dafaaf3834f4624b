package buffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/circular-buffer/metric"
)

// Operation label values for the operations counter.
const (
	opPush     = "push"
	opPop      = "pop"
	opInsert   = "insert"
	opErase    = "erase"
	opGrowth   = "growth"
	opRollback = "rollback"
	opSwap     = "swap"
)

// Registry keys, one per collector.
var metricKeys = []string{"buffer_operations", "buffer_size", "buffer_capacity", "buffer_utilization"}

// bufferMetrics holds Prometheus metrics for buffer operations.
type bufferMetrics struct {
	registry *metric.MetricsRegistry
	prefix   string

	operations *prometheus.CounterVec

	size        prometheus.Gauge
	capacity    prometheus.Gauge
	utilization prometheus.Gauge
}

// newBufferMetrics creates and registers buffer metrics with the provided registry.
func newBufferMetrics(registry *metric.MetricsRegistry, prefix string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		registry: registry,
		prefix:   prefix,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "circbuf",
			Subsystem:   "buffer",
			Name:        "operations_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of buffer operations by kind",
		}, []string{"op"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "circbuf",
			Subsystem:   "buffer",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of elements in buffer",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "circbuf",
			Subsystem:   "buffer",
			Name:        "capacity",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of allocated slots",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "circbuf",
			Subsystem:   "buffer",
			Name:        "utilization",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Buffer utilization as a fraction of capacity (0.0 to 1.0)",
		}),
	}

	if err := registry.RegisterCounterVec(prefix, metricKeys[0], m.operations); err != nil {
		return nil, err
	}
	for i, g := range []prometheus.Gauge{m.size, m.capacity, m.utilization} {
		if err := registry.RegisterGauge(prefix, metricKeys[i+1], g); err != nil {
			m.unregister(metricKeys[:i+1])
			return nil, err
		}
	}

	return m, nil
}

// unregister removes the collectors registered under keys.
func (m *bufferMetrics) unregister(keys []string) {
	for _, key := range keys {
		m.registry.Unregister(m.prefix, key)
	}
}

func (m *bufferMetrics) record(op string) {
	m.operations.WithLabelValues(op).Inc()
}

// updateSize sets the current buffer size, capacity and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.capacity.Set(float64(capacity))
	if capacity > 0 {
		m.utilization.Set(float64(size) / float64(capacity))
	} else {
		m.utilization.Set(0)
	}
}
