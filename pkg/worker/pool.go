package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/metric"
)

const (
	// DefaultWorkers is used when NewPool is given a non-positive worker count.
	DefaultWorkers = 4

	// DefaultQueueSize is used when NewPool is given a non-positive queue size.
	DefaultQueueSize = 64
)

// Pool runs a fixed number of goroutines that process work items of type T
// from a bounded queue.
type Pool[T any] struct {
	workers   int
	queueSize int
	processor func(context.Context, T) error

	workChan chan T
	metrics  *poolMetrics
	wg       sync.WaitGroup

	lifecycleMu sync.Mutex
	started     bool
	stopped     bool

	submitted atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
	active    atomic.Int64

	metricsRegistry *metric.MetricsRegistry
	metricsPrefix   string
}

// poolMetrics holds Prometheus metrics for a pool.
type poolMetrics struct {
	queueDepth     prometheus.Gauge
	active         prometheus.Gauge
	submitted      prometheus.Counter
	processed      prometheus.Counter
	failed         prometheus.Counter
	dropped        prometheus.Counter
	processingTime prometheus.Histogram
}

// Option configures a pool.
type Option[T any] func(*Pool[T])

// WithMetricsRegistry exports pool statistics through registry, labelled with prefix.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetricsRegistry[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(p *Pool[T]) {
		if registry != nil && prefix != "" {
			p.metricsRegistry = registry
			p.metricsPrefix = prefix
		}
	}
}

// NewPool creates a pool. Non-positive workers or queueSize fall back to
// DefaultWorkers and DefaultQueueSize.
func NewPool[T any](workers, queueSize int, processor func(context.Context, T) error, opts ...Option[T]) (*Pool[T], error) {
	if processor == nil {
		return nil, errors.WrapInvalid(ErrNilProcessor, "Pool", "NewPool", "validate processor")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	pool := &Pool[T]{
		workers:   workers,
		queueSize: queueSize,
		processor: processor,
		workChan:  make(chan T, queueSize),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(pool)
		}
	}

	if pool.metricsRegistry != nil {
		m, err := newPoolMetrics(pool.metricsRegistry, pool.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "Pool", "NewPool", "metrics registration")
		}
		pool.metrics = m
	}

	return pool, nil
}

func newPoolMetrics(registry *metric.MetricsRegistry, prefix string) (*poolMetrics, error) {
	labels := prometheus.Labels{"component": prefix}
	m := &poolMetrics{
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "queue_depth",
			ConstLabels: labels, Help: "Work items waiting in the queue",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "active_workers",
			ConstLabels: labels, Help: "Workers currently processing an item",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "submitted_total",
			ConstLabels: labels, Help: "Total work items submitted",
		}),
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "processed_total",
			ConstLabels: labels, Help: "Total work items processed",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "failed_total",
			ConstLabels: labels, Help: "Total work items whose processor returned an error",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "dropped_total",
			ConstLabels: labels, Help: "Total work items rejected because the queue was full",
		}),
		processingTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "circbuf", Subsystem: "pool", Name: "processing_duration_seconds",
			ConstLabels: labels, Help: "Time spent processing work items",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		}),
	}

	gauges := map[string]prometheus.Gauge{
		"pool_queue_depth":    m.queueDepth,
		"pool_active_workers": m.active,
	}
	for name, g := range gauges {
		if err := registry.RegisterGauge(prefix, name, g); err != nil {
			return nil, err
		}
	}
	counters := map[string]prometheus.Counter{
		"pool_submitted": m.submitted,
		"pool_processed": m.processed,
		"pool_failed":    m.failed,
		"pool_dropped":   m.dropped,
	}
	for name, c := range counters {
		if err := registry.RegisterCounter(prefix, name, c); err != nil {
			return nil, err
		}
	}
	if err := registry.RegisterHistogram(prefix, "pool_processing_duration", m.processingTime); err != nil {
		return nil, err
	}
	return m, nil
}

// Submit queues work without blocking. It returns ErrQueueFull when the
// queue has no room.
func (p *Pool[T]) Submit(work T) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if !p.started {
		return errors.WrapInvalid(ErrPoolNotStarted, "Pool", "Submit", "check state")
	}
	if p.stopped {
		return errors.WrapInvalid(ErrPoolStopped, "Pool", "Submit", "check state")
	}

	select {
	case p.workChan <- work:
		p.submitted.Add(1)
		if p.metrics != nil {
			p.metrics.submitted.Inc()
			p.metrics.queueDepth.Set(float64(len(p.workChan)))
		}
		return nil
	default:
		p.dropped.Add(1)
		if p.metrics != nil {
			p.metrics.dropped.Inc()
		}
		return errors.WrapTransient(ErrQueueFull, "Pool", "Submit", "enqueue")
	}
}

// Start launches the workers. ctx is passed to every processor call;
// cancelling it makes idle workers exit without draining the queue.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if p.started {
		return errors.WrapInvalid(ErrPoolAlreadyStarted, "Pool", "Start", "check state")
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}

	p.started = true
	return nil
}

// Stop closes the queue and waits up to timeout for the workers to finish
// the items already queued.
func (p *Pool[T]) Stop(timeout time.Duration) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()

	if !p.started || p.stopped {
		return nil
	}

	close(p.workChan)
	p.stopped = true

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return errors.WrapTransient(ErrStopTimeout, "Pool", "Stop", "wait for workers")
	}
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Workers:    p.workers,
		QueueSize:  p.queueSize,
		QueueDepth: len(p.workChan),
		Active:     p.active.Load(),
		Submitted:  p.submitted.Load(),
		Processed:  p.processed.Load(),
		Failed:     p.failed.Load(),
		Dropped:    p.dropped.Load(),
	}
}

// PoolStats is a snapshot of pool statistics.
type PoolStats struct {
	Workers    int   `json:"workers"`
	QueueSize  int   `json:"queue_size"`
	QueueDepth int   `json:"queue_depth"`
	Active     int64 `json:"active"`
	Submitted  int64 `json:"submitted"`
	Processed  int64 `json:"processed"`
	Failed     int64 `json:"failed"`
	Dropped    int64 `json:"dropped"`
}

func (p *Pool[T]) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case work, ok := <-p.workChan:
			if !ok {
				return
			}
			p.process(ctx, work)
		}
	}
}

func (p *Pool[T]) process(ctx context.Context, work T) {
	p.active.Add(1)
	if p.metrics != nil {
		p.metrics.active.Inc()
		p.metrics.queueDepth.Set(float64(len(p.workChan)))
	}

	start := time.Now()
	err := p.processor(ctx, work)
	duration := time.Since(start)

	p.active.Add(-1)
	p.processed.Add(1)
	if err != nil {
		p.failed.Add(1)
	}

	if p.metrics != nil {
		p.metrics.active.Dec()
		p.metrics.processed.Inc()
		if err != nil {
			p.metrics.failed.Inc()
		}
		p.metrics.processingTime.Observe(duration.Seconds())
	}
}
