package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/metric"
)

type testWork struct {
	id      int
	fail    bool
	release chan struct{}
}

func process(_ context.Context, w testWork) error {
	if w.release != nil {
		<-w.release
	}
	if w.fail {
		return fmt.Errorf("work %d failed", w.id)
	}
	return nil
}

func TestNewPool(t *testing.T) {
	pool, err := NewPool(5, 100, process)
	require.NoError(t, err)
	assert.Equal(t, 5, pool.workers)
	assert.Equal(t, 100, pool.queueSize)

	pool, err = NewPool(0, -1, process)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, pool.workers)
	assert.Equal(t, DefaultQueueSize, pool.queueSize)

	_, err = NewPool[testWork](1, 1, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilProcessor))
	assert.True(t, errors.IsInvalid(err))
}

func TestPoolProcessesAllQueuedWork(t *testing.T) {
	var processed atomic.Int64
	pool, err := NewPool(3, 50, func(_ context.Context, _ testWork) error {
		processed.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	for i := 0; i < 50; i++ {
		require.NoError(t, pool.Submit(testWork{id: i}))
	}
	require.NoError(t, pool.Stop(5*time.Second), "Stop drains the queue")

	assert.Equal(t, int64(50), processed.Load())
	stats := pool.Stats()
	assert.Equal(t, int64(50), stats.Submitted)
	assert.Equal(t, int64(50), stats.Processed)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Active)
}

func TestPoolLifecycleErrors(t *testing.T) {
	pool, err := NewPool(1, 4, process)
	require.NoError(t, err)

	err = pool.Submit(testWork{})
	assert.True(t, errors.Is(err, ErrPoolNotStarted))

	require.NoError(t, pool.Start(context.Background()))
	err = pool.Start(context.Background())
	assert.True(t, errors.Is(err, ErrPoolAlreadyStarted))
	assert.True(t, errors.IsInvalid(err))

	require.NoError(t, pool.Stop(time.Second))
	require.NoError(t, pool.Stop(time.Second), "second Stop is a no-op")

	err = pool.Submit(testWork{})
	assert.True(t, errors.Is(err, ErrPoolStopped))
}

func TestPoolQueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	pool, err := NewPool(1, 1, func(_ context.Context, w testWork) error {
		once.Do(func() { close(started) })
		<-w.release
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	require.NoError(t, pool.Submit(testWork{id: 1, release: release}))
	<-started
	require.NoError(t, pool.Submit(testWork{id: 2, release: release}))

	err = pool.Submit(testWork{id: 3, release: release})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.True(t, errors.IsTransient(err))
	assert.Equal(t, int64(1), pool.Stats().Dropped)

	close(release)
	require.NoError(t, pool.Stop(5*time.Second))
	assert.Equal(t, int64(2), pool.Stats().Processed)
}

func TestPoolCountsFailures(t *testing.T) {
	pool, err := NewPool(2, 10, process)
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))

	for i := 0; i < 10; i++ {
		require.NoError(t, pool.Submit(testWork{id: i, fail: i%2 == 0}))
	}
	require.NoError(t, pool.Stop(5*time.Second))

	stats := pool.Stats()
	assert.Equal(t, int64(10), stats.Processed)
	assert.Equal(t, int64(5), stats.Failed)
}

func TestPoolStopTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	pool, err := NewPool(1, 1, process)
	require.NoError(t, err)
	require.NoError(t, pool.Start(context.Background()))
	require.NoError(t, pool.Submit(testWork{release: release}))

	err = pool.Stop(20 * time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStopTimeout))
}

func TestPoolContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool, err := NewPool(2, 10, func(ctx context.Context, _ testWork) error {
		return ctx.Err()
	})
	require.NoError(t, err)
	require.NoError(t, pool.Start(ctx))

	cancel()
	require.NoError(t, pool.Stop(5*time.Second), "workers exit on cancellation")
}

func TestPoolMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	pool, err := NewPool(2, 10, process, WithMetricsRegistry[testWork](registry, "jobs"))
	require.NoError(t, err)
	require.NotNil(t, pool.metrics)
	require.NoError(t, pool.Start(context.Background()))

	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(testWork{id: i, fail: i == 0}))
	}
	require.NoError(t, pool.Stop(5*time.Second))

	assert.Equal(t, 4.0, testutil.ToFloat64(pool.metrics.submitted))
	assert.Equal(t, 4.0, testutil.ToFloat64(pool.metrics.processed))
	assert.Equal(t, 1.0, testutil.ToFloat64(pool.metrics.failed))
	assert.Equal(t, 0.0, testutil.ToFloat64(pool.metrics.active))

	_, err = NewPool(1, 1, process, WithMetricsRegistry[testWork](registry, "jobs"))
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))

	pool, err = NewPool(1, 1, process, WithMetricsRegistry[testWork](nil, "jobs"))
	require.NoError(t, err)
	assert.Nil(t, pool.metrics)
}
