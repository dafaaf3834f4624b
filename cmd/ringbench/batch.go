package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360/circular-buffer/errors"
	"github.com/c360/circular-buffer/metric"
	"github.com/c360/circular-buffer/pkg/worker"
)

// BatchReport collects the reports of a multi-run batch in seed order.
type BatchReport struct {
	Runs   []Report         `json:"runs"`
	Failed int              `json:"failed"`
	Pool   worker.PoolStats `json:"pool"`
}

type batchJob struct {
	index    int
	workload Workload
}

// runBatch runs the workload once per seed base.Seed, base.Seed+1, ... on a
// worker pool. Every run gets its own buffer, run ID and metrics label; the
// buffer metrics are unregistered when the run ends, the pool metrics stay.
func runBatch(
	ctx context.Context,
	base Workload,
	runs, parallel int,
	timeout time.Duration,
	logger *slog.Logger,
	registry *metric.MetricsRegistry,
) (BatchReport, error) {
	reports := make([]Report, runs)
	var (
		mu       sync.Mutex
		failures []error
	)

	processor := func(ctx context.Context, job batchJob) error {
		runID := uuid.NewString()
		runner, err := NewRunner(runID, job.workload,
			logger.With("run_id", runID, "run", job.index), registry)
		var report Report
		if err == nil {
			report, err = runner.Run(ctx)
			runner.Close()
		}

		mu.Lock()
		defer mu.Unlock()
		reports[job.index] = report
		if err != nil {
			err = fmt.Errorf("run %d (seed %d): %w", job.index, job.workload.Seed, err)
			failures = append(failures, err)
		}
		return err
	}

	pool, err := worker.NewPool(parallel, runs, processor,
		worker.WithMetricsRegistry[batchJob](registry, appName))
	if err != nil {
		return BatchReport{}, errors.Wrap(err, "ringbench", "runBatch", "create pool")
	}
	if err := pool.Start(ctx); err != nil {
		return BatchReport{}, errors.Wrap(err, "ringbench", "runBatch", "start pool")
	}

	for i := 0; i < runs; i++ {
		w := base
		w.Seed = base.Seed + int64(i)
		if err := pool.Submit(batchJob{index: i, workload: w}); err != nil {
			_ = pool.Stop(timeout)
			return BatchReport{}, errors.Wrap(err, "ringbench", "runBatch", fmt.Sprintf("submit run %d", i))
		}
	}

	stopErr := pool.Stop(timeout)

	mu.Lock()
	defer mu.Unlock()
	batch := BatchReport{Runs: reports, Failed: len(failures), Pool: pool.Stats()}
	logger.Info("Batch finished",
		"runs", runs,
		"failed", batch.Failed,
		"processed", batch.Pool.Processed)

	if stopErr != nil {
		return batch, errors.Wrap(stopErr, "ringbench", "runBatch", "wait for runs")
	}
	return batch, errors.Join(failures...)
}
