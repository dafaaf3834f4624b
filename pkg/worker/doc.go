// Package worker provides a generic worker pool for running independent
// tasks concurrently.
//
// # Overview
//
// A Pool owns a fixed number of goroutines that take work items of type T from
// a bounded channel and pass them to a processor function. The ringbench
// command uses it to run several seeded buffer verification runs at once.
//
//	pool, err := worker.NewPool[Job](4, 16, func(ctx context.Context, job Job) error {
//	    return job.Run(ctx)
//	})
//	if err != nil {
//	    return err
//	}
//	_ = pool.Start(ctx)
//	for _, job := range jobs {
//	    if err := pool.Submit(job); err != nil {
//	        return err
//	    }
//	}
//	err = pool.Stop(time.Minute) // waits for queued jobs
//
// # Submission
//
// Submit never blocks. When the queue is full the item is dropped, counted and
// ErrQueueFull is returned (classified transient). Size the queue for the
// number of items you intend to submit if none may be dropped.
//
// # Shutdown
//
// Stop closes the queue and waits for workers to drain it, up to the given
// timeout. Cancelling the context passed to Start instead makes idle workers
// exit immediately, leaving queued items unprocessed.
//
// # Observability
//
// Statistics are always kept with atomic counters and returned by Stats.
// WithMetricsRegistry additionally exports them as Prometheus metrics in the
// circbuf_pool_* family, labelled by component.
//
// # Errors
//
// Sentinel errors are returned wrapped by the errors package:
//   - ErrPoolNotStarted, ErrPoolStopped, ErrPoolAlreadyStarted: invalid
//   - ErrQueueFull, ErrStopTimeout: transient
//   - ErrNilProcessor: invalid, from NewPool
package worker
