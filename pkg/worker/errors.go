package worker

import "errors"

// Pool methods return these wrapped with a classification; match with errors.Is.
var (
	// ErrPoolNotStarted is returned by Submit before Start.
	ErrPoolNotStarted = errors.New("worker pool not started")

	// ErrPoolStopped is returned by Submit after Stop.
	ErrPoolStopped = errors.New("worker pool stopped")

	// ErrPoolAlreadyStarted is returned by a second Start.
	ErrPoolAlreadyStarted = errors.New("worker pool already started")

	// ErrQueueFull is returned by Submit when every queue slot is taken.
	ErrQueueFull = errors.New("worker pool queue full")

	// ErrNilProcessor is returned by NewPool without a processor.
	ErrNilProcessor = errors.New("processor function cannot be nil")

	// ErrStopTimeout is returned by Stop when workers outlive the timeout.
	ErrStopTimeout = errors.New("timeout waiting for workers to stop")
)
