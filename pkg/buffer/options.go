package buffer

import (
	"log/slog"

	"github.com/c360/circular-buffer/metric"
)

// CopyFunc produces an independent copy of an element. It runs whenever an
// element enters a buffer: on push, on insert, during growth and when cloning.
// A returned error aborts the operation and leaves the buffer unchanged.
type CopyFunc[T any] func(item T) (T, error)

// ReleaseFunc is called once for every element copy that leaves a buffer:
// pops, erase, Clear, the old block after growth, and copies discarded
// during a rollback.
type ReleaseFunc[T any] func(item T)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Stats are always collected and are not an option.
type bufferOptions[T any] struct {
	copier      CopyFunc[T]
	releaser    ReleaseFunc[T]
	maxCapacity int
	logger      *slog.Logger

	// metricsReg is optional - if provided, buffer stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string
}

// WithCopier sets the function used to copy elements into the buffer.
// Without it elements are copied by assignment, which never fails.
func WithCopier[T any](copier CopyFunc[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.copier = copier
	}
}

// WithReleaser sets a callback invoked for each element copy the buffer destroys.
func WithReleaser[T any](releaser ReleaseFunc[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.releaser = releaser
	}
}

// WithMaxCapacity bounds the slot count growth may reach.
// Values <= 0 are ignored.
func WithMaxCapacity[T any](maxCapacity int) Option[T] {
	return func(opts *bufferOptions[T]) {
		if maxCapacity > 0 {
			opts.maxCapacity = maxCapacity
		}
	}
}

// WithLogger sets the logger used for growth and rollback events.
// A nil logger is ignored.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(opts *bufferOptions[T]) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// applyOptions applies functional options to create final buffer configuration.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		maxCapacity: MaxCapacity,
		logger:      slog.Default(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
