package buffer

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/c360/circular-buffer/errors"
)

// Buffer is a double-ended queue stored in a single wrap-around block.
//
// The zero value is an empty buffer ready to use; it allocates DefaultCapacity
// slots on the first push. Use New or NewWithCapacity to attach options.
type Buffer[T any] struct {
	r       ring[T]
	opts    *bufferOptions[T]
	stats   *Statistics
	metrics *bufferMetrics
}

// New creates a buffer with DefaultCapacity slots.
func New[T any](options ...Option[T]) (*Buffer[T], error) {
	return NewWithCapacity[T](DefaultCapacity, options...)
}

// NewWithCapacity creates a buffer with the given number of slots. One slot is
// always kept free, so capacity-1 elements fit before the first growth.
// Returns an error if capacity is not positive, exceeds the configured maximum,
// or metrics registration fails.
func NewWithCapacity[T any](capacity int, options ...Option[T]) (*Buffer[T], error) {
	opts := applyOptions(options...)

	blk, err := allocate[T](capacity, opts.maxCapacity)
	if err != nil {
		return nil, errors.Wrap(err, "Buffer", "NewWithCapacity", "allocate storage")
	}

	var metrics *bufferMetrics
	if opts.metricsReg != nil {
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "Buffer", "NewWithCapacity", "metrics registration")
		}
	}

	b := &Buffer[T]{
		r:       ring[T]{blk: blk},
		opts:    opts,
		stats:   NewStatistics(),
		metrics: metrics,
	}
	b.observe()
	return b, nil
}

func (b *Buffer[T]) options() *bufferOptions[T] {
	if b.opts == nil {
		b.opts = applyOptions[T]()
	}
	return b.opts
}

func (b *Buffer[T]) logger() *slog.Logger {
	return b.options().logger
}

// Stats returns buffer statistics.
func (b *Buffer[T]) Stats() *Statistics {
	if b.stats == nil {
		b.stats = NewStatistics()
	}
	return b.stats
}

// observe publishes size and capacity after a mutation.
func (b *Buffer[T]) observe() {
	b.Stats().updateSize(b.r.size, b.r.capacity())
	if b.metrics != nil {
		b.metrics.updateSize(b.r.size, b.r.capacity())
	}
}

func (b *Buffer[T]) record(op string) {
	if b.metrics != nil {
		b.metrics.record(op)
	}
}

// copyElem constructs the copy of item that the buffer will own.
func (b *Buffer[T]) copyElem(item T) (T, error) {
	b.Stats().recordCopy()
	copier := b.options().copier
	if copier == nil {
		return item, nil
	}
	out, err := copier(item)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", errors.ErrCopyFailed, err)
	}
	return out, nil
}

// releaseElem destroys an element copy owned by the buffer.
func (b *Buffer[T]) releaseElem(item T) {
	b.Stats().recordRelease()
	if releaser := b.options().releaser; releaser != nil {
		releaser(item)
	}
}

// Clone returns an independent buffer with the same capacity and copies of
// every element in logical order. If any copy fails the partial clone is
// released and an error is returned; b is never modified. The clone shares
// b's options but not its metrics.
func (b *Buffer[T]) Clone() (*Buffer[T], error) {
	out := &Buffer[T]{opts: b.opts, stats: NewStatistics()}
	if b.r.capacity() == 0 {
		return out, nil
	}

	next, err := b.r.rebuild(b.r.capacity(), b.options().maxCapacity, b.copyElem, b.releaseElem)
	if err != nil {
		b.Stats().recordRollback()
		b.record(opRollback)
		b.logger().Warn("buffer clone rolled back",
			"component", "Buffer", "size", b.r.size, "error", err)
		return nil, errors.Wrap(err, "Buffer", "Clone", "copy elements")
	}

	out.r = next
	out.observe()
	return out, nil
}

// Assign replaces b's content with copies of src's elements. It builds the full
// copy first and then swaps it in, so on error b is unchanged. The copies are
// made with b's copier, count in b's statistics and respect b's capacity
// limit: src's capacity is kept when it fits the limit, otherwise the block is
// clamped to the limit. b's previous elements are released.
func (b *Buffer[T]) Assign(src *Buffer[T]) error {
	var next ring[T]
	if capacity := src.r.capacity(); capacity > 0 {
		limit := b.options().maxCapacity
		if capacity > limit && src.r.size < limit {
			capacity = limit
		}

		var err error
		next, err = src.r.rebuild(capacity, limit, b.copyElem, b.releaseElem)
		if err != nil {
			b.Stats().recordRollback()
			b.record(opRollback)
			b.logger().Warn("buffer assignment rolled back",
				"component", "Buffer", "size", b.r.size, "source_size", src.r.size, "error", err)
			return errors.Wrap(err, "Buffer", "Assign", "copy elements")
		}
	}

	b.r, next = next, b.r
	next.drain(b.releaseElem)
	b.observe()
	return nil
}

// Swap exchanges the storage of b and o in constant time. No element is
// copied, moved or released; options and statistics stay with each buffer.
func (b *Buffer[T]) Swap(o *Buffer[T]) {
	b.r, o.r = o.r, b.r
	for _, x := range []*Buffer[T]{b, o} {
		x.Stats().recordSwap()
		x.record(opSwap)
		x.observe()
	}
}

// Close unregisters the buffer's Prometheus metrics so its prefix can be
// reused. The buffer stays usable and keeps its Stats. Close is a no-op for
// buffers without metrics and may be called more than once.
func (b *Buffer[T]) Close() {
	if b.metrics == nil {
		return
	}
	b.metrics.unregister(metricKeys)
	b.metrics = nil
}

// Swap exchanges the storage of a and b. See Buffer.Swap.
func Swap[T any](a, b *Buffer[T]) {
	a.Swap(b)
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return b.r.size }

// Cap returns the number of allocated slots. Len is always below Cap once
// storage exists.
func (b *Buffer[T]) Cap() int { return b.r.capacity() }

// Empty reports whether the buffer holds no elements.
func (b *Buffer[T]) Empty() bool { return b.r.size == 0 }

// At returns the element at logical index i. It is unchecked: i must be in [0, Len()).
func (b *Buffer[T]) At(i int) T {
	return *b.Ptr(i)
}

// Ptr returns a pointer to the element at logical index i, valid until the
// next growth, Insert or Erase. It is unchecked like At.
func (b *Buffer[T]) Ptr(i int) *T {
	assertf(i >= 0 && i < b.r.size, "index %d out of range [0, %d)", i, b.r.size)
	return b.r.at(i)
}

// Set overwrites the element at logical index i with v, exactly like
// *b.Ptr(i) = v. Neither the copier nor the releaser runs.
func (b *Buffer[T]) Set(i int, v T) {
	*b.Ptr(i) = v
}

// Front returns the first element. The buffer must not be empty.
func (b *Buffer[T]) Front() T {
	assertf(b.r.size > 0, "Front on empty buffer")
	return *b.r.at(0)
}

// Back returns the last element. The buffer must not be empty.
func (b *Buffer[T]) Back() T {
	assertf(b.r.size > 0, "Back on empty buffer")
	return *b.r.at(b.r.size - 1)
}

func (b *Buffer[T]) begin() cursor[T] {
	return cursor[T]{blk: b.r.blk, pos: b.r.base, phys: b.r.origin}
}

// Begin returns an iterator to the first element.
func (b *Buffer[T]) Begin() Iterator[T] { return Iterator[T]{b.begin()} }

// End returns an iterator one past the last element.
func (b *Buffer[T]) End() Iterator[T] { return Iterator[T]{b.begin().advance(b.r.size)} }

// CBegin returns a read-only iterator to the first element.
func (b *Buffer[T]) CBegin() ConstIterator[T] { return b.Begin().Const() }

// CEnd returns a read-only iterator one past the last element.
func (b *Buffer[T]) CEnd() ConstIterator[T] { return b.End().Const() }

// RBegin returns a reverse iterator to the last element.
func (b *Buffer[T]) RBegin() ReverseIterator[T] { return ReverseIterator[T]{b.End()} }

// REnd returns a reverse iterator one before the first element.
func (b *Buffer[T]) REnd() ReverseIterator[T] { return ReverseIterator[T]{b.Begin()} }

// CRBegin returns a read-only reverse iterator to the last element.
func (b *Buffer[T]) CRBegin() ConstReverseIterator[T] { return b.RBegin().Const() }

// CREnd returns a read-only reverse iterator one before the first element.
func (b *Buffer[T]) CREnd() ConstReverseIterator[T] { return b.REnd().Const() }

// All returns an iterator over index-value pairs from front to back.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.r.size; i++ {
			if !yield(i, *b.r.at(i)) {
				return
			}
		}
	}
}

// Values returns an iterator over elements from front to back.
func (b *Buffer[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < b.r.size; i++ {
			if !yield(*b.r.at(i)) {
				return
			}
		}
	}
}

// Backward returns an iterator over index-value pairs from back to front.
func (b *Buffer[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := b.r.size - 1; i >= 0; i-- {
			if !yield(i, *b.r.at(i)) {
				return
			}
		}
	}
}

// Slice returns the elements in logical order in a newly allocated slice.
// Elements are assigned, not passed through the copier.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, 0, b.r.size)
	for v := range b.Values() {
		out = append(out, v)
	}
	return out
}

// Equal reports whether both buffers hold equal elements in the same order.
// It is a function so that Buffer is not restricted to comparable elements.
func Equal[T comparable](a, b *Buffer[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

// Index returns the logical index of the first element equal to v, or -1.
func Index[T comparable](b *Buffer[T], v T) int {
	for i, x := range b.All() {
		if x == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is present in b.
func Contains[T comparable](b *Buffer[T], v T) bool {
	return Index(b, v) >= 0
}
