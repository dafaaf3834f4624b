package buffer

import (
	"fmt"
	"math"

	"github.com/c360/circular-buffer/errors"
)

const (
	// DefaultCapacity is the number of slots allocated by New and by the first
	// push into a zero Buffer.
	DefaultCapacity = 10

	// MaxCapacity is the default upper bound on the slot count of a block.
	// Override it per buffer with WithMaxCapacity.
	MaxCapacity = 1<<31 - 1
)

// block is one contiguous storage allocation. Its length never changes;
// growth replaces the block.
type block[T any] struct {
	slots []T
}

// ring is the storage state exchanged by Swap. Live elements occupy
// physical(origin, i, len(blk.slots)) for i in [0, size); every other slot
// holds the zero value. size < capacity always holds once blk is allocated.
//
// base is the logical position of the first element as seen by cursors. It
// moves with pushFront and popFront, so a cursor taken before an end push or
// pop still converts to the right index via pos - base.
type ring[T any] struct {
	blk    *block[T]
	size   int
	origin int
	base   int
}

// physical maps logical index i of a ring starting at origin onto a slot index.
func physical(origin, i, capacity int) int {
	return (origin + i) % capacity
}

// allocate reserves a block of capacity zeroed slots.
func allocate[T any](capacity, limit int) (*block[T], error) {
	if capacity < 1 {
		return nil, errors.WrapInvalid(errors.ErrInvalidCapacity, "Buffer", "allocate",
			fmt.Sprintf("capacity %d", capacity))
	}
	if capacity > limit {
		return nil, errors.WrapFatal(errors.ErrCapacityExceeded, "Buffer", "allocate",
			fmt.Sprintf("capacity %d above limit %d", capacity, limit))
	}
	return &block[T]{slots: make([]T, capacity)}, nil
}

func (r *ring[T]) capacity() int {
	if r.blk == nil {
		return 0
	}
	return len(r.blk.slots)
}

// at returns the slot holding logical index i.
func (r *ring[T]) at(i int) *T {
	return &r.blk.slots[physical(r.origin, i, len(r.blk.slots))]
}

// full reports whether one more element would leave no free slot.
func (r *ring[T]) full() bool {
	return r.size+1 >= r.capacity()
}

// grownCapacity returns the slot count of the block replacing r's.
func (r *ring[T]) grownCapacity() (int, error) {
	c := r.capacity()
	if c == 0 {
		return DefaultCapacity, nil
	}
	if c > math.MaxInt/2 {
		return 0, errors.WrapFatal(errors.ErrCapacityExceeded, "Buffer", "grow",
			fmt.Sprintf("doubling capacity %d overflows", c))
	}
	return 2 * c, nil
}

// rebuild returns a new ring of the given capacity holding copies of r's
// elements in logical order from slot 0. If a copy fails, copies already made
// are released and r is left untouched.
func (r *ring[T]) rebuild(capacity, limit int, copyFn func(T) (T, error), release func(T)) (ring[T], error) {
	blk, err := allocate[T](capacity, limit)
	if err != nil {
		return ring[T]{}, err
	}

	next := ring[T]{blk: blk, base: r.base}
	for i := 0; i < r.size; i++ {
		item, err := copyFn(*r.at(i))
		if err != nil {
			next.drain(release)
			return ring[T]{}, err
		}
		blk.slots[i] = item
		next.size++
	}
	return next, nil
}

// pushBack places item after the last element. The caller guarantees a free slot.
func (r *ring[T]) pushBack(item T) {
	*r.at(r.size) = item
	r.size++
}

// pushFront places item before the first element. The caller guarantees a free slot.
func (r *ring[T]) pushFront(item T) {
	c := len(r.blk.slots)
	r.origin = (r.origin + c - 1) % c
	r.blk.slots[r.origin] = item
	r.size++
	r.base--
}

func (r *ring[T]) popBack(release func(T)) {
	slot := r.at(r.size - 1)
	item := *slot
	var zero T
	*slot = zero
	r.size--
	release(item)
}

func (r *ring[T]) popFront(release func(T)) {
	slot := r.at(0)
	item := *slot
	var zero T
	*slot = zero
	r.origin = (r.origin + 1) % len(r.blk.slots)
	r.size--
	r.base++
	release(item)
}

// swapAt exchanges the elements at logical indexes i and j.
func (r *ring[T]) swapAt(i, j int) {
	a, b := r.at(i), r.at(j)
	*a, *b = *b, *a
}

// drain releases every live element from the back, keeping the block.
func (r *ring[T]) drain(release func(T)) {
	for r.size > 0 {
		r.popBack(release)
	}
}
