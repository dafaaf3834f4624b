package buffer

import "cmp"

// cursor holds the wrap-around arithmetic shared by every iterator type.
// pos is the logical position and grows without wrapping, so distances and
// ordering stay correct however many times phys wraps. blk pins the block
// (base and capacity) the cursor was created from.
type cursor[T any] struct {
	blk  *block[T]
	pos  int
	phys int
}

func (c cursor[T]) capacity() int {
	if c.blk == nil {
		return 0
	}
	return len(c.blk.slots)
}

func (c cursor[T]) advance(n int) cursor[T] {
	if capacity := c.capacity(); capacity > 0 {
		c.phys = wrap(c.phys+n%capacity, capacity)
	}
	c.pos += n
	return c
}

// retreat does not negate n, so math.MinInt moves like any other count.
func (c cursor[T]) retreat(n int) cursor[T] {
	if capacity := c.capacity(); capacity > 0 {
		c.phys = wrap(c.phys-n%capacity, capacity)
	}
	c.pos -= n
	return c
}

// wrap folds p from (-capacity, 2*capacity) into [0, capacity).
func wrap(p, capacity int) int {
	if p < 0 {
		return p + capacity
	}
	if p >= capacity {
		return p - capacity
	}
	return p
}

// same reports whether both cursors name the same physical slot.
func (c cursor[T]) same(o cursor[T]) bool {
	return c.blk == o.blk && c.phys == o.phys
}

func (c cursor[T]) slot() *T {
	return &c.blk.slots[c.phys]
}

// Position is implemented by Iterator and ConstIterator and names the slot
// Insert and Erase operate on.
type Position[T any] interface {
	position() cursor[T]
}

// Iterator is a random-access position in a Buffer that allows mutation
// through Ptr. Iterators are invalidated by growth, Insert and Erase.
type Iterator[T any] struct {
	c cursor[T]
}

func (it Iterator[T]) position() cursor[T] { return it.c }

// Add returns the iterator n positions further; n may be negative.
func (it Iterator[T]) Add(n int) Iterator[T] { return Iterator[T]{it.c.advance(n)} }

// Sub returns the iterator n positions back; n may be negative.
func (it Iterator[T]) Sub(n int) Iterator[T] { return Iterator[T]{it.c.retreat(n)} }

// Next is Add(1).
func (it Iterator[T]) Next() Iterator[T] { return it.Add(1) }

// Prev is Sub(1).
func (it Iterator[T]) Prev() Iterator[T] { return it.Sub(1) }

// Diff returns the signed distance it - o.
func (it Iterator[T]) Diff(o Iterator[T]) int { return it.c.pos - o.c.pos }

// Equal reports whether both iterators refer to the same slot.
func (it Iterator[T]) Equal(o Iterator[T]) bool { return it.c.same(o.c) }

// Compare orders iterators by logical position.
func (it Iterator[T]) Compare(o Iterator[T]) int { return cmp.Compare(it.c.pos, o.c.pos) }

func (it Iterator[T]) Less(o Iterator[T]) bool         { return it.c.pos < o.c.pos }
func (it Iterator[T]) LessEqual(o Iterator[T]) bool    { return it.c.pos <= o.c.pos }
func (it Iterator[T]) Greater(o Iterator[T]) bool      { return it.c.pos > o.c.pos }
func (it Iterator[T]) GreaterEqual(o Iterator[T]) bool { return it.c.pos >= o.c.pos }

// Get returns the referenced element. It is unchecked: an iterator at or
// past End yields a stale or zero slot, or panics if the buffer has no block.
func (it Iterator[T]) Get() T { return *it.c.slot() }

// Ptr returns a pointer to the referenced element, valid until the iterator is.
func (it Iterator[T]) Ptr() *T { return it.c.slot() }

// Set overwrites the referenced element.
func (it Iterator[T]) Set(v T) { *it.c.slot() = v }

// Const converts it to a read-only iterator at the same position.
func (it Iterator[T]) Const() ConstIterator[T] { return ConstIterator[T]{it.c} }

// ConstIterator is a read-only random-access position in a Buffer.
// There is no conversion back to Iterator.
type ConstIterator[T any] struct {
	c cursor[T]
}

func (it ConstIterator[T]) position() cursor[T] { return it.c }

func (it ConstIterator[T]) Add(n int) ConstIterator[T] { return ConstIterator[T]{it.c.advance(n)} }
func (it ConstIterator[T]) Sub(n int) ConstIterator[T] { return ConstIterator[T]{it.c.retreat(n)} }
func (it ConstIterator[T]) Next() ConstIterator[T]     { return it.Add(1) }
func (it ConstIterator[T]) Prev() ConstIterator[T]     { return it.Sub(1) }

func (it ConstIterator[T]) Diff(o ConstIterator[T]) int          { return it.c.pos - o.c.pos }
func (it ConstIterator[T]) Equal(o ConstIterator[T]) bool        { return it.c.same(o.c) }
func (it ConstIterator[T]) Compare(o ConstIterator[T]) int       { return cmp.Compare(it.c.pos, o.c.pos) }
func (it ConstIterator[T]) Less(o ConstIterator[T]) bool         { return it.c.pos < o.c.pos }
func (it ConstIterator[T]) LessEqual(o ConstIterator[T]) bool    { return it.c.pos <= o.c.pos }
func (it ConstIterator[T]) Greater(o ConstIterator[T]) bool      { return it.c.pos > o.c.pos }
func (it ConstIterator[T]) GreaterEqual(o ConstIterator[T]) bool { return it.c.pos >= o.c.pos }

// Get returns the referenced element, unchecked like Iterator.Get.
func (it ConstIterator[T]) Get() T { return *it.c.slot() }

// ReverseIterator walks a Buffer from back to front. It wraps a forward
// iterator and dereferences the element just before it, so RBegin wraps End.
type ReverseIterator[T any] struct {
	base Iterator[T]
}

// Base returns the wrapped forward iterator.
func (r ReverseIterator[T]) Base() Iterator[T] { return r.base }

func (r ReverseIterator[T]) Add(n int) ReverseIterator[T] { return ReverseIterator[T]{r.base.Sub(n)} }
func (r ReverseIterator[T]) Sub(n int) ReverseIterator[T] { return ReverseIterator[T]{r.base.Add(n)} }
func (r ReverseIterator[T]) Next() ReverseIterator[T]     { return r.Add(1) }
func (r ReverseIterator[T]) Prev() ReverseIterator[T]     { return r.Sub(1) }

func (r ReverseIterator[T]) Diff(o ReverseIterator[T]) int    { return o.base.Diff(r.base) }
func (r ReverseIterator[T]) Equal(o ReverseIterator[T]) bool  { return r.base.Equal(o.base) }
func (r ReverseIterator[T]) Compare(o ReverseIterator[T]) int { return o.base.Compare(r.base) }
func (r ReverseIterator[T]) Less(o ReverseIterator[T]) bool   { return o.base.Less(r.base) }

func (r ReverseIterator[T]) LessEqual(o ReverseIterator[T]) bool    { return o.base.LessEqual(r.base) }
func (r ReverseIterator[T]) Greater(o ReverseIterator[T]) bool      { return o.base.Greater(r.base) }
func (r ReverseIterator[T]) GreaterEqual(o ReverseIterator[T]) bool { return o.base.GreaterEqual(r.base) }

func (r ReverseIterator[T]) Get() T  { return r.base.Prev().Get() }
func (r ReverseIterator[T]) Ptr() *T { return r.base.Prev().Ptr() }

// Set overwrites the referenced element.
func (r ReverseIterator[T]) Set(v T) { r.base.Prev().Set(v) }

// Const converts r to a read-only reverse iterator at the same position.
func (r ReverseIterator[T]) Const() ConstReverseIterator[T] {
	return ConstReverseIterator[T]{r.base.Const()}
}

// ConstReverseIterator is the read-only form of ReverseIterator.
type ConstReverseIterator[T any] struct {
	base ConstIterator[T]
}

func (r ConstReverseIterator[T]) Base() ConstIterator[T] { return r.base }

func (r ConstReverseIterator[T]) Add(n int) ConstReverseIterator[T] {
	return ConstReverseIterator[T]{r.base.Sub(n)}
}
func (r ConstReverseIterator[T]) Sub(n int) ConstReverseIterator[T] {
	return ConstReverseIterator[T]{r.base.Add(n)}
}
func (r ConstReverseIterator[T]) Next() ConstReverseIterator[T] { return r.Add(1) }
func (r ConstReverseIterator[T]) Prev() ConstReverseIterator[T] { return r.Sub(1) }

func (r ConstReverseIterator[T]) Diff(o ConstReverseIterator[T]) int    { return o.base.Diff(r.base) }
func (r ConstReverseIterator[T]) Equal(o ConstReverseIterator[T]) bool  { return r.base.Equal(o.base) }
func (r ConstReverseIterator[T]) Compare(o ConstReverseIterator[T]) int { return o.base.Compare(r.base) }
func (r ConstReverseIterator[T]) Less(o ConstReverseIterator[T]) bool   { return o.base.Less(r.base) }

func (r ConstReverseIterator[T]) LessEqual(o ConstReverseIterator[T]) bool { return o.base.LessEqual(r.base) }
func (r ConstReverseIterator[T]) Greater(o ConstReverseIterator[T]) bool   { return o.base.Greater(r.base) }
func (r ConstReverseIterator[T]) GreaterEqual(o ConstReverseIterator[T]) bool {
	return o.base.GreaterEqual(r.base)
}

func (r ConstReverseIterator[T]) Get() T { return r.base.Prev().Get() }
