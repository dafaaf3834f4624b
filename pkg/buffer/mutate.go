package buffer

import (
	"github.com/c360/circular-buffer/errors"
)

// reserve makes sure one more element fits while keeping a slot free.
// Growth copies every element into a block twice as large and only then
// swaps it in; on failure the buffer is untouched.
func (b *Buffer[T]) reserve(method string) error {
	if !b.r.full() {
		return nil
	}

	from := b.r.capacity()
	to, err := b.r.grownCapacity()
	if err == nil {
		var next ring[T]
		next, err = b.r.rebuild(to, b.options().maxCapacity, b.copyElem, b.releaseElem)
		if err == nil {
			b.r, next = next, b.r
			next.drain(b.releaseElem)

			b.Stats().recordGrowth()
			b.record(opGrowth)
			b.logger().Debug("buffer grown",
				"component", "Buffer", "method", method, "from", from, "to", to, "size", b.r.size)
			return nil
		}
	}

	b.Stats().recordRollback()
	b.record(opRollback)
	b.logger().Warn("buffer growth rolled back",
		"component", "Buffer", "method", method, "from", from, "size", b.r.size, "error", err)
	return errors.Wrap(err, "Buffer", method, "grow storage")
}

// place copies v and makes room for it. On success the caller owns a free
// slot and the returned copy; on failure nothing changed.
func (b *Buffer[T]) place(v T, method string) (T, error) {
	item, err := b.copyElem(v)
	if err != nil {
		b.Stats().recordRollback()
		b.record(opRollback)
		return item, errors.Wrap(err, "Buffer", method, "copy element")
	}
	if err := b.reserve(method); err != nil {
		b.releaseElem(item)
		return item, err
	}
	return item, nil
}

// PushBack appends a copy of v. Amortized O(1).
func (b *Buffer[T]) PushBack(v T) error {
	item, err := b.place(v, "PushBack")
	if err != nil {
		return err
	}
	b.r.pushBack(item)

	b.Stats().recordPush()
	b.record(opPush)
	b.observe()
	return nil
}

// PushFront prepends a copy of v. Amortized O(1).
func (b *Buffer[T]) PushFront(v T) error {
	item, err := b.place(v, "PushFront")
	if err != nil {
		return err
	}
	b.r.pushFront(item)

	b.Stats().recordPush()
	b.record(opPush)
	b.observe()
	return nil
}

// PopBack removes and releases the last element.
// The buffer must not be empty; this is not checked in release builds.
func (b *Buffer[T]) PopBack() {
	assertf(b.r.size > 0, "PopBack on empty buffer")
	b.r.popBack(b.releaseElem)

	b.Stats().recordPop()
	b.record(opPop)
	b.observe()
}

// PopFront removes and releases the first element.
// The buffer must not be empty; this is not checked in release builds.
func (b *Buffer[T]) PopFront() {
	assertf(b.r.size > 0, "PopFront on empty buffer")
	b.r.popFront(b.releaseElem)

	b.Stats().recordPop()
	b.record(opPop)
	b.observe()
}

// index converts pos into a logical index within b.
func (b *Buffer[T]) index(pos Position[T]) int {
	c := pos.position()
	assertf(c.blk == b.r.blk, "position from another buffer or a replaced block")
	return c.pos - b.r.base
}

// Insert places a copy of v immediately before pos and returns an iterator to
// it. The new element enters at whichever end is nearer and is walked into
// place by adjacent swaps, so the cost is proportional to the shorter side.
// All iterators into b are invalidated. On error b is unchanged.
func (b *Buffer[T]) Insert(pos Position[T], v T) (Iterator[T], error) {
	idx := b.index(pos)
	assertf(idx >= 0 && idx <= b.r.size, "insert position %d out of range [0, %d]", idx, b.r.size)

	item, err := b.place(v, "Insert")
	if err != nil {
		return Iterator[T]{}, err
	}

	if idx < b.r.size/2 {
		b.r.pushFront(item)
		for i := 0; i < idx; i++ {
			b.r.swapAt(i, i+1)
		}
	} else {
		b.r.pushBack(item)
		for i := b.r.size - 1; i > idx; i-- {
			b.r.swapAt(i, i-1)
		}
	}

	b.Stats().recordInsert()
	b.record(opInsert)
	b.observe()
	return b.Begin().Add(idx), nil
}

// Erase removes the element at pos and returns an iterator to the element
// that followed it (End if pos was the last element). The shorter side is
// shifted over the gap by adjacent swaps. All iterators into b are invalidated.
func (b *Buffer[T]) Erase(pos Position[T]) Iterator[T] {
	idx := b.index(pos)
	assertf(idx >= 0 && idx < b.r.size, "erase position %d out of range [0, %d)", idx, b.r.size)

	if idx < b.r.size/2 {
		for i := idx; i > 0; i-- {
			b.r.swapAt(i, i-1)
		}
		b.r.popFront(b.releaseElem)
	} else {
		for i := idx; i < b.r.size-1; i++ {
			b.r.swapAt(i, i+1)
		}
		b.r.popBack(b.releaseElem)
	}

	b.Stats().recordErase()
	b.record(opErase)
	b.observe()
	return b.Begin().Add(idx)
}

// Clear pops every element from the back. Capacity is retained.
func (b *Buffer[T]) Clear() {
	for b.r.size > 0 {
		b.r.popBack(b.releaseElem)
		b.Stats().recordPop()
		b.record(opPop)
	}
	b.observe()
}
