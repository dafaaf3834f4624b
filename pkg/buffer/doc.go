// Package buffer provides a generic double-ended growable ring buffer with
// random-access iterators, value semantics and built-in statistics.
//
// # Overview
//
// Buffer stores its elements in one contiguous block treated as circular.
// Logical index i lives in slot (origin + i) mod capacity, so pushes and pops
// at either end are O(1) and indexing is O(1). One slot is always left free:
// Len() < Cap() holds whenever storage exists.
//
// # Quick Start
//
//	buf, err := buffer.New[int]()
//	if err != nil {
//		return err
//	}
//
//	_ = buf.PushBack(1)
//	_ = buf.PushBack(2)
//	_ = buf.PushFront(0)
//
//	for i, v := range buf.All() {
//		fmt.Println(i, v)
//	}
//
// The zero Buffer is also ready to use:
//
//	var buf buffer.Buffer[string]
//	_ = buf.PushBack("a")
//
// # Growth
//
// Before a push or insert, if Len()+1 >= Cap() the buffer allocates a block of
// twice the capacity (DefaultCapacity for an unallocated buffer), copies every
// element into it from slot 0, swaps it in and releases the old elements.
// If a copy fails or the new capacity exceeds WithMaxCapacity, the partial
// block is released and the call returns an error with the buffer unchanged.
//
// # Element Lifecycle
//
// WithCopier and WithReleaser let element types that own resources take part
// in copies and destruction:
//
//	buf, _ := buffer.New[*Frame](
//		buffer.WithCopier[*Frame](func(f *Frame) (*Frame, error) { return f.Clone() }),
//		buffer.WithReleaser[*Frame](func(f *Frame) { f.Free() }),
//	)
//
// Every copy the buffer makes is released exactly once: on pop, erase, Clear,
// Assign, after growth for the old block, and on rollback.
//
// # Iterators
//
// Iterator, ConstIterator, ReverseIterator and ConstReverseIterator are
// random-access values modelled on sequence-container iterators. Add and Sub
// move by any signed offset, Diff measures distance, Equal compares slots and
// Less, LessEqual, Greater, GreaterEqual and Compare order by logical position.
// They are invalidated by growth, Insert and Erase; pushes and pops at either
// end that do not grow leave them valid. An Iterator converts to a ConstIterator with Const; the
// reverse conversion does not exist.
//
//	for it := buf.Begin(); !it.Equal(buf.End()); it = it.Next() {
//		*it.Ptr() *= 2
//	}
//
// # Unchecked Access
//
// At, Ptr, Front, Back, PopBack, PopFront and iterator dereference do not check
// bounds. Building with -tags circbuf_debug turns precondition violations into
// panics with a descriptive message.
//
// # Observability
//
// Statistics are always collected and available via Stats(). Prometheus
// metrics are exported when the buffer is built with WithMetrics and removed
// again by Close; growth and rollbacks are logged through the slog logger set
// by WithLogger.
//
// # Thread Safety
//
// Buffer is not safe for concurrent use. Callers sharing a buffer between
// goroutines must synchronize access themselves. Statistics getters may be
// called from any goroutine.
package buffer
