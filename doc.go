// Package circularbuffer is the root of a double-ended, growable ring buffer
// module and its supporting tooling.
//
// # Layout
//
// The module is split into a container library and the infrastructure that
// drives and observes it:
//
//	pkg/buffer     Generic Buffer[T] with push/pop at both ends, random access,
//	               positional insert/erase, four iterator kinds, clone/assign/swap
//	               and the strong failure guarantee for element copies.
//	pkg/worker     Bounded worker pool used to run independent workloads in parallel.
//	errors         Classified errors (transient, invalid, fatal) shared by all packages.
//	metric         Prometheus registry wrapper and HTTP exposition server.
//	cmd/ringbench  Workload runner that checks a Buffer against a reference deque
//	               after every step and prints a JSON report.
//
// # Failure Model
//
// Operations that copy elements either complete or leave the buffer exactly
// as it was. Copy failures surface as transient errors wrapping
// buffer.ErrCopyFailed; a refused growth surfaces as a fatal error wrapping
// buffer.ErrCapacityExceeded. Precondition violations (popping an empty
// buffer, indexing out of range, mixing positions from different buffers)
// are undefined in release builds and panic when built with the
// circbuf_debug tag:
//
//	go test -tags circbuf_debug ./pkg/buffer/...
//
// # Quick Start
//
//	b, _ := buffer.NewWithCapacity[int](4)
//	_ = b.PushBack(1)
//	_ = b.PushFront(0)
//	for i, v := range b.All() {
//		fmt.Println(i, v)
//	}
//
// See pkg/buffer for the full API and cmd/ringbench for the workload format.
package circularbuffer
