//go:build !circbuf_debug

package buffer

// debugChecks enables precondition assertions. Build with -tags circbuf_debug
// to turn unchecked access on empty buffers or out-of-range positions into panics.
const debugChecks = false
