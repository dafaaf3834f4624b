//go:build circbuf_debug

package buffer

const debugChecks = true
