package buffer

import "fmt"

// assertf panics with a formatted message when debugChecks is set and cond is false.
// In release builds it compiles away.
func assertf(cond bool, format string, args ...any) {
	if debugChecks && !cond {
		panic(fmt.Sprintf("buffer: "+format, args...))
	}
}
