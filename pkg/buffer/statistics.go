package buffer

import (
	"sync/atomic"
)

// Statistics tracks buffer operation counts. Counters are atomic so a metrics
// scrape may read them while the owning goroutine mutates the buffer.
type Statistics struct {
	pushes    atomic.Int64
	pops      atomic.Int64
	inserts   atomic.Int64
	erases    atomic.Int64
	growths   atomic.Int64
	copies    atomic.Int64
	releases  atomic.Int64
	rollbacks atomic.Int64
	swaps     atomic.Int64

	currentSize atomic.Int64
	maxSize     atomic.Int64
	capacity    atomic.Int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{}
}

func (s *Statistics) recordPush()     { s.pushes.Add(1) }
func (s *Statistics) recordPop()      { s.pops.Add(1) }
func (s *Statistics) recordInsert()   { s.inserts.Add(1) }
func (s *Statistics) recordErase()    { s.erases.Add(1) }
func (s *Statistics) recordGrowth()   { s.growths.Add(1) }
func (s *Statistics) recordCopy()     { s.copies.Add(1) }
func (s *Statistics) recordRelease()  { s.releases.Add(1) }
func (s *Statistics) recordRollback() { s.rollbacks.Add(1) }
func (s *Statistics) recordSwap()     { s.swaps.Add(1) }

// updateSize records the current size and capacity and tracks the high-water mark.
func (s *Statistics) updateSize(size, capacity int) {
	s.currentSize.Store(int64(size))
	s.capacity.Store(int64(capacity))
	for {
		hw := s.maxSize.Load()
		if int64(size) <= hw || s.maxSize.CompareAndSwap(hw, int64(size)) {
			return
		}
	}
}

// Pushes returns the number of successful PushBack and PushFront calls.
func (s *Statistics) Pushes() int64 { return s.pushes.Load() }

// Pops returns the number of PopBack and PopFront calls.
func (s *Statistics) Pops() int64 { return s.pops.Load() }

// Inserts returns the number of successful Insert calls.
func (s *Statistics) Inserts() int64 { return s.inserts.Load() }

// Erases returns the number of Erase calls.
func (s *Statistics) Erases() int64 { return s.erases.Load() }

// Growths returns how many times storage was replaced by a larger block.
func (s *Statistics) Growths() int64 { return s.growths.Load() }

// Copies returns how many element copies were attempted, including failed ones.
func (s *Statistics) Copies() int64 { return s.copies.Load() }

// Releases returns how many element copies were destroyed.
func (s *Statistics) Releases() int64 { return s.releases.Load() }

// Rollbacks returns how many operations were undone after a copy or allocation failure.
func (s *Statistics) Rollbacks() int64 { return s.rollbacks.Load() }

// Swaps returns how many times storage was exchanged with another buffer.
func (s *Statistics) Swaps() int64 { return s.swaps.Load() }

// CurrentSize returns the element count after the last mutation.
func (s *Statistics) CurrentSize() int64 { return s.currentSize.Load() }

// MaxSize returns the largest element count observed.
func (s *Statistics) MaxSize() int64 { return s.maxSize.Load() }

// Capacity returns the slot count after the last mutation.
func (s *Statistics) Capacity() int64 { return s.capacity.Load() }

// Utilization returns CurrentSize / Capacity (0.0 to 1.0).
func (s *Statistics) Utilization() float64 {
	capacity := s.Capacity()
	if capacity == 0 {
		return 0.0
	}
	return float64(s.CurrentSize()) / float64(capacity)
}

// Reset zeroes every counter. Size gauges keep their last values.
func (s *Statistics) Reset() {
	for _, c := range []*atomic.Int64{
		&s.pushes, &s.pops, &s.inserts, &s.erases, &s.growths,
		&s.copies, &s.releases, &s.rollbacks, &s.swaps,
	} {
		c.Store(0)
	}
	s.maxSize.Store(s.currentSize.Load())
}

// StatsSummary is a snapshot of all statistics.
type StatsSummary struct {
	Pushes      int64   `json:"pushes"`
	Pops        int64   `json:"pops"`
	Inserts     int64   `json:"inserts"`
	Erases      int64   `json:"erases"`
	Growths     int64   `json:"growths"`
	Copies      int64   `json:"copies"`
	Releases    int64   `json:"releases"`
	Rollbacks   int64   `json:"rollbacks"`
	Swaps       int64   `json:"swaps"`
	CurrentSize int64   `json:"current_size"`
	MaxSize     int64   `json:"max_size"`
	Capacity    int64   `json:"capacity"`
	Utilization float64 `json:"utilization"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Pushes:      s.Pushes(),
		Pops:        s.Pops(),
		Inserts:     s.Inserts(),
		Erases:      s.Erases(),
		Growths:     s.Growths(),
		Copies:      s.Copies(),
		Releases:    s.Releases(),
		Rollbacks:   s.Rollbacks(),
		Swaps:       s.Swaps(),
		CurrentSize: s.CurrentSize(),
		MaxSize:     s.MaxSize(),
		Capacity:    s.Capacity(),
		Utilization: s.Utilization(),
	}
}
