package engine

import (
	"sync/atomic"
	"time"
)

// Clock is the host wall clock, in milliseconds.
//
// Only differences between readings matter. The scheduler samples it once
// per frame and on every state-changing timeline operation.
type Clock interface {
	Now() float64
}

// SystemClock reads the monotonic system clock relative to its creation.
type SystemClock struct {
	origin time.Time
}

// NewSystemClock creates a SystemClock whose zero is the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// Now returns milliseconds elapsed since the clock was created.
func (c *SystemClock) Now() float64 {
	return float64(time.Since(c.origin)) / float64(time.Millisecond)
}

// Sequence is a monotonic logical counter used to order frames and
// lifecycle events in traces. Wall time is never used for ordering.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations).
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next sequence number and increments the counter.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
