package testutil

import "sync"

// ManualFrames is a frame primitive whose frames run only on Step.
//
// It satisfies engine.FrameRequester.
type ManualFrames struct {
	mu      sync.Mutex
	pending []func()
	steps   int
}

// NewManualFrames creates a frame primitive with nothing requested.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

// RequestFrame queues fn for the next Step.
func (f *ManualFrames) RequestFrame(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, fn)
}

// Step runs the callbacks requested before the call. Requests made while
// they run wait for the next Step. Returns false if nothing was requested.
func (f *ManualFrames) Step() bool {
	f.mu.Lock()
	fns := f.pending
	f.pending = nil
	if len(fns) > 0 {
		f.steps++
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

// Pending returns the number of queued callbacks.
func (f *ManualFrames) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Steps returns how many Step calls ran at least one callback.
func (f *ManualFrames) Steps() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.steps
}
