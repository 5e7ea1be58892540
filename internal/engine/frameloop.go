package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FrameRequester is the host "invoke me before the next frame" primitive.
// The scheduler re-arms it every frame it wants to keep ticking.
//
// Implemented by FrameLoop (real time) and testutil.ManualFrames (tests).
type FrameRequester interface {
	RequestFrame(fn func())
}

// DefaultFrameInterval is the FrameLoop period when none is given (60 fps).
const DefaultFrameInterval = time.Second / 60

// FrameLoop drives frame callbacks from a ticker.
//
// All scheduler and timeline mutation must happen on the goroutine that
// calls Run. Other goroutines hand work to it with Post.
//
// Thread-safety model:
//   - RequestFrame(), Post(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
type FrameLoop struct {
	interval time.Duration
	tasks    *taskQueue

	mu     sync.Mutex
	frames []func()
}

// NewFrameLoop creates a frame loop ticking every interval.
// A non-positive interval selects DefaultFrameInterval.
func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{
		interval: interval,
		tasks:    newTaskQueue(),
	}
}

// RequestFrame queues fn to run on the next frame tick.
func (l *FrameLoop) RequestFrame(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, fn)
}

// Post queues host work to run on the loop goroutine as soon as possible.
// Returns false once the loop has stopped.
func (l *FrameLoop) Post(fn func()) bool {
	return l.tasks.Enqueue(fn)
}

// Pending returns the number of frame callbacks waiting for the next tick.
func (l *FrameLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

// Run processes posted work and frame ticks until ctx is cancelled.
// Returns ctx.Err() on cancellation.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.tasks.Close()

	slog.Debug("frame loop started", "interval", l.interval)

	for {
		l.drainTasks()

		select {
		case <-ctx.Done():
			slog.Debug("frame loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case _, ok := <-l.tasks.Wait():
			if !ok {
				return nil
			}
		case <-ticker.C:
			l.runFrame()
		}
	}
}

func (l *FrameLoop) drainTasks() {
	for {
		fn, ok := l.tasks.TryDequeue()
		if !ok {
			return
		}
		fn()
	}
}

// runFrame fires the callbacks requested before this tick. Callbacks that
// request another frame are deferred to the next tick.
func (l *FrameLoop) runFrame() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, fn := range frames {
		fn()
	}
}
