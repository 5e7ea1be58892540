package engine

import "sync"

// CallbackKind distinguishes queued timeline callbacks.
type CallbackKind int

const (
	// CallbackFinish is queued when a timeline reaches its range boundary
	// with no loops left.
	CallbackFinish CallbackKind = iota + 1
	// CallbackLoop is queued when a timeline jumps back for another loop.
	CallbackLoop
)

// String returns the trace name of the callback kind.
func (k CallbackKind) String() string {
	switch k {
	case CallbackFinish:
		return "finish"
	case CallbackLoop:
		return "loop"
	default:
		return "none"
	}
}

type pendingCallback struct {
	timeline *Timeline
	kind     CallbackKind
}

// callbackQueue holds loop and finish callbacks raised while timelines are
// updated. It is drained only after every timeline of a frame has been
// updated, so handlers may add, remove or replay any timeline.
//
// Not thread-safe: owned by the scheduler's frame goroutine.
type callbackQueue struct {
	items []pendingCallback
}

func (q *callbackQueue) push(tl *Timeline, kind CallbackKind) {
	q.items = append(q.items, pendingCallback{timeline: tl, kind: kind})
}

func (q *callbackQueue) pop() (pendingCallback, bool) {
	if len(q.items) == 0 {
		return pendingCallback{}, false
	}
	item := q.items[0]
	q.items[0] = pendingCallback{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return item, true
}

// purge drops every queued callback of tl.
func (q *callbackQueue) purge(tl *Timeline) {
	kept := q.items[:0]
	for _, item := range q.items {
		if item.timeline != tl {
			kept = append(kept, item)
		}
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = pendingCallback{}
	}
	q.items = kept
}

func (q *callbackQueue) len() int {
	return len(q.items)
}

// taskQueue is a thread-safe FIFO of host work for the FrameLoop.
//
// The queue uses a buffered channel of size 1 for signaling so Run can wait
// on it together with ctx.Done() and the frame ticker.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]func(), 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a task to the back of the queue.
// Returns false if the queue is closed.
func (q *taskQueue) Enqueue(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, fn)

	// non-blocking, the buffer coalesces signals
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front task without blocking.
func (q *taskQueue) TryDequeue() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}
	fn := q.tasks[0]
	q.tasks[0] = nil
	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}
	return fn, true
}

// Wait returns a channel that signals when tasks may be available.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops the queue from accepting tasks.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
