// Package engine implements the keyframe timeline engine.
//
// A Scheduler owns every registered Timeline and a shared timeline clock.
// Each frame it updates all timelines and writes their track values to an
// Output, then drains the loop and finish callbacks the frame raised.
//
// ARCHITECTURE:
//
// Single-Goroutine Frame Loop:
// All timeline and scheduler mutation happens on one goroutine, either in a
// public call or in the frame callback (Scheduler.Tick). There is no
// locking because there is no preemption. Hosts that receive work on other
// goroutines hand it over with FrameLoop.Post.
//
// Frame Processing:
//  1. Tick samples the wall clock (unless globally paused)
//  2. Every timeline, in registration order, resolves a pending play,
//     checks its range boundary and queues loop/finish callbacks
//  3. Every track of every target is sampled and written to the Output
//  4. Queued callbacks run in FIFO order; finished timelines auto-remove
//  5. Another frame is requested while any timeline is running
//
// Callbacks run only after every timeline was updated, so a handler may
// add, remove, play or seek any timeline, including its own. Removing a
// timeline drops its queued callbacks.
//
// Derived State:
// A timeline stores no state field. State() is computed from its hold
// time, start time, rate, range and pending-play flag every time it is
// read.
//
// Global Pause:
// GlobalPause freezes the timeline clock; GlobalPlay resumes it with a
// drift offset so paused wall time never advances any timeline.
package engine
