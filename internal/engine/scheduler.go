package engine

import (
	"log/slog"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/ir"
)

// Output is the presentation layer the scheduler writes resolved values to.
//
// Transform channel values are delivered through SetValue like any other
// track; ApplyTransform follows once per target and frame when at least one
// of its tracks was a transform channel.
type Output interface {
	// CaptureBaseTransform snapshots the pre-animation transform of target.
	// Called once per timeline, on its first activation.
	CaptureBaseTransform(target ir.Target)
	SetValue(target ir.Target, tr *ir.Track, v ir.Value)
	ApplyTransform(target ir.Target)
}

type nopOutput struct{}

func (nopOutput) CaptureBaseTransform(ir.Target)          {}
func (nopOutput) SetValue(ir.Target, *ir.Track, ir.Value) {}
func (nopOutput) ApplyTransform(ir.Target)                {}

// EventKind identifies a scheduler lifecycle event.
type EventKind string

const (
	EventAdd    EventKind = "add"
	EventRemove EventKind = "remove"
	EventLoop   EventKind = "loop"
	EventFinish EventKind = "finish"
	// EventFrame is emitted at the end of every frame pass.
	EventFrame EventKind = "frame"
)

// Event is a lifecycle notification delivered to the WithEventHook hook.
type Event struct {
	Seq        int64
	Kind       EventKind
	TimelineID string
	// Time is the scheduler clock when the event happened.
	Time float64
}

// Scheduler owns the registered timelines, the shared timeline clock and
// the pending callback queue.
//
// Not thread-safe: every call, including timeline methods, must happen on
// the goroutine that runs frame callbacks (see FrameLoop).
//
// INVARIANTS:
//   - timelines keeps registration order; frames update in that order
//   - callbacks are drained only after every timeline of a frame updated
//   - a removed timeline has no queued callbacks
type Scheduler struct {
	clock    Clock
	frames   FrameRequester
	out      Output
	resolver compiler.PropertyResolver
	ids      IDGenerator
	seq      *Sequence
	hook     func(Event)

	// sys is the timeline clock: wall clock plus drift, frozen while the
	// scheduler is globally paused.
	sys   float64
	hold  optional
	drift float64

	ticking   bool
	timelines []*Timeline
	callbacks callbackQueue
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the wall clock. Default: NewSystemClock().
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithFrames sets the frame primitive. Without one, frames must be driven
// by calling Tick.
func WithFrames(f FrameRequester) Option {
	return func(s *Scheduler) { s.frames = f }
}

// WithOutput sets the presentation layer. If out also implements
// compiler.PropertyResolver it resolves non-builtin property names for
// Animate.
func WithOutput(out Output) Option {
	return func(s *Scheduler) {
		s.out = out
		if r, ok := out.(compiler.PropertyResolver); ok {
			s.resolver = r
		}
	}
}

// WithIDGenerator sets the timeline id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Scheduler) { s.ids = g }
}

// WithEventHook registers fn to observe lifecycle events.
func WithEventHook(fn func(Event)) Option {
	return func(s *Scheduler) { s.hook = fn }
}

// NewScheduler creates a scheduler with no timelines.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock: NewSystemClock(),
		out:   nopOutput{},
		ids:   UUIDv7Generator{},
		seq:   NewSequence(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sys = s.clock.Now()
	return s
}

// NewTimeline creates an unregistered timeline for anim. It does nothing
// until added with Add.
func (s *Scheduler) NewTimeline(anim *ir.Animation, opts ...TimelineOption) *Timeline {
	cfg := defaultTimelineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Timeline{
		id:       s.ids.Generate(),
		sched:    s,
		anim:     anim,
		cfg:      cfg,
		rate:     1,
		rangeIn:  0,
		rangeOut: anim.EndTime,
	}
}

// Animate compiles targets, registers a timeline for the result and
// returns it. A compile error registers nothing.
func (s *Scheduler) Animate(targets []ir.TargetKeyframes, opts ...TimelineOption) (*Timeline, error) {
	anim, err := compiler.Compile(targets, s.resolver)
	if err != nil {
		return nil, err
	}
	tl := s.NewTimeline(anim, opts...)
	if err := s.Add(tl); err != nil {
		return nil, err
	}
	return tl, nil
}

// Add registers tl and, unless autoplay is disabled, starts playing it.
// Adding a registered timeline is a no-op.
func (s *Scheduler) Add(tl *Timeline) error {
	if tl.registered {
		return nil
	}
	s.timelines = append(s.timelines, tl)
	tl.registered = true
	s.emit(EventAdd, tl.id)
	slog.Debug("timeline added", "timeline", tl.id, "duration", tl.anim.EndTime)

	if tl.cfg.autoplay {
		return tl.Play()
	}
	return nil
}

// Remove cancels tl, unregisters it and drops its queued callbacks.
func (s *Scheduler) Remove(tl *Timeline) {
	if !tl.registered {
		return
	}
	tl.cancel()
	for i, other := range s.timelines {
		if other == tl {
			s.timelines = append(s.timelines[:i], s.timelines[i+1:]...)
			break
		}
	}
	s.callbacks.purge(tl)
	tl.registered = false
	s.emit(EventRemove, tl.id)
	slog.Debug("timeline removed", "timeline", tl.id)
}

// RemoveAll removes every timeline, newest first.
func (s *Scheduler) RemoveAll() {
	for i := len(s.timelines) - 1; i >= 0; i-- {
		s.Remove(s.timelines[i])
	}
}

// Timelines returns a copy of the registered timelines.
func (s *Scheduler) Timelines() []*Timeline {
	out := make([]*Timeline, len(s.timelines))
	copy(out, s.timelines)
	return out
}

// GlobalPlay resumes the timeline clock after GlobalPause. Time spent
// paused does not advance any timeline.
func (s *Scheduler) GlobalPlay() {
	if !s.hold.ok {
		return
	}
	s.drift = s.hold.v - s.clock.Now()
	s.hold = none
	s.startTicking()
}

// GlobalPause freezes the timeline clock.
func (s *Scheduler) GlobalPause() {
	if s.hold.ok {
		return
	}
	s.hold = some(s.sys)
	s.updateAll(false)
}

// GlobalState returns StatePaused while globally paused, else StateRunning.
func (s *Scheduler) GlobalState() State {
	if s.hold.ok {
		return StatePaused
	}
	return StateRunning
}

// Now returns the timeline clock as of the last sample.
func (s *Scheduler) Now() float64 {
	return s.sys
}

// Ticking reports whether a frame is requested.
func (s *Scheduler) Ticking() bool {
	return s.ticking
}

// Tick runs one frame pass. It is the callback handed to the FrameRequester
// and may be called directly by hosts that drive frames themselves.
func (s *Scheduler) Tick() {
	s.updateSysTime()
	if s.updateAll(true) && !s.hold.ok {
		s.ticking = true
		s.requestFrame()
	} else {
		if s.ticking {
			slog.Debug("scheduler idle", "time", s.sys)
		}
		s.ticking = false
	}
	s.emit(EventFrame, "")
}

func (s *Scheduler) startTicking() {
	if s.ticking {
		return
	}
	s.ticking = true
	slog.Debug("scheduler ticking", "time", s.sys)
	s.requestFrame()
}

func (s *Scheduler) requestFrame() {
	if s.frames != nil {
		s.frames.RequestFrame(s.Tick)
	}
}

func (s *Scheduler) updateSysTime() {
	if s.hold.ok {
		return
	}
	s.sys = s.clock.Now() + s.drift
}

// updateAll refreshes every timeline. The main pass also drains callbacks
// and is the only pass while frames are ticking. Returns true if any
// timeline wants another frame.
func (s *Scheduler) updateAll(main bool) bool {
	if !main && s.ticking {
		return false
	}
	active := false
	for _, tl := range s.Timelines() {
		if tl.updateValues(main) {
			active = true
		}
	}
	if !main {
		return active
	}

	for {
		item, ok := s.callbacks.pop()
		if !ok {
			break
		}
		tl := item.timeline
		switch item.kind {
		case CallbackFinish:
			s.emit(EventFinish, tl.id)
			if tl.cfg.onFinish != nil {
				tl.cfg.onFinish(tl)
				// one more frame so a restart from the handler keeps running
				active = true
			}
			tl.performAutoRemove()
		case CallbackLoop:
			s.emit(EventLoop, tl.id)
			if tl.cfg.onLoop != nil {
				tl.cfg.onLoop(tl)
			}
		}
	}
	return active
}

func (s *Scheduler) emit(kind EventKind, timelineID string) {
	if s.hook == nil {
		return
	}
	s.hook(Event{Seq: s.seq.Next(), Kind: kind, TimelineID: timelineID, Time: s.sys})
}
