package present

import (
	"fmt"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/engine"
	"github.com/roach88/keyframe/internal/testutil"
)

// Player runs a scene headlessly: a manual clock, manual frames and a
// Document as the output. Runs are deterministic.
type Player struct {
	Doc      *Document
	Sched    *engine.Scheduler
	Timeline *engine.Timeline
	Clock    *testutil.ManualClock
	Frames   *testutil.ManualFrames

	frame int64
}

type playerConfig struct {
	sinks  []Sink
	hook   func(engine.Event)
	tlOpts []engine.TimelineOption
}

// PlayerOption configures a Player.
type PlayerOption func(*playerConfig)

// WithSink reports document writes to s.
func WithSink(s Sink) PlayerOption {
	return func(c *playerConfig) { c.sinks = append(c.sinks, s) }
}

// WithEventHook observes scheduler lifecycle events.
func WithEventHook(fn func(engine.Event)) PlayerOption {
	return func(c *playerConfig) { c.hook = fn }
}

// WithTimelineOptions passes options to the scene's timeline.
func WithTimelineOptions(opts ...engine.TimelineOption) PlayerOption {
	return func(c *playerConfig) { c.tlOpts = append(c.tlOpts, opts...) }
}

// NewPlayer compiles scene and registers its timeline at clock time 0.
func NewPlayer(scene *compiler.Scene, opts ...PlayerOption) (*Player, error) {
	var cfg playerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Player{
		Doc:    FromScene(scene, cfg.sinks...),
		Clock:  testutil.NewManualClock(0),
		Frames: testutil.NewManualFrames(),
	}
	schedOpts := []engine.Option{
		engine.WithClock(p.Clock),
		engine.WithFrames(p.Frames),
		engine.WithOutput(p.Doc),
		engine.WithIDGenerator(engine.NewSequentialGenerator(scene.Name)),
	}
	if cfg.hook != nil {
		schedOpts = append(schedOpts, engine.WithEventHook(cfg.hook))
	}
	p.Sched = engine.NewScheduler(schedOpts...)

	tl, err := p.Sched.AnimateScene(scene, p.Doc.Target, cfg.tlOpts...)
	if err != nil {
		return nil, fmt.Errorf("animate scene: %w", err)
	}
	p.Timeline = tl
	return p, nil
}

// Frame returns the number of the last frame stepped.
func (p *Player) Frame() int64 {
	return p.frame
}

// Step advances the clock by ms and runs the requested frame, if any.
// Returns false when no frame was requested.
func (p *Player) Step(ms float64) bool {
	p.Clock.Advance(ms)
	p.frame++
	p.Doc.BeginFrame(p.frame, p.Clock.Now())
	return p.Frames.Step()
}

// Run steps frames at fps until duration milliseconds have elapsed or the
// scheduler stops ticking. The first frame runs at the current time.
// Returns the number of frames that ran.
func (p *Player) Run(fps, duration float64) int {
	if fps <= 0 {
		fps = 60
	}
	interval := 1000 / fps
	ran := 0
	if p.Step(0) {
		ran++
	}
	for elapsed := interval; elapsed <= duration; elapsed += interval {
		if !p.Step(interval) {
			break
		}
		ran++
	}
	return ran
}
