package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/testutil"
)

// recordingOutput keeps the last value written per target and property.
type recordingOutput struct {
	values  map[string]ir.Value
	writes  int
	bases   []ir.Target
	applied int
}

func newRecordingOutput() *recordingOutput {
	return &recordingOutput{values: make(map[string]ir.Value)}
}

func (o *recordingOutput) CaptureBaseTransform(target ir.Target) {
	o.bases = append(o.bases, target)
}

func (o *recordingOutput) SetValue(target ir.Target, tr *ir.Track, v ir.Value) {
	o.values[target.(string)+"."+tr.Name] = v
	o.writes++
}

func (o *recordingOutput) ApplyTransform(ir.Target) {
	o.applied++
}

type harness struct {
	sched  *Scheduler
	clock  *testutil.ManualClock
	frames *testutil.ManualFrames
	out    *recordingOutput
	events []Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:  testutil.NewManualClock(1000),
		frames: testutil.NewManualFrames(),
		out:    newRecordingOutput(),
	}
	h.sched = NewScheduler(
		WithClock(h.clock),
		WithFrames(h.frames),
		WithOutput(h.out),
		WithIDGenerator(NewSequentialGenerator("tl")),
		WithEventHook(func(e Event) { h.events = append(h.events, e) }),
	)
	return h
}

// advance moves the clock by ms and runs one frame.
func (h *harness) advance(ms float64) {
	h.clock.Advance(ms)
	h.frames.Step()
}

func (h *harness) count(kind EventKind, id string) int {
	n := 0
	for _, e := range h.events {
		if e.Kind == kind && e.TimelineID == id {
			n++
		}
	}
	return n
}

// posX on "box", linear 0 to 100 over [0, 1000].
func slide() ir.Keyframes {
	return ir.Keyframes{
		Property: "posX",
		Times:    []float64{0, 1000},
		Values:   []any{0, 100},
		Easing:   []ir.Easing{ir.Linear{}},
	}
}

func compileBox(t *testing.T, kfs ...ir.Keyframes) *ir.Animation {
	t.Helper()
	anim, err := compiler.Compile([]ir.TargetKeyframes{{Target: "box", Keyframes: kfs}}, nil)
	require.NoError(t, err)
	return anim
}

func (h *harness) add(t *testing.T, anim *ir.Animation, opts ...TimelineOption) *Timeline {
	t.Helper()
	tl := h.sched.NewTimeline(anim, opts...)
	require.NoError(t, h.sched.Add(tl))
	return tl
}

func timeOf(t *testing.T, tl *Timeline) float64 {
	t.Helper()
	v, ok := tl.Time()
	require.True(t, ok, "timeline %s is idle", tl.ID())
	return v
}
