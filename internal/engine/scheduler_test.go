package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/testutil"
)

func TestScheduler_GlobalPauseFreezesClock(t *testing.T) {
	h := newHarness(t)
	tl := h.add(t, compileBox(t, slide()))
	h.frames.Step()
	h.advance(500)

	h.sched.GlobalPause()
	assert.Equal(t, StatePaused, h.sched.GlobalState())
	h.sched.GlobalPause()

	h.advance(5000)
	assert.Equal(t, 500.0, timeOf(t, tl))
	assert.False(t, h.sched.Ticking(), "ticking stops while globally paused")

	h.clock.Advance(3000)
	h.sched.GlobalPlay()
	assert.Equal(t, StateRunning, h.sched.GlobalState())
	assert.True(t, h.sched.Ticking())

	h.advance(100)
	assert.Equal(t, 600.0, timeOf(t, tl), "paused wall time does not count")
}

func TestScheduler_GlobalPlayWithoutPause(t *testing.T) {
	h := newHarness(t)
	h.sched.GlobalPlay()
	assert.Equal(t, StateRunning, h.sched.GlobalState())
	assert.False(t, h.sched.Ticking())
}

func TestScheduler_AddIsIdempotent(t *testing.T) {
	h := newHarness(t)
	tl := h.add(t, compileBox(t, slide()))
	require.NoError(t, h.sched.Add(tl))
	assert.Len(t, h.sched.Timelines(), 1)
	assert.Equal(t, 1, h.count(EventAdd, tl.ID()))
}

func TestScheduler_TimelinesIsCopy(t *testing.T) {
	h := newHarness(t)
	h.add(t, compileBox(t, slide()))
	list := h.sched.Timelines()
	list[0] = nil
	assert.NotNil(t, h.sched.Timelines()[0])
}

func TestScheduler_RemoveAllNewestFirst(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, compileBox(t, slide()))
	b := h.add(t, compileBox(t, slide()))
	h.events = nil

	h.sched.RemoveAll()
	assert.Empty(t, h.sched.Timelines())
	require.Len(t, h.events, 2)
	assert.Equal(t, b.ID(), h.events[0].TimelineID)
	assert.Equal(t, a.ID(), h.events[1].TimelineID)
	assert.False(t, a.Registered())

	// removing again is a no-op
	h.sched.Remove(a)
	assert.Len(t, h.events, 2)
}

func TestScheduler_RemoveDropsQueuedCallbacks(t *testing.T) {
	h := newHarness(t)
	var bFinished bool
	var b *Timeline
	a := h.add(t, compileBox(t, slide()), WithAutoremove(false),
		WithOnFinish(func(*Timeline) { h.sched.Remove(b) }))
	b = h.add(t, compileBox(t, slide()), WithAutoremove(false),
		WithOnFinish(func(*Timeline) { bFinished = true }))

	h.frames.Step()
	h.advance(1000)

	assert.Equal(t, 1, h.count(EventFinish, a.ID()))
	assert.Equal(t, 0, h.count(EventFinish, b.ID()))
	assert.False(t, bFinished)
	assert.False(t, b.Registered())
	assert.True(t, a.Registered())
}

func TestScheduler_OnFinishRestart(t *testing.T) {
	h := newHarness(t)
	restarts := 0
	tl := h.add(t, compileBox(t, slide()), WithOnFinish(func(tl *Timeline) {
		restarts++
		require.NoError(t, tl.Play())
	}))
	h.frames.Step()
	h.advance(1000)

	assert.Equal(t, 1, restarts)
	assert.True(t, tl.Registered(), "a restarted timeline is not auto-removed")
	assert.True(t, h.sched.Ticking())

	h.advance(16)
	assert.Equal(t, 0.0, timeOf(t, tl))
	h.advance(250)
	assert.Equal(t, 250.0, timeOf(t, tl))
}

func TestScheduler_CallbackOrderFollowsRegistration(t *testing.T) {
	h := newHarness(t)
	var order []string
	record := func(tl *Timeline) { order = append(order, tl.ID()) }
	h.add(t, compileBox(t, slide()), WithOnLoop(record)).SetLoop(1)
	h.add(t, compileBox(t, slide()), WithOnFinish(record))
	h.frames.Step()
	h.advance(1000)

	assert.Equal(t, []string{"tl-1", "tl-2"}, order)
}

func TestScheduler_Animate(t *testing.T) {
	h := newHarness(t)
	tl, err := h.sched.Animate([]ir.TargetKeyframes{{Target: "box", Keyframes: []ir.Keyframes{slide()}}},
		WithAutoplay(false))
	require.NoError(t, err)
	assert.Equal(t, "tl-1", tl.ID())
	assert.True(t, tl.Registered())
	assert.Equal(t, StateIdle, tl.State())
	assert.Equal(t, 1000.0, tl.Duration())
}

func TestScheduler_AnimateCompileErrorRegistersNothing(t *testing.T) {
	h := newHarness(t)
	_, err := h.sched.Animate([]ir.TargetKeyframes{{Target: "box", Keyframes: []ir.Keyframes{
		{Property: "posX", Times: []float64{0}, Values: []any{0}},
	}}})
	require.Error(t, err)
	assert.Equal(t, ir.ErrCodeNotEnoughTimes, ir.CodeOf(err))
	assert.Empty(t, h.sched.Timelines())
	assert.False(t, h.sched.Ticking())
}

type resolvingOutput struct {
	*recordingOutput
}

func (resolvingOutput) ResolveProperty(name string) (ir.PropertyInfo, bool) {
	if name == "visibility" {
		return ir.PropertyInfo{Kind: ir.KindStyle, Type: ir.TypeString}, true
	}
	return ir.PropertyInfo{}, false
}

func TestScheduler_AnimateUsesOutputResolver(t *testing.T) {
	out := resolvingOutput{newRecordingOutput()}
	s := NewScheduler(WithClock(testutil.NewManualClock(0)), WithOutput(out))
	_, err := s.Animate([]ir.TargetKeyframes{{Target: "box", Keyframes: []ir.Keyframes{
		{Property: "visibility", Times: []float64{0, 100}, Values: []any{"hidden", "visible"}},
	}}})
	require.NoError(t, err)

	// no frame primitive: the host drives frames
	s.Tick()
	assert.Equal(t, ir.Text("hidden"), out.values["box.visibility"])
}

func TestScheduler_AnimateScene(t *testing.T) {
	src := `
autoplay: false
autoremove: false
loop: 3
rate: 2
range: [100, 800]
markers: {mid: 400}
targets: box: [{p: "posX", t: [0, 1000], v: [0, 100]}]
`
	scene, err := compiler.ParseSceneBytes([]byte(src), "scene.cue")
	require.NoError(t, err)

	h := newHarness(t)
	tl, err := h.sched.AnimateScene(scene, func(id string) ir.Target { return id })
	require.NoError(t, err)

	assert.Equal(t, StateIdle, tl.State())
	assert.Equal(t, 3.0, tl.Loop())
	assert.Equal(t, 2.0, tl.Rate())
	in, out := tl.Range()
	assert.Equal(t, 100.0, in)
	assert.Equal(t, 800.0, out)
	v, ok := tl.Marker("mid")
	assert.True(t, ok)
	assert.Equal(t, 400.0, v)

	require.NoError(t, tl.Play())
	h.frames.Step()
	assert.Equal(t, 100.0, timeOf(t, tl))
	h.advance(100)
	assert.Equal(t, 300.0, timeOf(t, tl))
}

func TestScheduler_AnimateSceneOptionOverride(t *testing.T) {
	scene, err := compiler.ParseSceneBytes([]byte(`autoplay: false, targets: box: [{p: "posX", t: [0, 10], v: [0, 1]}]`), "s.cue")
	require.NoError(t, err)

	h := newHarness(t)
	tl, err := h.sched.AnimateScene(scene, func(id string) ir.Target { return id }, WithAutoplay(true))
	require.NoError(t, err)
	assert.Equal(t, StateRunning, tl.State())
}

func TestScheduler_EventsAreSequenced(t *testing.T) {
	h := newHarness(t)
	h.add(t, compileBox(t, slide()))
	h.frames.Step()
	h.advance(1000)

	require.NotEmpty(t, h.events)
	for i := 1; i < len(h.events); i++ {
		assert.Greater(t, h.events[i].Seq, h.events[i-1].Seq)
	}
	assert.Equal(t, EventAdd, h.events[0].Kind)
	last := h.events[len(h.events)-1]
	assert.Equal(t, EventFrame, last.Kind)
	assert.Equal(t, 2000.0, last.Time)
}
