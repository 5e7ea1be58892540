package engine

import (
	"math"
	"strconv"

	"github.com/roach88/keyframe/internal/interp"
	"github.com/roach88/keyframe/internal/ir"
)

// State is the derived playback state of a timeline.
type State int

const (
	StateIdle State = iota
	StatePaused
	StateRunning
	StateFinished
)

var stateNames = [...]string{"idle", "paused", "running", "finished"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// TimeRef is a time argument: milliseconds or a marker name resolved
// through the timeline's marker table.
type TimeRef struct {
	ms     float64
	marker string
	named  bool
}

// Ms returns a TimeRef for a time in milliseconds.
func Ms(v float64) TimeRef {
	return TimeRef{ms: v}
}

// Marker returns a TimeRef for a named marker.
func Marker(name string) TimeRef {
	return TimeRef{marker: name, named: true}
}

// String renders the reference for logs and traces.
func (r TimeRef) String() string {
	if r.named {
		return "marker:" + r.marker
	}
	return strconv.FormatFloat(r.ms, 'g', -1, 64)
}

// optional is a time value that may be unset.
type optional struct {
	v  float64
	ok bool
}

func some(v float64) optional { return optional{v: v, ok: true} }

var none = optional{}

// Timeline plays one compiled animation against the scheduler clock.
//
// All methods must be called from the scheduler's goroutine. Callbacks set
// with WithOnFinish and WithOnLoop run on that goroutine too, after every
// timeline of the frame has been updated, and may call any method of any
// timeline.
type Timeline struct {
	id    string
	sched *Scheduler
	anim  *ir.Animation
	cfg   timelineConfig

	rate      float64
	loopCount float64
	rangeIn   float64
	rangeOut  float64

	hold  optional
	start optional
	// prev is the current time seen at the end of the last finished-state
	// check. A natural finish freezes at max(prev, rangeOut) so a jump past
	// the boundary is not clamped.
	prev optional

	pendingPlay bool
	baseStored  bool
	registered  bool
}

// ID returns the timeline identifier.
func (tl *Timeline) ID() string {
	return tl.id
}

// Animation returns the compiled animation played by the timeline.
func (tl *Timeline) Animation() *ir.Animation {
	return tl.anim
}

// Registered reports whether the timeline is added to its scheduler.
func (tl *Timeline) Registered() bool {
	return tl.registered
}

// Play starts playback from the current time. A finished timeline restarts
// from the range edge for its rate.
func (tl *Timeline) Play() error {
	if !tl.registered {
		return NewNotRegisteredError(tl.id)
	}
	return tl.play()
}

// PlayFrom seeks to ref, clamped into the range for the current rate
// direction, then starts playback.
func (tl *Timeline) PlayFrom(ref TimeRef) error {
	if !tl.registered {
		return NewNotRegisteredError(tl.id)
	}
	ms, err := tl.resolveTime(ref)
	if err != nil {
		return err
	}
	if tl.rate < 0 && ms < tl.rangeIn {
		ms = tl.rangeIn
	}
	if tl.rate > 0 && ms > tl.rangeOut {
		ms = tl.rangeOut
	}
	tl.setCurrentTime(ms, true)
	return tl.play()
}

func (tl *Timeline) play() error {
	t := tl.currentTime()
	switch {
	case tl.rate > 0 && (!t.ok || t.v >= tl.rangeOut):
		tl.hold = some(tl.rangeIn)
	case tl.rate < 0 && (!t.ok || t.v <= tl.rangeIn):
		if math.IsInf(tl.rangeOut, 1) {
			return NewCannotSeekInfiniteError(tl.id)
		}
		tl.hold = some(tl.rangeOut)
	case tl.rate == 0 && !t.ok:
		tl.hold = some(tl.rangeIn)
	}

	// already playing
	if !tl.hold.ok {
		return nil
	}

	// the start time is taken from the clock of the next frame
	tl.start = none
	tl.pendingPlay = true
	tl.saveBaseTransform()
	tl.sched.startTicking()
	return nil
}

// Pause freezes the timeline at its current time. An idle timeline is
// paused at the range edge for its rate.
func (tl *Timeline) Pause() error {
	if !tl.registered {
		return NewNotRegisteredError(tl.id)
	}
	return tl.pause()
}

// PauseAt pauses the timeline and then seeks to ref.
func (tl *Timeline) PauseAt(ref TimeRef) error {
	if !tl.registered {
		return NewNotRegisteredError(tl.id)
	}
	ms, err := tl.resolveTime(ref)
	if err != nil {
		return err
	}
	if err := tl.pause(); err != nil {
		return err
	}
	tl.setCurrentTime(ms, true)
	return nil
}

func (tl *Timeline) pause() error {
	if tl.state() == StatePaused {
		return nil
	}
	tl.sched.updateSysTime()
	cur := tl.currentTime()
	if !cur.ok {
		if tl.rate < 0 && math.IsInf(tl.rangeOut, 1) {
			return NewCannotSeekInfiniteError(tl.id)
		}
		if tl.rate >= 0 {
			tl.hold = some(tl.rangeIn)
		} else {
			tl.hold = some(tl.rangeOut)
		}
	}
	if tl.start.ok && !tl.hold.ok {
		tl.hold = cur
	}
	tl.start = none
	tl.pendingPlay = false
	// start is unset, so no callback can be raised here
	tl.updateFinishedState(false)
	tl.saveBaseTransform()
	tl.sched.startTicking()
	return nil
}

// Seek sets the current time. Seeking past a range boundary is not
// clamped: the timeline finishes holding the sought time.
func (tl *Timeline) Seek(ref TimeRef) error {
	if !tl.registered {
		return NewNotRegisteredError(tl.id)
	}
	ms, err := tl.resolveTime(ref)
	if err != nil {
		return err
	}
	tl.setCurrentTime(ms, true)
	return nil
}

// Time returns the current time, or false while the timeline is idle.
func (tl *Timeline) Time() (float64, bool) {
	t := tl.currentTime()
	return t.v, t.ok
}

// SetRange restricts playback to [in, out]. A finished timeline that the
// new range puts back into the running state resumes playing.
func (tl *Timeline) SetRange(in, out TimeRef) error {
	pin, err := tl.resolveMarker(in)
	if err != nil {
		return err
	}
	pout, err := tl.resolveMarker(out)
	if err != nil {
		return err
	}
	return tl.setRange(pin, pout)
}

// SetRangeFrom restricts playback to [in, Duration()].
func (tl *Timeline) SetRangeFrom(in TimeRef) error {
	pin, err := tl.resolveMarker(in)
	if err != nil {
		return err
	}
	return tl.setRange(pin, tl.anim.EndTime)
}

func (tl *Timeline) setRange(in, out float64) error {
	if !isFinite(in) || in < 0 || out < 0 || in >= out || math.IsNaN(out) {
		return NewInvalidRangeError(tl.id, in, out)
	}
	old := tl.state()
	tl.rangeIn = in
	tl.rangeOut = out
	if old == StateFinished && tl.state() == StateRunning {
		return tl.Play()
	}
	return nil
}

// Range returns the playback range.
func (tl *Timeline) Range() (in, out float64) {
	return tl.rangeIn, tl.rangeOut
}

// SetLoop sets the remaining loop count. The count is floored; negative
// and NaN counts disable looping. math.Inf(1) loops forever.
func (tl *Timeline) SetLoop(count float64) {
	c := math.Floor(count)
	if c < 0 || math.IsNaN(c) {
		c = 0
	}
	tl.loopCount = c
}

// LoopForever makes the timeline loop without bound.
func (tl *Timeline) LoopForever() {
	tl.loopCount = math.Inf(1)
}

// Loop returns the remaining loop count.
func (tl *Timeline) Loop() float64 {
	return tl.loopCount
}

// SetRate changes the playback rate while keeping the current time.
// Zero stops progress; a negative rate plays backwards.
func (tl *Timeline) SetRate(v float64) error {
	if !isFinite(v) {
		return NewNonFiniteError(tl.id, "rate", v)
	}
	tl.sched.updateSysTime()
	old := tl.currentTime()
	tl.rate = v
	if old.ok {
		tl.setCurrentTime(old.v, false)
	}
	return nil
}

// Rate returns the playback rate.
func (tl *Timeline) Rate() float64 {
	return tl.rate
}

// State returns the derived playback state.
func (tl *Timeline) State() State {
	return tl.state()
}

// Duration returns the end time of the animation, +Inf if any track
// repeats forever.
func (tl *Timeline) Duration() float64 {
	return tl.anim.EndTime
}

// Marker returns the time of a named marker.
func (tl *Timeline) Marker(name string) (float64, bool) {
	v, ok := tl.cfg.markers[name]
	return v, ok
}

// SetOnFinish replaces the finish callback.
func (tl *Timeline) SetOnFinish(fn func(*Timeline)) {
	tl.cfg.onFinish = fn
}

// SetOnLoop replaces the loop callback.
func (tl *Timeline) SetOnLoop(fn func(*Timeline)) {
	tl.cfg.onLoop = fn
}

func (tl *Timeline) resolveMarker(ref TimeRef) (float64, error) {
	if !ref.named {
		return ref.ms, nil
	}
	v, ok := tl.cfg.markers[ref.marker]
	if !ok {
		return 0, NewInvalidMarkerError(tl.id, ref.marker)
	}
	return v, nil
}

// resolveTime resolves ref and rejects non-finite times.
func (tl *Timeline) resolveTime(ref TimeRef) (float64, error) {
	ms, err := tl.resolveMarker(ref)
	if err != nil {
		return 0, err
	}
	if !isFinite(ms) {
		return 0, NewNonFiniteError(tl.id, "time", ms)
	}
	return ms, nil
}

func (tl *Timeline) currentTime() optional {
	if tl.hold.ok {
		return tl.hold
	}
	if !tl.start.ok {
		return none
	}
	return some((tl.sched.sys - tl.start.v) * tl.rate)
}

func (tl *Timeline) state() State {
	if tl.pendingPlay {
		return StateRunning
	}
	cur := tl.currentTime()
	if !cur.ok {
		return StateIdle
	}
	if !tl.start.ok {
		return StatePaused
	}
	if (tl.rate > 0 && cur.v >= tl.rangeOut) || (tl.rate < 0 && cur.v <= tl.rangeIn) {
		return StateFinished
	}
	return StateRunning
}

func (tl *Timeline) setCurrentTime(seek float64, updateTime bool) {
	if updateTime {
		tl.sched.updateSysTime()
	}
	tl.saveBaseTransform()
	if tl.hold.ok || !tl.start.ok || tl.rate == 0 {
		tl.hold = some(seek)
		// refresh values now, the frame loop may not be running
		tl.sched.updateAll(false)
	} else {
		tl.start = some(tl.sched.sys - seek/tl.rate)
	}
	if !tl.registered {
		tl.start = none
	}
	tl.prev = none
	tl.updateFinishedState(true)
	tl.sched.startTicking()
}

// updateFinishedState handles the range boundary for the current rate and
// returns the callback it raised, 0 if none. didSeek distinguishes explicit
// seeks from frame updates.
func (tl *Timeline) updateFinishedState(didSeek bool) CallbackKind {
	var cb CallbackKind
	if tl.start.ok {
		cur := tl.currentTime()
		switch {
		case tl.rate > 0 && cur.ok && cur.v >= tl.rangeOut:
			if tl.loopCount > 0 {
				tl.start = some(tl.sched.sys - tl.rangeIn/tl.rate)
				tl.loopCount--
				cb = CallbackLoop
				break
			}
			cb = CallbackFinish
			switch {
			case didSeek:
				tl.hold = cur
			case tl.prev.ok:
				tl.hold = some(math.Max(tl.prev.v, tl.rangeOut))
			default:
				tl.hold = some(tl.rangeOut)
			}

		case tl.rate < 0 && cur.ok && cur.v <= tl.rangeIn:
			if tl.loopCount > 0 && !math.IsInf(tl.rangeOut, 1) {
				tl.start = some(tl.sched.sys - tl.rangeOut/tl.rate)
				tl.loopCount--
				cb = CallbackLoop
				break
			}
			// an unbounded range cannot loop back from its end
			tl.loopCount = 0
			cb = CallbackFinish
			switch {
			case didSeek:
				tl.hold = cur
			case tl.prev.ok:
				tl.hold = some(math.Min(tl.prev.v, tl.rangeIn))
			default:
				tl.hold = some(tl.rangeIn)
			}

		case cur.ok && tl.rate != 0:
			// back from finished to running
			if didSeek && tl.hold.ok {
				tl.start = some(tl.sched.sys - tl.hold.v/tl.rate)
			}
			tl.hold = none
		}
	}
	tl.prev = tl.currentTime()
	return cb
}

// updateValues writes the value of every track for the current time.
// On the main frame pass it also resolves a pending play and queues loop
// and finish callbacks. Returns true while the timeline is running.
func (tl *Timeline) updateValues(main bool) bool {
	s := tl.sched
	if main {
		if tl.pendingPlay {
			tl.pendingPlay = false
			if !tl.start.ok {
				if tl.rate != 0 && tl.hold.ok {
					tl.start = some(s.sys - tl.hold.v/tl.rate)
					tl.hold = none
				} else {
					tl.start = some(s.sys)
				}
			}
		}
		if !tl.hold.ok && tl.start.ok {
			if cb := tl.updateFinishedState(false); cb != 0 {
				s.callbacks.push(tl, cb)
			}
		}
	}

	cur := tl.currentTime()
	if !cur.ok {
		return false
	}

	for _, tt := range tl.anim.Targets {
		hasTransform := false
		for _, tr := range tt.Tracks {
			s.out.SetValue(tt.Target, tr, interp.Sample(tr, cur.v))
			if tr.Channel.IsTransform() {
				hasTransform = true
			}
		}
		if hasTransform {
			s.out.ApplyTransform(tt.Target)
		}
	}
	return tl.state() == StateRunning
}

// saveBaseTransform snapshots the pre-animation transform of every target
// with a transform track. It runs once per timeline.
func (tl *Timeline) saveBaseTransform() {
	if tl.baseStored {
		return
	}
	tl.baseStored = true
	for _, tt := range tl.anim.Targets {
		for _, tr := range tt.Tracks {
			if tr.Channel.IsTransform() {
				tl.sched.out.CaptureBaseTransform(tt.Target)
				break
			}
		}
	}
}

// cancel returns a registered, non-idle timeline to idle without raising
// callbacks.
func (tl *Timeline) cancel() {
	if !tl.registered || tl.state() == StateIdle {
		return
	}
	tl.hold = none
	tl.start = none
	tl.pendingPlay = false
}

func (tl *Timeline) performAutoRemove() {
	if tl.cfg.autoremove && tl.state() == StateFinished {
		tl.sched.Remove(tl)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
