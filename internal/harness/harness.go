package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/engine"
	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/present"
)

// timeTolerance bounds float comparison of expected times.
const timeTolerance = 1e-9

// Harness executes one scenario on a headless player.
type Harness struct {
	player *present.Player
	result *Result
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load and compile the scene
//  2. Register its timeline on a fresh manual-clock player
//  3. Execute steps in order, tracing every write, event and op
//  4. Evaluate assertions against the trace
//
// Scene and compile failures are returned as errors. Failed expectations,
// unexpected op errors and failed assertions are recorded in the result.
func Run(scenario *Scenario) (*Result, error) {
	scene, err := loadScene(scenario)
	if err != nil {
		return nil, err
	}

	h := &Harness{result: NewResult()}
	p, err := present.NewPlayer(scene,
		present.WithSink(present.SinkFunc(h.onSample)),
		present.WithEventHook(h.onEvent),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start scene: %w", err)
	}
	h.player = p

	for i, step := range scenario.Steps {
		switch {
		case step.Advance != nil:
			p.Step(*step.Advance)
		case step.Op != "":
			h.executeOp(i, step)
		case step.Expect != nil:
			for _, msg := range h.check(step.Expect) {
				h.result.AddError(fmt.Sprintf("steps[%d].expect.%s", i, msg))
			}
		}
	}

	for _, msg := range EvaluateAssertions(h.result.Trace, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func loadScene(s *Scenario) (*compiler.Scene, error) {
	if s.Scene != "" {
		scene, err := compiler.LoadScene(s.Scene)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		return scene, nil
	}
	scene, err := compiler.ParseSceneBytes([]byte(s.CUE), s.Name+".cue")
	if err != nil {
		return nil, fmt.Errorf("failed to parse inline scene: %w", err)
	}
	return scene, nil
}

func (h *Harness) onSample(s present.Sample) error {
	h.result.Trace = append(h.result.Trace, TraceEntry{
		Kind:     KindSample,
		Frame:    s.Frame,
		Time:     s.Time,
		Target:   s.Target,
		Property: s.Property,
		Value:    s.Value,
	})
	return nil
}

func (h *Harness) onEvent(e engine.Event) {
	if e.Kind == engine.EventFrame {
		return
	}
	var frame int64
	if h.player != nil {
		frame = h.player.Frame()
	}
	h.result.Trace = append(h.result.Trace, TraceEntry{
		Kind:     KindEvent,
		Frame:    frame,
		Time:     e.Time,
		Event:    string(e.Kind),
		Timeline: e.TimelineID,
	})
}

// executeOp traces the op, then applies it. The op's line precedes any
// writes it causes.
func (h *Harness) executeOp(index int, step Step) {
	p := h.player
	idx := len(h.result.Trace)
	h.result.Trace = append(h.result.Trace, TraceEntry{
		Kind:  KindOp,
		Frame: p.Frame(),
		Time:  p.Clock.Now(),
		Op:    step.Op,
		Args:  opArgs(step),
	})

	err := applyOp(p, step)

	code := ""
	if err != nil {
		code = string(ir.CodeOf(err))
		h.result.Trace[idx].Code = code
	}
	switch {
	case step.Error != "" && err == nil:
		h.result.AddError(fmt.Sprintf("steps[%d]: op %s succeeded, want error %s", index, step.Op, step.Error))
	case step.Error != "" && code != step.Error:
		h.result.AddError(fmt.Sprintf("steps[%d]: op %s failed with %s, want %s", index, step.Op, code, step.Error))
	case step.Error == "" && err != nil:
		h.result.AddError(fmt.Sprintf("steps[%d]: op %s: %v", index, step.Op, err))
	}
}

func timeRef(step Step) (engine.TimeRef, bool) {
	switch {
	case step.Marker != "":
		return engine.Marker(step.Marker), true
	case step.Value != nil:
		return engine.Ms(*step.Value), true
	}
	return engine.TimeRef{}, false
}

func opArgs(step Step) string {
	ref, ok := timeRef(step)
	if !ok {
		return ""
	}
	args := ref.String()
	if step.Op == OpRange && step.Out != nil {
		args += " " + formatFloat(*step.Out)
	}
	return args
}

func applyOp(p *present.Player, step Step) error {
	tl := p.Timeline
	ref, hasRef := timeRef(step)
	switch step.Op {
	case OpPlay:
		if hasRef {
			return tl.PlayFrom(ref)
		}
		return tl.Play()
	case OpPause:
		if hasRef {
			return tl.PauseAt(ref)
		}
		return tl.Pause()
	case OpSeek:
		return tl.Seek(ref)
	case OpRate:
		return tl.SetRate(*step.Value)
	case OpRange:
		if step.Out != nil {
			return tl.SetRange(ref, engine.Ms(*step.Out))
		}
		return tl.SetRangeFrom(ref)
	case OpLoop:
		tl.SetLoop(*step.Value)
	case OpRemove:
		p.Sched.Remove(tl)
	case OpAdd:
		return p.Sched.Add(tl)
	case OpGlobalPause:
		p.Sched.GlobalPause()
	case OpGlobalPlay:
		p.Sched.GlobalPlay()
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// check compares the expectation with the live state and returns one
// message per mismatch.
func (h *Harness) check(exp *Expect) []string {
	var msgs []string
	tl := h.player.Timeline
	sched := h.player.Sched

	if exp.State != "" {
		if got := tl.State().String(); got != exp.State {
			msgs = append(msgs, fmt.Sprintf("state: got %s, want %s", got, exp.State))
		}
	}
	if exp.Time != nil {
		got, ok := tl.Time()
		switch {
		case !ok:
			msgs = append(msgs, fmt.Sprintf("time: timeline is idle, want %s", formatFloat(*exp.Time)))
		case math.Abs(got-*exp.Time) > timeTolerance:
			msgs = append(msgs, fmt.Sprintf("time: got %s, want %s", formatFloat(got), formatFloat(*exp.Time)))
		}
	}
	if exp.Loop != nil && tl.Loop() != *exp.Loop {
		msgs = append(msgs, fmt.Sprintf("loop: got %s, want %s", formatFloat(tl.Loop()), formatFloat(*exp.Loop)))
	}
	if exp.Rate != nil && tl.Rate() != *exp.Rate {
		msgs = append(msgs, fmt.Sprintf("rate: got %s, want %s", formatFloat(tl.Rate()), formatFloat(*exp.Rate)))
	}
	if exp.Global != "" {
		if got := sched.GlobalState().String(); got != exp.Global {
			msgs = append(msgs, fmt.Sprintf("global: got %s, want %s", got, exp.Global))
		}
	}
	if exp.Registered != nil {
		if got := len(sched.Timelines()); got != *exp.Registered {
			msgs = append(msgs, fmt.Sprintf("registered: got %d, want %d", got, *exp.Registered))
		}
	}
	msgs = append(msgs, h.checkValues("attrs", exp.Attrs, (*present.Element).Attr)...)
	msgs = append(msgs, h.checkValues("styles", exp.Styles, (*present.Element).Style)...)
	return msgs
}

func (h *Harness) checkValues(field string, want map[string]string, get func(*present.Element, string) (string, bool)) []string {
	var msgs []string
	for _, key := range sortedKeys(want) {
		i := strings.LastIndex(key, ".")
		if i <= 0 || i == len(key)-1 {
			msgs = append(msgs, fmt.Sprintf("%s[%s]: key must be element.name", field, key))
			continue
		}
		el, ok := h.player.Doc.Lookup(key[:i])
		if !ok {
			msgs = append(msgs, fmt.Sprintf("%s[%s]: no element %q", field, key, key[:i]))
			continue
		}
		got, ok := get(el, key[i+1:])
		if !ok {
			msgs = append(msgs, fmt.Sprintf("%s[%s]: not set, want %q", field, key, want[key]))
			continue
		}
		if got != want[key] {
			msgs = append(msgs, fmt.Sprintf("%s[%s]: got %q, want %q", field, key, got, want[key]))
		}
	}
	return msgs
}
