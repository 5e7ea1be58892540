// Package harness runs animation scenarios against the engine with a
// manual clock and checks the resulting trace.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: slide_pause_seek
//	description: "Pausing freezes time; seeking while paused moves it"
//	scene: ../scenes/slide.cue      # or inline: cue: |
//	steps:
//	  - advance: 500                # ms on the manual clock, then one frame
//	  - op: pause
//	  - op: seek
//	    value: 250
//	  - op: seek
//	    marker: nope
//	    error: INVALID_MARKER       # the op must fail with this code
//	  - expect:
//	      state: paused
//	      time: 250
//	      attrs: {box.transform: "translate(25,0)"}
//	assertions:
//	  - type: trace_count
//	    event: finish
//	    count: 1
//
// # Operations
//
// play, pause, seek, rate, range, loop, remove, add, global_pause and
// global_play act on the scene's timeline or scheduler. play and pause take
// an optional value or marker; range takes value (in) and out.
//
// # Trace
//
// Every document write, lifecycle event and operation appends one line:
//
//	[f2 t=500] sample box.transform=translate(50,0)
//	[f2 t=500] op pause
//	[f5 t=1366] event finish slide-1
//
// Frame events are not traced. RunWithGolden compares the trace text with
// testdata/golden/<name>.golden.
//
// # Deterministic Testing
//
// Scenarios run on present.Player: a manual clock starting at 0, manual
// frames and timeline ids derived from the scene name. Identical scenarios
// produce identical traces.
package harness
