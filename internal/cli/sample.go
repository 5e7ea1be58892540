package cli

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/keyframe/internal/compiler"
	"github.com/roach88/keyframe/internal/engine"
	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/present"
)

// Run defaults shared by sample and record.
const (
	DefaultFPS      = 60.0
	DefaultDuration = 10000.0
)

// PlaybackOptions holds the manual-clock run flags.
type PlaybackOptions struct {
	FPS      float64
	Duration float64 // upper bound, ms
}

func (o *PlaybackOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.FPS, "fps", DefaultFPS, "frames per second of the manual clock")
	cmd.Flags().Float64Var(&o.Duration, "duration", DefaultDuration, "maximum run length in ms (stops earlier when the scene finishes)")
}

func (o *PlaybackOptions) validate() error {
	if o.FPS <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--fps must be positive, got %g", o.FPS))
	}
	if o.Duration < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--duration must not be negative, got %g", o.Duration))
	}
	return nil
}

// SampleOptions holds flags for the sample command.
type SampleOptions struct {
	*RootOptions
	PlaybackOptions
}

// SampleValue is one document write.
type SampleValue struct {
	Target   string `json:"target"`
	Property string `json:"property"`
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	// Swatch previews color values.
	Swatch string `json:"swatch,omitempty"`
}

// FrameSamples holds the writes and lifecycle events of one frame.
type FrameSamples struct {
	Frame  int64         `json:"frame"`
	Time   float64       `json:"time"`
	Values []SampleValue `json:"values"`
	Events []string      `json:"events,omitempty"`
}

// SampleResult is the sample command output.
type SampleResult struct {
	Scene    string         `json:"scene"`
	Timeline string         `json:"timeline"`
	Ran      int            `json:"frames_run"`
	Frames   []FrameSamples `json:"frames"`
}

// NewSampleCommand creates the sample command.
func NewSampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SampleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sample <scene.cue>",
		Short: "Play a scene headlessly and print every frame",
		Long: `Play a scene on a manual clock and print the values written each frame.

The clock advances 1000/fps ms per frame. The run stops when the scene
stops requesting frames or after --duration ms.

Examples:
  keyframe sample ./scenes/slide.cue
  keyframe sample ./scenes/slide.cue --fps 10 --duration 2000
  keyframe sample ./scenes/slide.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(opts, args[0], cmd)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runSample(opts *SampleOptions, path string, cmd *cobra.Command) error {
	if err := opts.validate(); err != nil {
		return err
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	scene, err := loadScene(path)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(ExitCommandError, "failed to load scene", err)
	}

	collector := newFrameCollector()
	player, err := present.NewPlayer(scene,
		present.WithSink(collector.recorder),
		present.WithEventHook(collector.onEvent),
	)
	if err != nil {
		_ = formatter.Fail(err)
		return WrapExitError(ExitFailure, "failed to start scene", err)
	}
	collector.player = player

	ran := player.Run(opts.FPS, opts.Duration)
	formatter.VerboseLog("Ran %d frame(s) of %s", ran, player.Timeline.ID())

	result := SampleResult{
		Scene:    sceneName(scene, path),
		Timeline: player.Timeline.ID(),
		Ran:      ran,
		Frames:   collector.frames(),
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	writeSampleText(formatter.Writer, result)
	return nil
}

// frameCollector groups recorded samples and events by frame.
type frameCollector struct {
	player   *present.Player
	recorder *present.Recorder
	events   map[int64][]string
}

func newFrameCollector() *frameCollector {
	return &frameCollector{
		recorder: present.NewRecorder(),
		events:   make(map[int64][]string),
	}
}

func (c *frameCollector) onEvent(e engine.Event) {
	if e.Kind == engine.EventFrame {
		return
	}
	var frame int64
	if c.player != nil {
		frame = c.player.Frame()
	}
	c.events[frame] = append(c.events[frame], fmt.Sprintf("%s %s", e.Kind, e.TimelineID))
}

func (c *frameCollector) frames() []FrameSamples {
	out := []FrameSamples{}
	index := make(map[int64]int)
	get := func(frame int64, t float64) *FrameSamples {
		i, ok := index[frame]
		if !ok {
			i = len(out)
			index[frame] = i
			out = append(out, FrameSamples{Frame: frame, Time: t, Values: []SampleValue{}})
		}
		return &out[i]
	}

	for _, s := range c.recorder.Samples() {
		fs := get(s.Frame, s.Time)
		sv := SampleValue{
			Target:   s.Target,
			Property: s.Property,
			Kind:     s.Kind.String(),
			Value:    s.Value,
		}
		if col, ok := s.Raw.(ir.Color); ok {
			sv.Swatch = present.Swatch(col)
		}
		fs.Values = append(fs.Values, sv)
	}
	for i := range out {
		out[i].Events = c.events[out[i].Frame]
		delete(c.events, out[i].Frame)
	}
	// frames that only raised events (the final finish, say)
	for frame, events := range c.events {
		out = append(out, FrameSamples{Frame: frame, Values: []SampleValue{}, Events: events})
	}
	slices.SortStableFunc(out, func(a, b FrameSamples) int {
		return cmp.Compare(a.Frame, b.Frame)
	})
	return out
}

func writeSampleText(w io.Writer, result SampleResult) {
	fmt.Fprintf(w, "Scene: %s (timeline %s)\n", result.Scene, result.Timeline)
	for _, f := range result.Frames {
		fmt.Fprintf(w, "\nframe %d t=%gms\n", f.Frame, f.Time)
		for _, v := range f.Values {
			fmt.Fprintf(w, "  %s.%s = %s", v.Target, v.Property, v.Value)
			if v.Swatch != "" {
				fmt.Fprintf(w, "  [%s]", v.Swatch)
			}
			fmt.Fprintln(w)
		}
		for _, e := range f.Events {
			fmt.Fprintf(w, "  ! %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d frame(s)\n", result.Ran)
}

func sceneName(scene *compiler.Scene, path string) string {
	if scene.Name != "" {
		return scene.Name
	}
	return path
}
