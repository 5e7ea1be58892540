package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/keyframe/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Target   string // optional - filter samples to one target
}

// TraceEntry is one line of a run timeline.
type TraceEntry struct {
	Seq      int64   `json:"seq"`
	Type     string  `json:"type"` // "sample" or "event"
	Frame    int64   `json:"frame,omitempty"`
	Time     float64 `json:"time"`
	Target   string  `json:"target,omitempty"`
	Property string  `json:"property,omitempty"`
	Value    string  `json:"value,omitempty"`
	Event    string  `json:"event,omitempty"`
	Timeline string  `json:"timeline,omitempty"`
}

// TraceStats holds summary statistics for a run.
type TraceStats struct {
	Entries  int      `json:"entries"`
	Samples  int      `json:"samples"`
	Events   int      `json:"events"`
	Frames   int64    `json:"frames"`
	Loops    int      `json:"loops"`
	Finished []string `json:"finished"`
}

// TraceResult holds the complete trace output of one run.
type TraceResult struct {
	Run      RunSummary        `json:"run"`
	Timeline []TraceEntry      `json:"timeline"`
	Final    map[string]string `json:"final"`
	Stats    TraceStats        `json:"stats"`
}

// RunSummary describes a stored run.
type RunSummary struct {
	ID            string  `json:"id"`
	Scene         string  `json:"scene"`
	FPS           float64 `json:"fps"`
	Duration      float64 `json:"duration"`
	SceneHash     string  `json:"scene_hash,omitempty"`
	EngineVersion string  `json:"engine_version"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Read recorded runs back",
		Long: `Read runs recorded with "keyframe record".

Without --run, lists every stored run. With --run, prints the run's
samples and lifecycle events in seq order, followed by the final value
of every property.

Examples:
  keyframe trace --db ./runs.db
  keyframe trace --db ./runs.db --run slide-a
  keyframe trace --db ./runs.db --run slide-a --target box --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to read")
	cmd.Flags().StringVar(&opts.Target, "target", "", "only show samples for this target")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, formatter)
	}

	state, err := st.GetRunState(ctx, opts.RunID)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error("RUN_NOT_FOUND", fmt.Sprintf("no run %s", opts.RunID), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to get run state", err)
	}

	entries, err := st.ReplayRun(ctx, opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay run", err)
	}

	result := buildTrace(state, entries, opts.Target)
	if formatter.JSON() {
		return formatter.Success(result)
	}
	writeTraceText(formatter.Writer, result)
	return nil
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, summarize(r))
	}
	if formatter.JSON() {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, r := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %s  fps=%g duration=%gms engine=%s\n",
			r.ID, r.Scene, r.FPS, r.Duration, r.EngineVersion)
	}
	return nil
}

// buildTrace converts a replayed run to trace output. A target filter
// hides other targets' samples and their final values; events are kept.
func buildTrace(state store.RunState, entries []store.TraceEntry, target string) TraceResult {
	result := TraceResult{
		Run:      summarize(state.Run),
		Timeline: []TraceEntry{},
		Final:    make(map[string]string),
		Stats: TraceStats{
			Frames:   state.Frames,
			Loops:    state.Loops,
			Finished: state.Finished,
		},
	}
	if result.Stats.Finished == nil {
		result.Stats.Finished = []string{}
	}

	for _, e := range entries {
		switch {
		case e.Sample != nil:
			s := e.Sample
			if target != "" && s.Target != target {
				continue
			}
			result.Timeline = append(result.Timeline, TraceEntry{
				Seq:      e.Seq,
				Type:     "sample",
				Frame:    s.Frame,
				Time:     s.Time,
				Target:   s.Target,
				Property: s.Property,
				Value:    s.Value,
			})
			result.Stats.Samples++
		case e.Event != nil:
			result.Timeline = append(result.Timeline, TraceEntry{
				Seq:      e.Seq,
				Type:     "event",
				Time:     e.Event.Time,
				Event:    e.Event.Kind,
				Timeline: e.Event.TimelineID,
			})
			result.Stats.Events++
		}
	}
	result.Stats.Entries = len(result.Timeline)

	for key, value := range state.Final {
		if target != "" && !strings.HasPrefix(key, target+".") {
			continue
		}
		result.Final[key] = value
	}
	return result
}

func summarize(r store.Run) RunSummary {
	return RunSummary{
		ID:            r.ID,
		Scene:         r.Scene,
		FPS:           r.FPS,
		Duration:      r.Duration,
		SceneHash:     r.SceneHash,
		EngineVersion: r.EngineVersion,
	}
}

func writeTraceText(w io.Writer, result TraceResult) {
	fmt.Fprintf(w, "Run: %s (%s)\n", result.Run.ID, result.Run.Scene)
	if h := result.Run.SceneHash; len(h) >= 12 {
		fmt.Fprintf(w, "Scene hash: %s\n", h[:12])
	}
	fmt.Fprintf(w, "Entries: %d (%d samples, %d events)\n\n",
		result.Stats.Entries, result.Stats.Samples, result.Stats.Events)

	for _, e := range result.Timeline {
		switch e.Type {
		case "sample":
			fmt.Fprintf(w, "[%d] f%d t=%g %s.%s = %s\n", e.Seq, e.Frame, e.Time, e.Target, e.Property, e.Value)
		case "event":
			fmt.Fprintf(w, "[%d] t=%g %s %s\n", e.Seq, e.Time, e.Event, e.Timeline)
		}
	}

	if len(result.Final) > 0 {
		fmt.Fprintln(w, "\nFinal values:")
		keys := make([]string, 0, len(result.Final))
		for k := range result.Final {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s = %s\n", k, result.Final[k])
		}
	}
}
