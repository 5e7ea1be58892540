package store

import (
	"context"
	"fmt"
)

// RunState is a run folded back into its final document state.
type RunState struct {
	Run     Run
	Frames  int64
	LastSeq int64
	// Final maps "target.property" to the last value written.
	Final map[string]string
	// Finished lists timelines that raised a finish event, in order.
	Finished []string
	Loops    int
}

// GetRunState replays the samples and events of a run and returns its
// final state.
func (s *Store) GetRunState(ctx context.Context, runID string) (RunState, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return RunState{}, err
	}
	state := RunState{Run: run, Final: make(map[string]string)}

	samples, err := s.ReadSamples(ctx, runID)
	if err != nil {
		return state, fmt.Errorf("get run state: %w", err)
	}
	for _, sample := range samples {
		state.Final[sample.Target+"."+sample.Property] = sample.Value
		if sample.Frame > state.Frames {
			state.Frames = sample.Frame
		}
		if sample.Seq > state.LastSeq {
			state.LastSeq = sample.Seq
		}
	}

	events, err := s.ReadEvents(ctx, runID)
	if err != nil {
		return state, fmt.Errorf("get run state: %w", err)
	}
	for _, e := range events {
		if e.Seq > state.LastSeq {
			state.LastSeq = e.Seq
		}
		switch e.Kind {
		case "finish":
			state.Finished = append(state.Finished, e.TimelineID)
		case "loop":
			state.Loops++
		}
	}
	return state, nil
}

// TraceEntry is one item of a merged run trace: exactly one of Sample and
// Event is set.
type TraceEntry struct {
	Seq    int64
	Sample *Sample
	Event  *Event
}

// ReplayRun returns the samples and events of a run as one stream in seq
// order. Equal seqs (which a single writer never produces) put events
// first.
func (s *Store) ReplayRun(ctx context.Context, runID string) ([]TraceEntry, error) {
	samples, err := s.ReadSamples(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay run: %w", err)
	}
	events, err := s.ReadEvents(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("replay run: %w", err)
	}

	out := make([]TraceEntry, 0, len(samples)+len(events))
	i, j := 0, 0
	for i < len(samples) || j < len(events) {
		if j < len(events) && (i == len(samples) || events[j].Seq <= samples[i].Seq) {
			out = append(out, TraceEntry{Seq: events[j].Seq, Event: &events[j]})
			j++
			continue
		}
		out = append(out, TraceEntry{Seq: samples[i].Seq, Sample: &samples[i]})
		i++
	}
	return out, nil
}
