package store

import (
	"context"
	"testing"
)

func TestGetRunState_FoldsSamplesAndEvents(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	writes := []Sample{
		createTestSample("run-1", 2, 1, 0),
		createTestSample("run-1", 4, 2, 0.5),
	}
	writes[0].Value = "0"
	writes[1].Value = "0.5"
	for _, w := range writes {
		if err := s.WriteSample(ctx, w); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []Event{
		{RunID: "run-1", Seq: 1, Kind: "add", TimelineID: "tl-1"},
		{RunID: "run-1", Seq: 3, Kind: "loop", TimelineID: "tl-1"},
		{RunID: "run-1", Seq: 5, Kind: "finish", TimelineID: "tl-1"},
	} {
		if err := s.WriteEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	state, err := s.GetRunState(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRunState() failed: %v", err)
	}
	if got := state.Final["box.opacity"]; got != "0.5" {
		t.Errorf("final opacity = %q, want 0.5", got)
	}
	if state.Frames != 2 || state.LastSeq != 5 || state.Loops != 1 {
		t.Errorf("state = %+v", state)
	}
	if len(state.Finished) != 1 || state.Finished[0] != "tl-1" {
		t.Errorf("Finished = %v", state.Finished)
	}
}

func TestGetRunState_UnknownRun(t *testing.T) {
	s := createTestStore(t)
	if _, err := s.GetRunState(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestReplayRun_MergesBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestRun(t, s, "run-1")

	if err := s.WriteEvent(ctx, Event{RunID: "run-1", Seq: 1, Kind: "add", TimelineID: "tl-1"}); err != nil {
		t.Fatal(err)
	}
	for _, seq := range []int64{2, 3} {
		if err := s.WriteSample(ctx, createTestSample("run-1", seq, 1, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.WriteEvent(ctx, Event{RunID: "run-1", Seq: 4, Kind: "finish", TimelineID: "tl-1"}); err != nil {
		t.Fatal(err)
	}

	trace, err := s.ReplayRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReplayRun() failed: %v", err)
	}
	if len(trace) != 4 {
		t.Fatalf("len = %d, want 4", len(trace))
	}
	for i, entry := range trace {
		if entry.Seq != int64(i+1) {
			t.Errorf("trace[%d].Seq = %d", i, entry.Seq)
		}
	}
	if trace[0].Event == nil || trace[1].Sample == nil || trace[3].Event == nil {
		t.Errorf("unexpected entry kinds: %+v", trace)
	}
}
