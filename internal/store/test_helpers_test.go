package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/keyframe/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun inserts a run with minimal required fields.
func createTestRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	run := Run{ID: id, Scene: "scenes/slide.cue", FPS: 60, Duration: 1000}
	if err := s.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	return run
}

// createTestSample creates a numeric opacity sample.
func createTestSample(runID string, seq, frame int64, v float64) Sample {
	return Sample{
		RunID:    runID,
		Seq:      seq,
		Frame:    frame,
		Time:     float64(frame) * 16,
		Target:   "box",
		Property: "opacity",
		Kind:     "style",
		Type:     "number",
		Value:    "",
		Raw:      ir.Number(v),
	}
}
