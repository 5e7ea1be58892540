package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/keyframe/internal/engine"
	"github.com/roach88/keyframe/internal/present"
)

// RunWriter records one run: it is a present.Sink for document writes and
// an engine event hook for lifecycle events. Both share one seq counter.
//
// Not thread-safe: use it from the scheduler's goroutine.
type RunWriter struct {
	store *Store
	ctx   context.Context
	run   Run
	seq   int64
	err   error
}

// NewRunWriter creates the run record and returns a writer for it. An empty
// run.ID gets a fresh UUIDv7.
func (s *Store) NewRunWriter(ctx context.Context, run Run) (*RunWriter, error) {
	if run.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate run id: %w", err)
		}
		run.ID = id.String()
	}
	if err := s.CreateRun(ctx, run); err != nil {
		return nil, err
	}
	slog.Debug("recording run", "run", run.ID, "scene", run.Scene)
	return &RunWriter{store: s, ctx: ctx, run: run}, nil
}

// RunID returns the id of the run being written.
func (w *RunWriter) RunID() string {
	return w.run.ID
}

// WriteSample implements present.Sink.
func (w *RunWriter) WriteSample(s present.Sample) error {
	w.seq++
	err := w.store.WriteSample(w.ctx, Sample{
		RunID:    w.run.ID,
		Seq:      w.seq,
		Frame:    s.Frame,
		Time:     s.Time,
		Target:   s.Target,
		Property: s.Property,
		Kind:     s.Kind.String(),
		Type:     s.Type.String(),
		Value:    s.Value,
		Raw:      s.Raw,
	})
	w.keep(err)
	return err
}

// Hook records a lifecycle event. Frame events are not stored. Pass it to
// engine.WithEventHook.
func (w *RunWriter) Hook(e engine.Event) {
	if e.Kind == engine.EventFrame {
		return
	}
	w.seq++
	w.keep(w.store.WriteEvent(w.ctx, Event{
		RunID:      w.run.ID,
		Seq:        w.seq,
		Kind:       string(e.Kind),
		TimelineID: e.TimelineID,
		Time:       e.Time,
	}))
}

// Err returns the first write error.
func (w *RunWriter) Err() error {
	return w.err
}

func (w *RunWriter) keep(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}
