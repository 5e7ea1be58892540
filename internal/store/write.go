package store

import (
	"context"
	"fmt"

	"github.com/roach88/keyframe/internal/ir"
)

// CreateRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING - recreating a run is silently ignored.
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	if run.EngineVersion == "" {
		run.EngineVersion = ir.EngineVersion
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scene, fps, duration, scene_hash, engine_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Scene, run.FPS, run.Duration, run.SceneHash, run.EngineVersion)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// WriteSample appends a sample to its run. The sample's ID is assigned by
// the database and ignored here.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteSample(ctx context.Context, sample Sample) error {
	raw, err := marshalValue(sample.Raw)
	if err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO samples (run_id, seq, frame, time, target, property, kind, type, value, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sample.RunID,
		sample.Seq,
		sample.Frame,
		sample.Time,
		sample.Target,
		sample.Property,
		sample.Kind,
		sample.Type,
		sample.Value,
		raw,
	)
	if err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	return nil
}

// WriteEvent appends a lifecycle event to its run.
func (s *Store) WriteEvent(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (run_id, seq, kind, timeline_id, time)
		VALUES (?, ?, ?, ?, ?)
	`, e.RunID, e.Seq, e.Kind, e.TimelineID, e.Time)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
