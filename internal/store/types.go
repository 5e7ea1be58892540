package store

import "github.com/roach88/keyframe/internal/ir"

// Run is one recorded playback of a scene.
type Run struct {
	ID       string
	Scene    string
	FPS      float64
	Duration float64
	// SceneHash is ir.SceneHash of the scene source, empty when unknown.
	SceneHash string
	// EngineVersion defaults to ir.EngineVersion when empty.
	EngineVersion string
}

// Sample is one stored document write.
type Sample struct {
	ID       int64
	RunID    string
	Seq      int64
	Frame    int64
	Time     float64
	Target   string
	Property string
	Kind     string
	Type     string
	Value    string
	Raw      ir.Value
}

// Event is one stored scheduler lifecycle event.
type Event struct {
	ID         int64
	RunID      string
	Seq        int64
	Kind       string
	TimelineID string
	Time       float64
}
