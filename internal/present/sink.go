package present

import (
	"log/slog"

	"github.com/roach88/keyframe/internal/ir"
)

// Sample is one formatted write to the document.
type Sample struct {
	Frame    int64
	Time     float64
	Target   string
	Property string
	Kind     ir.TargetKind
	Type     ir.TypeTag
	// Raw is the resolved value before formatting.
	Raw   ir.Value
	Value string
}

// Sink receives every write made to a Document.
//
// Implemented by Recorder (memory), store.RunWriter (sqlite) and
// publish.MQTTSink (broker).
type Sink interface {
	WriteSample(s Sample) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Sample) error

// WriteSample calls f(s).
func (f SinkFunc) WriteSample(s Sample) error {
	return f(s)
}

func (d *Document) emit(s Sample) {
	s.Frame = d.frame
	s.Time = d.time
	for _, sink := range d.sinks {
		// frame updates have no failure path, so sink errors are only logged
		if err := sink.WriteSample(s); err != nil {
			slog.Warn("sink write failed", "target", s.Target, "property", s.Property, "error", err)
		}
	}
}

// Recorder keeps samples in memory.
type Recorder struct {
	samples []Sample
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WriteSample appends s.
func (r *Recorder) WriteSample(s Sample) error {
	r.samples = append(r.samples, s)
	return nil
}

// Samples returns everything recorded so far.
func (r *Recorder) Samples() []Sample {
	return r.samples
}

// Drain returns the samples recorded since the last Drain and forgets them.
func (r *Recorder) Drain() []Sample {
	out := r.samples
	r.samples = nil
	return out
}

// Last returns the newest sample for target and property.
func (r *Recorder) Last(target, property string) (Sample, bool) {
	for i := len(r.samples) - 1; i >= 0; i-- {
		s := r.samples[i]
		if s.Target == target && s.Property == property {
			return s, true
		}
	}
	return Sample{}, false
}
