package harness

import (
	"fmt"
	"strconv"
	"strings"
)

// Trace entry kinds.
const (
	KindSample = "sample"
	KindEvent  = "event"
	KindOp     = "op"
)

// TraceEntry is one line of a scenario trace.
type TraceEntry struct {
	Kind  string  `json:"kind"`
	Frame int64   `json:"frame"`
	Time  float64 `json:"time"`

	// sample
	Target   string `json:"target,omitempty"`
	Property string `json:"property,omitempty"`
	Value    string `json:"value,omitempty"`

	// event
	Event    string `json:"event,omitempty"`
	Timeline string `json:"timeline,omitempty"`

	// op
	Op   string `json:"op,omitempty"`
	Args string `json:"args,omitempty"`
	// Code is the error code an op failed with.
	Code string `json:"code,omitempty"`
}

// String renders the entry as a trace line.
func (e TraceEntry) String() string {
	prefix := fmt.Sprintf("[f%d t=%s] ", e.Frame, formatFloat(e.Time))
	switch e.Kind {
	case KindSample:
		return prefix + "sample " + e.Target + "." + e.Property + "=" + e.Value
	case KindEvent:
		return prefix + "event " + e.Event + " " + e.Timeline
	}
	line := prefix + "op " + e.Op
	if e.Args != "" {
		line += " " + e.Args
	}
	if e.Code != "" {
		line += " -> " + e.Code
	}
	return line
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass   bool         `json:"pass"`
	Trace  []TraceEntry `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEntry{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// TraceText renders the trace one entry per line.
func (r *Result) TraceText() string {
	var sb strings.Builder
	for _, e := range r.Trace {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
