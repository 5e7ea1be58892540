package harness

import (
	"fmt"
	"sort"
	"strings"
)

// Assertion validates the trace after the last step.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": some trace line contains Line
	// - "trace_count": Event occurs exactly Count times (for Timeline, if set)
	// - "trace_order": Events occur in this relative order
	// - "final_value": the last sample of Target.Property has Value
	Type string `yaml:"type"`

	Line     string   `yaml:"line,omitempty"`
	Event    string   `yaml:"event,omitempty"`
	Timeline string   `yaml:"timeline,omitempty"`
	Count    int      `yaml:"count,omitempty"`
	Events   []string `yaml:"events,omitempty"`
	Target   string   `yaml:"target,omitempty"`
	Property string   `yaml:"property,omitempty"`
	Value    string   `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
	AssertTraceOrder    = "trace_order"
	AssertFinalValue    = "final_value"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s failed: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(trace []TraceEntry, assertions []Assertion) []string {
	var msgs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(trace, a)
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertFinalValue:
			err = assertFinalValue(trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return msgs
}

func assertTraceContains(trace []TraceEntry, a Assertion) error {
	for _, e := range trace {
		if strings.Contains(e.String(), a.Line) {
			return nil
		}
	}
	return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("a line containing %q", a.Line), Actual: "no match"}
}

func assertTraceCount(trace []TraceEntry, a Assertion) error {
	n := 0
	for _, e := range trace {
		if e.Kind == KindEvent && e.Event == a.Event && (a.Timeline == "" || e.Timeline == a.Timeline) {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d %s events", a.Count, a.Event), Actual: fmt.Sprint(n)}
	}
	return nil
}

// assertTraceOrder checks that the events occur as a subsequence of the
// trace. Intervening events are allowed.
func assertTraceOrder(trace []TraceEntry, a Assertion) error {
	next := 0
	var seen []string
	for _, e := range trace {
		if e.Kind != KindEvent {
			continue
		}
		seen = append(seen, e.Event)
		if next < len(a.Events) && e.Event == a.Events[next] {
			next++
		}
	}
	if next < len(a.Events) {
		return &AssertionError{
			Type:     a.Type,
			Expected: "[" + strings.Join(a.Events, " ") + "]",
			Actual:   "[" + strings.Join(seen, " ") + "]",
		}
	}
	return nil
}

func assertFinalValue(trace []TraceEntry, a Assertion) error {
	for i := len(trace) - 1; i >= 0; i-- {
		e := trace[i]
		if e.Kind != KindSample || e.Target != a.Target || e.Property != a.Property {
			continue
		}
		if e.Value != a.Value {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s.%s=%q", a.Target, a.Property, a.Value), Actual: fmt.Sprintf("%q", e.Value)}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s.%s=%q", a.Target, a.Property, a.Value), Actual: "never written"}
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: trace_contains requires line", index)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: trace_count requires event", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: trace_count requires count >= 0", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: trace_order requires events", index)
		}
	case AssertFinalValue:
		if a.Target == "" || a.Property == "" {
			return fmt.Errorf("assertions[%d]: final_value requires target and property", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
