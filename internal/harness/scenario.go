package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one animation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Scene is the path of a CUE scene document, relative to the scenario
	// file. Exactly one of Scene and CUE is set.
	Scene string `yaml:"scene,omitempty"`

	// CUE is an inline scene document.
	CUE string `yaml:"cue,omitempty"`

	Steps []Step `yaml:"steps"`

	// Assertions are evaluated against the trace after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scenario step. Exactly one of Advance, Op and Expect is set.
type Step struct {
	// Advance moves the clock by this many ms and runs one frame.
	Advance *float64 `yaml:"advance,omitempty"`

	Op     string   `yaml:"op,omitempty"`
	Value  *float64 `yaml:"value,omitempty"`
	Out    *float64 `yaml:"out,omitempty"`
	Marker string   `yaml:"marker,omitempty"`
	// Error is the error code the op must fail with.
	Error string `yaml:"error,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks timeline, scheduler and document state. Unset fields are
// not checked.
type Expect struct {
	State string   `yaml:"state,omitempty"`
	Time  *float64 `yaml:"time,omitempty"`
	Loop  *float64 `yaml:"loop,omitempty"`
	Rate  *float64 `yaml:"rate,omitempty"`
	// Global is the scheduler's global state: running or paused.
	Global     string `yaml:"global,omitempty"`
	Registered *int   `yaml:"registered,omitempty"`
	// Attrs and Styles map "element.name" to the expected value.
	Attrs  map[string]string `yaml:"attrs,omitempty"`
	Styles map[string]string `yaml:"styles,omitempty"`
}

// Operation names.
const (
	OpPlay        = "play"
	OpPause       = "pause"
	OpSeek        = "seek"
	OpRate        = "rate"
	OpRange       = "range"
	OpLoop        = "loop"
	OpRemove      = "remove"
	OpAdd         = "add"
	OpGlobalPause = "global_pause"
	OpGlobalPlay  = "global_play"
)

var knownOps = map[string]bool{
	OpPlay: true, OpPause: true, OpSeek: true, OpRate: true, OpRange: true,
	OpLoop: true, OpRemove: true, OpAdd: true, OpGlobalPause: true, OpGlobalPlay: true,
}

// LoadScenario reads and parses a scenario YAML file. A relative scene path
// is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving a relative scene path
// against baseDir. Unknown fields are rejected.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "step:" vs "steps:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Scene != "" && !filepath.IsAbs(scenario.Scene) && baseDir != "" {
		scenario.Scene = filepath.Join(baseDir, scenario.Scene)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if (s.Scene == "") == (s.CUE == "") {
		return fmt.Errorf("exactly one of scene and cue is required")
	}
	if s.Scene != "" {
		if _, err := os.Stat(s.Scene); os.IsNotExist(err) {
			return fmt.Errorf("scene file not found: %s", s.Scene)
		}
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	set := 0
	if st.Advance != nil {
		set++
	}
	if st.Op != "" {
		set++
	}
	if st.Expect != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of advance, op and expect is required", index)
	}

	if st.Advance != nil && *st.Advance < 0 {
		return fmt.Errorf("steps[%d]: advance must not be negative", index)
	}
	if st.Op == "" {
		if st.Value != nil || st.Out != nil || st.Marker != "" || st.Error != "" {
			return fmt.Errorf("steps[%d]: value, out, marker and error need an op", index)
		}
		return nil
	}

	if !knownOps[st.Op] {
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	if st.Value != nil && st.Marker != "" {
		return fmt.Errorf("steps[%d]: value and marker are mutually exclusive", index)
	}
	switch st.Op {
	case OpSeek:
		if st.Value == nil && st.Marker == "" {
			return fmt.Errorf("steps[%d]: seek needs a value or marker", index)
		}
	case OpRate, OpLoop:
		if st.Value == nil {
			return fmt.Errorf("steps[%d]: %s needs a value", index, st.Op)
		}
	case OpRange:
		if st.Value == nil && st.Marker == "" {
			return fmt.Errorf("steps[%d]: range needs a value or marker", index)
		}
	}
	return nil
}
