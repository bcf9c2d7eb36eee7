package drizzle

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a scenario script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
	State  string `json:"state,omitempty"`
}

// scriptFile is the top-level JSON structure for a scenario script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences host signals, waits and screenshots across frames for
// automated runs. The host calls Step once per frame.
//
//	{"steps": [
//	  {"action": "wait", "frames": 330},
//	  {"action": "expect", "state": "active"},
//	  {"action": "screenshot", "label": "raining"},
//	  {"action": "activity"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []string

	// OnScreenshot is called for each screenshot step.
	OnScreenshot func(label string)
}

// LoadScript parses a JSON scenario script.
func LoadScript(jsonData []byte) (*Script, error) {
	var file scriptFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range file.Steps {
		switch st.Action {
		case "activity", "hide", "show", "wait", "screenshot":
		case "expect":
			if _, ok := parseState(st.State); !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown state %q", i, st.State)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: file.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *Script) Done() bool {
	return r.done
}

// Failures returns the messages of expect steps that did not hold.
func (r *Script) Failures() []string {
	return r.failures
}

// Step advances the script by one frame against e.
func (r *Script) Step(e *Engine) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.done = true
		}
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "activity":
		e.Handle(SignalActivity)
	case "hide":
		e.Handle(SignalHidden)
	case "show":
		e.Handle(SignalVisible)
	case "screenshot":
		if r.OnScreenshot != nil {
			r.OnScreenshot(st.Label)
		}
	case "expect":
		want, _ := parseState(st.State)
		if got := e.State(); got != want {
			r.failures = append(r.failures, fmt.Sprintf("step %d: state = %s, want %s", r.cursor-1, got, want))
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func parseState(name string) (State, bool) {
	for _, s := range [...]State{StateIdle, StatePending, StateActive} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
