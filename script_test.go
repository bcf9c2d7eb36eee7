package drizzle

import (
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid json", `{`},
		{"no steps", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "jump"}]}`},
		{"unknown state", `{"steps": [{"action": "expect", "state": "asleep"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptDrivesEngine(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(EffectRain))
	r, err := LoadScript([]byte(`{"steps": [
		{"action": "expect", "state": "pending"},
		{"action": "wait", "frames": 320},
		{"action": "expect", "state": "active"},
		{"action": "screenshot", "label": "raining"},
		{"action": "hide"},
		{"action": "expect", "state": "idle"},
		{"action": "show"},
		{"action": "expect", "state": "pending"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	var shots []string
	r.OnScreenshot = func(label string) { shots = append(shots, label) }

	for i := 0; i < 1000 && !r.Done(); i++ {
		r.Step(e)
		e.Advance(frame)
	}

	if !r.Done() {
		t.Fatal("script did not finish")
	}
	if f := r.Failures(); len(f) != 0 {
		t.Errorf("failures: %v", f)
	}
	if len(shots) != 1 || shots[0] != "raining" {
		t.Errorf("screenshots = %v, want [raining]", shots)
	}
}

func TestScriptRecordsFailedExpectation(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(EffectRain))
	r, err := LoadScript([]byte(`{"steps": [{"action": "expect", "state": "active"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	r.Step(e)
	if !r.Done() {
		t.Fatal("expected Done after the last step")
	}
	if len(r.Failures()) != 1 {
		t.Errorf("Failures = %v, want one entry", r.Failures())
	}
}

func TestScriptWaitCountsFrames(t *testing.T) {
	e := newTestEngine(t, DefaultConfig(EffectRain))
	r, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	steps := 0
	for !r.Done() {
		r.Step(e)
		steps++
		if steps > 10 {
			t.Fatal("wait never finished")
		}
	}
	if steps != 3 {
		t.Errorf("wait 3 finished after %d frames", steps)
	}
}
