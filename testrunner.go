package arbor

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	// pinch
	From float64 `json:"from,omitempty"`
	To   float64 `json:"to,omitempty"`

	// marker
	Op       string     `json:"op,omitempty"`
	Name     string     `json:"name,omitempty"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw,omitempty"`
	State    string     `json:"state,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected gestures, marker events and screenshots
// across frames for automated testing. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
//
//	{"steps": [
//	  {"action": "marker", "op": "add", "name": "astronaut", "position": [0, 0, -1]},
//	  {"action": "wait", "frames": 2},
//	  {"action": "drag", "fromX": 400, "fromY": 300, "toX": 450, "toY": 300, "frames": 6},
//	  {"action": "pinch", "x": 400, "y": 300, "from": 100, "to": 150, "frames": 5},
//	  {"action": "screenshot", "label": "after"}
//	]}
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) validate() error {
	switch st.Action {
	case "tap", "drag", "wait", "screenshot":
		return nil
	case "pinch":
		if st.From <= 0 || st.To <= 0 {
			return fmt.Errorf("pinch needs positive from and to distances")
		}
		return nil
	case "marker":
		if st.Name == "" {
			return fmt.Errorf("marker needs a name")
		}
		switch st.Op {
		case "add", "update", "remove":
		default:
			return fmt.Errorf("unknown marker op %q", st.Op)
		}
		if _, err := parseTrackingState(st.State); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
}

func parseTrackingState(s string) (TrackingState, error) {
	switch s {
	case "", "tracking":
		return TrackingTracking, nil
	case "limited":
		return TrackingLimited, nil
	case "none":
		return TrackingNone, nil
	default:
		return TrackingNone, fmt.Errorf("unknown tracking state %q", s)
	}
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called at the start of Scene.Update each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "tap":
		s.InjectTap(st.X, st.Y)
	case "drag":
		s.InjectDrag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames)
	case "pinch":
		s.InjectPinch(Vec2{st.X, st.Y}, st.From, st.To, st.Frames)
	case "marker":
		r.marker(s, st)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

func (r *TestRunner) marker(s *Scene, st testStep) {
	pose := Pose{
		Position: mgl64.Vec3(st.Position),
		Rotation: mgl64.QuatRotate(mgl64.DegToRad(st.Yaw), Up),
	}
	switch st.Op {
	case "add":
		s.scripted.Add(st.Name, pose)
	case "update":
		state, _ := parseTrackingState(st.State)
		s.scripted.Update(st.Name, pose, state)
	case "remove":
		s.scripted.Remove(st.Name)
	}
}
