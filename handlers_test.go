package arbor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRotateOnDragAngles(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		delta Vec2
		want  float64
	}{
		{"right", 0.2, Vec2{50, 0}, -10},
		{"left", 0.2, Vec2{-25, 0}, 5},
		{"vertical only", 0.2, Vec2{0, 40}, 0},
		{"custom speed", 1, Vec2{15, 3}, -15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNode("n")
			inv := &recordingInvoker{}
			h := NewRotateOnDrag(n, inv)
			h.Speed = tt.speed
			h.OnDrag(tt.delta)

			if tt.want == 0 {
				if len(inv.cmds) != 0 {
					t.Errorf("zero rotation issued %d commands", len(inv.cmds))
				}
				return
			}
			if len(inv.cmds) != 1 {
				t.Fatalf("commands = %d, want 1", len(inv.cmds))
			}
			got := inv.cmds[0].(RotateCommand).Angle
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("angle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotateOnDragIgnoresOtherGestures(t *testing.T) {
	n := NewNode("n")
	inv := &recordingInvoker{}
	h := NewRotateOnDrag(n, inv)
	h.OnDragStart(Vec2{1, 1})
	h.OnDragEnd(Vec2{2, 2})
	h.OnPinchStart(100)
	h.OnPinch(2)
	h.OnPinchEnd()
	if len(inv.cmds) != 0 {
		t.Errorf("commands = %d, want 0", len(inv.cmds))
	}
}

func TestScaleOnPinchBaseline(t *testing.T) {
	n := NewNode("n")
	n.SetScale(mgl64.Vec3{1, 2, 3})
	h := NewScaleOnPinch(n, nil)

	h.OnPinchStart(100)
	h.OnPinch(2)
	if !n.Scale.ApproxEqual(mgl64.Vec3{2, 4, 6}) {
		t.Fatalf("scale = %v, want (2,4,6)", n.Scale)
	}
	// Factors are relative to the pinch start, not cumulative.
	h.OnPinch(0.5)
	if !n.Scale.ApproxEqual(mgl64.Vec3{0.5, 1, 1.5}) {
		t.Fatalf("scale = %v, want (0.5,1,1.5)", n.Scale)
	}
	if h.Baseline() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("baseline = %v", h.Baseline())
	}

	h.OnPinchEnd()
	h.OnPinch(3)
	if !n.Scale.ApproxEqual(mgl64.Vec3{0.5, 1, 1.5}) {
		t.Errorf("OnPinch after end changed scale to %v", n.Scale)
	}

	// A new pinch captures the current scale as its baseline.
	h.OnPinchStart(50)
	h.OnPinch(2)
	if !n.Scale.ApproxEqual(mgl64.Vec3{1, 2, 3}) {
		t.Errorf("scale = %v, want (1,2,3)", n.Scale)
	}
}

func TestScaleOnPinchClampsCollapsedFactor(t *testing.T) {
	for _, factor := range []float64{0, -2, math.NaN(), minPinchFactor / 10} {
		n := NewNode("n")
		n.SetScale(mgl64.Vec3{2, 2, 2})
		h := NewScaleOnPinch(n, nil)
		h.OnPinchStart(100)
		h.OnPinch(factor)
		want := mgl64.Vec3{2, 2, 2}.Mul(minPinchFactor)
		if !n.Scale.ApproxEqual(want) {
			t.Errorf("factor %v: scale = %v, want %v", factor, n.Scale, want)
		}
	}
}

func TestScaleOnPinchDegenerateDistance(t *testing.T) {
	n := NewNode("n")
	h := NewScaleOnPinch(n, nil)
	h.OnPinchStart(0)
	h.OnPinch(math.Inf(1))
	if n.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("scale = %v, want unchanged", n.Scale)
	}
}

func TestGestureFuncs(t *testing.T) {
	var log []string
	g := &GestureFuncs{
		DragStart: func(Vec2) { log = append(log, "start") },
		Pinch:     func(float64) { log = append(log, "pinch") },
	}
	var h GestureHandler = g
	h.OnDragStart(Vec2{})
	h.OnDrag(Vec2{})
	h.OnDragEnd(Vec2{})
	h.OnPinchStart(1)
	h.OnPinch(1)
	h.OnPinchEnd()
	if len(log) != 2 || log[0] != "start" || log[1] != "pinch" {
		t.Errorf("log = %v", log)
	}
}

func TestEnsureGestureHandlerIdempotent(t *testing.T) {
	n := NewNode("n")
	created := 0
	mk := func(n *Node) *RotateOnDrag {
		created++
		return NewRotateOnDrag(n, nil)
	}
	h1 := EnsureGestureHandler(n, mk)
	h2 := EnsureGestureHandler(n, mk)
	if h1 != h2 || created != 1 || len(n.GestureHandlers()) != 1 {
		t.Errorf("created=%d handlers=%d same=%v", created, len(n.GestureHandlers()), h1 == h2)
	}

	EnsureGestureHandler(n, func(n *Node) *ScaleOnPinch { return NewScaleOnPinch(n, nil) })
	if len(n.GestureHandlers()) != 2 {
		t.Errorf("handlers = %d, want 2", len(n.GestureHandlers()))
	}
}
