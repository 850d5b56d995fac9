package arbor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultRotationSpeed is the drag rotation in degrees per screen pixel.
const DefaultRotationSpeed = 0.2

// minPinchDistance is the smallest initial finger distance a pinch ratio is
// computed against. Closer fingers yield a factor of 1.
const minPinchDistance = 1e-6

// minPinchFactor is the smallest scale factor a pinch applies. Fingers that
// meet would otherwise collapse the target to zero scale, which leaves it
// with a singular transform and no baseline to grow back from.
const minPinchFactor = 1e-3

// RotateOnDrag spins Target around its up axis as the finger moves
// horizontally. Each drag step composes onto the current rotation.
type RotateOnDrag struct {
	NopGestureHandler

	Target *Node
	// Speed is degrees per pixel of horizontal drag.
	Speed   float64
	Invoker Invoker
}

// NewRotateOnDrag returns a handler for target using DefaultRotationSpeed.
func NewRotateOnDrag(target *Node, inv Invoker) *RotateOnDrag {
	return &RotateOnDrag{Target: target, Speed: DefaultRotationSpeed, Invoker: inv}
}

// OnDrag rotates by -delta.X * Speed degrees.
func (h *RotateOnDrag) OnDrag(delta Vec2) {
	angle := -delta.X * h.Speed
	if angle == 0 {
		return
	}
	execute(h.Invoker, RotateCommand{Target: h.Target, Angle: angle})
}

// ScaleOnPinch resizes Target relative to the scale it had when the pinch
// started, so the result tracks the finger distance ratio exactly.
type ScaleOnPinch struct {
	NopGestureHandler

	Target  *Node
	Invoker Invoker

	initialDistance float64
	baseline        mgl64.Vec3
	active          bool
}

// NewScaleOnPinch returns a pinch-to-scale handler for target.
func NewScaleOnPinch(target *Node, inv Invoker) *ScaleOnPinch {
	return &ScaleOnPinch{Target: target, Invoker: inv}
}

// OnPinchStart remembers the target scale and the finger distance.
func (h *ScaleOnPinch) OnPinchStart(initialDistance float64) {
	h.initialDistance = initialDistance
	if h.Target != nil {
		h.baseline = h.Target.Scale
	}
	h.active = true
}

// OnPinch sets scale = baseline * scaleFactor. Factors below
// minPinchFactor are clamped to it.
func (h *ScaleOnPinch) OnPinch(scaleFactor float64) {
	if !h.active || h.initialDistance < minPinchDistance {
		return
	}
	if !(scaleFactor >= minPinchFactor) {
		scaleFactor = minPinchFactor
	}
	execute(h.Invoker, SetScaleCommand{Target: h.Target, Scale: h.baseline.Mul(scaleFactor)})
}

// OnPinchEnd closes the session; later OnPinch calls are ignored until the
// next OnPinchStart.
func (h *ScaleOnPinch) OnPinchEnd() {
	h.active = false
}

// Baseline returns the scale captured at the last pinch start.
func (h *ScaleOnPinch) Baseline() mgl64.Vec3 {
	return h.baseline
}

func execute(inv Invoker, cmd Command) {
	if inv == nil {
		cmd.Execute()
		return
	}
	inv.Execute(cmd)
}
