package arbor

// GestureHandler reacts to gesture callbacks routed to the node it is
// attached to. Implementations embed NopGestureHandler to ignore the
// gestures they do not care about.
type GestureHandler interface {
	// OnDragStart is called once when a drag session starts on the node.
	// start is the screen position of the touch.
	OnDragStart(start Vec2)
	// OnDrag is called for every frame the drag touch moved. delta is the
	// screen-space displacement since the previous frame.
	OnDrag(delta Vec2)
	// OnDragEnd is called once when the drag touch ends or is canceled.
	OnDragEnd(end Vec2)
	// OnPinchStart is called once when both pinch touches landed on the node.
	OnPinchStart(initialDistance float64)
	// OnPinch is called when a pinch touch moved. scaleFactor is the current
	// finger distance divided by the distance at pinch start.
	OnPinch(scaleFactor float64)
	// OnPinchEnd is called once when the pinch ends.
	OnPinchEnd()
}

// NopGestureHandler implements every GestureHandler callback as a no-op.
type NopGestureHandler struct{}

func (NopGestureHandler) OnDragStart(Vec2)     {}
func (NopGestureHandler) OnDrag(Vec2)          {}
func (NopGestureHandler) OnDragEnd(Vec2)       {}
func (NopGestureHandler) OnPinchStart(float64) {}
func (NopGestureHandler) OnPinch(float64)      {}
func (NopGestureHandler) OnPinchEnd()          {}

// GestureFuncs is a GestureHandler built from optional callbacks. Nil
// fields are skipped. Handy for one-off reactions and tests.
type GestureFuncs struct {
	DragStart  func(start Vec2)
	Drag       func(delta Vec2)
	DragEnd    func(end Vec2)
	PinchStart func(initialDistance float64)
	Pinch      func(scaleFactor float64)
	PinchEnd   func()
}

func (g *GestureFuncs) OnDragStart(start Vec2) {
	if g.DragStart != nil {
		g.DragStart(start)
	}
}

func (g *GestureFuncs) OnDrag(delta Vec2) {
	if g.Drag != nil {
		g.Drag(delta)
	}
}

func (g *GestureFuncs) OnDragEnd(end Vec2) {
	if g.DragEnd != nil {
		g.DragEnd(end)
	}
}

func (g *GestureFuncs) OnPinchStart(d float64) {
	if g.PinchStart != nil {
		g.PinchStart(d)
	}
}

func (g *GestureFuncs) OnPinch(f float64) {
	if g.Pinch != nil {
		g.Pinch(f)
	}
}

func (g *GestureFuncs) OnPinchEnd() {
	if g.PinchEnd != nil {
		g.PinchEnd()
	}
}
