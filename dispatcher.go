package arbor

import (
	"cmp"
	"log/slog"
	"slices"
)

// --- Session state ---

// dragSession is the per-touch drag state. The handler set is a snapshot
// taken at start; the session stays locked to target until the touch ends.
type dragSession struct {
	target   *Node
	start    Vec2
	last     Vec2
	handlers []GestureHandler
}

// pinchSession is the single global pinch state.
type pinchSession struct {
	active      bool
	touch0      int
	touch1      int
	target      *Node
	initialDist float64
	handlers    []GestureHandler
}

// DispatcherConfig configures a GestureDispatcher.
type DispatcherConfig struct {
	// Mask selects the layers gestures may target. Zero means
	// MaskOf(LayerInteractable).
	Mask LayerMask
	// Logger receives session diagnostics at debug level. Nil discards.
	Logger *slog.Logger
}

// GestureDispatcher turns per-frame touch samples into drag and pinch
// callbacks on the handlers of the node each gesture targets. It owns no
// goroutines; the host calls Advance once per frame.
type GestureDispatcher struct {
	raycaster Raycaster
	mask      LayerMask
	logger    *slog.Logger
	store     EntityStore

	drags     map[int]*dragSession
	pinch     pinchSession
	listeners listenerRegistry

	sorted []Touch
	ended  []int
}

// NewGestureDispatcher creates a dispatcher that resolves targets with rc.
func NewGestureDispatcher(rc Raycaster, cfg DispatcherConfig) *GestureDispatcher {
	mask := cfg.Mask
	if mask == 0 {
		mask = MaskOf(LayerInteractable)
	}
	return &GestureDispatcher{
		raycaster: rc,
		mask:      mask,
		logger:    loggerOrDiscard(cfg.Logger),
		drags:     make(map[int]*dragSession),
	}
}

// Mask returns the layers gestures may target.
func (d *GestureDispatcher) Mask() LayerMask {
	return d.mask
}

// SetMask changes the layers gestures may target. Sessions in progress keep
// their target.
func (d *GestureDispatcher) SetMask(mask LayerMask) {
	d.mask = mask
}

// SetEntityStore sets the optional ECS bridge.
func (d *GestureDispatcher) SetEntityStore(store EntityStore) {
	d.store = store
}

// On registers a listener for every gesture event of the given type,
// regardless of target. Listeners run after the target's handlers.
func (d *GestureDispatcher) On(event EventType, fn func(GestureEvent)) CallbackHandle {
	return d.listeners.add(event, fn)
}

// ActiveDrags returns the number of drag sessions in progress.
func (d *GestureDispatcher) ActiveDrags() int {
	return len(d.drags)
}

// PinchActive reports whether a pinch session is in progress.
func (d *GestureDispatcher) PinchActive() bool {
	return d.pinch.active
}

// Advance processes one frame of touch samples. Samples are not retained.
func (d *GestureDispatcher) Advance(touches []Touch) {
	d.sorted = append(d.sorted[:0], touches...)
	slices.SortFunc(d.sorted, func(a, b Touch) int { return cmp.Compare(a.ID, b.ID) })
	count := len(d.sorted)

	// A pinch needs exactly two fingers; anything else ends it before
	// per-touch dispatch.
	if d.pinch.active && count != 2 {
		d.endPinch()
	}

	d.endFinishedDrags()

	switch count {
	case 1:
		d.handleDrag(d.sorted[0])
	case 2:
		d.handlePinch(d.sorted[0], d.sorted[1])
	}
}

// Reset ends every session in progress, delivering the end callbacks.
func (d *GestureDispatcher) Reset() {
	d.ended = d.ended[:0]
	for id := range d.drags {
		d.ended = append(d.ended, id)
	}
	slices.Sort(d.ended)
	for _, id := range d.ended {
		d.endDrag(id, d.drags[id].last)
	}
	if d.pinch.active {
		d.endPinch()
	}
}

// --- Drag ---

// endFinishedDrags ends drag sessions whose touch ended, was canceled, or
// vanished from the input this frame.
func (d *GestureDispatcher) endFinishedDrags() {
	if len(d.drags) == 0 {
		return
	}
	d.ended = d.ended[:0]
	for id := range d.drags {
		d.ended = append(d.ended, id)
	}
	slices.Sort(d.ended)
	for _, id := range d.ended {
		t, ok := d.findTouch(id)
		switch {
		case !ok:
			d.endDrag(id, d.drags[id].last)
		case t.Phase.Finished():
			d.endDrag(id, t.Position)
		}
	}
}

func (d *GestureDispatcher) findTouch(id int) (Touch, bool) {
	i, ok := slices.BinarySearchFunc(d.sorted, id, func(t Touch, id int) int { return cmp.Compare(t.ID, id) })
	if !ok {
		return Touch{}, false
	}
	return d.sorted[i], true
}

func (d *GestureDispatcher) handleDrag(t Touch) {
	switch t.Phase {
	case TouchBegan:
		if _, exists := d.drags[t.ID]; exists {
			return
		}
		target, handlers, ok := d.resolve(t.Position)
		if !ok {
			return
		}
		s := &dragSession{target: target, start: t.Position, last: t.Position, handlers: handlers}
		d.drags[t.ID] = s
		d.logger.Debug("drag start", "touch", t.ID, "node", target.Name)
		for _, h := range s.handlers {
			h.OnDragStart(t.Position)
		}
		d.publish(GestureEvent{Type: EventDragStart, Node: target, TouchID: t.ID, Position: t.Position})
	case TouchMoved:
		s, ok := d.drags[t.ID]
		if !ok {
			return
		}
		s.last = t.Position
		for _, h := range s.handlers {
			h.OnDrag(t.Delta)
		}
		d.publish(GestureEvent{Type: EventDrag, Node: s.target, TouchID: t.ID, Position: t.Position, Delta: t.Delta})
	case TouchStationary:
		if s, ok := d.drags[t.ID]; ok {
			s.last = t.Position
		}
	}
}

func (d *GestureDispatcher) endDrag(id int, pos Vec2) {
	s, ok := d.drags[id]
	if !ok {
		return
	}
	delete(d.drags, id)
	for _, h := range s.handlers {
		h.OnDragEnd(pos)
	}
	d.logger.Debug("drag end", "touch", id, "node", s.target.Name)
	d.publish(GestureEvent{Type: EventDragEnd, Node: s.target, TouchID: id, Position: pos})
}

// --- Pinch ---

func (d *GestureDispatcher) handlePinch(a, b Touch) {
	if d.pinch.active && (a.ID != d.pinch.touch0 || b.ID != d.pinch.touch1) {
		d.endPinch()
	}

	if !d.pinch.active {
		d.tryStartPinch(a, b)
		return
	}

	if a.Phase.Finished() || b.Phase.Finished() {
		d.endPinch()
		return
	}

	if a.Phase == TouchMoved || b.Phase == TouchMoved {
		dist := Distance(a.Position, b.Position)
		factor := pinchFactor(dist, d.pinch.initialDist)
		for _, h := range d.pinch.handlers {
			h.OnPinch(factor)
		}
		d.publish(GestureEvent{
			Type: EventPinch, Node: d.pinch.target, TouchID: a.ID,
			Position: midpoint(a.Position, b.Position), Distance: dist, Scale: factor,
		})
	}
}

// tryStartPinch activates a pinch when both touches hit the same node.
// It runs every frame while two touches are down and no pinch is active.
func (d *GestureDispatcher) tryStartPinch(a, b Touch) {
	if a.Phase.Finished() || b.Phase.Finished() {
		return
	}
	targetA, handlers, ok := d.resolve(a.Position)
	if !ok {
		return
	}
	hitB, ok := d.raycaster.Raycast(b.Position, d.mask)
	if !ok || hitB.Node != targetA {
		return
	}

	dist := Distance(a.Position, b.Position)
	d.pinch = pinchSession{
		active:      true,
		touch0:      a.ID,
		touch1:      b.ID,
		target:      targetA,
		initialDist: dist,
		handlers:    handlers,
	}
	d.logger.Debug("pinch start", "node", targetA.Name, "distance", dist)
	for _, h := range handlers {
		h.OnPinchStart(dist)
	}
	d.publish(GestureEvent{
		Type: EventPinchStart, Node: targetA, TouchID: a.ID,
		Position: midpoint(a.Position, b.Position), Distance: dist, Scale: 1,
	})
}

func (d *GestureDispatcher) endPinch() {
	p := d.pinch
	d.pinch = pinchSession{}
	for _, h := range p.handlers {
		h.OnPinchEnd()
	}
	d.logger.Debug("pinch end", "node", p.target.Name)
	d.publish(GestureEvent{Type: EventPinchEnd, Node: p.target, TouchID: p.touch0})
}

// pinchFactor returns dist/initial, or 1 when initial is degenerate.
func pinchFactor(dist, initial float64) float64 {
	if initial < minPinchDistance {
		return 1
	}
	return dist / initial
}

func midpoint(a, b Vec2) Vec2 {
	return Vec2{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// --- Target resolution & publishing ---

// resolve hit-tests pos and returns the hit node with a copy of its handler
// set. ok is false on a miss or when the node has no handlers.
func (d *GestureDispatcher) resolve(pos Vec2) (*Node, []GestureHandler, bool) {
	if d.raycaster == nil {
		return nil, nil, false
	}
	hit, ok := d.raycaster.Raycast(pos, d.mask)
	if !ok || hit.Node == nil {
		return nil, nil, false
	}
	src := hit.Node.GestureHandlers()
	if len(src) == 0 {
		return nil, nil, false
	}
	handlers := make([]GestureHandler, len(src))
	copy(handlers, src)
	return hit.Node, handlers, true
}

func (d *GestureDispatcher) publish(e GestureEvent) {
	if e.Node != nil {
		e.EntityID = e.Node.EntityID
	}
	d.listeners.fire(e)
	if d.store != nil && e.EntityID != 0 {
		d.store.EmitEvent(e)
	}
}
