package arbor

// GestureEvent describes one gesture callback the dispatcher delivered. It
// is published to scene-level listeners and to the optional EntityStore.
type GestureEvent struct {
	Type     EventType
	Node     *Node
	EntityID uint32
	// TouchID is the touch that drove a drag event, or the first of the two
	// pinch touches.
	TouchID int
	// Position is the touch position for drag start/end and the midpoint of
	// the two fingers for pinch events.
	Position Vec2
	// Delta is the frame displacement (EventDrag only).
	Delta Vec2
	// Distance is the current finger distance (pinch events only).
	Distance float64
	// Scale is the ratio to the distance at pinch start (1 at pinch start).
	Scale float64
}

// EntityStore is the interface for optional ECS integration.
// When set on a dispatcher, gesture events on nodes with a non-zero
// EntityID are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event GestureEvent)
}

// --- Listener registry ---

type gestureListener struct {
	id uint32
	fn func(GestureEvent)
}

type listenerRegistry struct {
	byType [eventTypeCount][]gestureListener
	nextID uint32
}

// CallbackHandle allows removing a registered listener.
type CallbackHandle struct {
	id    uint32
	reg   *listenerRegistry
	event EventType
}

// Remove unregisters this listener so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = gestureListener{}
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

func (r *listenerRegistry) add(event EventType, fn func(GestureEvent)) CallbackHandle {
	r.nextID++
	id := r.nextID
	r.byType[event] = append(r.byType[event], gestureListener{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r, event: event}
}

func (r *listenerRegistry) fire(e GestureEvent) {
	for _, l := range r.byType[e.Type] {
		l.fn(e)
	}
}
