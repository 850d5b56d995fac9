package arbor

import (
	"cmp"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// MouseTouchID is the touch ID used for mouse-emulated touches. The mirrored
// second finger of an emulated pinch uses MouseTouchID - 1.
const MouseTouchID = -1

// Touch is one per-frame sample of a finger on the screen.
type Touch struct {
	// ID is stable for the duration of one continuous contact.
	ID       int
	Position Vec2
	// Delta is the displacement since the previous frame.
	Delta Vec2
	Phase TouchPhase
}

// TouchSource yields the touches of the current frame. The returned slice
// is only valid until the next call.
type TouchSource interface {
	Touches() []Touch
}

// TouchSourceFunc adapts a function to the TouchSource interface.
type TouchSourceFunc func() []Touch

// Touches calls f.
func (f TouchSourceFunc) Touches() []Touch { return f() }

// --- Phase derivation ---

// rawContact is a finger that is down this frame, as reported by a polling API.
type rawContact struct {
	id  int
	pos Vec2
}

// touchTracker derives phases and deltas from frame-by-frame polled
// contacts. A contact seen for the first time is Began, one that is gone is
// Ended at its last position.
type touchTracker struct {
	prev map[int]Vec2
	seen map[int]bool
	out  []Touch
}

func newTouchTracker() *touchTracker {
	return &touchTracker{prev: make(map[int]Vec2), seen: make(map[int]bool)}
}

func (tr *touchTracker) update(contacts []rawContact) []Touch {
	tr.out = tr.out[:0]
	clear(tr.seen)
	for _, c := range contacts {
		tr.seen[c.id] = true
		last, existed := tr.prev[c.id]
		t := Touch{ID: c.id, Position: c.pos}
		switch {
		case !existed:
			t.Phase = TouchBegan
		case last != c.pos:
			t.Phase = TouchMoved
			t.Delta = c.pos.Sub(last)
		default:
			t.Phase = TouchStationary
		}
		tr.out = append(tr.out, t)
		tr.prev[c.id] = c.pos
	}
	for id, last := range tr.prev {
		if tr.seen[id] {
			continue
		}
		tr.out = append(tr.out, Touch{ID: id, Position: last, Phase: TouchEnded})
		delete(tr.prev, id)
	}
	slices.SortFunc(tr.out, func(a, b Touch) int { return cmp.Compare(a.ID, b.ID) })
	return tr.out
}

// cancelAll ends every tracked contact with TouchCanceled.
func (tr *touchTracker) cancelAll() []Touch {
	tr.out = tr.out[:0]
	for id, last := range tr.prev {
		tr.out = append(tr.out, Touch{ID: id, Position: last, Phase: TouchCanceled})
		delete(tr.prev, id)
	}
	slices.SortFunc(tr.out, func(a, b Touch) int { return cmp.Compare(a.ID, b.ID) })
	return tr.out
}

// --- Ebitengine source ---

// EbitenTouchSource polls ebiten touches each frame. With EmulateMouse the
// left mouse button acts as a finger; holding Shift while pressing adds a
// second finger mirrored around the viewport center so pinches can be
// tried on a desktop.
type EbitenTouchSource struct {
	EmulateMouse bool
	// MirrorCenter is the point the emulated second finger mirrors around.
	// Zero means the center of the window.
	MirrorCenter Vec2

	tracker  *touchTracker
	ids      []ebiten.TouchID
	contacts []rawContact
	mirror   bool
}

// NewEbitenTouchSource creates a source reading real touches, and the mouse
// when emulateMouse is true.
func NewEbitenTouchSource(emulateMouse bool) *EbitenTouchSource {
	return &EbitenTouchSource{EmulateMouse: emulateMouse, tracker: newTouchTracker()}
}

// Touches implements TouchSource. Must be called from the ebiten update goroutine.
func (s *EbitenTouchSource) Touches() []Touch {
	s.contacts = s.contacts[:0]

	s.ids = ebiten.AppendTouchIDs(s.ids[:0])
	for _, id := range s.ids {
		x, y := ebiten.TouchPosition(id)
		s.contacts = append(s.contacts, rawContact{id: int(id), pos: Vec2{float64(x), float64(y)}})
	}

	if s.EmulateMouse && len(s.ids) == 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		p := Vec2{float64(mx), float64(my)}
		s.contacts = append(s.contacts, rawContact{id: MouseTouchID, pos: p})

		// Shift is sampled at press time only, like a real second finger.
		if _, down := s.tracker.prev[MouseTouchID]; !down {
			s.mirror = ebiten.IsKeyPressed(ebiten.KeyShift)
		}
		if s.mirror {
			center := s.MirrorCenter
			if center == (Vec2{}) {
				w, h := ebiten.WindowSize()
				center = Vec2{float64(w) / 2, float64(h) / 2}
			}
			s.contacts = append(s.contacts, rawContact{id: MouseTouchID - 1, pos: center.Scale(2).Sub(p)})
		}
	}

	return s.tracker.update(s.contacts)
}

// Cancel reports every active contact as canceled on the returned frame.
// Hosts call it when the app loses focus.
func (s *EbitenTouchSource) Cancel() []Touch {
	return s.tracker.cancelAll()
}
