package arbor

// syntheticTouchBase is the first touch ID handed out to injected gestures,
// far above the IDs real touch APIs report.
const syntheticTouchBase = 1 << 20

// InjectFrame queues one frame of synthetic touches. Queued frames are
// consumed one per Update, in order, and replace live input for that frame.
// The touches are copied.
func (s *Scene) InjectFrame(touches ...Touch) {
	frame := make([]Touch, len(touches))
	copy(frame, touches)
	s.injectQueue = append(s.injectQueue, frame)
}

// InjectedPending returns the number of queued synthetic frames.
func (s *Scene) InjectedPending() int {
	return len(s.injectQueue)
}

func (s *Scene) allocTouchID() int {
	id := s.nextInjectID
	s.nextInjectID++
	return id
}

// InjectTap queues a began frame and an ended frame at the given screen
// coordinates. Consumes two frames.
func (s *Scene) InjectTap(x, y float64) {
	id := s.allocTouchID()
	p := Vec2{x, y}
	s.InjectFrame(Touch{ID: id, Position: p, Phase: TouchBegan})
	s.InjectFrame(Touch{ID: id, Position: p, Phase: TouchEnded})
}

// InjectDrag queues a single-finger drag: began at from, frames-2 moves
// linearly interpolated so the last one lands on to, and ended at to.
// Minimum frames is 3.
func (s *Scene) InjectDrag(from, to Vec2, frames int) {
	if frames < 3 {
		frames = 3
	}
	id := s.allocTouchID()
	s.InjectFrame(Touch{ID: id, Position: from, Phase: TouchBegan})
	steps := frames - 2
	last := from
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := Vec2{from.X + (to.X-from.X)*t, from.Y + (to.Y-from.Y)*t}
		s.InjectFrame(Touch{ID: id, Position: p, Delta: p.Sub(last), Phase: TouchMoved})
		last = p
	}
	s.InjectFrame(Touch{ID: id, Position: to, Phase: TouchEnded})
}

// InjectPinch queues a two-finger pinch centered on center with the fingers
// on a horizontal line. The finger distance goes from fromDist to toDist
// over frames-2 moves, then both fingers end. Minimum frames is 3.
func (s *Scene) InjectPinch(center Vec2, fromDist, toDist float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	a, b := s.allocTouchID(), s.allocTouchID()
	at := func(dist float64) (Vec2, Vec2) {
		h := dist / 2
		return Vec2{center.X - h, center.Y}, Vec2{center.X + h, center.Y}
	}

	pa, pb := at(fromDist)
	s.InjectFrame(
		Touch{ID: a, Position: pa, Phase: TouchBegan},
		Touch{ID: b, Position: pb, Phase: TouchBegan},
	)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		na, nb := at(fromDist + (toDist-fromDist)*t)
		s.InjectFrame(
			Touch{ID: a, Position: na, Delta: na.Sub(pa), Phase: TouchMoved},
			Touch{ID: b, Position: nb, Delta: nb.Sub(pb), Phase: TouchMoved},
		)
		pa, pb = na, nb
	}
	s.InjectFrame(
		Touch{ID: a, Position: pa, Phase: TouchEnded},
		Touch{ID: b, Position: pb, Phase: TouchEnded},
	)
}

// popInjected removes and returns the oldest queued frame.
func (s *Scene) popInjected() ([]Touch, bool) {
	if len(s.injectQueue) == 0 {
		return nil, false
	}
	frame := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue[len(s.injectQueue)-1] = nil
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	return frame, true
}
