package arbor

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default content color.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA scaled by alpha.
func (c Color) toRGBA(alpha float64) color.RGBA {
	a := c.A * alpha
	return color.RGBA{
		R: uint8(clamp01(c.R*a) * 255),
		G: uint8(clamp01(c.G*a) * 255),
		B: uint8(clamp01(c.B*a) * 255),
		A: uint8(clamp01(a) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D screen-space vector. Screen coordinates have their origin at
// the top-left with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 { return b.Sub(a).Len() }

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// TouchPhase is the lifecycle stage of a touch sample within one frame.
type TouchPhase uint8

const (
	TouchBegan      TouchPhase = iota // finger touched the screen this frame
	TouchMoved                        // finger moved since the previous frame
	TouchStationary                   // finger is down but did not move
	TouchEnded                        // finger lifted this frame
	TouchCanceled                     // system canceled the contact
)

// String returns the phase name.
func (p TouchPhase) String() string {
	switch p {
	case TouchBegan:
		return "began"
	case TouchMoved:
		return "moved"
	case TouchStationary:
		return "stationary"
	case TouchEnded:
		return "ended"
	case TouchCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Finished reports whether the phase terminates the contact.
func (p TouchPhase) Finished() bool {
	return p == TouchEnded || p == TouchCanceled
}

// TrackingState is the quality reported by the tracking subsystem for a marker.
type TrackingState uint8

const (
	TrackingNone     TrackingState = iota // marker is not tracked
	TrackingLimited                       // pose is stale or low confidence
	TrackingTracking                      // marker is actively tracked
)

// String returns the tracking state name.
func (s TrackingState) String() string {
	switch s {
	case TrackingNone:
		return "none"
	case TrackingLimited:
		return "limited"
	case TrackingTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of gesture callback.
type EventType uint8

const (
	EventDragStart  EventType = iota // a drag session started on a target
	EventDrag                        // the drag finger moved
	EventDragEnd                     // the drag finger lifted or was canceled
	EventPinchStart                  // a pinch session started on a target
	EventPinch                       // a pinch finger moved
	EventPinchEnd                    // the pinch ended

	eventTypeCount
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventDragStart:
		return "drag_start"
	case EventDrag:
		return "drag"
	case EventDragEnd:
		return "drag_end"
	case EventPinchStart:
		return "pinch_start"
	case EventPinch:
		return "pinch"
	case EventPinchEnd:
		return "pinch_end"
	default:
		return "unknown"
	}
}

// LayerMask is a bitset of node layers (0-31) accepted by hit-testing.
type LayerMask uint32

const (
	LayerDefault      uint8 = 0 // layer of newly created nodes
	LayerInteractable uint8 = 8 // layer spawned content is placed on
)

// MaskAll accepts every layer.
const MaskAll LayerMask = math.MaxUint32

// MaskOf builds a mask containing the given layers.
func MaskOf(layers ...uint8) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l < 32 {
			m |= 1 << l
		}
	}
	return m
}

// Has reports whether layer is part of the mask.
func (m LayerMask) Has(layer uint8) bool {
	return layer < 32 && m&(1<<layer) != 0
}
