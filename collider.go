package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Collider is a hit-testable volume in a node's local coordinates.
// IntersectRay returns the smallest non-negative ray parameter t at which
// r enters the volume. The direction of r is not required to be normalized.
type Collider interface {
	IntersectRay(r Ray) (t float64, ok bool)
}

// --- Built-in Collider types ---

// SphereCollider is a sphere in local coordinates.
type SphereCollider struct {
	Center mgl64.Vec3
	Radius float64
}

// IntersectRay solves |o + t*d - c|^2 = r^2 for the nearest t >= 0.
// A ray starting inside the sphere hits at t = 0.
func (s SphereCollider) IntersectRay(r Ray) (float64, bool) {
	oc := r.Origin.Sub(s.Center)
	a := r.Direction.Dot(r.Direction)
	if a == 0 {
		return 0, false
	}
	b := 2 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t1 < 0 {
		return 0, false
	}
	if t0 < 0 {
		return 0, true
	}
	return t0, true
}

// BoxCollider is an axis-aligned box in local coordinates.
type BoxCollider struct {
	Center mgl64.Vec3
	Size   mgl64.Vec3
}

// Min returns the minimum corner.
func (b BoxCollider) Min() mgl64.Vec3 { return b.Center.Sub(b.Size.Mul(0.5)) }

// Max returns the maximum corner.
func (b BoxCollider) Max() mgl64.Vec3 { return b.Center.Add(b.Size.Mul(0.5)) }

// IntersectRay uses the slab method. A ray starting inside the box hits at t = 0.
func (b BoxCollider) IntersectRay(r Ray) (float64, bool) {
	lo, hi := b.Min(), b.Max()
	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if d == 0 {
			if o < lo[i] || o > hi[i] {
				return 0, false
			}
			continue
		}
		t1 := (lo[i] - o) / d
		t2 := (hi[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}
