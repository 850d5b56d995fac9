package arbor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	defaultFovY = 60.0 // degrees
	minDepth    = 1e-6
)

// Camera is the AR device camera: a pinhole at Position looking down its
// local -Z axis with +Y up. Viewport maps the image plane to screen pixels.
type Camera struct {
	// Position and Rotation are the device pose in world space.
	Position mgl64.Vec3
	Rotation mgl64.Quat
	// FovY is the vertical field of view in degrees.
	FovY float64
	// Viewport is the screen-space rectangle the camera image fills.
	Viewport Rect
}

// NewCamera creates a camera at the origin with a 60° vertical field of view.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Rotation: mgl64.QuatIdent(),
		FovY:     defaultFovY,
		Viewport: viewport,
	}
}

// LookAt orients the camera toward target, keeping +Y as up.
func (c *Camera) LookAt(target mgl64.Vec3) {
	if target.Sub(c.Position).Len() < minDepth {
		return
	}
	forward := target.Sub(c.Position).Normalize()
	right := forward.Cross(Up)
	if right.Len() < minDepth {
		right = mgl64.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up := right.Cross(forward)
	basis := mgl64.Mat3FromCols(right, up, forward.Mul(-1))
	c.Rotation = mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}

// tanHalf returns tan(FovY/2) and the viewport aspect ratio.
func (c *Camera) tanHalf() (float64, float64) {
	fov := c.FovY
	if fov <= 0 {
		fov = defaultFovY
	}
	aspect := 1.0
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	return math.Tan(mgl64.DegToRad(fov) / 2), aspect
}

// ScreenPointToRay returns the world-space ray from the camera through the
// screen point. The direction is normalized.
func (c *Camera) ScreenPointToRay(p Vec2) Ray {
	vp := c.Viewport
	ndcX, ndcY := 0.0, 0.0
	if vp.Width > 0 && vp.Height > 0 {
		ndcX = (p.X-vp.X)/vp.Width*2 - 1
		ndcY = 1 - (p.Y-vp.Y)/vp.Height*2
	}
	th, aspect := c.tanHalf()
	local := mgl64.Vec3{ndcX * th * aspect, ndcY * th, -1}.Normalize()
	return Ray{
		Origin:    c.Position,
		Direction: c.Rotation.Rotate(local).Normalize(),
	}
}

// WorldToScreen projects a world-space point onto the screen. ok is false
// when the point is behind the camera.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (Vec2, bool) {
	local := c.Rotation.Inverse().Rotate(p.Sub(c.Position))
	depth := -local.Z()
	if depth < minDepth {
		return Vec2{}, false
	}
	th, aspect := c.tanHalf()
	ndcX := local.X() / (depth * th * aspect)
	ndcY := local.Y() / (depth * th)
	vp := c.Viewport
	return Vec2{
		X: vp.X + (ndcX+1)/2*vp.Width,
		Y: vp.Y + (1-ndcY)/2*vp.Height,
	}, true
}

// Right returns the camera's world-space right vector.
func (c *Camera) Right() mgl64.Vec3 {
	return c.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
}
