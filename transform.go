package arbor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Up is the local up axis drag rotation turns around.
var Up = mgl64.Vec3{0, 1, 0}

// Pose is a rigid position and orientation, as reported for tracked markers.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// PoseAt returns a pose at (x, y, z) with identity rotation.
func PoseAt(x, y, z float64) Pose {
	return Pose{Position: mgl64.Vec3{x, y, z}, Rotation: mgl64.QuatIdent()}
}

// computeLocalTransform returns the local matrix of n.
//
// Composition order:
//
//	Translate(Position) * Rotate(Rotation) * Scale(Scale)
func computeLocalTransform(n *Node) mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// updateWorldTransform recomputes a node's world matrix and alpha.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent mgl64.Mat4, parentAlpha float64, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = parent.Mul4(computeLocalTransform(n))
		n.transformDirty = false
	}
	// Alpha is cheap and tweened every frame; always propagate it.
	n.worldAlpha = parentAlpha * n.Alpha

	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, n.worldAlpha, recompute)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = mgl64.Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's local rotation and marks it dirty.
func (n *Node) SetRotation(q mgl64.Quat) {
	n.Rotation = q
	n.transformDirty = true
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(s mgl64.Vec3) {
	n.Scale = s
	n.transformDirty = true
}

// SetPose sets position and rotation together.
func (n *Node) SetPose(p Pose) {
	n.Position = p.Position
	n.Rotation = p.Rotation
	n.transformDirty = true
}

// Pose returns the node's local position and rotation.
func (n *Node) Pose() Pose {
	return Pose{Position: n.Position, Rotation: n.Rotation}
}

// Rotate turns the node by degrees around axis, expressed in the node's
// local space. The rotation composes onto the current one.
func (n *Node) Rotate(axis mgl64.Vec3, degrees float64) {
	step := mgl64.QuatRotate(mgl64.DegToRad(degrees), axis.Normalize())
	n.Rotation = n.Rotation.Mul(step).Normalize()
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// WorldMatrix returns the world matrix computed during the last update.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	return n.worldMatrix
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.worldMatrix.Col(3).Vec3()
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.worldMatrix.Mul4x1(p.Vec4(1)).Vec3()
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	inv := n.worldMatrix.Inv()
	return inv.Mul4x1(p.Vec4(1)).Vec3()
}

// worldRayToLocal converts a world-space ray into local space. The local
// direction is not normalized so that parametric distances map 1:1.
func (n *Node) worldRayToLocal(r Ray) Ray {
	inv := n.worldMatrix.Inv()
	return Ray{
		Origin:    inv.Mul4x1(r.Origin.Vec4(1)).Vec3(),
		Direction: inv.Mul4x1(r.Direction.Vec4(0)).Vec3(),
	}
}

// vecMul multiplies two vectors component-wise.
func vecMul(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
