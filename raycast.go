package arbor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line in 3D.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RaycastHit describes the nearest node a ray intersected.
type RaycastHit struct {
	Node     *Node
	Point    mgl64.Vec3 // world-space hit point
	Distance float64    // world-space distance from the ray origin
}

// Raycaster resolves a screen point to the nearest hit node on the given
// layers. A miss is a normal outcome and is reported with ok == false.
type Raycaster interface {
	Raycast(screen Vec2, mask LayerMask) (hit RaycastHit, ok bool)
}

// RaycasterFunc adapts a function to the Raycaster interface.
type RaycasterFunc func(screen Vec2, mask LayerMask) (RaycastHit, bool)

// Raycast calls f.
func (f RaycasterFunc) Raycast(screen Vec2, mask LayerMask) (RaycastHit, bool) {
	return f(screen, mask)
}

// collectHittable walks the tree depth-first, appending nodes that can be
// hit by a ray on mask. Skips Visible=false subtrees and disposed nodes.
func collectHittable(n *Node, mask LayerMask, buf []*Node) []*Node {
	if !n.Visible || n.disposed {
		return buf
	}
	if n.Collider != nil && n.Interactable && mask.Has(n.Layer) {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectHittable(child, mask, buf)
	}
	return buf
}

// raycastNodes returns the nearest node in candidates hit by the world-space
// ray. Nodes with a singular world matrix (a zero scale somewhere up the
// chain) have no volume and are skipped.
func raycastNodes(candidates []*Node, ray Ray) (RaycastHit, bool) {
	var best RaycastHit
	found := false
	for _, n := range candidates {
		if n.worldMatrix.Det() == 0 {
			continue
		}
		t, ok := n.Collider.IntersectRay(n.worldRayToLocal(ray))
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = RaycastHit{Node: n, Point: ray.At(t), Distance: t}
			found = true
		}
	}
	return best, found
}

// Raycast casts a ray from the scene camera through the screen point and
// returns the nearest interactable node whose layer is in mask. World
// transforms are those computed by the last Update.
func (s *Scene) Raycast(screen Vec2, mask LayerMask) (RaycastHit, bool) {
	if s.camera == nil {
		return RaycastHit{}, false
	}
	s.hitBuf = collectHittable(s.root, mask, s.hitBuf[:0])
	if len(s.hitBuf) == 0 {
		return RaycastHit{}, false
	}
	return raycastNodes(s.hitBuf, s.camera.ScreenPointToRay(screen))
}
