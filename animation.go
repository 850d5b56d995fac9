package arbor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenAlpha, TweenScale,
// TweenPosition) and call Update(dt) each frame, or hand it to a TweenSet.
// The group auto-applies values and marks the node dirty. If the target
// node is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Target returns the node the group writes to.
func (g *TweenGroup) Target() *Node {
	return g.target
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	g.fields[0] = &node.Alpha
	return g
}

// TweenScale animates the three components of node.Scale to the target.
func TweenScale(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Scale, to, duration, fn)
}

// TweenPosition animates node.Position to the target.
func TweenPosition(node *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Position, to, duration, fn)
}

func tweenVec3(node *Node, v *mgl64.Vec3, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(float32(v[i]), float32(to[i]), duration, fn)
		g.fields[i] = &v[i]
	}
	return g
}

// --- TweenSet ---

// TweenSet advances a collection of groups and drops them once done.
// A node has at most one running group per set; adding a new one for the
// same node replaces the old.
type TweenSet struct {
	groups []*TweenGroup
}

// Add starts g, replacing any group already animating the same node.
func (ts *TweenSet) Add(g *TweenGroup) {
	if g == nil {
		return
	}
	for i, cur := range ts.groups {
		if cur.target == g.target {
			ts.groups[i] = g
			return
		}
	}
	ts.groups = append(ts.groups, g)
}

// Update advances every group by dt and removes finished ones.
func (ts *TweenSet) Update(dt float32) {
	live := ts.groups[:0]
	for _, g := range ts.groups {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(ts.groups); i++ {
		ts.groups[i] = nil
	}
	ts.groups = live
}

// Len returns the number of running groups.
func (ts *TweenSet) Len() int {
	return len(ts.groups)
}

// FadeIn sets node.Alpha to 0 and tweens it to 1 over seconds. With a
// non-positive duration the node is made opaque immediately.
func (ts *TweenSet) FadeIn(node *Node, seconds float64) {
	if seconds <= 0 {
		node.Alpha = 1
		return
	}
	node.Alpha = 0
	ts.Add(TweenAlpha(node, 1, float32(seconds), ease.OutQuad))
}
