package arbor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	node := NewNode("pos")
	node.SetPosition(10, 20, -1)

	g := TweenPosition(node, mgl64.Vec3{100, 200, -3}, 1.0, ease.Linear)

	// Exact halves avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if !node.Position.ApproxEqualThreshold(mgl64.Vec3{100, 200, -3}, 1e-3) {
		t.Errorf("position = %v", node.Position)
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	node := NewNode("scale")

	g := TweenScale(node, mgl64.Vec3{2, 3, 4}, 0.5, ease.Linear)
	g.Update(0.25)
	if g.Done {
		t.Fatal("done at half time")
	}
	if math.Abs(node.Scale.X()-1.5) > 0.01 {
		t.Errorf("midway X = %v, want ~1.5", node.Scale.X())
	}
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if !node.Scale.ApproxEqualThreshold(mgl64.Vec3{2, 3, 4}, 1e-3) {
		t.Errorf("scale = %v", node.Scale)
	}
}

func TestTweenAlphaMarksDirty(t *testing.T) {
	node := NewNode("alpha")
	node.transformDirty = false

	g := TweenAlpha(node, 0, 1, ease.Linear)
	g.Update(0.5)

	if math.Abs(node.Alpha-0.5) > 0.01 {
		t.Errorf("alpha = %v, want ~0.5", node.Alpha)
	}
	if !node.transformDirty {
		t.Error("tween did not mark the node dirty")
	}
	if g.Target() != node {
		t.Error("Target mismatch")
	}
}

func TestTweenStopsOnDisposedNode(t *testing.T) {
	node := NewNode("gone")
	g := TweenAlpha(node, 0, 1, ease.Linear)
	node.Dispose()

	g.Update(0.5)
	if !g.Done {
		t.Error("tween on a disposed node should stop")
	}
	if node.Alpha != 1 {
		t.Errorf("disposed node written: alpha = %v", node.Alpha)
	}
}

func TestTweenSetDropsFinished(t *testing.T) {
	var ts TweenSet
	a, b := NewNode("a"), NewNode("b")
	ts.Add(TweenAlpha(a, 0, 0.5, ease.Linear))
	ts.Add(TweenAlpha(b, 0, 1, ease.Linear))
	ts.Add(nil)
	if ts.Len() != 2 {
		t.Fatalf("len = %d, want 2", ts.Len())
	}

	ts.Update(0.5)
	if ts.Len() != 1 {
		t.Errorf("len = %d after a finished, want 1", ts.Len())
	}
	ts.Update(0.5)
	if ts.Len() != 0 {
		t.Errorf("len = %d after both finished", ts.Len())
	}
}

func TestTweenSetReplacesSameTarget(t *testing.T) {
	var ts TweenSet
	n := NewNode("n")
	ts.Add(TweenAlpha(n, 0, 1, ease.Linear))
	ts.Add(TweenScale(n, mgl64.Vec3{2, 2, 2}, 1, ease.Linear))

	if ts.Len() != 1 {
		t.Fatalf("len = %d, want 1", ts.Len())
	}
	ts.Update(1)
	if n.Alpha != 1 {
		t.Errorf("replaced tween still ran: alpha = %v", n.Alpha)
	}
}

func TestTweenSetFadeIn(t *testing.T) {
	var ts TweenSet
	n := NewNode("n")

	ts.FadeIn(n, 0.2)
	if n.Alpha != 0 || ts.Len() != 1 {
		t.Fatalf("alpha=%v len=%d", n.Alpha, ts.Len())
	}
	ts.Update(0.1)
	ts.Update(0.1)
	if math.Abs(n.Alpha-1) > 1e-3 || ts.Len() != 0 {
		t.Errorf("alpha=%v len=%d after fade", n.Alpha, ts.Len())
	}

	m := NewNode("m")
	m.Alpha = 0.3
	ts.FadeIn(m, 0)
	if m.Alpha != 1 || ts.Len() != 0 {
		t.Errorf("instant fade: alpha=%v len=%d", m.Alpha, ts.Len())
	}
}
