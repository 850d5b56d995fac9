package arbor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newBridge(t *testing.T, policy RemovePolicy) (*MarkerBridge, *Node, *TweenSet) {
	t.Helper()
	root := NewNode("root")
	tweens := &TweenSet{}
	sp := NewSpawner(SpawnerConfig{Registry: testRegistry(t), Tweens: tweens})
	return NewMarkerBridge(root, sp, policy, nil), root, tweens
}

func TestBridgeAddCreatesAnchor(t *testing.T) {
	b, root, _ := newBridge(t, RemoveDeactivate)
	pose := PoseAt(0.1, 0.2, -1)

	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "astronaut", Pose: pose, State: TrackingTracking}}})

	anchor, ok := b.Anchor("astronaut")
	if !ok {
		t.Fatal("no anchor for astronaut")
	}
	if anchor.Parent != root || anchor.Position != pose.Position {
		t.Errorf("anchor parent=%v position=%v", anchor.Parent, anchor.Position)
	}
	if anchor.NumChildren() != 1 || anchor.Children()[0].Name != "astronaut" {
		t.Errorf("anchor children = %d", anchor.NumChildren())
	}
}

func TestBridgeUnknownMarkerLeavesNoAnchor(t *testing.T) {
	b, root, _ := newBridge(t, RemoveDeactivate)

	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "ghost", Pose: PoseAt(0, 0, -1)}}})

	if root.NumChildren() != 0 || b.Len() != 0 {
		t.Errorf("unknown marker left %d children, %d anchors", root.NumChildren(), b.Len())
	}
	// Updates and removals for it are ignored.
	b.Apply(TrackingBatch{
		Updated: []TrackedMarker{{Name: "ghost", State: TrackingTracking}},
		Removed: []TrackedMarker{{Name: "ghost"}},
	})
}

func TestBridgeUpdateVisibility(t *testing.T) {
	b, _, tweens := newBridge(t, RemoveDeactivate)
	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "astronaut", Pose: PoseAt(0, 0, -1)}}})
	anchor, _ := b.Anchor("astronaut")
	content := anchor.Children()[0]
	tweens.Update(10) // finish the spawn fade

	tests := []struct {
		state   TrackingState
		visible bool
	}{
		{TrackingLimited, false},
		{TrackingNone, false},
		{TrackingTracking, true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			pose := Pose{Position: mgl64.Vec3{1, 2, 3}, Rotation: mgl64.QuatRotate(1, Up)}
			b.Apply(TrackingBatch{Updated: []TrackedMarker{{Name: "astronaut", Pose: pose, State: tt.state}}})
			if anchor.Visible != tt.visible {
				t.Errorf("visible = %v, want %v", anchor.Visible, tt.visible)
			}
			if anchor.Position != pose.Position || anchor.Rotation != pose.Rotation {
				t.Errorf("pose not synced: %v", anchor.Pose())
			}
		})
	}

	// Becoming visible again restarts the fade.
	if content.Alpha != 0 || tweens.Len() != 1 {
		t.Errorf("alpha=%v tweens=%d after reacquire", content.Alpha, tweens.Len())
	}
}

func TestBridgeRemoveDeactivate(t *testing.T) {
	b, root, _ := newBridge(t, RemoveDeactivate)
	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "astronaut", Pose: PoseAt(0, 0, -1)}}})
	anchor, _ := b.Anchor("astronaut")

	b.Apply(TrackingBatch{Removed: []TrackedMarker{{Name: "astronaut"}}})
	if anchor.Visible || anchor.IsDisposed() || anchor.Parent != root {
		t.Errorf("visible=%v disposed=%v", anchor.Visible, anchor.IsDisposed())
	}

	// Re-adding reuses the anchor.
	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "astronaut", Pose: PoseAt(0, 1, -1)}}})
	again, _ := b.Anchor("astronaut")
	if again != anchor || !anchor.Visible || root.NumChildren() != 1 {
		t.Errorf("re-add: same=%v visible=%v children=%d", again == anchor, anchor.Visible, root.NumChildren())
	}
	if anchor.NumChildren() != 1 {
		t.Errorf("re-add spawned duplicate content: %d", anchor.NumChildren())
	}
}

func TestBridgeRemoveDestroy(t *testing.T) {
	b, root, _ := newBridge(t, RemoveDestroy)
	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "astronaut", Pose: PoseAt(0, 0, -1)}}})
	anchor, _ := b.Anchor("astronaut")
	content := anchor.Children()[0]

	b.Apply(TrackingBatch{Removed: []TrackedMarker{{Name: "astronaut"}}})
	if !anchor.IsDisposed() || !content.IsDisposed() {
		t.Error("anchor or content not disposed")
	}
	if root.NumChildren() != 0 || b.Len() != 0 {
		t.Errorf("children=%d anchors=%d", root.NumChildren(), b.Len())
	}

	b.Apply(TrackingBatch{Added: []TrackedMarker{{Name: "astronaut", Pose: PoseAt(0, 0, -1)}}})
	if fresh, ok := b.Anchor("astronaut"); !ok || fresh == anchor {
		t.Error("re-add after destroy did not create a new anchor")
	}
}

func TestBridgeApplyOrder(t *testing.T) {
	b, _, _ := newBridge(t, RemoveDeactivate)
	// Added then removed in the same batch ends hidden.
	b.Apply(TrackingBatch{
		Added:   []TrackedMarker{{Name: "astronaut", Pose: PoseAt(0, 0, -1)}},
		Removed: []TrackedMarker{{Name: "astronaut"}},
	})
	anchor, ok := b.Anchor("astronaut")
	if !ok || anchor.Visible {
		t.Errorf("anchor ok=%v visible=%v", ok, ok && anchor.Visible)
	}
}

func TestTrackingQueueMerges(t *testing.T) {
	var q TrackingQueue
	q.Add("a", PoseAt(0, 0, 0))
	q.Push(TrackingBatch{Updated: []TrackedMarker{{Name: "a"}}})
	q.Remove("b")
	q.Update("c", PoseAt(1, 1, 1), TrackingLimited)

	b := q.Poll()
	if len(b.Added) != 1 || len(b.Updated) != 2 || len(b.Removed) != 1 {
		t.Errorf("batch = %+v", b)
	}
	if b.Added[0].State != TrackingTracking || b.Updated[1].State != TrackingLimited {
		t.Errorf("states = %v %v", b.Added[0].State, b.Updated[1].State)
	}
	if !q.Poll().Empty() {
		t.Error("second poll not empty")
	}
}

func TestParseRemovePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want RemovePolicy
		ok   bool
	}{
		{"", RemoveDeactivate, true},
		{"deactivate", RemoveDeactivate, true},
		{"Destroy", RemoveDestroy, true},
		{"explode", RemoveDeactivate, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRemovePolicy(tt.in)
			if (err == nil) != tt.ok || got != tt.want {
				t.Errorf("ParseRemovePolicy(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
	if RemoveDestroy.String() != "destroy" {
		t.Errorf("String = %q", RemoveDestroy.String())
	}
}
