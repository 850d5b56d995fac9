package arbor

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// TrackedMarker is one marker entry of a tracking batch.
type TrackedMarker struct {
	Name  string
	Pose  Pose
	State TrackingState
}

// TrackingBatch is the per-frame set of marker changes reported by the host
// tracking subsystem.
type TrackingBatch struct {
	Added   []TrackedMarker
	Updated []TrackedMarker
	Removed []TrackedMarker
}

// Empty reports whether the batch carries no changes.
func (b TrackingBatch) Empty() bool {
	return len(b.Added) == 0 && len(b.Updated) == 0 && len(b.Removed) == 0
}

// TrackingSource yields the marker changes since the previous poll.
type TrackingSource interface {
	Poll() TrackingBatch
}

// TrackingQueue is a TrackingSource fed by Push. Batches pushed between two
// polls are merged in order.
type TrackingQueue struct {
	pending TrackingBatch
}

// Push queues a batch for the next Poll.
func (q *TrackingQueue) Push(b TrackingBatch) {
	q.pending.Added = append(q.pending.Added, b.Added...)
	q.pending.Updated = append(q.pending.Updated, b.Updated...)
	q.pending.Removed = append(q.pending.Removed, b.Removed...)
}

// Add queues a single added marker.
func (q *TrackingQueue) Add(name string, pose Pose) {
	q.pending.Added = append(q.pending.Added, TrackedMarker{Name: name, Pose: pose, State: TrackingTracking})
}

// Update queues a single updated marker.
func (q *TrackingQueue) Update(name string, pose Pose, state TrackingState) {
	q.pending.Updated = append(q.pending.Updated, TrackedMarker{Name: name, Pose: pose, State: state})
}

// Remove queues a single removed marker.
func (q *TrackingQueue) Remove(name string) {
	q.pending.Removed = append(q.pending.Removed, TrackedMarker{Name: name})
}

// Poll implements TrackingSource.
func (q *TrackingQueue) Poll() TrackingBatch {
	b := q.pending
	q.pending = TrackingBatch{}
	return b
}

// --- Remove policy ---

// RemovePolicy selects what happens to a marker's content when tracking
// reports the marker removed.
type RemovePolicy uint8

const (
	// RemoveDeactivate hides the anchor; a later add re-shows it.
	RemoveDeactivate RemovePolicy = iota
	// RemoveDestroy disposes the anchor and its content.
	RemoveDestroy
)

func (p RemovePolicy) String() string {
	switch p {
	case RemoveDeactivate:
		return "deactivate"
	case RemoveDestroy:
		return "destroy"
	default:
		return "RemovePolicy(" + fmt.Sprint(uint8(p)) + ")"
	}
}

// ParseRemovePolicy maps "deactivate" or "destroy" to a RemovePolicy.
func ParseRemovePolicy(s string) (RemovePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deactivate":
		return RemoveDeactivate, nil
	case "destroy":
		return RemoveDestroy, nil
	default:
		return RemoveDeactivate, fmt.Errorf("parse remove policy: unknown policy %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for config parsing.
func (p *RemovePolicy) UnmarshalText(text []byte) error {
	v, err := ParseRemovePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// --- Bridge ---

// MarkerBridge applies tracking batches to the scene: it creates an anchor
// per recognized marker, spawns content under it, keeps its pose in sync,
// and toggles or destroys it as tracking changes.
type MarkerBridge struct {
	root    *Node
	spawner *Spawner
	policy  RemovePolicy
	logger  *slog.Logger
	anchors map[string]*Node
}

// NewMarkerBridge creates a bridge that parents anchors to root.
func NewMarkerBridge(root *Node, spawner *Spawner, policy RemovePolicy, logger *slog.Logger) *MarkerBridge {
	return &MarkerBridge{
		root:    root,
		spawner: spawner,
		policy:  policy,
		logger:  loggerOrDiscard(logger),
		anchors: make(map[string]*Node),
	}
}

// Policy returns the remove policy.
func (b *MarkerBridge) Policy() RemovePolicy {
	return b.policy
}

// SetPolicy changes the remove policy for later removals.
func (b *MarkerBridge) SetPolicy(p RemovePolicy) {
	b.policy = p
}

// Anchor returns the anchor node for marker.
func (b *MarkerBridge) Anchor(marker string) (*Node, bool) {
	n, ok := b.anchors[marker]
	return n, ok
}

// Len returns the number of live anchors.
func (b *MarkerBridge) Len() int {
	return len(b.anchors)
}

// Markers returns the names of all live anchors in sorted order.
func (b *MarkerBridge) Markers() []string {
	return slices.Sorted(maps.Keys(b.anchors))
}

// Apply processes added, then updated, then removed entries.
func (b *MarkerBridge) Apply(batch TrackingBatch) {
	for _, m := range batch.Added {
		b.added(m)
	}
	for _, m := range batch.Updated {
		b.updated(m)
	}
	for _, m := range batch.Removed {
		b.removed(m)
	}
}

func (b *MarkerBridge) added(m TrackedMarker) {
	if anchor, ok := b.anchors[m.Name]; ok {
		anchor.SetPose(m.Pose)
		b.setActive(anchor, true)
		return
	}
	anchor := NewAnchor("anchor:"+m.Name, m.Pose)
	if b.spawner.Create(m.Name, anchor) == nil {
		anchor.Dispose()
		return
	}
	b.root.AddChild(anchor)
	b.anchors[m.Name] = anchor
	b.logger.Debug("marker added", "marker", m.Name)
}

func (b *MarkerBridge) updated(m TrackedMarker) {
	anchor, ok := b.anchors[m.Name]
	if !ok {
		return
	}
	anchor.SetPose(m.Pose)
	b.setActive(anchor, m.State == TrackingTracking)
}

func (b *MarkerBridge) removed(m TrackedMarker) {
	anchor, ok := b.anchors[m.Name]
	if !ok {
		return
	}
	switch b.policy {
	case RemoveDestroy:
		delete(b.anchors, m.Name)
		b.spawner.Forget(m.Name)
		anchor.Dispose()
		b.logger.Debug("marker destroyed", "marker", m.Name)
	default:
		anchor.SetVisible(false)
		b.logger.Debug("marker deactivated", "marker", m.Name)
	}
}

// setActive toggles anchor visibility and fades its content in when it
// becomes visible again.
func (b *MarkerBridge) setActive(anchor *Node, active bool) {
	if anchor.Visible == active {
		return
	}
	anchor.SetVisible(active)
	if active {
		for _, c := range anchor.Children() {
			b.spawner.FadeIn(c)
		}
	}
}
