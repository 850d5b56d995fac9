package arbor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// --- ID counter ---

// nodeIDCounter is a plain counter; arbor is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the scene graph element that carries AR content. Anchors, spawned
// content, and their children are all Nodes.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Mutate through the setters, or call MarkDirty
	// after writing the fields directly.
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	// Computed during Scene.Update
	worldMatrix    mgl64.Mat4
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Visible      bool
	Interactable bool
	Layer        uint8

	// Appearance (debug wireframe only)
	Color Color
	Alpha float64

	// Hit testing
	Collider Collider

	// Metadata
	UserData any
	EntityID uint32

	handlers []GestureHandler
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Rotation = mgl64.QuatIdent()
	n.Scale = mgl64.Vec3{1, 1, 1}
	n.worldMatrix = mgl64.Ident4()
	n.worldAlpha = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.Layer = LayerDefault
	n.transformDirty = true
}

// NewNode creates an empty node with an identity transform. Without a
// Collider the node is never hit by ray casts.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewAnchor creates a container node positioned at pose. Anchors carry the
// tracked pose of a marker; spawned content is parented to them.
func NewAnchor(name string, pose Pose) *Node {
	n := NewNode(name)
	n.Position = pose.Position
	n.Rotation = pose.Rotation
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("arbor: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// FindChild returns the first direct child with the given name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ActiveInHierarchy reports whether this node and all of its ancestors are visible.
func (n *Node) ActiveInHierarchy() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(v bool) {
	n.Visible = v
}

// --- Gesture handlers ---

// AddGestureHandler attaches h to the node. A node may carry several
// handlers; all of them receive every gesture callback targeted at the node.
func (n *Node) AddGestureHandler(h GestureHandler) {
	if h == nil {
		return
	}
	n.handlers = append(n.handlers, h)
}

// RemoveGestureHandler detaches h. Sessions already in progress keep the
// handler set they captured at start.
func (n *Node) RemoveGestureHandler(h GestureHandler) {
	for i, cur := range n.handlers {
		if cur == h {
			copy(n.handlers[i:], n.handlers[i+1:])
			n.handlers[len(n.handlers)-1] = nil
			n.handlers = n.handlers[:len(n.handlers)-1]
			return
		}
	}
}

// GestureHandlers returns the attached handlers. The returned slice MUST NOT
// be mutated by the caller.
func (n *Node) GestureHandlers() []GestureHandler {
	return n.handlers
}

// EnsureGestureHandler returns the first handler of type T on n, creating
// and attaching one with create if none is present.
func EnsureGestureHandler[T GestureHandler](n *Node, create func(*Node) T) T {
	for _, h := range n.handlers {
		if typed, ok := h.(T); ok {
			return typed
		}
	}
	h := create(n)
	n.AddGestureHandler(h)
	return h
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Collider = nil
	n.UserData = nil
	n.handlers = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
