package canopy

import "sync/atomic"

// nodeIDCounter hands out process-unique node IDs. Builds may run on
// several goroutines against a shared Registry and Cache, so it is atomic.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// Node is a materialized scene element. A single flat struct is used for all
// node kinds; Kind records the type tag the node was constructed from.
type Node struct {
	// Identity
	ID     uint32
	Name   string
	Kind   string
	Tag    int
	Source string // file reference the node was built from, if any

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Angles are in degrees, clockwise.
	X, Y                         float64
	ScaleX, ScaleY               float64
	Rotation                     float64
	RotationSkewX, RotationSkewY float64
	SkewX, SkewY                 float64
	AnchorX, AnchorY             float64

	// Content size, used by layout math only.
	Width, Height float64

	// Appearance
	Opacity        uint8
	CascadeOpacity bool
	Color          Color
	Visible        bool

	// Metadata
	UserData any

	disposed bool
}

// nodeDefaults sets the field values every constructor starts from. These
// MUST match the decoder defaults in decode.go: the decoder skips writes that
// equal them.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Tag = NoTag
	n.ScaleX = 1
	n.ScaleY = 1
	n.AnchorX = 0.5
	n.AnchorY = 0.5
	n.Opacity = 255
	n.Color = ColorWhite
	n.Visible = true
}

// NewNode creates a detached node of the given kind with default attributes.
func NewNode(kind string) *Node {
	n := &Node{Kind: kind}
	nodeDefaults(n)
	return n
}

// NewSizedNode creates a detached node with the given content size.
func NewSizedNode(kind string, width, height float64) *Node {
	n := NewNode(kind)
	n.Width = width
	n.Height = height
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(n.children) {
		panic("canopy: child index out of range")
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("canopy: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("canopy: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Lookup ---

// ChildByTag returns the first direct child carrying tag, or nil.
func (n *Node) ChildByTag(tag int) *Node {
	for _, c := range n.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindByTag searches this node and its descendants depth-first, in document
// order, and returns the first node carrying tag. Tags are not unique, so
// later matches are shadowed.
func (n *Node) FindByTag(tag int) *Node {
	if n.Tag == tag {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByTag(tag); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips that node's subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Depth returns the number of levels in the subtree rooted at n. A leaf has
// depth 1.
func (n *Node) Depth() int {
	deepest := 0
	for _, c := range n.children {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// --- Copying ---

// Clone returns a deep copy of the subtree rooted at n. The copy is detached,
// and every copied node receives a fresh ID. UserData is copied by reference.
func (n *Node) Clone() *Node {
	c := *n
	c.ID = nextNodeID()
	c.Parent = nil
	c.children = nil
	if len(n.children) > 0 {
		c.children = make([]*Node, 0, len(n.children))
		for _, child := range n.children {
			cc := child.Clone()
			cc.Parent = &c
			c.children = append(c.children, cc)
		}
	}
	return &c
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
	n.UserData = nil
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
