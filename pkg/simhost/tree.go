// Package simhost is an in-memory host layout tree for lazygrid. Item sizes
// come from a SizeFunc; nodes are created on demand and recycled once they
// leave the active range, the way a real view tree would.
package simhost

import (
	"time"

	"lazygrid/pkg/lazygrid"
)

// SizeFunc returns the main size of item index when measured against a lane
// of the given cross size.
type SizeFunc func(index int, cross float64) float64

// GateFunc decides whether item index may be prepared before deadline.
type GateFunc func(index int, deadline time.Time) bool

// Fixed returns a SizeFunc giving every item the same size.
func Fixed(size float64) SizeFunc {
	return func(int, float64) float64 { return size }
}

// Cycle returns a SizeFunc repeating sizes by index.
func Cycle(sizes ...float64) SizeFunc {
	return func(index int, _ float64) float64 {
		if len(sizes) == 0 {
			return 0
		}
		return sizes[index%len(sizes)]
	}
}

// Tree implements lazygrid.Host.
type Tree struct {
	count   int
	size    SizeFunc
	gate    GateFunc
	recycle bool
	missing map[int]bool
	nodes   map[int]*Node

	activeStart int
	activeEnd   int

	created      int
	measureCalls int
	recycled     int
}

// Option configures a Tree.
type Option func(*Tree)

// WithMissing makes the tree fail to create the given indices.
func WithMissing(indices ...int) Option {
	return func(t *Tree) {
		for _, i := range indices {
			t.missing[i] = true
		}
	}
}

// WithRenderGate installs the gate asked during idle prediction.
func WithRenderGate(gate GateFunc) Option {
	return func(t *Tree) {
		t.gate = gate
	}
}

// WithoutRecycling keeps every node ever created.
func WithoutRecycling() Option {
	return func(t *Tree) {
		t.recycle = false
	}
}

// NewTree returns a tree of count items sized by size.
func NewTree(count int, size SizeFunc, opts ...Option) *Tree {
	if size == nil {
		size = Fixed(0)
	}
	t := &Tree{
		count:     count,
		size:      size,
		recycle:   true,
		missing:   make(map[int]bool),
		nodes:     make(map[int]*Node),
		activeEnd: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetOrCreateChildByIndex implements lazygrid.Host.
func (t *Tree) GetOrCreateChildByIndex(index int) lazygrid.Child {
	if index < 0 || index >= t.count || t.missing[index] {
		return nil
	}
	if n, ok := t.nodes[index]; ok {
		return n
	}
	n := &Node{tree: t, index: index}
	t.nodes[index] = n
	t.created++
	return n
}

// GetChildByIndex implements lazygrid.Host.
func (t *Tree) GetChildByIndex(index int, cachedOnly bool) lazygrid.Child {
	if n, ok := t.nodes[index]; ok {
		return n
	}
	if cachedOnly {
		return nil
	}
	return t.GetOrCreateChildByIndex(index)
}

// SetActiveChildRange implements lazygrid.Host. Nodes outside the range
// grown by the extras are dropped unless recycling is off.
func (t *Tree) SetActiveChildRange(start, end, startExtra, endExtra int) {
	t.activeStart, t.activeEnd = start, end
	if !t.recycle {
		return
	}
	lo, hi := start-startExtra, end+endExtra
	for i := range t.nodes {
		if end < start || i < lo || i > hi {
			delete(t.nodes, i)
			t.recycled++
		}
	}
}

// ActiveRange returns the range last passed to SetActiveChildRange.
func (t *Tree) ActiveRange() (start, end int) {
	return t.activeStart, t.activeEnd
}

// Node returns the live node for index.
func (t *Tree) Node(index int) (*Node, bool) {
	n, ok := t.nodes[index]
	return n, ok
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Count returns the item count.
func (t *Tree) Count() int {
	return t.count
}

// SetCount changes the item count and drops nodes past the end.
func (t *Tree) SetCount(count int) {
	t.count = count
	for i := range t.nodes {
		if i >= count {
			delete(t.nodes, i)
		}
	}
}

// SetSizeFunc replaces the size source and flags every live node for
// remeasurement.
func (t *Tree) SetSizeFunc(size SizeFunc) {
	t.size = size
	for _, n := range t.nodes {
		n.force = true
	}
}

// Invalidate flags a live node for remeasurement.
func (t *Tree) Invalidate(index int) {
	if n, ok := t.nodes[index]; ok {
		n.force = true
	}
}

// Created counts nodes created so far.
func (t *Tree) Created() int { return t.created }

// MeasureCalls counts Measure calls so far.
func (t *Tree) MeasureCalls() int { return t.measureCalls }

// Recycled counts nodes dropped by SetActiveChildRange.
func (t *Tree) Recycled() int { return t.recycled }

// Node is one item of the tree.
type Node struct {
	tree       *Tree
	index      int
	size       float64
	constraint lazygrid.Constraint
	measured   bool
	force      bool
	offset     lazygrid.Offset
	layouts    int
}

// Measure implements lazygrid.Child. Negative sizes are clamped to 0.
func (n *Node) Measure(c lazygrid.Constraint) {
	size := n.tree.size(n.index, c.CrossSize)
	if size < 0 {
		size = 0
	}
	n.size = size
	n.constraint = c
	n.measured = true
	n.force = false
	n.tree.measureCalls++
}

// Layout implements lazygrid.Child.
func (n *Node) Layout() {
	n.layouts++
}

// MainSize implements lazygrid.Child.
func (n *Node) MainSize() float64 {
	return n.size
}

// NeedsForceRemeasure implements lazygrid.Child.
func (n *Node) NeedsForceRemeasure() bool {
	return n.force
}

// LastConstraint implements lazygrid.Child.
func (n *Node) LastConstraint() (lazygrid.Constraint, bool) {
	return n.constraint, n.measured
}

// SetOffset implements lazygrid.Child.
func (n *Node) SetOffset(o lazygrid.Offset) {
	n.offset = o
}

// RenderCustomChild implements lazygrid.Child. Without a gate every node
// agrees to render.
func (n *Node) RenderCustomChild(deadline time.Time) bool {
	if n.tree.gate == nil {
		return true
	}
	return n.tree.gate(n.index, deadline)
}

// Index returns the item index of the node.
func (n *Node) Index() int { return n.index }

// Offset returns the last offset applied to the node.
func (n *Node) Offset() lazygrid.Offset { return n.offset }

// Constraint returns the constraint of the last measurement.
func (n *Node) Constraint() lazygrid.Constraint { return n.constraint }

// Layouts counts Layout calls on the node.
func (n *Node) Layouts() int { return n.layouts }
