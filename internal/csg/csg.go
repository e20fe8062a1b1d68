// Package csg is the composition layer: Union, Intersection,
// Difference, and Merge built from a child shape list, implementing
// the same shape.Shape capability by combining child results under
// set-theoretic rules.
package csg

import (
	"csgcore/internal/shape"
	"csgcore/internal/vecmath"
)

type Op int

const (
	OpUnion Op = iota
	OpIntersection
	OpDifference
	OpMerge
)

// Node is a composite shape: a child list plus the set-theoretic
// operation combining them.
type Node struct {
	shape.Base
	Op Op
	Children []shape.Shape
	LightUnion bool // true when every child is a light source
}

// NewUnion builds a Union node; children are recorded as-is.
func NewUnion(children []shape.Shape) *Node {
	n := &Node{Op: OpUnion, Children: children}
	n.recomputeBBox()
	return n
}

// NewIntersection builds an Intersection node.
func NewIntersection(children []shape.Shape) *Node {
	n := &Node{Op: OpIntersection, Children: children}
	n.recomputeBBox()
	return n
}

// NewDifference realizes Difference by flipping INVERTED on every child
// after the first and applying the Intersection rule.
func NewDifference(children []shape.Shape) *Node {
	for _, c := range children[1:] {
		c.Invert()
	}
	n := &Node{Op: OpDifference, Children: children}
	n.recomputeBBox()
	return n
}

// NewMerge builds a Merge node. Its accept rule is the same as Union's:
// surfaces strictly inside a sibling are suppressed.
func NewMerge(children []shape.Shape) *Node {
	n := &Node{Op: OpMerge, Children: children}
	n.recomputeBBox()
	return n
}

func (n *Node) recomputeBBox() {
	switch n.Op {
	case OpUnion, OpMerge:
		box := vecmath.Empty()
		for _, c := range n.Children {
			box = vecmath.Union(box, c.BBox())
		}
		n.AABB = n.Base.RecomputeBoundedBBox(box)
	default: // Intersection, Difference
		if len(n.Children) == 0 {
			n.AABB = vecmath.Empty()
			return
		}
		box := n.Children[0].BBox()
		for _, c := range n.Children[1:] {
			box = vecmath.Intersect(box, c.BBox())
		}
		n.AABB = n.Base.RecomputeBoundedBBox(box)
	}
}

// insideOthers reports whether p is inside every child other than the
// one at skip.
func insideOthers(children []shape.Shape, skip int, p vecmath.Vec3) bool {
	for i, c := range children {
		if i == skip {
			continue
		}
		if !c.Inside(p) {
			return false
		}
	}
	return true
}

// insideAnyOther reports whether p is inside any child other than skip.
func insideAnyOther(children []shape.Shape, skip int, p vecmath.Vec3) bool {
	for i, c := range children {
		if i == skip {
			continue
		}
		if c.Inside(p) {
			return true
		}
	}
	return false
}

// accept applies the set-theoretic membership rule to a
// candidate hit produced by child index `from` at point p.
func (n *Node) accept(from int, p vecmath.Vec3) bool {
	switch n.Op {
	case OpUnion:
		return !insideAnyOther(n.Children, from, p)
	case OpIntersection, OpDifference:
		return insideOthers(n.Children, from, p)
	case OpMerge:
		return !insideAnyOther(n.Children, from, p)
	}
	return false
}

func (n *Node) AllIntersections(ray shape.Ray, stack *shape.IStack) {
	tmp := shape.NewIStack()
	for idx, c := range n.Children {
		tmp.Reset()
		c.AllIntersections(ray, tmp)
		for _, rec := range tmp.Entries {
			if n.accept(idx, rec.Point) {
				stack.Push(rec)
			}
		}
	}
}

func (n *Node) Inside(p vecmath.Vec3) bool {
	var raw bool
	switch n.Op {
	case OpUnion, OpMerge:
		for _, c := range n.Children {
			if c.Inside(p) {
				raw = true
				break
			}
		}
	case OpIntersection, OpDifference:
		raw = true
		for _, c := range n.Children {
			if !c.Inside(p) {
				raw = false
				break
			}
		}
	}
	return n.PublicInside(raw)
}

// Normal delegates to the child shape that actually produced the hit,
// carried on the intersection record (the IStack entry
// carries a handle to the owning shape).
func (n *Node) Normal(hit vecmath.Vec3, rec shape.Intersection) vecmath.Vec3 {
	if rec.Shape != nil && rec.Shape != shape.Shape(n) {
		return rec.Shape.Normal(hit, rec)
	}
	return vecmath.Vec3{0, 1, 0}
}

// ApplyTransform pushes the transform down into every child: CSG nodes
// carry no transform of their own (a shape either holds a
// Transform or is transformed component-wise at construction; CSG picks
// the latter).
func (n *Node) ApplyTransform(t vecmath.Transform) {
	for _, c := range n.Children {
		c.ApplyTransform(t)
	}
	n.recomputeBBox()
}

func (n *Node) Invert() { n.ToggleInverted() }

func (n *Node) Copy() shape.Shape {
	nn := &Node{Base: n.CopyBase(), Op: n.Op, LightUnion: n.LightUnion}
	for _, c := range n.Children {
		nn.Children = append(nn.Children, c.Copy())
	}
	return nn
}

func (n *Node) Destroy() {
	for _, c := range n.Children {
		c.Destroy()
	}
}

// PropagateHollow recurses into every descendant whose HOLLOW_SET flag
// has not been pinned, continuing the recursion through pinned nodes'
// children regardless (only the pinned node's own flag is left alone).
func PropagateHollow(s shape.Shape, hollow bool) {
	if !s.Flags().Has(shape.HollowSet) {
		s.Flags().SetIf(shape.Hollow, hollow)
	}
	if n, ok := s.(*Node); ok {
		for _, c := range n.Children {
			PropagateHollow(c, hollow)
		}
	}
}

// ShareClipsAsBounds implements the "use clips as bounds" sharing rule:
// after this call the shape's bound list and clip list are the same
// slice, so neither can be extended independently without affecting
// the other.
func ShareClipsAsBounds(s shape.Shape) {
	s.SetBounds(s.Clips())
}
