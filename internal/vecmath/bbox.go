package vecmath

import "math"

// BigHuge bounds an "unbounded" primitive's AABB on each unbounded axis,
// : "for unbounded primitives... the AABB is set to
// BIG_HUGE on the unbounded axes".
const BigHuge = 1.0e17

// BoundHuge is the volume threshold past which the post-process pass
// flags a shape INFINITE .
const BoundHuge = 1.0e29

// BBox is an axis-aligned bounding box in world coordinates.
type BBox struct {
	Min, Max Vec3
}

// Empty returns a BBox that contains no points: Min > Max componentwise.
// An empty BBox is a valid "this subtree never hits" signal for CSG
// Intersection/Difference bbox composition .
func Empty() BBox {
	return BBox{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Infinite returns a BBox spanning BigHuge on every axis.
func Infinite() BBox {
	return BBox{
		Min: Vec3{-BigHuge, -BigHuge, -BigHuge},
		Max: Vec3{BigHuge, BigHuge, BigHuge},
	}
}

// IsEmpty reports whether the box contains no points.
func (b BBox) IsEmpty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// Contains reports whether p lies within the box (inclusive).
func (b BBox) Contains(p Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
	p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
	p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Union returns the smallest box containing both a and b.
func Union(a, b BBox) BBox {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return BBox{
		Min: Vec3{math.Min(a.Min.X(), b.Min.X()), math.Min(a.Min.Y(), b.Min.Y()), math.Min(a.Min.Z(), b.Min.Z())},
		Max: Vec3{math.Max(a.Max.X(), b.Max.X()), math.Max(a.Max.Y(), b.Max.Y()), math.Max(a.Max.Z(), b.Max.Z())},
	}
}

// Intersect returns the overlap of a and b; the result IsEmpty if they
// don't overlap.
func Intersect(a, b BBox) BBox {
	r := BBox{
		Min: Vec3{math.Max(a.Min.X(), b.Min.X()), math.Max(a.Min.Y(), b.Min.Y()), math.Max(a.Min.Z(), b.Min.Z())},
		Max: Vec3{math.Min(a.Max.X(), b.Max.X()), math.Min(a.Max.Y(), b.Max.Y()), math.Min(a.Max.Z(), b.Max.Z())},
	}
	return r
}

// Volume returns the box's volume, 0 for an empty box.
func (b BBox) Volume() float64 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Max.Sub(b.Min)
	return d.X() * d.Y() * d.Z()
}

// Tighter returns whichever of a, b has the smaller volume — used when a
// shape picks between its own AABB and a bound's AABB (// "the implementation picks the tighter of the primitive's own AABB and
// the bound's AABB").
func Tighter(a, b BBox) BBox {
	if b.Volume() < a.Volume() {
		return b
	}
	return a
}

// Transformed returns the AABB of b after applying t, conservatively
// (transforms all 8 corners and takes their bounding box).
func (b BBox) Transformed(t Transform) BBox {
	if b.IsEmpty() {
		return b
	}
	corners := [8]Vec3{
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
	}
	out := Empty()
	for _, c := range corners {
		wc := t.PointBackward(c)
		out = Union(out, BBox{Min: wc, Max: wc})
	}
	return out
}
