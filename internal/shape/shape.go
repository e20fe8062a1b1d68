// Package shape is the Primitive Kernel: the closed set of shape
// variants, sharing one capability contract.
package shape

import "csgcore/internal/vecmath"

// DepthTol is the minimum t along a ray for a hit to count: only
// entry/exit intersections with t in (DepthTol, +inf) are kept.
const DepthTol = 1e-6

// Ray is a ray in whatever space it's currently expressed (world or
// object); direction is not required to be unit length.
type Ray struct {
	Origin, Dir vecmath.Vec3
}

// At evaluates the ray at depth t.
func (r Ray) At(t float64) vecmath.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Shape is the capability set every primitive and CSG node implements.
type Shape interface {
	AllIntersections(ray Ray, stack *IStack)
	Inside(p vecmath.Vec3) bool
	Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3
	BBox() vecmath.BBox
	ApplyTransform(t vecmath.Transform)
	Invert()
	Copy() Shape
	Destroy()
	Flags() *FlagSet
	SetBBox(b vecmath.BBox)
	TextureRef() *Texture
	SetTexture(*Texture)
	InteriorRef() *Interior
	SetInterior(*Interior)
	Bounds() []Shape
	Clips() []Shape
	SetBounds([]Shape)
	SetClips([]Shape)
}

// Texture and Interior are opaque references: the core stores and
// propagates/promotes them but never interprets their contents —
// shading, pigments, and finishes are handled externally.
type Texture struct {
	Name string
	Filter float64
	Transmit float64
	IORStash float64
	HasIORStash bool
}

type Interior struct {
	IOR float64
}

// Base holds the attributes common to every shape. Primitive types
// embed Base by value and implement the Shape methods that aren't
// purely delegated.
type Base struct {
	FlagSet
	AABB vecmath.BBox
	Tex *Texture
	Int *Interior
	BoundList []Shape
	ClipList []Shape
	Sibling Shape
}

func (b *Base) Flags() *FlagSet { return &b.FlagSet }

func (b *Base) BBox() vecmath.BBox { return b.AABB }
func (b *Base) SetBBox(v vecmath.BBox) { b.AABB = v }

func (b *Base) TextureRef() *Texture { return b.Tex }
func (b *Base) SetTexture(t *Texture) { b.Tex = t }
func (b *Base) InteriorRef() *Interior { return b.Int }
func (b *Base) SetInterior(i *Interior) { b.Int = i }

func (b *Base) Bounds() []Shape { return b.BoundList }
func (b *Base) Clips() []Shape { return b.ClipList }
func (b *Base) SetBounds(s []Shape) { b.BoundList = s }
func (b *Base) SetClips(s []Shape) { b.ClipList = s }

// CopyBase duplicates the Base fields for a primitive's Copy
// implementation. Bound/clip lists are shared by reference, not
// deep-copied.
func (b *Base) CopyBase() Base {
	nb := *b
	return nb
}

// ClipContains reports whether hit passes every clip shape attached to
// this Base.
func (b *Base) ClipContains(hit vecmath.Vec3) bool {
	for _, c := range b.ClipList {
		if !c.Inside(hit) {
			return false
		}
	}
	return true
}

// PublicInside XORs the raw inside test with the Inverted flag.
func (b *Base) PublicInside(raw bool) bool {
	return raw != b.Has(Inverted)
}

// RecomputeBoundedBBox picks the tighter of the primitive's own AABB
// and the union of its bound shapes' AABBs: bound lists may shrink an
// AABB but never grow it.
func (b *Base) RecomputeBoundedBBox(own vecmath.BBox) vecmath.BBox {
	if len(b.BoundList) == 0 {
		return own
	}
	bound := vecmath.Empty()
	for _, bd := range b.BoundList {
		bound = vecmath.Union(bound, bd.BBox())
	}
	return vecmath.Tighter(own, bound)
}
