package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// Disc: center, unit normal, outer_r^2, inner_r^2, solved as a plane
// intersection followed by an annulus test.
type Disc struct {
	Base
	Center vecmath.Vec3
	N vecmath.Vec3
	OuterR2, InnerR2 float64
}

func NewDisc(center, normal vecmath.Vec3, outerR2, innerR2 float64) *Disc {
	n := vecmath.SafeNormalize(normal)
	d := &Disc{Center: center, N: n}
	d.OuterR2, d.InnerR2 = outerR2, innerR2
	r := outerR2
	radius := math.Sqrt(math.Max(r, 0))
	extent := vecmath.Vec3{radius, radius, radius}
	d.AABB = vecmath.BBox{Min: center.Sub(extent), Max: center.Add(extent)}
	return d
}

func (d *Disc) AllIntersections(ray Ray, stack *IStack) {
	denom := d.N.Dot(ray.Dir)
	if vecmath.NearZero(denom) {
		return
	}
	dist := d.N.Dot(d.Center)
	t := (dist - d.N.Dot(ray.Origin)) / denom
	if t <= DepthTol {
		return
	}
	hit := ray.At(t)
	rv := hit.Sub(d.Center)
	r2 := rv.Dot(rv)
	if r2 > d.OuterR2 || r2 < d.InnerR2 {
		return
	}
	if !d.ClipContains(hit) {
		return
	}
	stack.Push(Intersection{Depth: t, Point: hit, Shape: d})
}

func (d *Disc) Inside(p vecmath.Vec3) bool {
	// A disc has zero thickness; "inside" follows the half-space of its
	// supporting plane, matching the source renderer's flat-primitive
	// convention.
	raw := d.N.Dot(p.Sub(d.Center)) < 0
	return d.PublicInside(raw)
}

func (d *Disc) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 { return d.N }

func (d *Disc) ApplyTransform(t vecmath.Transform) {
	d.Center = t.PointBackward(d.Center)
	d.N = t.NormalBackward(d.N)
	d.AABB = d.AABB.Transformed(t)
}

func (d *Disc) Invert() { d.ToggleInverted() }

func (d *Disc) Copy() Shape {
	nd := *d
	nd.Base = d.CopyBase()
	return &nd
}

func (d *Disc) Destroy() {}
