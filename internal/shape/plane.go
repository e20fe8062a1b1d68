package shape

import "csgcore/internal/vecmath"

// Plane: unit normal, distance from origin. Linear
// intersection: N·P(t) = d.
type Plane struct {
	Base
	N vecmath.Vec3
	Dist float64
}

// NewPlane validates a non-degenerate normal at construction, per
// : "degenerate planes error" (fatal, not flag-and-continue).
func NewPlane(normal vecmath.Vec3, dist float64) (*Plane, bool) {
	l := normal.Len()
	if l < vecmath.Epsilon {
		return nil, false
	}
	p := &Plane{N: normal.Mul(1 / l), Dist: dist}
	p.AABB = vecmath.Infinite()
	return p, true
}

func (p *Plane) AllIntersections(ray Ray, stack *IStack) {
	denom := p.N.Dot(ray.Dir)
	if vecmath.NearZero(denom) {
		return
	}
	t := (p.Dist - p.N.Dot(ray.Origin)) / denom
	if t <= DepthTol {
		return
	}
	hit := ray.At(t)
	if !p.ClipContains(hit) {
		return
	}
	stack.Push(Intersection{Depth: t, Point: hit, Shape: p})
}

func (p *Plane) Inside(pt vecmath.Vec3) bool {
	raw := p.N.Dot(pt)-p.Dist < 0
	return p.PublicInside(raw)
}

func (p *Plane) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 { return p.N }

func (p *Plane) ApplyTransform(t vecmath.Transform) {
	n := vecmath.SafeNormalize(t.InvTranspose().Mul4x1(p.N.Vec4(0)).Vec3())
	// Recompute distance from a point known to lie on the original plane.
	onPlane := p.N.Mul(p.Dist)
	worldPoint := t.PointBackward(onPlane)
	p.N = n
	p.Dist = n.Dot(worldPoint)
}

func (p *Plane) Invert() { p.ToggleInverted() }

func (p *Plane) Copy() Shape {
	np := *p
	np.Base = p.CopyBase()
	return &np
}

func (p *Plane) Destroy() {}
