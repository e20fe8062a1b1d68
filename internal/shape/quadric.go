package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// Quadric is the general second-order surface:
// A x^2 + B y^2 + C z^2 + D xy + E xz + F yz + G x + H y + I z + J = 0.
type Quadric struct {
	Base
	A, B, C, D, E, F, G, H, I, J float64
	Transform vecmath.Transform
}

func NewQuadric(a, b, c, d, e, f, g, h, i, j float64) *Quadric {
	q := &Quadric{A: a, B: b, C: c, D: d, E: e, F: f, G: g, H: h, I: i, J: j, Transform: vecmath.Identity()}
	q.AABB = vecmath.Infinite() // unbounded until clipped
	return q
}

// eval returns the implicit form's value at an object-space point.
func (q *Quadric) eval(p vecmath.Vec3) float64 {
	x, y, z := p.X(), p.Y(), p.Z()
	return q.A*x*x + q.B*y*y + q.C*z*z + q.D*x*y + q.E*x*z + q.F*y*z + q.G*x + q.H*y + q.I*z + q.J
}

func (q *Quadric) AllIntersections(ray Ray, stack *IStack) {
	ro := q.Transform.PointForward(ray.Origin)
	rd := q.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	ox, oy, oz := ro.X(), ro.Y(), ro.Z()
	dx, dy, dz := rd.X(), rd.Y(), rd.Z()

	a := q.A*dx*dx + q.B*dy*dy + q.C*dz*dz + q.D*dx*dy + q.E*dx*dz + q.F*dy*dz
	b := 2*q.A*ox*dx + 2*q.B*oy*dy + 2*q.C*oz*dz +
	q.D*(ox*dy+oy*dx) + q.E*(ox*dz+oz*dx) + q.F*(oy*dz+oz*dy) +
	q.G*dx + q.H*dy + q.I*dz
	c := q.eval(ro)

	var ts []float64
	if vecmath.NearZero(a) {
		if vecmath.NearZero(b) {
			return
		}
		ts = []float64{-c / b}
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return
		}
		sq := math.Sqrt(disc)
		ts = []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
	}

	for _, t := range ts {
		wt := t * scale
		if wt <= DepthTol {
			continue
		}
		hit := ray.At(wt)
		if !q.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: q})
	}
}

func (q *Quadric) Inside(p vecmath.Vec3) bool {
	op := q.Transform.PointForward(p)
	raw := q.eval(op) < 0
	return q.PublicInside(raw)
}

func (q *Quadric) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := q.Transform.PointForward(hit)
	x, y, z := op.X(), op.Y(), op.Z()
	grad := vecmath.Vec3{
		2*q.A*x + q.D*y + q.E*z + q.G,
		2*q.B*y + q.D*x + q.F*z + q.H,
		2*q.C*z + q.E*x + q.F*y + q.I,
	}
	return q.Transform.NormalBackward(grad)
}

func (q *Quadric) ApplyTransform(t vecmath.Transform) {
	q.Transform = q.Transform.Compose(t)
}

func (q *Quadric) Invert() { q.ToggleInverted() }

func (q *Quadric) Copy() Shape {
	nq := *q
	nq.Base = q.CopyBase()
	return &nq
}

func (q *Quadric) Destroy() {}

// RecomputeClippedBBox recomputes the Quadric's AABB against the clip
// intersection after clips are attached: an otherwise-unbounded Quadric
// gains a finite AABB only this way.
func (q *Quadric) RecomputeClippedBBox() {
	if len(q.ClipList) == 0 {
		return
	}
	clipBox := vecmath.Infinite()
	for _, c := range q.ClipList {
		clipBox = vecmath.Intersect(clipBox, c.BBox())
	}
	q.AABB = clipBox
}
