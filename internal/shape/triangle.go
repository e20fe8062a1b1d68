package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// Triangle: 3 vertices, optional 3 normals : plane
// intersection + barycentric test. When Smooth is true and N0/N1/N2 are
// set, Normal interpolates them by barycentric weight (SmoothTriangle).
type Triangle struct {
	Base
	P0, P1, P2 vecmath.Vec3
	N0, N1, N2 vecmath.Vec3
	Smooth bool
	faceNormal vecmath.Vec3
}

// NewTriangle validates non-degeneracy at construction; a collapsed
// triangle (zero-area) is a geometry validation error (// "degenerate geometry... must be detected at construction").
func NewTriangle(p0, p1, p2 vecmath.Vec3) (*Triangle, bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	n := e1.Cross(e2)
	if n.Len() < vecmath.Epsilon {
		return nil, false
	}
	t := &Triangle{P0: p0, P1: p1, P2: p2, faceNormal: vecmath.SafeNormalize(n)}
	t.recomputeBBox()
	return t, true
}

func (t *Triangle) recomputeBBox() {
	min := vecmath.Vec3{
		math.Min(t.P0.X(), math.Min(t.P1.X(), t.P2.X())),
		math.Min(t.P0.Y(), math.Min(t.P1.Y(), t.P2.Y())),
		math.Min(t.P0.Z(), math.Min(t.P1.Z(), t.P2.Z())),
	}
	max := vecmath.Vec3{
		math.Max(t.P0.X(), math.Max(t.P1.X(), t.P2.X())),
		math.Max(t.P0.Y(), math.Max(t.P1.Y(), t.P2.Y())),
		math.Max(t.P0.Z(), math.Max(t.P1.Z(), t.P2.Z())),
	}
	t.AABB = vecmath.BBox{Min: min, Max: max}
}

// SetSmoothNormals enables SmoothTriangle interpolation.
func (t *Triangle) SetSmoothNormals(n0, n1, n2 vecmath.Vec3) {
	t.N0, t.N1, t.N2 = n0, n1, n2
	t.Smooth = true
}

// barycentric performs a Möller-style ray/triangle test, returning
// (t, u, v, ok).
func (tr *Triangle) barycentric(ray Ray) (float64, float64, float64, bool) {
	e1 := tr.P1.Sub(tr.P0)
	e2 := tr.P2.Sub(tr.P0)
	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < vecmath.Epsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det
	tvec := ray.Origin.Sub(tr.P0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	v := ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t := e2.Dot(qvec) * invDet
	return t, u, v, true
}

func (tr *Triangle) AllIntersections(ray Ray, stack *IStack) {
	t, u, v, ok := tr.barycentric(ray)
	if !ok || t <= DepthTol {
		return
	}
	hit := ray.At(t)
	if !tr.ClipContains(hit) {
		return
	}
	stack.Push(Intersection{Depth: t, Point: hit, Shape: tr, D1: u, I1: int(v * 1e9)})
}

// Inside treats the infinitely thin triangle as the half-space behind
// its supporting plane: points on the side opposite the face normal are
// inside.
func (tr *Triangle) Inside(p vecmath.Vec3) bool {
	raw := tr.faceNormal.Dot(p.Sub(tr.P0)) < 0
	return tr.PublicInside(raw)
}

func (tr *Triangle) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	if !tr.Smooth {
		return tr.faceNormal
	}
	u := rec.D1
	v := float64(rec.I1) / 1e9
	w := 1 - u - v
	n := tr.N0.Mul(w).Add(tr.N1.Mul(u)).Add(tr.N2.Mul(v))
	return vecmath.SafeNormalize(n)
}

func (tr *Triangle) ApplyTransform(t vecmath.Transform) {
	tr.P0 = t.PointBackward(tr.P0)
	tr.P1 = t.PointBackward(tr.P1)
	tr.P2 = t.PointBackward(tr.P2)
	if tr.Smooth {
		tr.N0 = t.NormalBackward(tr.N0)
		tr.N1 = t.NormalBackward(tr.N1)
		tr.N2 = t.NormalBackward(tr.N2)
	}
	tr.faceNormal = t.NormalBackward(tr.faceNormal)
	tr.recomputeBBox()
}

func (tr *Triangle) Invert() { tr.ToggleInverted() }

func (tr *Triangle) Copy() Shape {
	ntr := *tr
	ntr.Base = tr.CopyBase()
	return &ntr
}

func (tr *Triangle) Destroy() {}
