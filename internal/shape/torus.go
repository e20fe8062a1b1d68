package shape

import (
	"csgcore/internal/vecmath"
	"csgcore/internal/polyroot"
)

// Torus: major radius R, minor radius r, axis along
// object-space Y. Quartic in t:
// (x^2+y^2+z^2 + R^2 - r^2)^2 - 4R^2(x^2+z^2) = 0
type Torus struct {
	Base
	MajorR, MinorR float64
	Transform vecmath.Transform
}

func NewTorus(majorR, minorR float64) *Torus {
	tr := &Torus{MajorR: majorR, MinorR: minorR, Transform: vecmath.Identity()}
	r := majorR + minorR
	tr.AABB = vecmath.BBox{
		Min: vecmath.Vec3{-r, -minorR, -r},
		Max: vecmath.Vec3{r, minorR, r},
	}
	return tr
}

func (tr *Torus) implicitCoeffs(ro, rd vecmath.Vec3) []float64 {
	R2, r2 := tr.MajorR*tr.MajorR, tr.MinorR*tr.MinorR
	ox, oy, oz := ro.X(), ro.Y(), ro.Z()
	dx, dy, dz := rd.X(), rd.Y(), rd.Z()

	dd := dx*dx + dy*dy + dz*dz
	od := ox*dx + oy*dy + oz*dz
	oo := ox*ox + oy*oy + oz*oz

	k := oo + R2 - r2
	// u(t) = dd*t^2 + 2*od*t + k
	// equation: u(t)^2 - 4R^2*((ox+t dx)^2+(oz+t dz)^2) = 0
	c2 := dx*dx + dz*dz
	c1 := 2 * (ox*dx + oz*dz)
	c0 := ox*ox + oz*oz

	// Expand u(t)^2 as a degree-4 poly in t, then subtract 4R2*(c2 t^2 + c1 t + c0)
	a4 := dd * dd
	a3 := 4 * dd * od
	a2 := 2*dd*k + 4*od*od
	a1 := 4 * od * k
	a0 := k * k

	a2 -= 4 * R2 * c2
	a1 -= 4 * R2 * c1
	a0 -= 4 * R2 * c0

	return []float64{a4, a3, a2, a1, a0}
}

func (tr *Torus) AllIntersections(ray Ray, stack *IStack) {
	ro := tr.Transform.PointForward(ray.Origin)
	rd := tr.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	coeffs := tr.implicitCoeffs(ro, rd)
	roots := polyroot.Solve(coeffs, tr.Has(Sturm))
	for _, t := range roots {
		wt := t * scale
		if wt <= DepthTol {
			continue
		}
		hit := ray.At(wt)
		if !tr.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: tr})
	}
}

func (tr *Torus) fieldValue(p vecmath.Vec3) float64 {
	R2, r2 := tr.MajorR*tr.MajorR, tr.MinorR*tr.MinorR
	x, y, z := p.X(), p.Y(), p.Z()
	k := x*x + y*y + z*z + R2 - r2
	return k*k - 4*R2*(x*x+z*z)
}

func (tr *Torus) Inside(p vecmath.Vec3) bool {
	op := tr.Transform.PointForward(p)
	raw := tr.fieldValue(op) < 0
	return tr.PublicInside(raw)
}

func (tr *Torus) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := tr.Transform.PointForward(hit)
	R2 := tr.MajorR * tr.MajorR
	x, y, z := op.X(), op.Y(), op.Z()
	k := x*x + y*y + z*z + R2 - tr.MinorR*tr.MinorR
	grad := vecmath.Vec3{
		4 * x * (k - 2*R2),
		4 * y * k,
		4 * z * (k - 2*R2),
	}
	return tr.Transform.NormalBackward(grad)
}

func (tr *Torus) ApplyTransform(t vecmath.Transform) {
	tr.Transform = tr.Transform.Compose(t)
	r := tr.MajorR + tr.MinorR
	tr.AABB = vecmath.BBox{
		Min: vecmath.Vec3{-r, -tr.MinorR, -r},
		Max: vecmath.Vec3{r, tr.MinorR, r},
	}.Transformed(tr.Transform)
}

func (tr *Torus) Invert() { tr.ToggleInverted() }

func (tr *Torus) Copy() Shape {
	ntr := *tr
	ntr.Base = tr.CopyBase()
	return &ntr
}

func (tr *Torus) Destroy() {}
