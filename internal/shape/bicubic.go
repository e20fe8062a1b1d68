package shape

import (
	"csgcore/internal/vecmath"
)

// Bicubic is a 4x4 control-point Bezier patch, intersected by adaptive
// subdivision: the patch is recursively split into quadrants until
// each is flat enough to treat as two triangles, which are then
// tested directly.
type Bicubic struct {
	Base
	Control [4][4]vecmath.Vec3
	FlatEps float64
	MaxDepth int
	Transform vecmath.Transform
}

func NewBicubic(control [4][4]vecmath.Vec3) *Bicubic {
	p := &Bicubic{Control: control, FlatEps: 1e-4, MaxDepth: 16, Transform: vecmath.Identity()}
	p.rebuildBBox()
	return p
}

func (p *Bicubic) rebuildBBox() {
	box := vecmath.Empty()
	for _, row := range p.Control {
		for _, c := range row {
			box = vecmath.Union(box, vecmath.BBox{Min: c, Max: c})
		}
	}
	p.AABB = box
}

func bernstein3(t float64) [4]float64 {
	mt := 1 - t
	return [4]float64{mt * mt * mt, 3 * mt * mt * t, 3 * mt * t * t, t * t * t}
}

// eval returns the patch point at (u,v).
func (p *Bicubic) eval(u, v float64) vecmath.Vec3 {
	bu := bernstein3(u)
	bv := bernstein3(v)
	var pt vecmath.Vec3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			pt = pt.Add(p.Control[i][j].Mul(bu[i] * bv[j]))
		}
	}
	return pt
}

type patchCorner struct {
	u, v float64
	pt vecmath.Vec3
}

// AllIntersections recursively subdivides the patch's parameter domain,
// testing each leaf quadrant as two triangles once it is small enough
// (quadFlatness, the longer corner diagonal, below FlatEps) or MaxDepth
// is reached.
func (p *Bicubic) AllIntersections(ray Ray, stack *IStack) {
	ro := p.Transform.PointForward(ray.Origin)
	rd := p.Transform.DirForward(ray.Dir)
	localRay := Ray{Origin: ro, Dir: rd}
	scale := ray.Dir.Len() / rd.Len()

	p.subdivide(localRay, 0, 1, 0, 1, 0, func(t, u, v float64) {
		wt := t * scale
		if wt <= DepthTol {
			return
		}
		hit := ray.At(wt)
		if !p.ClipContains(hit) {
			return
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: p, D1: u, I1: int(v * 1e6)})
	})
}

func (p *Bicubic) subdivide(ray Ray, u0, u1, v0, v1 float64, depth int, emit func(t, u, v float64)) {
	c00 := p.eval(u0, v0)
	c10 := p.eval(u1, v0)
	c01 := p.eval(u0, v1)
	c11 := p.eval(u1, v1)

	if !quadMayHit(ray, c00, c10, c01, c11) {
		return
	}

	flat := depth >= p.MaxDepth || quadFlatness(c00, c10, c01, c11) < p.FlatEps
	if flat {
		um, vm := (u0+u1)/2, (v0+v1)/2
		if t, u, v, ok := triHit(ray, c00, c10, c01, u0, u1, v0, v1); ok {
			emit(t, u, v)
		}
		if t, u, v, ok := triHit(ray, c11, c01, c10, u1, u0, v1, v0); ok {
			emit(t, u, v)
		}
		_ = um
		_ = vm
		return
	}

	um, vm := (u0+u1)/2, (v0+v1)/2
	p.subdivide(ray, u0, um, v0, vm, depth+1, emit)
	p.subdivide(ray, um, u1, v0, vm, depth+1, emit)
	p.subdivide(ray, u0, um, vm, v1, depth+1, emit)
	p.subdivide(ray, um, u1, vm, v1, depth+1, emit)
}

func quadMayHit(ray Ray, pts ...vecmath.Vec3) bool {
	box := vecmath.Empty()
	for _, p := range pts {
		box = vecmath.Union(box, vecmath.BBox{Min: p, Max: p})
	}
	pad := vecmath.Vec3{1e-6, 1e-6, 1e-6}
	box.Min = box.Min.Sub(pad)
	box.Max = box.Max.Add(pad)
	return rayHitsBox(ray, box)
}

// quadFlatness estimates deviation from planarity by how far the
// midpoint implied by bilinear interpolation of the corners would be
// from the true surface midpoint — here approximated via corner spread.
func quadFlatness(c00, c10, c01, c11 vecmath.Vec3) float64 {
	diag1 := c11.Sub(c00).Len()
	diag2 := c10.Sub(c01).Len()
	if diag1 > diag2 {
		return diag1
	}
	return diag2
}

// triHit tests the ray against the triangle (a,b,c) in object space,
// returning the barycentric-mapped (u,v) patch coordinates of the hit.
func triHit(ray Ray, a, b, c vecmath.Vec3, u0, u1, v0, v1 float64) (float64, float64, float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -1e-12 && det < 1e-12 {
		return 0, 0, 0, false
	}
	inv := 1 / det
	tvec := ray.Origin.Sub(a)
	bu := tvec.Dot(pvec) * inv
	if bu < 0 || bu > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	bv := ray.Dir.Dot(qvec) * inv
	if bv < 0 || bu+bv > 1 {
		return 0, 0, 0, false
	}
	t := e2.Dot(qvec) * inv
	if t <= DepthTol {
		return 0, 0, 0, false
	}
	u := u0 + bu*(u1-u0)
	v := v0 + bv*(v1-v0)
	return t, u, v, true
}

func (p *Bicubic) Inside(pt vecmath.Vec3) bool {
	// Zero-thickness patch: never encloses a volume on its own.
	return p.PublicInside(false)
}

func (p *Bicubic) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := p.Transform.PointForward(hit)
	u, v := rec.D1, float64(rec.I1)/1e6
	const h = 1e-4
	du := p.eval(clamp01(u+h), v).Sub(p.eval(clamp01(u-h), v))
	dv := p.eval(u, clamp01(v+h)).Sub(p.eval(u, clamp01(v-h)))
	n := vecmath.SafeNormalize(du.Cross(dv))
	_ = op
	return p.Transform.NormalBackward(n)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func (p *Bicubic) ApplyTransform(t vecmath.Transform) {
	p.Transform = p.Transform.Compose(t)
	p.rebuildBBox()
	p.AABB = p.AABB.Transformed(p.Transform)
}

func (p *Bicubic) Invert() { p.ToggleInverted() }

func (p *Bicubic) Copy() Shape {
	np := *p
	np.Base = p.CopyBase()
	return &np
}

func (p *Bicubic) Destroy() {}
