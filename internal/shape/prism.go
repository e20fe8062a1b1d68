package shape

import (
	"math"

	"csgcore/internal/polyroot"
	"csgcore/internal/vecmath"
)

// Pt2 is a point in the prism's cross-section plane (object-space X-Z,
// swept along Y — the same axis convention SoR revolves about).
type Pt2 struct{ X, Z float64 }

// PrismSegment is one Bezier piece of the cross-section boundary;
// len(Ctrl)-1 is its degree, so linear/quadratic/cubic source curves
// ("linear/quadratic/cubic/Bezier spline") all share one
// representation.
type PrismSegment struct {
	Ctrl []Pt2
}

type PrismSweep int

const (
	SweepLinear PrismSweep = iota
	SweepConic
)

// Prism: a closed 2D spline boundary extruded (SweepLinear) or tapered
// to a point (SweepConic) along Y from H1 to H2 .
type Prism struct {
	Base
	Segments []PrismSegment
	H1, H2 float64
	Sweep PrismSweep
	Transform vecmath.Transform
	boundary []Pt2 // sampled closed polygon, for cap point-in-poly test
}

func NewPrism(segments []PrismSegment, h1, h2 float64, sweep PrismSweep) *Prism {
	p := &Prism{Segments: segments, H1: h1, H2: h2, Sweep: sweep, Transform: vecmath.Identity()}
	p.boundary = sampleBoundary(segments, 16)
	p.rebuildBBox()
	return p
}

func sampleBoundary(segments []PrismSegment, perSeg int) []Pt2 {
	var out []Pt2
	for _, seg := range segments {
		for i := 0; i < perSeg; i++ {
			w := float64(i) / float64(perSeg)
			out = append(out, bezierEval(seg.Ctrl, w))
		}
	}
	return out
}

func bezierEval(ctrl []Pt2, w float64) Pt2 {
	n := len(ctrl) - 1
	var x, z float64
	for i, p := range ctrl {
		b := choose(n, i) * math.Pow(1-w, float64(n-i)) * math.Pow(w, float64(i))
		x += b * p.X
		z += b * p.Z
	}
	return Pt2{x, z}
}

func choose(n, k int) float64 {
	r := 1.0
	for i := 0; i < k; i++ {
		r = r * float64(n-i) / float64(i+1)
	}
	return r
}

func (p *Prism) rebuildBBox() {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, pt := range p.boundary {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Z < minZ {
			minZ = pt.Z
		}
		if pt.Z > maxZ {
			maxZ = pt.Z
		}
	}
	lo, hi := p.H1, p.H2
	if lo > hi {
		lo, hi = hi, lo
	}
	p.AABB = vecmath.BBox{Min: vecmath.Vec3{minX, lo, minZ}, Max: vecmath.Vec3{maxX, hi, maxZ}}
}

// bezierCoeffs returns the ascending power-basis coefficients of the
// curve's X and Z components as polynomials in w, via the standard
// Bernstein-to-power-basis expansion (each basis function (1-w)^(n-i)
// w^i expanded through the shared binomPow/convolve helpers in poly.go).
func bezierCoeffs(ctrl []Pt2) (cx, cz []float64) {
	n := len(ctrl) - 1
	cx = make([]float64, n+1)
	cz = make([]float64, n+1)
	for i, pt := range ctrl {
		wPow := binomPow(0, 1, i)
		oneMinusW := binomPow(1, -1, n-i)
		basis := scalePoly(convolve(wPow, oneMinusW), choose(n, i))
		for k, v := range basis {
			cx[k] += v * pt.X
			cz[k] += v * pt.Z
		}
	}
	return
}

// solveSegmentLinear intersects the object-space ray's (x,z) projection
// line against one cross-section segment at unit scale, returning
// candidate (w) roots.
func solveSegmentLinear(seg PrismSegment, ox2d, oz2d, dx2d, dz2d float64) []float64 {
	cx, cz := bezierCoeffs(seg.Ctrl)
	lhs := subPoly(scalePoly(cx, dz2d), scalePoly(cz, dx2d))
	lhs[0] += dx2d*oz2d - dz2d*ox2d
	coeffs := reverseCoeffs(lhs)
	return polyroot.Solve(coeffs, false)
}

func recoverT(cx, cz []float64, w, ox2d, oz2d, dx2d, dz2d float64) float64 {
	x := evalAscending(cx, w)
	z := evalAscending(cz, w)
	if math.Abs(dx2d) >= math.Abs(dz2d) {
		return (x - ox2d) / dx2d
	}
	return (z - oz2d) / dz2d
}

func evalAscending(p []float64, x float64) float64 {
	v := 0.0
	xp := 1.0
	for _, c := range p {
		v += c * xp
		xp *= x
	}
	return v
}

func (p *Prism) AllIntersections(ray Ray, stack *IStack) {
	ro := p.Transform.PointForward(ray.Origin)
	rd := p.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	lo, hi := p.H1, p.H2
	if lo > hi {
		lo, hi = hi, lo
	}

	for _, seg := range p.Segments {
		cx, cz := bezierCoeffs(seg.Ctrl)
		switch p.Sweep {
		case SweepLinear:
			ws := solveSegmentLinear(seg, ro.X(), ro.Z(), rd.X(), rd.Z())
			for _, w := range ws {
				if w < -1e-9 || w > 1+1e-9 {
					continue
				}
				t := recoverT(cx, cz, w, ro.X(), ro.Z(), rd.X(), rd.Z())
				y := ro.Y() + t*rd.Y()
				if y < lo-1e-9 || y > hi+1e-9 {
					continue
				}
				p.emit(ray, scale, t, stack)
			}
		case SweepConic:
			if t, ok := p.solveConicSegment(seg, ro, rd); ok {
				p.emit(ray, scale, t, stack)
			}
		}
	}

	if p.Has(Closed) {
		p.intersectCap(ray, ro, rd, scale, p.H1, stack)
		if p.Sweep == SweepLinear {
			p.intersectCap(ray, ro, rd, scale, p.H2, stack)
		}
	}
}

func (p *Prism) emit(ray Ray, scale, t float64, stack *IStack) {
	wt := t * scale
	if wt <= DepthTol {
		return
	}
	hit := ray.At(wt)
	if !p.ClipContains(hit) {
		return
	}
	stack.Push(Intersection{Depth: wt, Point: hit, Shape: p})
}

// solveConicSegment resolves the coupled (t,w) system for a tapered
// sweep by fixed-point iteration: fix a height estimate, solve the
// linear-sweep problem at that height's scale factor, refine the
// height from the recovered t, repeat. This is an approximation of the
// exact coupled system, adequate to the ray tracer's numeric tolerance.
func (p *Prism) solveConicSegment(seg PrismSegment, ro, rd vecmath.Vec3) (float64, bool) {
	dh := p.H2 - p.H1
	if math.Abs(dh) < vecmath.Epsilon {
		return 0, false
	}
	s := 1.0
	var t float64
	ok := false
	for iter := 0; iter < 8; iter++ {
		cx, cz := bezierCoeffs(seg.Ctrl)
		cx = scalePoly(cx, s)
		cz = scalePoly(cz, s)
		lhs := subPoly(scalePoly(cx, rd.Z()), scalePoly(cz, rd.X()))
		lhs[0] += rd.X()*ro.Z() - rd.Z()*ro.X()
		coeffs := reverseCoeffs(lhs)
		roots := polyroot.Solve(coeffs, false)
		best := math.Inf(1)
		found := false
		for _, w := range roots {
			if w < -1e-9 || w > 1+1e-9 {
				continue
			}
			tc := recoverT(cx, cz, w, ro.X(), ro.Z(), rd.X(), rd.Z())
			if tc > DepthTol && tc < best {
				best, found = tc, true
			}
		}
		if !found {
			return 0, false
		}
		t = best
		y := ro.Y() + t*rd.Y()
		newS := (p.H2 - y) / dh
		if newS < 0 {
			newS = 0
		}
		if math.Abs(newS-s) < 1e-9 {
			ok = true
			s = newS
			break
		}
		s = newS
		ok = true
	}
	y := ro.Y() + t*rd.Y()
	lo, hi := p.H1, p.H2
	if lo > hi {
		lo, hi = hi, lo
	}
	if y < lo-1e-6 || y > hi+1e-6 {
		return 0, false
	}
	return t, ok
}

func (p *Prism) intersectCap(ray Ray, ro, rd vecmath.Vec3, scale, y float64, stack *IStack) {
	if vecmath.NearZero(rd.Y()) {
		return
	}
	t := (y - ro.Y()) / rd.Y()
	if t <= 0 {
		return
	}
	x := ro.X() + t*rd.X()
	z := ro.Z() + t*rd.Z()
	if !p.polygonContains(Pt2{x, z}) {
		return
	}
	p.emit(ray, scale, t, stack)
}

// polygonContains is an even-odd crossing test against the sampled
// boundary polygon ( per-shape Inside contract, applied
// here to cap-plane membership rather than full 3D containment).
func (p *Prism) polygonContains(pt Pt2) bool {
	n := len(p.boundary)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p.boundary[i], p.boundary[j]
		if (pi.Z > pt.Z) != (pj.Z > pt.Z) {
			xint := (pj.X-pi.X)*(pt.Z-pi.Z)/(pj.Z-pi.Z) + pi.X
			if pt.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

func (p *Prism) Inside(pt vecmath.Vec3) bool {
	op := p.Transform.PointForward(pt)
	lo, hi := p.H1, p.H2
	if lo > hi {
		lo, hi = hi, lo
	}
	raw := false
	if op.Y() >= lo && op.Y() <= hi {
		s := 1.0
		if p.Sweep == SweepConic {
			dh := p.H2 - p.H1
			if math.Abs(dh) > vecmath.Epsilon {
				s = (p.H2 - op.Y()) / dh
			}
		}
		local := Pt2{op.X(), op.Z()}
		if s > vecmath.Epsilon {
			local = Pt2{op.X() / s, op.Z() / s}
		}
		raw = p.polygonContains(local)
	}
	return p.PublicInside(raw)
}

// Normal is computed numerically from the signed cross-section distance
// field, matching the Superellipsoid convention for non-quadric
// primitives without a clean analytic gradient.
func (p *Prism) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := p.Transform.PointForward(hit)
	lo, hi := p.H1, p.H2
	if lo > hi {
		lo, hi = hi, lo
	}
	if op.Y() <= lo+1e-6 {
		return p.Transform.NormalBackward(vecmath.Vec3{0, -1, 0})
	}
	if op.Y() >= hi-1e-6 && p.Sweep == SweepLinear {
		return p.Transform.NormalBackward(vecmath.Vec3{0, 1, 0})
	}
	const h = 1e-5
	field := func(x, z float64) float64 {
		if p.polygonContains(Pt2{x, z}) {
			return -1
		}
		return 1
	}
	gx := (field(op.X()+h, op.Z()) - field(op.X()-h, op.Z())) / (2 * h)
	gz := (field(op.X(), op.Z()+h) - field(op.X(), op.Z()-h)) / (2 * h)
	n := vecmath.SafeNormalize(vecmath.Vec3{gx, 0, gz})
	return p.Transform.NormalBackward(n)
}

func (p *Prism) ApplyTransform(t vecmath.Transform) {
	p.Transform = p.Transform.Compose(t)
	p.rebuildBBox()
	p.AABB = p.AABB.Transformed(p.Transform)
}

func (p *Prism) Invert() { p.ToggleInverted() }

func (p *Prism) Copy() Shape {
	np := *p
	np.Base = p.CopyBase()
	np.Segments = append([]PrismSegment(nil), p.Segments...)
	np.boundary = append([]Pt2(nil), p.boundary...)
	return &np
}

func (p *Prism) Destroy() {}
