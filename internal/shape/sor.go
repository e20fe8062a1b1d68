package shape

import (
	"math"

	"csgcore/internal/polyroot"
	"csgcore/internal/vecmath"
)

// SorSegment is one cubic-spline piece of the revolved curve, valid for
// object-space height y in [Y0,Y1]; RCoeff is r(h) = c0 + c1 h + c2 h^2 +
// c3 h^3 for the normalized local parameter h = (y-Y0)/(Y1-Y0), per
// : "cubic spline fit to (r,h) control points rotated about y".
type SorSegment struct {
	Y0, Y1 float64
	RCoeff [4]float64 // ascending: c0 + c1 h + c2 h^2 + c3 h^3
}

// SoR (surface of revolution): a cubic spline fit to (r,h) control
// points rotated about the object-space Y axis .
// Lathe shares this exact representation and solve path; NewLathe
// returns a plain *SoR built from straight segments (see lathe.go).
type SoR struct {
	Base
	Segments []SorSegment
	segBounds []segBound // bounding-cylinder prune list
	Transform vecmath.Transform
	refcount *int // shared spline table
}

type segBound struct {
	minR2, maxR2 float64
	y0, y1 float64
}

func NewSoR(segments []SorSegment) *SoR {
	rc := 1
	s := &SoR{Segments: segments, Transform: vecmath.Identity(), refcount: &rc}
	s.rebuildBounds()
	return s
}

func (s *SoR) rebuildBounds() {
	minY, maxY := math.Inf(1), math.Inf(-1)
	maxR := 0.0
	s.segBounds = s.segBounds[:0]
	for _, seg := range s.Segments {
		minR2, maxR2 := math.Inf(1), math.Inf(-1)
		for i := 0; i <= 8; i++ {
			h := float64(i) / 8
			r := evalCubic(seg.RCoeff, h)
			r2 := r * r
			if r2 < minR2 {
				minR2 = r2
			}
			if r2 > maxR2 {
				maxR2 = r2
			}
		}
		s.segBounds = append(s.segBounds, segBound{minR2: minR2, maxR2: maxR2, y0: seg.Y0, y1: seg.Y1})
		if seg.Y0 < minY {
			minY = seg.Y0
		}
		if seg.Y1 > maxY {
			maxY = seg.Y1
		}
		if r := math.Sqrt(maxR2); r > maxR {
			maxR = r
		}
	}
	s.AABB = vecmath.BBox{Min: vecmath.Vec3{-maxR, minY, -maxR}, Max: vecmath.Vec3{maxR, maxY, maxR}}
}

func evalCubic(c [4]float64, h float64) float64 {
	return c[0] + h*(c[1]+h*(c[2]+h*c[3]))
}

// Copy increments the shared spline refcount ("`copy`
// increments refcount, `destroy` decrements and frees only at zero").
func (s *SoR) Copy() Shape {
	ns := *s
	ns.Base = s.CopyBase()
	*s.refcount++
	return &ns
}

func (s *SoR) Destroy() {
	*s.refcount--
}

func (s *SoR) AllIntersections(ray Ray, stack *IStack) {
	ro := s.Transform.PointForward(ray.Origin)
	rd := s.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	ox, oy, oz := ro.X(), ro.Y(), ro.Z()
	dx, dy, dz := rd.X(), rd.Y(), rd.Z()

	// Bounding-cylinder prune: skip segments whose [minR2,maxR2] annulus
	// the ray's (x,z) projection cannot possibly reach (// "bounding-cylinder entry list for SoR/Lathe pre-prunes ray/segment
	// tests before polynomial solves").
	rayMinR2, rayMaxR2 := projectedRayRadiusRange(ox, oz, dx, dz)

	xsq := convolve([]float64{ox, dx}, []float64{ox, dx})
	zsq := convolve([]float64{oz, dz}, []float64{oz, dz})
	xzsq := addPoly(xsq, zsq)

	for segIdx, seg := range s.Segments {
		b := s.segBounds[segIdx]
		if rayMaxR2 < b.minR2 || rayMinR2 > b.maxR2 {
			continue
		}
		dh := seg.Y1 - seg.Y0
		if math.Abs(dh) < vecmath.Epsilon {
			continue
		}
		hc0 := (oy - seg.Y0) / dh
		hc1 := dy / dh

		rOfT := []float64{0}
		for k, ck := range seg.RCoeff {
			term := scalePoly(binomPow(hc0, hc1, k), ck)
			rOfT = addPoly(rOfT, term)
		}
		rsq := convolve(rOfT, rOfT)

		eq := subPoly(xzsq, rsq)
		coeffs := reverseCoeffs(eq)
		roots := polyroot.Solve(coeffs, s.Has(Sturm))
		for _, t := range roots {
			y := oy + t*dy
			h := (y - seg.Y0) / dh
			if h < -1e-9 || h > 1+1e-9 {
				continue
			}
			wt := t * scale
			if wt <= DepthTol {
				continue
			}
			hit := ray.At(wt)
			if !s.ClipContains(hit) {
				continue
			}
			stack.Push(Intersection{Depth: wt, Point: hit, Shape: s, I1: segIdx, D1: h})
		}
	}
}

func projectedRayRadiusRange(ox, oz, dx, dz float64) (float64, float64) {
	// The minimum squared distance from the Y axis reached by the ray's
	// (x,z) projection, and the max over a generous finite extent — used
	// only as a prune, so a loose bound is fine.
	a := dx*dx + dz*dz
	if vecmath.NearZero(a) {
		r2 := ox*ox + oz*oz
		return r2, r2
	}
	b := 2 * (ox*dx + oz*dz)
	tStar := -b / (2 * a)
	minR2 := ox*ox + oz*oz
	if v := (ox+tStar*dx)*(ox+tStar*dx) + (oz+tStar*dz)*(oz+tStar*dz); v < minR2 {
		minR2 = v
	}
	return minR2, math.Inf(1)
}

func scalePoly(p []float64, s float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v * s
	}
	return out
}

func addPoly(a, b []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]float64, n)
	copy(out, a)
	for i, v := range b {
		out[i] += v
	}
	return out
}

func subPoly(a, b []float64) []float64 {
	return addPoly(a, scalePoly(b, -1))
}

func (s *SoR) Inside(p vecmath.Vec3) bool {
	op := s.Transform.PointForward(p)
	y := op.Y()
	r2 := op.X()*op.X() + op.Z()*op.Z()
	raw := false
	for _, seg := range s.Segments {
		lo, hi := seg.Y0, seg.Y1
		if lo > hi {
			lo, hi = hi, lo
		}
		if y < lo || y > hi {
			continue
		}
		dh := seg.Y1 - seg.Y0
		if math.Abs(dh) < vecmath.Epsilon {
			continue
		}
		h := (y - seg.Y0) / dh
		r := evalCubic(seg.RCoeff, h)
		if r2 < r*r {
			raw = true
		}
		break
	}
	return s.PublicInside(raw)
}

// Normal uses the analytic SoR formula selected by the stored segment
// (I1) and local parameter h (D1), : "the stored i1/i2
// tags select the correct analytical formula."
func (s *SoR) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := s.Transform.PointForward(hit)
	if rec.I1 < 0 || rec.I1 >= len(s.Segments) {
		return s.Transform.NormalBackward(vecmath.Vec3{1, 0, 0})
	}
	seg := s.Segments[rec.I1]
	h := rec.D1
	dh := seg.Y1 - seg.Y0
	r := evalCubic(seg.RCoeff, h)
	drdh := seg.RCoeff[1] + h*(2*seg.RCoeff[2]+h*3*seg.RCoeff[3])
	drdy := drdh / dh

	x, z := op.X(), op.Z()
	planar := math.Hypot(x, z)
	if planar < vecmath.Epsilon {
		// On-axis normal is numerically undefined; fall back to +X.
		return s.Transform.NormalBackward(vecmath.Vec3{1, 0, 0})
	}
	n := vecmath.Vec3{x / planar, -r * drdy / planar, z / planar}
	return s.Transform.NormalBackward(n)
}

func (s *SoR) ApplyTransform(t vecmath.Transform) {
	s.Transform = s.Transform.Compose(t)
	s.rebuildBounds()
	s.AABB = s.AABB.Transformed(s.Transform)
}

func (s *SoR) Invert() { s.ToggleInverted() }
