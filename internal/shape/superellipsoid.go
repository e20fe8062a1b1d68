package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// Superellipsoid: exponents (e, n). Implicit form:
// f(p) = (|x|^(2/e) + |y|^(2/e))^(e/n) + |z|^(2/n) - 1
// A fixed set of nine subdividing planes guarantees each sub-interval
// is monotone before bracket-and-refine: the axis-aligned octant
// boundaries plus the unit sphere's circumscribing cube faces, used to
// split the ray into monotone sub-intervals before bisecting each for
// a sign change.
type Superellipsoid struct {
	Base
	E, N float64
	Transform vecmath.Transform
}

func NewSuperellipsoid(e, n float64) *Superellipsoid {
	s := &Superellipsoid{E: e, N: n, Transform: vecmath.Identity()}
	s.AABB = vecmath.BBox{Min: vecmath.Vec3{-1, -1, -1}, Max: vecmath.Vec3{1, 1, 1}}
	return s
}

func (s *Superellipsoid) field(p vecmath.Vec3) float64 {
	ax := math.Abs(p.X())
	ay := math.Abs(p.Y())
	az := math.Abs(p.Z())
	xy := math.Pow(ax, 2/s.E) + math.Pow(ay, 2/s.E)
	return math.Pow(xy, s.E/s.N) + math.Pow(az, 2/s.N) - 1
}

// subdividingPlanes returns the t-values where the ray crosses the nine
// fixed axis-aligned planes bounding the unit superellipsoid's
// circumscribing cube (x,y,z = -1,0,1 each), unsorted and unclipped (the
// caller sorts them): these are the monotone-interval boundaries the
// bracket-and-refine solve requires.
func (s *Superellipsoid) subdividingPlanes(ro, rd vecmath.Vec3) []float64 {
	var ts []float64
	comps := [3]float64{ro.X(), ro.Y(), ro.Z()}
	dirs := [3]float64{rd.X(), rd.Y(), rd.Z()}
	for axis := 0; axis < 3; axis++ {
		if vecmath.NearZero(dirs[axis]) {
			continue
		}
		for _, plane := range []float64{-1, 0, 1} {
			ts = append(ts, (plane-comps[axis])/dirs[axis])
		}
	}
	return ts
}

func (s *Superellipsoid) AllIntersections(ray Ray, stack *IStack) {
	ro := s.Transform.PointForward(ray.Origin)
	rd := s.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	fval := func(t float64) float64 {
		return s.field(vecmath.Vec3{ro.X() + t*rd.X(), ro.Y() + t*rd.Y(), ro.Z() + t*rd.Z()})
	}

	bounds := s.subdividingPlanes(ro, rd)
	bounds = append(bounds, -1e6, 1e6)
	sortFloats(bounds)

	var roots []float64
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		if hi-lo < 1e-12 {
			continue
		}
		flo, fhi := fval(lo), fval(hi)
		if (flo < 0) == (fhi < 0) {
			continue
		}
		for iter := 0; iter < 60 && hi-lo > 1e-10; iter++ {
			mid := (lo + hi) / 2
			fm := fval(mid)
			if (fm < 0) == (flo < 0) {
				lo, flo = mid, fm
			} else {
				hi = mid
			}
		}
		roots = append(roots, (lo+hi)/2)
	}

	for _, t := range roots {
		wt := t * scale
		if wt <= DepthTol {
			continue
		}
		hit := ray.At(wt)
		if !s.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: s})
	}
}

func sortFloats(f []float64) {
	for i := 1; i < len(f); i++ {
		for j := i; j > 0 && f[j-1] > f[j]; j-- {
			f[j-1], f[j] = f[j], f[j-1]
		}
	}
}

func (s *Superellipsoid) Inside(p vecmath.Vec3) bool {
	op := s.Transform.PointForward(p)
	raw := s.field(op) < 0
	return s.PublicInside(raw)
}

func (s *Superellipsoid) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := s.Transform.PointForward(hit)
	const h = 1e-5
	gx := (s.field(op.Add(vecmath.Vec3{h, 0, 0})) - s.field(op.Sub(vecmath.Vec3{h, 0, 0}))) / (2 * h)
	gy := (s.field(op.Add(vecmath.Vec3{0, h, 0})) - s.field(op.Sub(vecmath.Vec3{0, h, 0}))) / (2 * h)
	gz := (s.field(op.Add(vecmath.Vec3{0, 0, h})) - s.field(op.Sub(vecmath.Vec3{0, 0, h}))) / (2 * h)
	return s.Transform.NormalBackward(vecmath.Vec3{gx, gy, gz})
}

func (s *Superellipsoid) ApplyTransform(t vecmath.Transform) {
	s.Transform = s.Transform.Compose(t)
	s.AABB = vecmath.BBox{Min: vecmath.Vec3{-1, -1, -1}, Max: vecmath.Vec3{1, 1, 1}}.Transformed(s.Transform)
}

func (s *Superellipsoid) Invert() { s.ToggleInverted() }

func (s *Superellipsoid) Copy() Shape {
	ns := *s
	ns.Base = s.CopyBase()
	return &ns
}

func (s *Superellipsoid) Destroy() {}
