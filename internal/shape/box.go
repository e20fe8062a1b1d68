package shape

import "csgcore/internal/vecmath"

// Box: two opposite corners, with its own Transform
// since a box's axis-aligned slab test only holds in an unrotated object
// frame — every Box carries the object-to-world Transform explicitly
// ("Every shape either holds its own Transform ... or is
// translated/rotated/scaled component-wise at construction").
type Box struct {
	Base
	Min, Max vecmath.Vec3
	Transform vecmath.Transform
}

func NewBox(min, max vecmath.Vec3) *Box {
	b := &Box{Min: min, Max: max, Transform: vecmath.Identity()}
	b.AABB = vecmath.BBox{Min: min, Max: max}
	return b
}

// boxFace tags which of the 6 faces a hit belongs to, stored in I1 for
// Normal's per-part lookup ("For primitives with multiple
// surface parts (SoR, Prism, Box, Disc), the stored i1/i2 tags select
// the correct analytical formula").
const (
	faceXMin = iota
	faceXMax
	faceYMin
	faceYMax
	faceZMin
	faceZMax
)

func (b *Box) AllIntersections(ray Ray, stack *IStack) {
	ro := b.Transform.PointForward(ray.Origin)
	rd := b.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	tMin, tMax := -1e30, 1e30
	faceMin, faceMax := faceXMin, faceXMax
	axes := [3]struct {
		o, d, lo, hi float64
		negFace, posFace int
	}{
		{ro.X(), rd.X(), b.Min.X(), b.Max.X(), faceXMin, faceXMax},
		{ro.Y(), rd.Y(), b.Min.Y(), b.Max.Y(), faceYMin, faceYMax},
		{ro.Z(), rd.Z(), b.Min.Z(), b.Max.Z(), faceZMin, faceZMax},
	}
	for _, ax := range axes {
		if vecmath.NearZero(ax.d) {
			if ax.o < ax.lo || ax.o > ax.hi {
				return
			}
			continue
		}
		t1 := (ax.lo - ax.o) / ax.d
		t2 := (ax.hi - ax.o) / ax.d
		f1, f2 := ax.negFace, ax.posFace
		if t1 > t2 {
			t1, t2 = t2, t1
			f1, f2 = f2, f1
		}
		if t1 > tMin {
			tMin, faceMin = t1, f1
		}
		if t2 < tMax {
			tMax, faceMax = t2, f2
		}
		if tMin > tMax {
			return
		}
	}
	if tMin > tMax {
		return
	}
	for _, e := range []struct {
		t float64
		face int
	}{{tMin, faceMin}, {tMax, faceMax}} {
		wt := e.t * scale
		if wt <= DepthTol {
			continue
		}
		hit := ray.At(wt)
		if !b.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: b, I1: e.face})
	}
}

func (b *Box) Inside(p vecmath.Vec3) bool {
	op := b.Transform.PointForward(p)
	raw := op.X() >= b.Min.X() && op.X() <= b.Max.X() &&
	op.Y() >= b.Min.Y() && op.Y() <= b.Max.Y() &&
	op.Z() >= b.Min.Z() && op.Z() <= b.Max.Z()
	return b.PublicInside(raw)
}

func (b *Box) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	var n vecmath.Vec3
	switch rec.I1 {
	case faceXMin:
		n = vecmath.Vec3{-1, 0, 0}
	case faceXMax:
		n = vecmath.Vec3{1, 0, 0}
	case faceYMin:
		n = vecmath.Vec3{0, -1, 0}
	case faceYMax:
		n = vecmath.Vec3{0, 1, 0}
	case faceZMin:
		n = vecmath.Vec3{0, 0, -1}
	default:
		n = vecmath.Vec3{0, 0, 1}
	}
	return b.Transform.NormalBackward(n)
}

func (b *Box) ApplyTransform(t vecmath.Transform) {
	b.Transform = b.Transform.Compose(t)
	b.AABB = vecmath.BBox{Min: b.Min, Max: b.Max}.Transformed(b.Transform)
}

func (b *Box) Invert() { b.ToggleInverted() }

func (b *Box) Copy() Shape {
	nb := *b
	nb.Base = b.CopyBase()
	return &nb
}

func (b *Box) Destroy() {}
