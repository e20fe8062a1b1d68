package shape

import (
	"math"
	"sort"

	"csgcore/internal/polyroot"
	"csgcore/internal/vecmath"
)

// BlobElement is one field-generating component of a Blob: a sphere of
// influence Radius centered at Center contributing Strength to the
// scalar field, using the POV-style falloff
//
//	d2 < radius^2: field += strength * (1 - d2/radius^2)^2
//
// : "element activation/deactivation event queue in
// t to assemble and solve a sequence of low-degree polynomials".
type BlobElement struct {
	Center vecmath.Vec3
	Radius float64
	Strength float64
}

// Blob sums its elements' fields and surfaces where the total crosses
// Threshold.
type Blob struct {
	Base
	Elements []BlobElement
	Threshold float64
	Transform vecmath.Transform
}

func NewBlob(elements []BlobElement, threshold float64) *Blob {
	b := &Blob{Elements: elements, Threshold: threshold, Transform: vecmath.Identity()}
	b.rebuildBBox()
	return b
}

func (b *Blob) rebuildBBox() {
	box := vecmath.Empty()
	for _, e := range b.Elements {
		r := vecmath.Vec3{e.Radius, e.Radius, e.Radius}
		box = vecmath.Union(box, vecmath.BBox{Min: e.Center.Sub(r), Max: e.Center.Add(r)})
	}
	b.AABB = box
}

func (b *Blob) field(p vecmath.Vec3) float64 {
	v := 0.0
	for _, e := range b.Elements {
		d2 := p.Sub(e.Center).Dot(p.Sub(e.Center))
		r2 := e.Radius * e.Radius
		if d2 >= r2 {
			continue
		}
		u := 1 - d2/r2
		v += e.Strength * u * u
	}
	return v
}

// elementInterval returns the ray-parameter range [tIn,tOut] over which
// the ray lies within element e's sphere of influence, and whether it
// intersects at all.
func elementInterval(ro, rd vecmath.Vec3, e BlobElement) (float64, float64, bool) {
	oc := ro.Sub(e.Center)
	a := rd.Dot(rd)
	bq := 2 * oc.Dot(rd)
	c := oc.Dot(oc) - e.Radius*e.Radius
	disc := bq*bq - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-bq - sq) / (2 * a)
	t2 := (-bq + sq) / (2 * a)
	return t1, t2, true
}

// AllIntersections builds the element activation/deactivation event
// queue along the ray, then within each interval where the
// active-element set is constant, sums each active element's quartic
// field contribution into one composite polynomial in t and solves it
// with the shared polynomial root finder.
func (b *Blob) AllIntersections(ray Ray, stack *IStack) {
	ro := b.Transform.PointForward(ray.Origin)
	rd := b.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	type event struct {
		t float64
		idx int
		enter bool
	}
	var events []event
	intervals := make([][2]float64, len(b.Elements))
	active := make([]bool, len(b.Elements))
	for i, e := range b.Elements {
		t1, t2, ok := elementInterval(ro, rd, e)
		if !ok {
			continue
		}
		intervals[i] = [2]float64{t1, t2}
		events = append(events, event{t1, i, true}, event{t2, i, false})
	}
	if len(events) == 0 {
		return
	}
	sort.Slice(events, func(i, j int) bool { return events[i].t < events[j].t })

	boundaries := []float64{events[0].t}
	for _, ev := range events {
		if ev.enter {
			active[ev.idx] = true
		} else {
			active[ev.idx] = false
		}
		boundaries = append(boundaries, ev.t)
	}

	for i := 0; i+1 < len(boundaries); i++ {
		lo, hi := boundaries[i], boundaries[i+1]
		if hi-lo < 1e-12 {
			continue
		}
		mid := (lo + hi) / 2
		var activeIdx []int
		for idx, iv := range intervals {
			if mid >= iv[0] && mid <= iv[1] {
				activeIdx = append(activeIdx, idx)
			}
		}
		if len(activeIdx) == 0 {
			continue
		}
		// sum_i strength_i * (1 - d2_i(t)/r_i^2)^2, each d2_i(t) quadratic
		// in t, so each term is quartic in t; accumulate ascending coeffs.
		total := []float64{-b.Threshold}
		for _, idx := range activeIdx {
			e := b.Elements[idx]
			oc := ro.Sub(e.Center)
			d2 := addPoly(
				addPoly(
					convolve([]float64{oc.X(), rd.X()}, []float64{oc.X(), rd.X()}),
					convolve([]float64{oc.Y(), rd.Y()}, []float64{oc.Y(), rd.Y()})),
				convolve([]float64{oc.Z(), rd.Z()}, []float64{oc.Z(), rd.Z()}))
			r2 := e.Radius * e.Radius
			u := scalePoly(d2, -1/r2)
			u[0] += 1
			uu := convolve(u, u)
			total = addPoly(total, scalePoly(uu, e.Strength))
		}
		coeffs := reverseCoeffs(total)
		roots := polyroot.Solve(coeffs, b.Has(Sturm))
		for _, t := range roots {
			if t < lo-1e-9 || t > hi+1e-9 {
				continue
			}
			wt := t * scale
			if wt <= DepthTol {
				continue
			}
			hit := ray.At(wt)
			if !b.ClipContains(hit) {
				continue
			}
			stack.Push(Intersection{Depth: wt, Point: hit, Shape: b})
		}
	}
}

func (b *Blob) Inside(p vecmath.Vec3) bool {
	op := b.Transform.PointForward(p)
	raw := b.field(op) > b.Threshold
	return b.PublicInside(raw)
}

func (b *Blob) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := b.Transform.PointForward(hit)
	const h = 1e-5
	gx := (b.field(op.Add(vecmath.Vec3{h, 0, 0})) - b.field(op.Sub(vecmath.Vec3{h, 0, 0}))) / (2 * h)
	gy := (b.field(op.Add(vecmath.Vec3{0, h, 0})) - b.field(op.Sub(vecmath.Vec3{0, h, 0}))) / (2 * h)
	gz := (b.field(op.Add(vecmath.Vec3{0, 0, h})) - b.field(op.Sub(vecmath.Vec3{0, 0, h}))) / (2 * h)
	// Field decreases outward, so the surface normal points against the
	// gradient.
	return b.Transform.NormalBackward(vecmath.Vec3{-gx, -gy, -gz})
}

func (b *Blob) ApplyTransform(t vecmath.Transform) {
	b.Transform = b.Transform.Compose(t)
	b.rebuildBBox()
	b.AABB = b.AABB.Transformed(b.Transform)
}

func (b *Blob) Invert() { b.ToggleInverted() }

func (b *Blob) Copy() Shape {
	nb := *b
	nb.Base = b.CopyBase()
	nb.Elements = append([]BlobElement(nil), b.Elements...)
	return &nb
}

func (b *Blob) Destroy() {}
