package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// HeightField: an NX x NZ grid of elevations on a unit-scale grid,
// object-space x in [0,NX-1], z in [0,NZ-1], y = Heights[ix][iz]
// (scaled by YScale). Each grid cell is two triangles; intersection
// walks cells via 2D DDA along the ray's (x,z) projection, testing
// both triangles per visited cell.
type HeightField struct {
	Base
	Heights [][]float64 // [ix][iz]
	NX, NZ int
	YScale float64
	Transform vecmath.Transform
}

func NewHeightField(heights [][]float64, yscale float64) *HeightField {
	nx := len(heights)
	nz := 0
	if nx > 0 {
		nz = len(heights[0])
	}
	hf := &HeightField{Heights: heights, NX: nx, NZ: nz, YScale: yscale, Transform: vecmath.Identity()}
	hf.rebuildBBox()
	return hf
}

func (hf *HeightField) rebuildBBox() {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, row := range hf.Heights {
		for _, h := range row {
			y := h * hf.YScale
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if minY > maxY {
		minY, maxY = 0, 0
	}
	hf.AABB = vecmath.BBox{
		Min: vecmath.Vec3{0, minY, 0},
		Max: vecmath.Vec3{float64(hf.NX - 1), maxY, float64(hf.NZ - 1)},
	}
}

func (hf *HeightField) at(ix, iz int) float64 {
	if ix < 0 || iz < 0 || ix >= hf.NX || iz >= hf.NZ {
		return 0
	}
	return hf.Heights[ix][iz] * hf.YScale
}

// cellTriangles returns the two triangles covering grid cell (ix,iz),
// split along the (ix+1,iz)-(ix,iz+1) diagonal (edge b-c).
func (hf *HeightField) cellTriangles(ix, iz int) (a, b, c, d vecmath.Vec3) {
	x0, x1 := float64(ix), float64(ix+1)
	z0, z1 := float64(iz), float64(iz+1)
	a = vecmath.Vec3{x0, hf.at(ix, iz), z0}
	b = vecmath.Vec3{x1, hf.at(ix+1, iz), z0}
	c = vecmath.Vec3{x0, hf.at(ix, iz+1), z1}
	d = vecmath.Vec3{x1, hf.at(ix+1, iz+1), z1}
	return
}

func rayTriangle(ray Ray, a, b, c vecmath.Vec3) (float64, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	pvec := ray.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -vecmath.Epsilon && det < vecmath.Epsilon {
		return 0, false
	}
	inv := 1 / det
	tvec := ray.Origin.Sub(a)
	u := tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(e1)
	v := ray.Dir.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qvec) * inv
	return t, true
}

func (hf *HeightField) AllIntersections(ray Ray, stack *IStack) {
	ro := hf.Transform.PointForward(ray.Origin)
	rd := hf.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()
	localRay := Ray{Origin: ro, Dir: rd}

	if hf.NX < 2 || hf.NZ < 2 {
		return
	}
	if !rayHitsBox(localRay, hf.AABB) {
		return
	}

	for _, cell := range hf.cellList(localRay) {
		a, b, c, d := hf.cellTriangles(cell[0], cell[1])
		if t, ok := rayTriangle(localRay, a, b, c); ok {
			hf.emitHit(ray, scale, t, cell[0], cell[1], 0, stack)
		}
		if t, ok := rayTriangle(localRay, d, c, b); ok {
			hf.emitHit(ray, scale, t, cell[0], cell[1], 1, stack)
		}
	}
}

func (hf *HeightField) emitHit(ray Ray, scale, t float64, ix, iz, tri int, stack *IStack) {
	wt := t * scale
	if wt <= DepthTol {
		return
	}
	hit := ray.At(wt)
	if !hf.ClipContains(hit) {
		return
	}
	stack.Push(Intersection{Depth: wt, Point: hit, Shape: hf, I1: ix*hf.NZ*2 + iz*2 + tri})
}

// cellList visits candidate grid cells along the ray's (x,z) projection
// using a 2D Amanatides-Woo DDA walk, bounded by the field's extent.
func (hf *HeightField) cellList(ray Ray) [][2]int {
	var out [][2]int
	ox, oz := ray.Origin.X(), ray.Origin.Z()
	dx, dz := ray.Dir.X(), ray.Dir.Z()

	ix := int(math.Floor(ox))
	iz := int(math.Floor(oz))
	if ix < 0 {
		ix = 0
	}
	if iz < 0 {
		iz = 0
	}

	stepX, stepZ := 1, 1
	tDeltaX, tDeltaZ := math.Inf(1), math.Inf(1)
	tMaxX, tMaxZ := math.Inf(1), math.Inf(1)

	if dx > vecmath.Epsilon {
		tDeltaX = 1 / dx
		tMaxX = (float64(ix+1) - ox) / dx
	} else if dx < -vecmath.Epsilon {
		stepX = -1
		tDeltaX = -1 / dx
		tMaxX = (float64(ix) - ox) / dx
	}
	if dz > vecmath.Epsilon {
		tDeltaZ = 1 / dz
		tMaxZ = (float64(iz+1) - oz) / dz
	} else if dz < -vecmath.Epsilon {
		stepZ = -1
		tDeltaZ = -1 / dz
		tMaxZ = (float64(iz) - oz) / dz
	}

	for steps := 0; steps < hf.NX+hf.NZ+4; steps++ {
		if ix >= 0 && ix < hf.NX-1 && iz >= 0 && iz < hf.NZ-1 {
			out = append(out, [2]int{ix, iz})
		}
		if tMaxX < tMaxZ {
			ix += stepX
			tMaxX += tDeltaX
		} else {
			iz += stepZ
			tMaxZ += tDeltaZ
		}
		if ix < -1 || ix > hf.NX || iz < -1 || iz > hf.NZ {
			break
		}
	}
	return out
}

func (hf *HeightField) Inside(p vecmath.Vec3) bool {
	op := hf.Transform.PointForward(p)
	ix := int(math.Floor(op.X()))
	iz := int(math.Floor(op.Z()))
	raw := op.Y() < hf.at(ix, iz)
	return hf.PublicInside(raw)
}

func (hf *HeightField) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := hf.Transform.PointForward(hit)
	code := rec.I1
	tri := code % 2
	rest := code / 2
	iz := rest % hf.NZ
	ix := rest / hf.NZ
	a, b, c, d := hf.cellTriangles(ix, iz)
	var n vecmath.Vec3
	if tri == 0 {
		n = b.Sub(a).Cross(c.Sub(a))
	} else {
		n = c.Sub(d).Cross(b.Sub(d))
	}
	_ = op
	return hf.Transform.NormalBackward(vecmath.SafeNormalize(n))
}

func (hf *HeightField) ApplyTransform(t vecmath.Transform) {
	hf.Transform = hf.Transform.Compose(t)
	hf.rebuildBBox()
	hf.AABB = hf.AABB.Transformed(hf.Transform)
}

func (hf *HeightField) Invert() { hf.ToggleInverted() }

func (hf *HeightField) Copy() Shape {
	nhf := *hf
	nhf.Base = hf.CopyBase()
	return &nhf
}

func (hf *HeightField) Destroy() {}
