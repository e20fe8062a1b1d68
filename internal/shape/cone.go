package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// Cone unifies POV's Cone/Cylinder primitive : object
// space has the axis along Y from y=0 (radius BaseRadius) to y=1
// (radius ApexRadius); a plain cylinder is ApexRadius==BaseRadius. Caps
// are added when CLOSED is set.
type Cone struct {
	Base
	BaseRadius, ApexRadius float64
	Transform vecmath.Transform
}

func NewCone(baseRadius, apexRadius float64) *Cone {
	c := &Cone{BaseRadius: baseRadius, ApexRadius: apexRadius, Transform: vecmath.Identity()}
	r := math.Max(baseRadius, apexRadius)
	c.AABB = vecmath.BBox{Min: vecmath.Vec3{-r, 0, -r}, Max: vecmath.Vec3{r, 1, r}}
	return c
}

const (
	coneSide = iota
	coneBaseCap
	coneApexCap
)

func (c *Cone) AllIntersections(ray Ray, stack *IStack) {
	ro := c.Transform.PointForward(ray.Origin)
	rd := c.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	br, ar := c.BaseRadius, c.ApexRadius
	k := ar - br
	ox, oy, oz := ro.X(), ro.Y(), ro.Z()
	dx, dy, dz := rd.X(), rd.Y(), rd.Z()

	a := dx*dx + dz*dz - k*k*dy*dy
	b := 2*ox*dx + 2*oz*dz - 2*br*k*dy - 2*k*k*oy*dy
	cc := ox*ox + oz*oz - br*br - 2*br*k*oy - k*k*oy*oy

	var candidates []struct {
		t float64
		face int
	}

	if !vecmath.NearZero(a) {
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				y := oy + t*dy
				if y >= 0 && y <= 1 {
					candidates = append(candidates, struct {
						t float64
						face int
					}{t, coneSide})
				}
			}
		}
	} else if !vecmath.NearZero(b) {
		t := -cc / b
		y := oy + t*dy
		if y >= 0 && y <= 1 {
			candidates = append(candidates, struct {
				t float64
				face int
			}{t, coneSide})
		}
	}

	if c.Has(Closed) {
		if !vecmath.NearZero(dy) {
			for _, cap := range []struct {
				y, r float64
				face int
			}{{0, br, coneBaseCap}, {1, ar, coneApexCap}} {
				t := (cap.y - oy) / dy
				x := ox + t*dx
				z := oz + t*dz
				if x*x+z*z <= cap.r*cap.r {
					candidates = append(candidates, struct {
						t float64
						face int
					}{t, cap.face})
				}
			}
		}
	}

	for _, cand := range candidates {
		wt := cand.t * scale
		if wt <= DepthTol {
			continue
		}
		hit := ray.At(wt)
		if !c.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: c, I1: cand.face})
	}
}

func (c *Cone) Inside(p vecmath.Vec3) bool {
	op := c.Transform.PointForward(p)
	y := op.Y()
	if y < 0 || y > 1 {
		return c.PublicInside(false)
	}
	r := c.BaseRadius + y*(c.ApexRadius-c.BaseRadius)
	raw := op.X()*op.X()+op.Z()*op.Z() < r*r
	return c.PublicInside(raw)
}

func (c *Cone) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := c.Transform.PointForward(hit)
	var n vecmath.Vec3
	switch rec.I1 {
	case coneBaseCap:
		n = vecmath.Vec3{0, -1, 0}
	case coneApexCap:
		n = vecmath.Vec3{0, 1, 0}
	default:
		k := c.ApexRadius - c.BaseRadius
		r := c.BaseRadius + op.Y()*k
		n = vecmath.Vec3{op.X(), -r * k, op.Z()}
	}
	return c.Transform.NormalBackward(n)
}

func (c *Cone) ApplyTransform(t vecmath.Transform) {
	c.Transform = c.Transform.Compose(t)
	r := math.Max(c.BaseRadius, c.ApexRadius)
	c.AABB = vecmath.BBox{Min: vecmath.Vec3{-r, 0, -r}, Max: vecmath.Vec3{r, 1, r}}.Transformed(c.Transform)
}

func (c *Cone) Invert() { c.ToggleInverted() }

func (c *Cone) Copy() Shape {
	nc := *c
	nc.Base = c.CopyBase()
	return &nc
}

func (c *Cone) Destroy() {}
