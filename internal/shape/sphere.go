package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// Sphere: center, radius. Intersection is the
// quadratic in t from substituting ray(t) into |P-C|^2 = r^2.
type Sphere struct {
	Base
	Center vecmath.Vec3
	Radius float64
}

func NewSphere(center vecmath.Vec3, radius float64) *Sphere {
	s := &Sphere{Center: center, Radius: radius}
	s.AABB = vecmath.BBox{
		Min: center.Sub(vecmath.Vec3{radius, radius, radius}),
		Max: center.Add(vecmath.Vec3{radius, radius, radius}),
	}
	return s
}

func (s *Sphere) AllIntersections(ray Ray, stack *IStack) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Dir.Dot(ray.Dir)
	b := 2 * oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return
	}
	sq := math.Sqrt(disc)
	for _, t := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
		if t <= DepthTol {
			continue
		}
		hit := ray.At(t)
		if !s.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: t, Point: hit, Shape: s})
	}
}

func (s *Sphere) Inside(p vecmath.Vec3) bool {
	raw := p.Sub(s.Center).Len() < s.Radius
	return s.PublicInside(raw)
}

func (s *Sphere) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	return vecmath.SafeNormalize(hit.Sub(s.Center))
}

func (s *Sphere) ApplyTransform(t vecmath.Transform) {
	old := s.Center
	s.Center = t.PointBackward(old)
	// Radius follows the X-axis scale magnitude; a non-uniform scale is
	// not represented (the result stays a sphere).
	edge := t.PointBackward(old.Add(vecmath.Vec3{s.Radius, 0, 0})).Sub(s.Center).Len()
	s.Radius = edge
	s.AABB = vecmath.BBox{
		Min: s.Center.Sub(vecmath.Vec3{s.Radius, s.Radius, s.Radius}),
		Max: s.Center.Add(vecmath.Vec3{s.Radius, s.Radius, s.Radius}),
	}
}

func (s *Sphere) Invert() { s.ToggleInverted() }

func (s *Sphere) Copy() Shape {
	ns := *s
	ns.Base = s.CopyBase()
	return &ns
}

func (s *Sphere) Destroy() {}
