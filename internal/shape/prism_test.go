package shape

import (
	"testing"

	"csgcore/internal/vecmath"
)

func unitSquarePrism(h1, h2 float64) *Prism {
	corners := []Pt2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var segs []PrismSegment
	for i := range corners {
		segs = append(segs, PrismSegment{Ctrl: []Pt2{corners[i], corners[(i+1)%len(corners)]}})
	}
	return NewPrism(segs, h1, h2, SweepLinear)
}

func TestPrismClosedCapsOnly(t *testing.T) {
	p := unitSquarePrism(0, 1)
	p.Flags().Set(Closed)

	ray := Ray{Origin: vecmath.Vec3{0, 5, 0}, Dir: vecmath.Vec3{0, -1, 0}}
	stack := NewIStack()
	p.AllIntersections(ray, stack)
	if stack.Len() != 2 {
		t.Fatalf("expected 2 intersections (top and bottom cap) for closed prism, got %d", stack.Len())
	}
}

func TestPrismOpenNoCaps(t *testing.T) {
	p := unitSquarePrism(0, 1)
	// Closed left unset: no caps, and a straight-down ray through the
	// interior never grazes the lateral walls at x=z=0.

	ray := Ray{Origin: vecmath.Vec3{0, 5, 0}, Dir: vecmath.Vec3{0, -1, 0}}
	stack := NewIStack()
	p.AllIntersections(ray, stack)
	if stack.Len() != 0 {
		t.Fatalf("expected 0 intersections for open prism through its interior, got %d", stack.Len())
	}
}

func TestPrismInsideContainment(t *testing.T) {
	p := unitSquarePrism(0, 1)
	if !p.Inside(vecmath.Vec3{0, 0.5, 0}) {
		t.Error("expected prism center to be inside")
	}
	if p.Inside(vecmath.Vec3{2, 0.5, 0}) {
		t.Error("expected point outside the cross-section to be outside")
	}
	if p.Inside(vecmath.Vec3{0, 2, 0}) {
		t.Error("expected point above H2 to be outside")
	}
}
