package shape

import (
	"math"
	"testing"

	"csgcore/internal/vecmath"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSphereCentralRay(t *testing.T) {
	s := NewSphere(vecmath.Vec3{0, 0, 0}, 1)
	ray := Ray{Origin: vecmath.Vec3{0, 0, -5}, Dir: vecmath.Vec3{0, 0, 1}}
	stack := NewIStack()
	s.AllIntersections(ray, stack)

	if stack.Len() != 2 {
		t.Fatalf("expected 2 intersections, got %d", stack.Len())
	}
	depths := []float64{stack.Entries[0].Depth, stack.Entries[1].Depth}
	if !almostEqual(depths[0], 4) || !almostEqual(depths[1], 6) {
		t.Fatalf("expected depths [4,6], got %v", depths)
	}

	n0 := s.Normal(stack.Entries[0].Point, stack.Entries[0])
	n1 := s.Normal(stack.Entries[1].Point, stack.Entries[1])
	if !almostEqual(n0.Z(), -1) {
		t.Errorf("expected entry normal (0,0,-1), got %v", n0)
	}
	if !almostEqual(n1.Z(), 1) {
		t.Errorf("expected exit normal (0,0,1), got %v", n1)
	}

	if !s.Inside(vecmath.Vec3{0, 0, 0}) {
		t.Error("expected center to be inside")
	}
	if s.Inside(vecmath.Vec3{2, 0, 0}) {
		t.Error("expected (2,0,0) to be outside")
	}
}

func TestSphereInvertInvolution(t *testing.T) {
	s := NewSphere(vecmath.Vec3{0, 0, 0}, 1)
	p := vecmath.Vec3{0, 0, 0}
	before := s.Inside(p)
	s.Invert()
	s.Invert()
	if s.Inside(p) != before {
		t.Error("double invert changed inside result")
	}
}
