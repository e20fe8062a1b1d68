package shape

import (
	"testing"

	"csgcore/internal/vecmath"
)

func TestPlaneBehindOriginFiltered(t *testing.T) {
	p, ok := NewPlane(vecmath.Vec3{0, 1, 0}, -1)
	if !ok {
		t.Fatal("expected valid plane")
	}
	ray := Ray{Origin: vecmath.Vec3{0, 2, 0}, Dir: vecmath.Vec3{0, 1, 0}}
	stack := NewIStack()
	p.AllIntersections(ray, stack)
	if stack.Len() != 0 {
		t.Fatalf("expected 0 intersections (hit behind origin filtered by DepthTol), got %d", stack.Len())
	}
}

func TestPlaneDegenerateNormalRejected(t *testing.T) {
	if _, ok := NewPlane(vecmath.Vec3{0, 0, 0}, 1); ok {
		t.Fatal("expected degenerate-normal plane construction to fail")
	}
}
