package shape

import (
	"testing"

	"csgcore/internal/vecmath"
)

func TestBoxMiss(t *testing.T) {
	b := NewBox(vecmath.Vec3{-1, -1, -1}, vecmath.Vec3{1, 1, 1})
	ray := Ray{Origin: vecmath.Vec3{2, 2, 2}, Dir: vecmath.Vec3{1, 0, 0}}
	stack := NewIStack()
	b.AllIntersections(ray, stack)
	if stack.Len() != 0 {
		t.Fatalf("expected 0 intersections, got %d", stack.Len())
	}
	if !b.Inside(vecmath.Vec3{0, 0, 0}) {
		t.Error("expected origin to be inside the box")
	}
}

func TestBoxUnorderedCorners(t *testing.T) {
	// NewBox stores corners as given; callers are responsible for
	// componentwise min/max before construction.
	b := NewBox(vecmath.Vec3{1, 1, 1}, vecmath.Vec3{-1, -1, -1})
	if b.Min.X() != 1 || b.Max.X() != -1 {
		t.Fatal("expected NewBox to store corners unordered")
	}
}
