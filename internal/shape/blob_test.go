package shape

import (
	"testing"

	"csgcore/internal/vecmath"
)

// dumbbellBlob builds a two-component blob whose field stays above
// threshold along the whole segment between the two centers, so the
// isosurface is one connected (if waisted) solid rather than two
// disjoint lobes.
func dumbbellBlob(threshold float64) *Blob {
	return NewBlob([]BlobElement{
		{Center: vecmath.Vec3{-1, 0, 0}, Radius: 1.5, Strength: 1},
		{Center: vecmath.Vec3{1, 0, 0}, Radius: 1.5, Strength: 1},
	}, threshold)
}

func TestBlobDumbbellAxisRay(t *testing.T) {
	b := dumbbellBlob(0.3)

	ray := Ray{Origin: vecmath.Vec3{-10, 0, 0}, Dir: vecmath.Vec3{1, 0, 0}}
	stack := NewIStack()
	b.AllIntersections(ray, stack)
	if stack.Len() != 2 {
		t.Fatalf("expected 2 surface crossings along the connected dumbbell's axis, got %d", stack.Len())
	}

	if !b.Inside(vecmath.Vec3{0, 0, 0}) {
		t.Error("expected the waist to be inside a connected (non-pinched) dumbbell")
	}
	if !b.Inside(vecmath.Vec3{1, 0, 0}) {
		t.Error("expected a lobe center to be inside")
	}
	if b.Inside(vecmath.Vec3{10, 0, 0}) {
		t.Error("expected a far point to be outside")
	}
}

func TestBlobPinchParityWithInside(t *testing.T) {
	// A tighter radius lowers the waist's field below the threshold,
	// producing two disjoint lobes (the pinch is open). Whichever
	// topology a given radius/threshold pair produces, the surface
	// crossing count and Inside must agree with each other.
	b := NewBlob([]BlobElement{
		{Center: vecmath.Vec3{-1, 0, 0}, Radius: 1.2, Strength: 1},
		{Center: vecmath.Vec3{1, 0, 0}, Radius: 1.2, Strength: 1},
	}, 0.3)

	if b.Inside(vecmath.Vec3{0, 0, 0}) {
		t.Fatal("expected the waist to be outside once the pinch opens")
	}

	ray := Ray{Origin: vecmath.Vec3{-10, 0, 0}, Dir: vecmath.Vec3{1, 0, 0}}
	stack := NewIStack()
	b.AllIntersections(ray, stack)
	if stack.Len()%2 != 0 {
		t.Fatalf("expected an even number of axis crossings (enter/exit pairs), got %d", stack.Len())
	}
	if stack.Len() != 4 {
		t.Fatalf("expected 4 surface crossings for two disjoint lobes along the axis, got %d", stack.Len())
	}
}
