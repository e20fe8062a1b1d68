package csg

import (
	"math"
	"testing"

	"csgcore/internal/shape"
	"csgcore/internal/vecmath"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUnionOfTwoDisjointSpheres(t *testing.T) {
	left := shape.NewSphere(vecmath.Vec3{-2, 0, 0}, 1)
	right := shape.NewSphere(vecmath.Vec3{2, 0, 0}, 1)
	u := NewUnion([]shape.Shape{left, right})

	ray := shape.Ray{Origin: vecmath.Vec3{-10, 0, 0}, Dir: vecmath.Vec3{1, 0, 0}}
	stack := shape.NewIStack()
	u.AllIntersections(ray, stack)

	if stack.Len() != 4 {
		t.Fatalf("expected 4 intersections, got %d", stack.Len())
	}
	depths := make([]float64, 4)
	for i, e := range stack.Entries {
		depths[i] = e.Depth
	}
	sortFloats(depths)
	want := []float64{7, 9, 11, 13}
	for i, w := range want {
		if !almostEqual(depths[i], w) {
			t.Errorf("depth[%d]: got %v, want %v (all: %v)", i, depths[i], w, depths)
		}
	}
}

func sortFloats(f []float64) {
	for i := 1; i < len(f); i++ {
		for j := i; j > 0 && f[j-1] > f[j]; j-- {
			f[j-1], f[j] = f[j], f[j-1]
		}
	}
}

// buildYCylinder places a unit-height cone (base radius = apex radius, so
// a cylinder) along the world Y axis from y=base to y=base+length.
func buildYCylinder(radius float64, base, length float64) *shape.Cone {
	c := shape.NewCone(radius, radius)
	t := vecmath.Scale(vecmath.Vec3{1, length, 1}).Compose(vecmath.Translate(vecmath.Vec3{0, base, 0}))
	c.ApplyTransform(t)
	return c
}

func TestDifferenceCarvesHole(t *testing.T) {
	box := shape.NewBox(vecmath.Vec3{-1, -1, -1}, vecmath.Vec3{1, 1, 1})
	cyl := buildYCylinder(0.5, -2, 4) // extends well past the box on both ends
	d := NewDifference([]shape.Shape{box, cyl})

	if d.Inside(vecmath.Vec3{0, 0, 0}) {
		t.Error("expected origin to be outside the difference (carved out by the cylinder)")
	}
	if !d.Inside(vecmath.Vec3{0.9, 0, 0}) {
		t.Error("expected (0.9,0,0) to be inside the difference (outside the cylinder, inside the box)")
	}

	// A ray straight down at x=0.9 clears the bore (radius 0.5) entirely,
	// so it sees only the box's own top and bottom faces.
	ray := shape.Ray{Origin: vecmath.Vec3{0.9, 2, 0}, Dir: vecmath.Vec3{0, -1, 0}}
	stack := shape.NewIStack()
	d.AllIntersections(ray, stack)
	if stack.Len() != 2 {
		t.Fatalf("expected 2 intersections (box top/bottom faces, clear of the bore at x=0.9), got %d", stack.Len())
	}
}

func TestMergeUsesUnionAcceptRuleRegardlessOfInterior(t *testing.T) {
	left := shape.NewSphere(vecmath.Vec3{0, 0, 0}, 1)
	left.SetInterior(&shape.Interior{IOR: 1.0})
	right := shape.NewSphere(vecmath.Vec3{0.5, 0, 0}, 1)
	right.SetInterior(&shape.Interior{IOR: 1.5})
	m := NewMerge([]shape.Shape{left, right})

	ray := shape.Ray{Origin: vecmath.Vec3{-5, 0, 0}, Dir: vecmath.Vec3{1, 0, 0}}
	stack := shape.NewIStack()
	m.AllIntersections(ray, stack)
	// The surface inside the other sphere is suppressed exactly as Union
	// would suppress it, independent of the mismatched Interior values.
	if stack.Len() != 2 {
		t.Fatalf("expected 2 intersections (merge drops embedded surfaces like union), got %d", stack.Len())
	}
}

func TestPropagateHollowPinning(t *testing.T) {
	childUnderPinned := shape.NewSphere(vecmath.Vec3{0, 0, 0}, 1)
	childUnderPinned.Flags().Set(shape.Hollow)
	pinned := NewUnion([]shape.Shape{childUnderPinned})
	pinned.Flags().Set(shape.HollowSet)
	pinned.Flags().Set(shape.Hollow)
	root := NewUnion([]shape.Shape{pinned})

	PropagateHollow(root, false)

	if !pinned.Flags().Has(shape.Hollow) {
		t.Error("expected the pinned node's own Hollow flag to survive an ancestor's PropagateHollow(false)")
	}
	if childUnderPinned.Flags().Has(shape.Hollow) {
		t.Error("expected recursion to continue past the pinned node into its own children")
	}
}
