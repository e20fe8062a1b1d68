package shape

import "csgcore/internal/vecmath"

// Intersection is one entry/exit record along a ray: depth, hit point,
// owning shape, two optional int tags, and one optional scalar that a
// primitive may use to carry data from AllIntersections to Normal (SoR:
// segment index and local parameter h; Triangle, Mesh, Bicubic: u and a
// scaled v).
type Intersection struct {
	Depth  float64
	Point  vecmath.Vec3
	Shape  Shape
	I1, I2 int
	D1     float64
}

// IStack is the caller-owned, ordered collection of intersections for
// one ray against one shape. The core never shares or retains one.
type IStack struct {
	Entries []Intersection
}

// NewIStack returns an empty, ready-to-use stack. Callers are expected
// to reuse IStacks across rays via Reset to avoid per-ray allocation,
// since a single ray against a complex scene can produce thousands.
func NewIStack() *IStack {
	return &IStack{Entries: make([]Intersection, 0, 8)}
}

func (s *IStack) Push(i Intersection) {
	s.Entries = append(s.Entries, i)
}

func (s *IStack) Reset() {
	s.Entries = s.Entries[:0]
}

func (s *IStack) Len() int { return len(s.Entries) }
