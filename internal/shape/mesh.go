package shape

import (
	"sort"

	"csgcore/internal/vecmath"
)

// Mesh: a list of *Triangle (each holding its own vertices and normals)
// with an internal BBox tree: tree traversal + Möller-style triangle
// test, smooth-normal interpolation.
type Mesh struct {
	Base
	Triangles []*Triangle
	tree *meshNode
	Transform vecmath.Transform
}

type meshNode struct {
	box vecmath.BBox
	tris []*Triangle // leaf only
	children [2]*meshNode
}

func NewMesh(tris []*Triangle) *Mesh {
	m := &Mesh{Triangles: tris, Transform: vecmath.Identity()}
	m.rebuild()
	return m
}

func (m *Mesh) rebuild() {
	box := vecmath.Empty()
	for _, t := range m.Triangles {
		box = vecmath.Union(box, t.BBox())
	}
	m.AABB = box
	m.tree = buildMeshTree(append([]*Triangle(nil), m.Triangles...), 0)
}

const meshLeafSize = 4

func buildMeshTree(tris []*Triangle, depth int) *meshNode {
	box := vecmath.Empty()
	for _, t := range tris {
		box = vecmath.Union(box, t.BBox())
	}
	if len(tris) <= meshLeafSize || depth > 24 {
		return &meshNode{box: box, tris: tris}
	}
	extent := box.Max.Sub(box.Min)
	axis := 0
	if extent.Y() > extent.X() {
		axis = 1
	}
	if (axis == 0 && extent.Z() > extent.X()) || (axis == 1 && extent.Z() > extent.Y()) {
		axis = 2
	}
	sort.Slice(tris, func(i, j int) bool {
		ci := centroid(tris[i])
		cj := centroid(tris[j])
		switch axis {
		case 0:
			return ci.X() < cj.X()
		case 1:
			return ci.Y() < cj.Y()
		default:
			return ci.Z() < cj.Z()
		}
	})
	mid := len(tris) / 2
	return &meshNode{
		box: box,
		children: [2]*meshNode{
			buildMeshTree(tris[:mid], depth+1),
			buildMeshTree(tris[mid:], depth+1),
		},
	}
}

func centroid(t *Triangle) vecmath.Vec3 {
	return t.P0.Add(t.P1).Add(t.P2).Mul(1.0 / 3.0)
}

func rayHitsBox(ray Ray, b vecmath.BBox) bool {
	tmin, tmax := -1e30, 1e30
	o, d := ray.Origin, ray.Dir
	comps := [3][3]float64{
		{o.X(), d.X(), 0}, {o.Y(), d.Y(), 0}, {o.Z(), d.Z(), 0},
	}
	bmin := [3]float64{b.Min.X(), b.Min.Y(), b.Min.Z()}
	bmax := [3]float64{b.Max.X(), b.Max.Y(), b.Max.Z()}
	for i := 0; i < 3; i++ {
		oi, di := comps[i][0], comps[i][1]
		if vecmath.NearZero(di) {
			if oi < bmin[i] || oi > bmax[i] {
				return false
			}
			continue
		}
		t1 := (bmin[i] - oi) / di
		t2 := (bmax[i] - oi) / di
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false
		}
	}
	return true
}

func (m *Mesh) AllIntersections(ray Ray, stack *IStack) {
	localRay := Ray{Origin: m.Transform.PointForward(ray.Origin), Dir: m.Transform.DirForward(ray.Dir)}
	scale := ray.Dir.Len() / localRay.Dir.Len()
	m.walk(m.tree, localRay, scale, ray, stack)
}

func (m *Mesh) walk(node *meshNode, localRay Ray, scale float64, worldRay Ray, stack *IStack) {
	if node == nil || !rayHitsBox(localRay, node.box) {
		return
	}
	if node.tris != nil {
		for _, tri := range node.tris {
			t, u, v, ok := tri.barycentric(localRay)
			if !ok {
				continue
			}
			wt := t * scale
			if wt <= DepthTol {
				continue
			}
			hit := worldRay.At(wt)
			if !m.ClipContains(hit) {
				continue
			}
			stack.Push(Intersection{Depth: wt, Point: hit, Shape: m, D1: u, I1: encodeTriRef(tri, v)})
		}
		return
	}
	m.walk(node.children[0], localRay, scale, worldRay, stack)
	m.walk(node.children[1], localRay, scale, worldRay, stack)
}

// encodeTriRef packs only the v barycentric coordinate, scaled by 1e9 as
// Triangle.Normal decodes it; tri is not encoded (IStack entries stay
// plain data). Normal recovers the owning triangle by re-walking the
// tree with findTriangle — acceptable because Normal is called once per
// shaded hit, not per candidate.
func encodeTriRef(tri *Triangle, v float64) int {
	return int(v * 1e9)
}

func (m *Mesh) findTriangle(hit vecmath.Vec3) *Triangle {
	var best *Triangle
	bestDist := 1e30
	var scan func(n *meshNode)
	scan = func(n *meshNode) {
		if n == nil {
			return
		}
		if n.tris != nil {
			for _, t := range n.tris {
				d := t.faceNormal.Dot(hit.Sub(t.P0))
				if d < 0 {
					d = -d
				}
				if d < bestDist {
					bestDist, best = d, t
				}
			}
			return
		}
		scan(n.children[0])
		scan(n.children[1])
	}
	scan(m.tree)
	return best
}

func (m *Mesh) Inside(p vecmath.Vec3) bool {
	// Parity test: cast a ray along +X in object space and count crossings.
	op := m.Transform.PointForward(p)
	ray := Ray{Origin: op, Dir: vecmath.Vec3{1, 0, 0}}
	count := 0
	var walk func(n *meshNode)
	walk = func(n *meshNode) {
		if n == nil || !rayHitsBox(ray, n.box) {
			return
		}
		if n.tris != nil {
			for _, t := range n.tris {
				if tt, _, _, ok := t.barycentric(ray); ok && tt > 0 {
					count++
				}
			}
			return
		}
		walk(n.children[0])
		walk(n.children[1])
	}
	walk(m.tree)
	raw := count%2 == 1
	return m.PublicInside(raw)
}

func (m *Mesh) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := m.Transform.PointForward(hit)
	tri := m.findTriangle(op)
	if tri == nil {
		return vecmath.Vec3{1, 0, 0}
	}
	n := tri.Normal(op, rec)
	return m.Transform.NormalBackward(n)
}

func (m *Mesh) ApplyTransform(t vecmath.Transform) {
	m.Transform = m.Transform.Compose(t)
	m.rebuild()
	m.AABB = m.AABB.Transformed(m.Transform)
}

func (m *Mesh) Invert() { m.ToggleInverted() }

func (m *Mesh) Copy() Shape {
	nm := *m
	nm.Base = m.CopyBase()
	return &nm
}

func (m *Mesh) Destroy() {}
