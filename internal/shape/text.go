package shape

import "csgcore/internal/vecmath"

// Glyph supplies one character's 2D outline (in the Prism's X-Z
// cross-section convention) and its horizontal advance width. Font
// parsing itself is out of scope, so Text is built against this
// interface rather than any concrete font format.
type Glyph interface {
	Outline() []PrismSegment
	Advance() float64
}

// Font resolves characters to glyphs.
type Font interface {
	Glyph(r rune) (Glyph, bool)
}

// Text is a fixed union of per-character Prism extrusions, laid out
// left to right by each glyph's advance width. It implements the Shape
// contract directly as a flat union rather than building an
// internal/csg tree, since its composition never changes after
// construction.
type Text struct {
	Base
	Glyphs []*Prism
	Transform vecmath.Transform
}

func NewText(font Font, s string, thickness float64) *Text {
	t := &Text{Transform: vecmath.Identity()}
	cursor := 0.0
	for _, r := range s {
		g, ok := font.Glyph(r)
		if !ok {
			continue
		}
		prism := NewPrism(g.Outline(), 0, thickness, SweepLinear)
		prism.Flags().Set(Closed)
		// Reorient from Prism's Y-axis sweep to a Z-axis extrusion so
		// the glyph outline lies flat in the X-Y reading plane.
		prism.ApplyTransform(vecmath.RotateDegrees(vecmath.Vec3{-90, 0, 0}))
		prism.ApplyTransform(vecmath.Translate(vecmath.Vec3{cursor, 0, 0}))
		t.Glyphs = append(t.Glyphs, prism)
		cursor += g.Advance()
	}
	t.rebuildBBox()
	return t
}

func (t *Text) rebuildBBox() {
	box := vecmath.Empty()
	for _, g := range t.Glyphs {
		box = vecmath.Union(box, g.BBox())
	}
	t.AABB = box
}

func (t *Text) AllIntersections(ray Ray, stack *IStack) {
	for _, g := range t.Glyphs {
		g.AllIntersections(ray, stack)
	}
}

func (t *Text) Inside(p vecmath.Vec3) bool {
	raw := false
	for _, g := range t.Glyphs {
		if g.Inside(p) {
			raw = true
			break
		}
	}
	return t.PublicInside(raw)
}

func (t *Text) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	if rec.Shape != nil {
		if g, ok := rec.Shape.(*Prism); ok {
			return g.Normal(hit, rec)
		}
	}
	return vecmath.Vec3{0, 0, -1}
}

func (t *Text) ApplyTransform(tr vecmath.Transform) {
	for _, g := range t.Glyphs {
		g.ApplyTransform(tr)
	}
	t.Transform = t.Transform.Compose(tr)
	t.rebuildBBox()
}

func (t *Text) Invert() { t.ToggleInverted() }

func (t *Text) Copy() Shape {
	nt := &Text{Base: t.CopyBase(), Transform: t.Transform}
	for _, g := range t.Glyphs {
		nt.Glyphs = append(nt.Glyphs, g.Copy().(*Prism))
	}
	return nt
}

func (t *Text) Destroy() {
	for _, g := range t.Glyphs {
		g.Destroy()
	}
}
