package scene

import (
	"csgcore/internal/csg"
	"csgcore/internal/shape"
	"csgcore/internal/vecmath"
)

// Postprocess runs the full post-parse pass over the scene's root list:
// texture/interior promotion, LIGHT_SOURCE_UNION flagging, INFINITE/OPAQUE
// flagging, split-bounded-unions, and remove-unnecessary-bounding.
func Postprocess(s *Scene) {
	for _, root := range s.Root {
		PromoteTextureAndInterior(root, nil, nil)
	}
	isLight := lightShapeSet(s.Lights)
	for _, root := range s.Root {
		MarkLightSourceUnions(root, isLight)
	}
	for _, root := range s.Root {
		FlagInfiniteAndOpaque(root)
	}
	s.Root = SplitBoundedUnions(s.Root)
	for _, root := range s.Root {
		RemoveUnnecessaryBounding(root)
	}
}

// lightShapeSet reports whether a shape is the looks_like display object
// attached to one of lights; only such shapes count as light-bearing for
// MarkLightSourceUnions.
func lightShapeSet(lights []*Light) func(shape.Shape) bool {
	attached := make(map[shape.Shape]bool)
	for _, l := range lights {
		if l.LooksLike != nil {
			attached[l.LooksLike] = true
		}
	}
	return func(s shape.Shape) bool { return attached[s] }
}

// PromoteTextureAndInterior walks a shape tree and assigns each child
// its parent's texture/interior when it has none of its own.
func PromoteTextureAndInterior(s shape.Shape, parentTex *shape.Texture, parentInt *shape.Interior) {
	tex, interior := parentTex, parentInt
	if t := s.TextureRef(); t != nil {
		tex = t
	} else if tex != nil {
		s.SetTexture(tex)
	}
	if i := s.InteriorRef(); i != nil {
		interior = i
	} else if interior != nil {
		s.SetInterior(interior)
	}
	if n, ok := s.(*csg.Node); ok {
		for _, c := range n.Children {
			PromoteTextureAndInterior(c, tex, interior)
		}
	}
}

// FlagInfiniteAndOpaque walks a shape tree marking shape.Infinite when
// its AABB's volume exceeds vecmath.BoundHuge, and
// shape.Opaque when its texture (own or promoted) has zero filter and
// zero transmit .
func FlagInfiniteAndOpaque(s shape.Shape) {
	box := s.BBox()
	if !box.IsEmpty() && box.Volume() > vecmath.BoundHuge {
		s.Flags().Set(shape.Infinite)
	}
	if t := s.TextureRef(); t != nil && t.Filter == 0 && t.Transmit == 0 {
		s.Flags().Set(shape.Opaque)
	}
	if n, ok := s.(*csg.Node); ok {
		for _, c := range n.Children {
			FlagInfiniteAndOpaque(c)
		}
	}
}

// SplitBoundedUnions dissolves any top-level Union whose children are
// all finite and which carries a bounded_by block, linking the
// children directly into root with the union's own bound list attached
// to each ("if a bounded Union has only finite children
// and the optimization is enabled, the Union is dissolved and its
// children are linked directly to the root, their bounds replaced by
// the Union's").
func SplitBoundedUnions(root []shape.Shape) []shape.Shape {
	var out []shape.Shape
	for _, s := range root {
		n, ok := s.(*csg.Node)
		if !ok || n.Op != csg.OpUnion || len(n.Bounds()) == 0 {
			out = append(out, s)
			continue
		}
		allFinite := true
		for _, c := range n.Children {
			if c.Flags().Has(shape.Infinite) {
				allFinite = false
				break
			}
		}
		if !allFinite {
			out = append(out, s)
			continue
		}
		for _, c := range n.Children {
			c.SetBounds(n.Bounds())
			out = append(out, c)
		}
	}
	return out
}

// cheapPrimitive reports whether s is inexpensive enough to intersect
// directly that an attached bound buys nothing ("for
// cheap-to-intersect primitives (not CSG, not Poly, not TTF)").
func cheapPrimitive(s shape.Shape) bool {
	switch s.(type) {
	case *csg.Node, *shape.Poly, *shape.Text:
		return false
	default:
		return true
	}
}

// RemoveUnnecessaryBounding drops an attached bounded_by that is not
// also serving as a clip, on any shape cheap enough that the bound
// doesn't pay for itself .
func RemoveUnnecessaryBounding(s shape.Shape) {
	if cheapPrimitive(s) && len(s.Bounds()) > 0 {
		sharesClips := false
		bounds := s.Bounds()
		clips := s.Clips()
		if len(bounds) == len(clips) {
			sharesClips = true
			for i := range bounds {
				if bounds[i] != clips[i] {
					sharesClips = false
					break
				}
			}
		}
		if !sharesClips {
			s.SetBounds(nil)
		}
	}
	if n, ok := s.(*csg.Node); ok {
		for _, c := range n.Children {
			RemoveUnnecessaryBounding(c)
		}
	}
}

// MarkLightSourceUnions flags any csg.Node whose children are every one
// a light-bearing shape (per isLight) as a LIGHT_SOURCE_UNION, which
// short-circuits normal traversal during shading .
func MarkLightSourceUnions(s shape.Shape, isLight func(shape.Shape) bool) {
	n, ok := s.(*csg.Node)
	if !ok {
		return
	}
	for _, c := range n.Children {
		MarkLightSourceUnions(c, isLight)
	}
	all := len(n.Children) > 0
	for _, c := range n.Children {
		if !isLight(c) {
			all = false
			break
		}
	}
	n.LightUnion = all
}
