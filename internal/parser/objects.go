package parser

import (
	"math"

	"csgcore/internal/csg"
	"csgcore/internal/lexer"
	"csgcore/internal/shape"
	"csgcore/internal/symtab"
	"csgcore/internal/vecmath"
)

var csgKeywords = map[string]csg.Op{
	"union": csg.OpUnion,
	"intersection": csg.OpIntersection,
	"difference": csg.OpDifference,
	"merge": csg.OpMerge,
}

// tryParseObject attempts to parse one object at the current position,
// dispatching on the lexeme the way ("token
// dispatch style ... looked up in a small table of keyword->action").
// It returns nil (without consuming anything) when the current token is
// not a recognized object keyword.
func (p *Parser) tryParseObject() shape.Shape {
	if !p.check(lexer.TokenIdent) {
		return nil
	}
	kw := p.peek().Lexeme
	if op, ok := csgKeywords[kw]; ok {
		p.advance()
		return p.parseCSGBody(op)
	}
	switch kw {
	case "sphere":
		p.advance()
		return p.parseSphere()
	case "plane":
		p.advance()
		return p.parsePlane()
	case "box":
		p.advance()
		return p.parseBox()
	case "cylinder":
		p.advance()
		return p.parseConeLike(true)
	case "cone":
		p.advance()
		return p.parseConeLike(false)
	case "quadric":
		p.advance()
		return p.parseQuadric()
	case "torus":
		p.advance()
		return p.parseTorus()
	case "disc":
		p.advance()
		return p.parseDisc()
	case "triangle":
		p.advance()
		return p.parseTriangle()
	case "smooth_triangle":
		p.advance()
		return p.parseSmoothTriangle()
	case "superellipsoid":
		p.advance()
		return p.parseSuperellipsoid()
	case "blob":
		p.advance()
		return p.parseBlob()
	case "prism":
		p.advance()
		return p.parsePrism()
	case "lathe":
		p.advance()
		return p.parseLathe()
	case "mesh":
		p.advance()
		return p.parseMesh()
	case "bicubic_patch":
		p.advance()
		return p.parseBicubic()
	case "julia_fractal":
		p.advance()
		return p.parseFractal()
	case "height_field":
		p.advance()
		return p.parseHeightField()
	case "text":
		p.advance()
		return p.parseText()
	case "object":
		p.advance()
		return p.parseObjectRef()
	}
	return nil
}

func (p *Parser) vec3() vecmath.Vec3 { return p.expression().AsVec3() }
func (p *Parser) num() float64 { return p.expression().AsFloat() }

func componentMin(a, b vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y()), math.Min(a.Z(), b.Z())}
}
func componentMax(a, b vecmath.Vec3) vecmath.Vec3 {
	return vecmath.Vec3{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y()), math.Max(a.Z(), b.Z())}
}

// buildAxisTransform maps the object-space unit segment (0,0,0)-(0,1,0)
// onto the world-space segment base-apex: used by cone and cylinder,
// whose scene-language form gives two endpoint vectors instead of a
// rotate.
func (p *Parser) buildAxisTransform(base, apex vecmath.Vec3) (vecmath.Transform, float64) {
	diff := apex.Sub(base)
	length := diff.Len()
	if length < vecmath.Epsilon {
		p.fatalf("degenerate axis: base and apex coincide")
	}
	t := vecmath.Scale(vecmath.Vec3{1, length, 1}).
	Compose(vecmath.AlignY(diff)).
	Compose(vecmath.Translate(base))
	return t, length
}

// --- primitive parsers: each consumes the opening '{' through its
// required parameters, then hands off to the shared modifier loop which
// consumes the closing '}'. ---

func (p *Parser) parseSphere() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after sphere")
	center := p.vec3()
	p.consume(lexer.TokenComma, "expected ',' after sphere center")
	r := p.num()
	return p.objectModifiers(shape.NewSphere(center, r))
}

func (p *Parser) parsePlane() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after plane")
	n := p.vec3()
	p.consume(lexer.TokenComma, "expected ',' after plane normal")
	d := p.num()
	pl, ok := shape.NewPlane(n, d)
	if !ok {
		p.fatalf("plane has a degenerate (zero-length) normal")
	}
	return p.objectModifiers(pl)
}

func (p *Parser) parseBox() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after box")
	c1 := p.vec3()
	p.consume(lexer.TokenComma, "expected ',' after box corner")
	c2 := p.vec3()
	return p.objectModifiers(shape.NewBox(componentMin(c1, c2), componentMax(c1, c2)))
}

// parseConeLike handles both cylinder { <base>,<apex>,radius [open] }
// and cone { <base>,baseRadius,<apex>,apexRadius [open] }.
func (p *Parser) parseConeLike(isCylinder bool) shape.Shape {
	kw := "cone"
	if isCylinder {
		kw = "cylinder"
	}
	p.consume(lexer.TokenLBrace, "expected '{' after "+kw)
	base := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	var apex vecmath.Vec3
	var baseR, apexR float64
	if isCylinder {
		apex = p.vec3()
		p.consume(lexer.TokenComma, "expected ','")
		baseR = p.num()
		apexR = baseR
	} else {
		baseR = p.num()
		p.consume(lexer.TokenComma, "expected ','")
		apex = p.vec3()
		p.consume(lexer.TokenComma, "expected ','")
		apexR = p.num()
	}
	c := shape.NewCone(baseR, apexR)
	t, _ := p.buildAxisTransform(base, apex)
	c.ApplyTransform(t)
	if !p.matchIdent("open") {
		c.Flags().Set(shape.Closed)
	}
	return p.objectModifiers(c)
}

func (p *Parser) parseQuadric() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after quadric")
	abc := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	def := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	ghi := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	j := p.num()
	q := shape.NewQuadric(abc.X(), abc.Y(), abc.Z(), def.X(), def.Y(), def.Z(), ghi.X(), ghi.Y(), ghi.Z(), j)
	return p.objectModifiers(q)
}

func (p *Parser) parseTorus() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after torus")
	major := p.num()
	p.consume(lexer.TokenComma, "expected ','")
	minor := p.num()
	return p.objectModifiers(shape.NewTorus(major, minor))
}

func (p *Parser) parseDisc() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after disc")
	center := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	normal := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	outer := p.num()
	inner := 0.0
	if p.match(lexer.TokenComma) {
		inner = p.num()
	}
	return p.objectModifiers(shape.NewDisc(center, normal, outer*outer, inner*inner))
}

func (p *Parser) parseTriangle() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after triangle")
	p0 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	p1 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	p2 := p.vec3()
	t, ok := shape.NewTriangle(p0, p1, p2)
	if !ok {
		p.fatalf("triangle is degenerate (zero area)")
	}
	return p.objectModifiers(t)
}

func (p *Parser) parseSmoothTriangle() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after smooth_triangle")
	p0 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	n0 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	p1 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	n1 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	p2 := p.vec3()
	p.consume(lexer.TokenComma, "expected ','")
	n2 := p.vec3()
	t, ok := shape.NewTriangle(p0, p1, p2)
	if !ok {
		p.fatalf("smooth_triangle is degenerate (zero area)")
	}
	t.SetSmoothNormals(n0, n1, n2)
	return p.objectModifiers(t)
}

func (p *Parser) parseSuperellipsoid() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after superellipsoid")
	en := p.vec3()
	return p.objectModifiers(shape.NewSuperellipsoid(en.X(), en.Y()))
}

func (p *Parser) parseBlob() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after blob")
	threshold := 1.0
	if p.matchIdent("threshold") {
		threshold = p.num()
	}
	var elems []shape.BlobElement
	for p.checkIdent("sphere") {
		p.advance()
		p.consume(lexer.TokenLBrace, "expected '{' after sphere")
		center := p.vec3()
		p.consume(lexer.TokenComma, "expected ','")
		radius := p.num()
		strength := 1.0
		if p.match(lexer.TokenComma) {
			strength = p.num()
		} else if p.matchIdent("strength") {
			strength = p.num()
		}
		elems = append(elems, shape.BlobElement{Center: center, Radius: radius, Strength: strength})
		p.consume(lexer.TokenRBrace, "expected '}' closing blob sphere component")
	}
	if len(elems) == 0 {
		p.fatalf("blob requires at least one sphere component")
	}
	return p.objectModifiers(shape.NewBlob(elems, threshold))
}

func (p *Parser) readPt2List() []vecmath.Vec3 {
	n := int(p.num())
	p.consume(lexer.TokenComma, "expected ',' after point count")
	pts := make([]vecmath.Vec3, 0, n)
	pts = append(pts, p.vec3())
	for i := 1; i < n; i++ {
		p.consume(lexer.TokenComma, "expected ',' between points")
		pts = append(pts, p.vec3())
	}
	return pts
}

func (p *Parser) parsePrism() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after prism")
	sweep := shape.SweepLinear
	if p.matchIdent("conic_sweep") {
		sweep = shape.SweepConic
	} else {
		p.matchIdent("linear_sweep")
	}
	p.consume(lexer.TokenComma, "expected ',' after prism sweep type")
	h1 := p.num()
	p.consume(lexer.TokenComma, "expected ','")
	h2 := p.num()
	p.consume(lexer.TokenComma, "expected ','")
	pts := p.readPt2List()
	if len(pts) < 3 {
		p.fatalf("prism requires at least 3 boundary points")
	}
	var segs []shape.PrismSegment
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		segs = append(segs, shape.PrismSegment{Ctrl: []shape.Pt2{{X: a.X(), Z: a.Z()}, {X: b.X(), Z: b.Z()}}})
	}
	pr := shape.NewPrism(segs, h1, h2, sweep)
	if p.matchIdent("open") {
		// leave Closed unset: no end caps
	} else {
		pr.Flags().Set(shape.Closed)
	}
	return p.objectModifiers(pr)
}

func (p *Parser) parseLathe() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after lathe")
	for _, kind := range []string{"linear_spline", "quadratic_spline", "cubic_spline", "bezier_spline"} {
		if p.matchIdent(kind) {
			p.consume(lexer.TokenComma, "expected ',' after lathe spline type")
			break
		}
	}
	pts := p.readPt2List()
	if len(pts) < 2 {
		p.fatalf("lathe requires at least 2 control points")
	}
	var segs []shape.SorSegment
	for i := 0; i < len(pts)-1; i++ {
		r0, y0 := pts[i].X(), pts[i].Z()
		r1, y1 := pts[i+1].X(), pts[i+1].Z()
		segs = append(segs, shape.SorSegment{Y0: y0, Y1: y1, RCoeff: [4]float64{r0, r1 - r0, 0, 0}})
	}
	return p.objectModifiers(shape.NewLathe(segs))
}

func (p *Parser) parseMesh() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after mesh")
	var tris []*shape.Triangle
	for p.checkIdent("triangle") || p.checkIdent("smooth_triangle") {
		smooth := p.peek().Lexeme == "smooth_triangle"
		p.advance()
		p.consume(lexer.TokenLBrace, "expected '{'")
		p0 := p.vec3()
		p.consume(lexer.TokenComma, "expected ','")
		var n0, n1, n2 vecmath.Vec3
		if smooth {
			n0 = p.vec3()
			p.consume(lexer.TokenComma, "expected ','")
		}
		p1 := p.vec3()
		p.consume(lexer.TokenComma, "expected ','")
		if smooth {
			n1 = p.vec3()
			p.consume(lexer.TokenComma, "expected ','")
		}
		p2 := p.vec3()
		if smooth {
			p.consume(lexer.TokenComma, "expected ','")
			n2 = p.vec3()
		}
		p.consume(lexer.TokenRBrace, "expected '}' closing mesh triangle")
		tr, ok := shape.NewTriangle(p0, p1, p2)
		if !ok {
			p.warn("mesh: skipping degenerate triangle")
			continue
		}
		if smooth {
			tr.SetSmoothNormals(n0, n1, n2)
		}
		tris = append(tris, tr)
	}
	return p.objectModifiers(shape.NewMesh(tris))
}

func (p *Parser) parseBicubic() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after bicubic_patch")
	for _, key := range []string{"type", "flatness", "u_steps", "v_steps"} {
		if p.matchIdent(key) {
			p.num()
			p.match(lexer.TokenComma)
		}
	}
	var control [4][4]vecmath.Vec3
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			control[r][c] = p.vec3()
			if !(r == 3 && c == 3) {
				p.consume(lexer.TokenComma, "expected ',' between bicubic control points")
			}
		}
	}
	return p.objectModifiers(shape.NewBicubic(control))
}

func (p *Parser) parseFractal() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after julia_fractal")
	c := p.expression()
	maxIter := 20
	bailout := 4.0
	for {
		p.match(lexer.TokenComma)
		if p.matchIdent("max_iteration") {
			maxIter = int(p.num())
			continue
		}
		if p.matchIdent("precision") {
			p.num()
			continue
		}
		break
	}
	return p.objectModifiers(shape.NewFractal(c.Vec, maxIter, bailout, 2.0))
}

// parseHeightField accepts an inline numeric grid — height_field { NX,
// NZ, h(0,0), h(0,1), ..., yscale } — rather than reading an image
// file: image file-format parsing is out of scope, so the scene
// language here supplies the grid directly.
func (p *Parser) parseHeightField() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after height_field")
	nx := int(p.num())
	p.consume(lexer.TokenComma, "expected ','")
	nz := int(p.num())
	heights := make([][]float64, nx)
	for i := range heights {
		heights[i] = make([]float64, nz)
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < nz; j++ {
			p.consume(lexer.TokenComma, "expected ','")
			heights[i][j] = p.num()
		}
	}
	yscale := 1.0
	if p.match(lexer.TokenComma) {
		yscale = p.num()
	}
	return p.objectModifiers(shape.NewHeightField(heights, yscale))
}

func (p *Parser) parseText() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after text")
	p.matchIdent("ttf")
	p.consume(lexer.TokenString, "expected font filename string") // name unused: see blockFont
	str := p.consume(lexer.TokenString, "expected text string").Lexeme
	p.consume(lexer.TokenComma, "expected ','")
	thickness := p.num()
	p.consume(lexer.TokenComma, "expected ','")
	p.vec3() // offset vector: unused by the block-glyph stand-in font
	return p.objectModifiers(shape.NewText(blockFont{}, str, thickness))
}

// blockFont is the built-in stand-in for TTF loading (font file parsing
// is out of scope): every glyph is a unit square
// outline with unit advance, which exercises Text/Prism the same way a
// real font's glyphs would.
type blockFont struct{}

func (blockFont) Glyph(r rune) (shape.Glyph, bool) {
	if r == ' ' {
		return blockGlyph{space: true}, true
	}
	return blockGlyph{}, true
}

type blockGlyph struct{ space bool }

func (g blockGlyph) Outline() []shape.PrismSegment {
	sq := []vecmath.Vec3{{0.1, 0, 0.1}, {0.9, 0, 0.1}, {0.9, 0, 0.9}, {0.1, 0, 0.9}}
	var segs []shape.PrismSegment
	for i := range sq {
		a, b := sq[i], sq[(i+1)%len(sq)]
		segs = append(segs, shape.PrismSegment{Ctrl: []shape.Pt2{{X: a.X(), Z: a.Z()}, {X: b.X(), Z: b.Z()}}})
	}
	return segs
}

func (g blockGlyph) Advance() float64 { return 1.0 }

// parseObjectRef resolves `object { NAME [modifiers] }`, copying the
// previously declared object so each placement gets its own Transform
// state (Copy duplicates a shape for independent reuse).
func (p *Parser) parseObjectRef() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after object")
	var s shape.Shape
	if inline := p.tryParseObject(); inline != nil {
		s = inline
	} else {
		name := p.consume(lexer.TokenIdent, "expected object identifier").Lexeme
		entry, ok := p.syms.Lookup(name)
		if !ok || entry.Kind != symtab.KindObject {
			p.fatalf("%q is not a declared object", name)
		}
		s = entry.Value.(shape.Shape).Copy()
	}
	return p.objectModifiers(s)
}

func (p *Parser) parseCSGBody(op csg.Op) shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after CSG keyword")
	var children []shape.Shape
	for {
		c := p.tryParseObject()
		if c == nil {
			break
		}
		children = append(children, c)
	}
	if len(children) == 0 {
		p.fatalf("CSG operation requires at least one child object")
	}
	var n *csg.Node
	switch op {
	case csg.OpUnion:
		n = csg.NewUnion(children)
	case csg.OpIntersection:
		n = csg.NewIntersection(children)
	case csg.OpDifference:
		n = csg.NewDifference(children)
	case csg.OpMerge:
		n = csg.NewMerge(children)
	}
	return p.objectModifiers(n)
}
