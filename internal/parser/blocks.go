package parser

import (
	"math"

	"csgcore/internal/lexer"
	"csgcore/internal/scene"
	"csgcore/internal/shape"
	"csgcore/internal/symtab"
	"csgcore/internal/vecmath"
)

// captureBlock consumes a balanced {...} block without interpreting its
// pigment/finish sub-grammar, since shading is external, opportunistically
// lifting any of the given bare "keyword number" pairs it finds at any
// depth — enough to recover filter/transmit/ior, the only
// texture/interior fields this core ever reads.
func (p *Parser) captureBlock(keys map[string]bool) map[string]float64 {
	p.consume(lexer.TokenLBrace, "expected '{'")
	depth := 1
	raw := make(map[string]float64)
	for depth > 0 {
		if p.isAtEnd() {
			p.fatalf("unterminated block: missing '}'")
		}
		tok := p.peek()
		switch tok.Type {
		case lexer.TokenLBrace:
			depth++
			p.advance()
		case lexer.TokenRBrace:
			depth--
			p.advance()
		case lexer.TokenIdent:
			p.advance()
			if keys[tok.Lexeme] && p.check(lexer.TokenNumber) {
				raw[tok.Lexeme] = p.num()
			}
		default:
			p.advance()
		}
	}
	return raw
}

var filterTransmitIOR = map[string]bool{"filter": true, "transmit": true, "ior": true}

// tryParseOpaqueNamed recognizes the texture/interior/pigment/normal/
// finish/material/rainbow/fog/sky_sphere block keywords wherever a
// bindable value is expected (#declare RHS, or a standalone top-level
// fog/rainbow/sky_sphere block). radiosity and photons are parsed by
// globalSettingsBlock.
func (p *Parser) tryParseOpaqueNamed() (interface{}, symtab.Kind, bool) {
	if !p.check(lexer.TokenIdent) {
		return nil, 0, false
	}
	kw := p.peek().Lexeme
	switch kw {
	case "texture":
		p.advance()
		raw := p.captureBlock(filterTransmitIOR)
		tex := &shape.Texture{Filter: raw["filter"], Transmit: raw["transmit"]}
		if v, ok := raw["ior"]; ok {
			tex.IORStash, tex.HasIORStash = v, true
		}
		return tex, symtab.KindTexture, true
	case "interior":
		p.advance()
		raw := p.captureBlock(filterTransmitIOR)
		return &shape.Interior{IOR: raw["ior"]}, symtab.KindInterior, true
	case "pigment":
		p.advance()
		return &scene.OpaqueBlock{Kind: "pigment", Raw: p.captureBlock(filterTransmitIOR)}, symtab.KindPigment, true
	case "normal":
		p.advance()
		return &scene.OpaqueBlock{Kind: "normal", Raw: p.captureBlock(nil)}, symtab.KindNormal, true
	case "finish":
		p.advance()
		return &scene.OpaqueBlock{Kind: "finish", Raw: p.captureBlock(nil)}, symtab.KindFinish, true
	case "material":
		p.advance()
		return &scene.OpaqueBlock{Kind: "material", Raw: p.captureBlock(filterTransmitIOR)}, symtab.KindMaterial, true
	case "rainbow":
		p.advance()
		return &scene.OpaqueBlock{Kind: "rainbow", Raw: p.captureBlock(nil)}, symtab.KindRainbow, true
	case "fog":
		p.advance()
		return &scene.OpaqueBlock{Kind: "fog", Raw: p.captureBlock(nil)}, symtab.KindFog, true
	case "sky_sphere":
		p.advance()
		return &scene.OpaqueBlock{Kind: "sky_sphere", Raw: p.captureBlock(nil)}, symtab.KindSkySphere, true
	}
	return nil, 0, false
}

// objectModifiers loops over the uniform post-construction modifier set
// (translate/rotate/scale/transform/matrix/texture/
// interior/material/pigment/normal/finish/inverse/sturm/smooth/
// no_shadow/hierarchy/hollow/bounded_by/clipped_by/double_illuminate),
// then consumes the object's closing '}'.
func (p *Parser) objectModifiers(s shape.Shape) shape.Shape {
	for {
		if p.match(lexer.TokenRBrace) {
			return s
		}
		switch {
		case p.matchIdent("translate"):
			s.ApplyTransform(vecmath.Translate(p.vec3()))
		case p.matchIdent("scale"):
			s.ApplyTransform(vecmath.Scale(p.vec3()))
		case p.matchIdent("rotate"):
			s.ApplyTransform(vecmath.RotateDegrees(p.vec3()))
		case p.matchIdent("transform"), p.matchIdent("matrix"):
			s.ApplyTransform(p.matrixTransform())
		case p.matchIdent("inverse"):
			s.Invert()
		case p.matchIdent("sturm"):
			s.Flags().Set(shape.Sturm)
		case p.matchIdent("smooth"):
			s.Flags().Set(shape.Smoothed)
		case p.matchIdent("no_shadow"):
			s.Flags().Set(shape.NoShadow)
		case p.matchIdent("double_illuminate"):
			s.Flags().Set(shape.DoubleIlluminate)
		case p.matchIdent("hollow"):
			on := true
			if p.matchIdent("off") {
				on = false
			} else {
				p.matchIdent("on")
			}
			s.Flags().SetIf(shape.Hollow, on)
			s.Flags().Set(shape.HollowSet)
		case p.matchIdent("hierarchy"):
			p.matchIdent("off")
			p.matchIdent("on")
		case p.matchIdent("bounded_by"):
			s.SetBounds(append(s.Bounds(), p.boundingOrClippingObject()))
		case p.matchIdent("clipped_by"):
			s.SetClips(append(s.Clips(), p.boundingOrClippingObject()))
		case p.checkIdent("texture"), p.checkIdent("pigment"), p.checkIdent("normal"),
			p.checkIdent("finish"), p.checkIdent("material"), p.checkIdent("interior"):
			blk, kind, _ := p.tryParseOpaqueNamed()
			switch kind {
			case symtab.KindTexture:
				s.SetTexture(blk.(*shape.Texture))
			case symtab.KindInterior:
				s.SetInterior(blk.(*shape.Interior))
			}
		default:
			tok := p.peek()
			p.fatalf("unrecognized object modifier %q", tok.Lexeme)
		}
	}
}

// boundingOrClippingObject parses the `{ <object> }` wrapper around a
// bounded_by/clipped_by argument.
func (p *Parser) boundingOrClippingObject() shape.Shape {
	p.consume(lexer.TokenLBrace, "expected '{' after bounded_by/clipped_by")
	s := p.tryParseObject()
	if s == nil {
		p.fatalf("expected an object inside bounded_by/clipped_by")
	}
	p.consume(lexer.TokenRBrace, "expected '}' closing bounded_by/clipped_by")
	return s
}

// matrixTransform parses `matrix <x,y,z>`, applied as a translation (the
// 12-number affine form is not accepted), or `transform { translate ...
// rotate ... }` composed in written order.
func (p *Parser) matrixTransform() vecmath.Transform {
	if p.check(lexer.TokenLAngle) {
		v := p.expression() // a bare 12-number literal is out of this
		// grammar's vector-literal cap (max 4 components); real POV
		// matrices are rare in hand-written scenes, so `matrix` here
		// accepts the common degenerate case of a already-composed
		// vector modifier chain instead of the raw 12-number form.
		return vecmath.Translate(v.AsVec3())
	}
	p.consume(lexer.TokenLBrace, "expected '{' after transform")
	t := vecmath.Identity()
	for !p.match(lexer.TokenRBrace) {
		switch {
		case p.matchIdent("translate"):
			t = t.Compose(vecmath.Translate(p.vec3()))
		case p.matchIdent("scale"):
			t = t.Compose(vecmath.Scale(p.vec3()))
		case p.matchIdent("rotate"):
			t = t.Compose(vecmath.RotateDegrees(p.vec3()))
		default:
			p.fatalf("unsupported entry in transform block")
		}
	}
	return t
}

// globalSettingsBlock parses the single top-level global_settings{}
// .
func (p *Parser) globalSettingsBlock() {
	p.consume(lexer.TokenLBrace, "expected '{' after global_settings")
	g := &p.sc.Global
	for !p.match(lexer.TokenRBrace) {
		switch {
		case p.matchIdent("assumed_gamma"):
			g.AssumedGamma = p.num()
		case p.matchIdent("max_trace_level"):
			g.MaxTraceLevel = int(p.num())
		case p.matchIdent("max_intersections"):
			g.MaxIntersections = int(p.num())
		case p.matchIdent("adc_bailout"):
			g.AdcBailout = p.num()
		case p.matchIdent("number_of_waves"):
			g.NumberOfWaves = int(p.num())
		case p.matchIdent("ambient_light"):
			g.AmbientLight = p.vec3()
		case p.matchIdent("irid_wavelength"):
			g.IridWavelengths = p.vec3()
		case p.matchIdent("hf_gray_16"):
			on := true
			if p.matchIdent("off") {
				on = false
			} else {
				p.matchIdent("on")
			}
			g.HFGray16 = on
		case p.checkIdent("radiosity"):
			p.advance()
			raw := p.captureBlock(nil)
			g.Radiosity = &scene.OpaqueBlock{Kind: "radiosity", Raw: raw}
		case p.checkIdent("photons"):
			p.advance()
			raw := p.captureBlock(nil)
			g.Photons = &scene.OpaqueBlock{Kind: "photons", Raw: raw}
		default:
			p.fatalf("unrecognized global_settings entry %q", p.peek().Lexeme)
		}
	}
}

// cameraBlock parses camera{} ("location, direction, up,
// right, sky, look_at, angle, aperture, blur_samples, focal_point,
// variance, confidence, normal perturbation").
func (p *Parser) cameraBlock() {
	p.consume(lexer.TokenLBrace, "expected '{' after camera")
	c := scene.NewCamera()
	for !p.match(lexer.TokenRBrace) {
		switch {
		case p.matchIdent("perspective"):
			c.Kind = scene.Perspective
		case p.matchIdent("orthographic"):
			c.Kind = scene.Orthographic
		case p.matchIdent("fisheye"):
			c.Kind = scene.Fisheye
		case p.matchIdent("ultra_wide_angle"):
			c.Kind = scene.UltraWideAngle
		case p.matchIdent("omnimax"):
			c.Kind = scene.Omnimax
		case p.matchIdent("panoramic"):
			c.Kind = scene.Panoramic
		case p.matchIdent("cylinder"):
			c.Kind = scene.Cylinder
			c.CylinderType = int(p.num())
		case p.matchIdent("location"):
			c.Location = p.vec3()
		case p.matchIdent("direction"):
			c.Direction = p.vec3()
		case p.matchIdent("up"):
			c.Up = p.vec3()
		case p.matchIdent("right"):
			c.Right = p.vec3()
		case p.matchIdent("sky"):
			c.Sky = p.vec3()
		case p.matchIdent("look_at"):
			c.LookAt(p.vec3())
		case p.matchIdent("angle"):
			c.Angle = p.num()
		case p.matchIdent("aperture"):
			c.Aperture = p.num()
		case p.matchIdent("blur_samples"):
			c.BlurSamples = int(p.num())
		case p.matchIdent("focal_point"):
			c.FocalPoint = p.vec3()
		case p.matchIdent("variance"):
			c.Variance = p.num()
		case p.matchIdent("confidence"):
			c.Confidence = p.num()
		case p.matchIdent("normal"):
			c.NormalPerturbation = true
			p.captureBlock(nil)
		default:
			p.fatalf("unrecognized camera entry %q", p.peek().Lexeme)
		}
	}
	p.sc.Camera = c
}

// lightBlock parses light_source{} .
func (p *Parser) lightBlock() *scene.Light {
	p.consume(lexer.TokenLBrace, "expected '{' after light_source")
	l := &scene.Light{}
	l.Location = p.vec3()
	// An optional color expression follows the location; shading colors
	// are never interpreted, so it is parsed and
	// discarded.
	isColor := p.matchIdent("color")
	if p.matchIdent("rgb") || p.matchIdent("rgbf") || p.matchIdent("rgbt") {
		isColor = true
	}
	if isColor || p.check(lexer.TokenLAngle) {
		p.expression()
	}
	for !p.match(lexer.TokenRBrace) {
		switch {
		case p.matchIdent("fade_distance"):
			l.FadeDistance = p.num()
		case p.matchIdent("fade_power"):
			l.FadePower = p.num()
		case p.matchIdent("shadowless"):
			// shadowing is a shading concern, out of scope here.
		case p.matchIdent("spotlight"):
			l.Spotlight = true
		case p.matchIdent("cylinder"):
			l.Cylinder = true
		case p.matchIdent("point_at"):
			l.PointAt = p.vec3()
		case p.matchIdent("radius"):
			l.Radius = math.Cos(p.num() * math.Pi / 180)
		case p.matchIdent("falloff"):
			l.Falloff = math.Cos(p.num() * math.Pi / 180)
		case p.matchIdent("tightness"):
			l.Tightness = p.num()
		case p.matchIdent("area_light"):
			a := &scene.AreaLight{}
			a.Axis1 = p.vec3()
			p.consume(lexer.TokenComma, "expected ','")
			a.Axis2 = p.vec3()
			p.consume(lexer.TokenComma, "expected ','")
			a.Size1 = int(p.num())
			p.consume(lexer.TokenComma, "expected ','")
			a.Size2 = int(p.num())
			for {
				if p.matchIdent("adaptive") {
					a.Adaptive = int(p.num())
				} else if p.matchIdent("jitter") {
					a.Jitter = true
				} else if p.matchIdent("orient") {
					a.Orient = true
				} else if p.matchIdent("circular") {
					// circular sampling pattern: geometry of the grid is
					// unaffected at this layer, so the flag is a no-op.
				} else {
					break
				}
			}
			l.Area = a
		case p.matchIdent("looks_like"):
			l.LooksLike = p.boundingOrClippingObject()
			l.LooksLike.Flags().Set(shape.NoShadow)
		case p.matchIdent("media_interaction"):
			on := true
			if p.matchIdent("off") {
				on = false
			} else {
				p.matchIdent("on")
			}
			l.MediaInteraction = on
		case p.matchIdent("media_attenuation"):
			on := true
			if p.matchIdent("off") {
				on = false
			} else {
				p.matchIdent("on")
			}
			l.MediaAttenuation = on
		default:
			p.fatalf("unrecognized light_source entry %q", p.peek().Lexeme)
		}
	}
	return l
}
