package parser

import (
	"testing"

	"csgcore/internal/csg"
	"csgcore/internal/lexer"
	"csgcore/internal/shape"
)

func parseSource(t *testing.T, src string) *Parser {
	t.Helper()
	toks := lexer.NewScanner(src).ScanTokens()
	p := New(toks, "test.pov", nil)
	if _, err := p.Parse(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return p
}

func TestParseSingleSphere(t *testing.T) {
	p := parseSource(t, `sphere { <0,0,0>, 1 }`)
	if len(p.sc.Root) != 1 {
		t.Fatalf("expected 1 root object, got %d", len(p.sc.Root))
	}
	if _, ok := p.sc.Root[0].(*shape.Sphere); !ok {
		t.Fatalf("expected a *shape.Sphere, got %T", p.sc.Root[0])
	}
}

func TestParseUnionOfTwoSpheres(t *testing.T) {
	p := parseSource(t, `
		union {
			sphere { <-2,0,0>, 1 }
			sphere { <2,0,0>, 1 }
		}
		`)
	if len(p.sc.Root) != 1 {
		t.Fatalf("expected 1 root object, got %d", len(p.sc.Root))
	}
	n, ok := p.sc.Root[0].(*csg.Node)
	if !ok {
		t.Fatalf("expected a *csg.Node, got %T", p.sc.Root[0])
	}
	if n.Op != csg.OpUnion || len(n.Children) != 2 {
		t.Fatalf("expected a 2-child union, got op=%v children=%d", n.Op, len(n.Children))
	}
}

func TestParseDeclareAndReference(t *testing.T) {
	p := parseSource(t, `
		#declare R = 2.5;
		sphere { <0,0,0>, R }
		`)
	s := p.sc.Root[0].(*shape.Sphere)
	if s.Radius != 2.5 {
		t.Fatalf("expected radius 2.5 from declared identifier, got %v", s.Radius)
	}
}

func TestParseIfDirectiveTakesTrueBranch(t *testing.T) {
	p := parseSource(t, `
		#declare Flag = 1;
		#if (Flag)
		sphere { <0,0,0>, 1 }
		#else
		box { <0,0,0>, <1,1,1> }
		#end
		`)
	if len(p.sc.Root) != 1 {
		t.Fatalf("expected 1 root object, got %d", len(p.sc.Root))
	}
	if _, ok := p.sc.Root[0].(*shape.Sphere); !ok {
		t.Fatalf("expected the #if true-branch (sphere), got %T", p.sc.Root[0])
	}
}

func TestParseIfDirectiveTakesFalseBranch(t *testing.T) {
	p := parseSource(t, `
		#declare Flag = 0;
		#if (Flag)
		sphere { <0,0,0>, 1 }
		#else
		box { <0,0,0>, <1,1,1> }
		#end
		`)
	if _, ok := p.sc.Root[0].(*shape.Box); !ok {
		t.Fatalf("expected the #else branch (box), got %T", p.sc.Root[0])
	}
}

func TestParseWhileDirective(t *testing.T) {
	p := parseSource(t, `
		#declare I = 0;
		#while (I < 3)
		sphere { <I,0,0>, 1 }
		#declare I = I + 1;
		#end
		`)
	if len(p.sc.Root) != 3 {
		t.Fatalf("expected 3 root objects from the loop, got %d", len(p.sc.Root))
	}
}

func TestParseMacroEmitsObject(t *testing.T) {
	p := parseSource(t, `
		#macro Ball(x)
		sphere { <x,0,0>, 1 }
		#end
		Ball(5)
		`)
	if len(p.sc.Root) != 1 {
		t.Fatalf("expected 1 root object from the macro invocation, got %d", len(p.sc.Root))
	}
	s := p.sc.Root[0].(*shape.Sphere)
	if s.Center.X() != 5 {
		t.Fatalf("expected macro parameter to bind into the sphere center, got %v", s.Center)
	}
}

func TestParseObjectModifiersTranslate(t *testing.T) {
	p := parseSource(t, `sphere { <0,0,0>, 1 translate <1,2,3> }`)
	s := p.sc.Root[0].(*shape.Sphere)
	if s.Center.X() != 1 || s.Center.Y() != 2 || s.Center.Z() != 3 {
		t.Fatalf("expected translated center (1,2,3), got %v", s.Center)
	}
}

func TestParseCameraAndLight(t *testing.T) {
	p := parseSource(t, `
		camera {
			location <0,2,-5>
			look_at <0,0,0>
		}
		light_source { <10,10,-10> color rgb <1,1,1> }
		sphere { <0,0,0>, 1 }
		`)
	if p.sc.Camera.Location.Z() != -5 {
		t.Fatalf("expected camera location to be set, got %v", p.sc.Camera.Location)
	}
	if len(p.sc.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(p.sc.Lights))
	}
}
