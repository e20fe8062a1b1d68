package symtab

import "testing"

func TestDeclareGoesToOutermostScope(t *testing.T) {
	tbl := New()
	tbl.PushScope()
	if err := tbl.Declare("x", KindFloat, 1.0); err != nil {
		t.Fatal(err)
	}
	tbl.PopScope()
	e, ok := tbl.Lookup("x")
	if !ok {
		t.Fatal("expected #declare'd identifier to survive popping the scope it was declared under")
	}
	if e.Value.(float64) != 1.0 {
		t.Fatalf("got %v, want 1.0", e.Value)
	}
}

func TestLocalScopedToCurrentFrame(t *testing.T) {
	tbl := New()
	tbl.PushScope()
	if err := tbl.Local("y", KindFloat, 2.0); err != nil {
		t.Fatal(err)
	}
	tbl.PopScope()
	if _, ok := tbl.Lookup("y"); ok {
		t.Fatal("expected #local identifier to be gone once its scope pops")
	}
}

func TestCrossKindRedefinitionErrors(t *testing.T) {
	tbl := New()
	if err := tbl.Declare("z", KindFloat, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Declare("z", KindVector, [3]float64{}); err == nil {
		t.Fatal("expected cross-Kind redefinition of the same name to error")
	}
}

func TestSameKindRedefinitionReplacesAndDestroys(t *testing.T) {
	tbl := New()
	first := &destroyable{}
	if err := tbl.Declare("obj", KindObject, first); err != nil {
		t.Fatal(err)
	}
	second := &destroyable{}
	if err := tbl.Declare("obj", KindObject, second); err != nil {
		t.Fatal(err)
	}
	if !first.destroyed {
		t.Error("expected the old value to be destroyed on same-Kind redefinition")
	}
	e, _ := tbl.Lookup("obj")
	if e.Value.(*destroyable) != second {
		t.Error("expected the new value to replace the old one")
	}
}

type destroyable struct{ destroyed bool }

func (d *destroyable) Destroy() { d.destroyed = true }

func TestLookupInnermostFirst(t *testing.T) {
	tbl := New()
	tbl.Declare("v", KindFloat, 1.0)
	tbl.PushScope()
	tbl.Local("v", KindFloat, 2.0)
	e, _ := tbl.Lookup("v")
	if e.Value.(float64) != 2.0 {
		t.Fatalf("expected innermost binding 2.0, got %v", e.Value)
	}
	tbl.PopScope()
	e, _ = tbl.Lookup("v")
	if e.Value.(float64) != 1.0 {
		t.Fatalf("expected outer binding 1.0 after popping, got %v", e.Value)
	}
}
