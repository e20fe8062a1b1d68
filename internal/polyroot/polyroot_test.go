package polyroot

import (
	"math"
	"testing"
)

func approxContains(t *testing.T, roots []float64, want float64, tol float64) {
	t.Helper()
	for _, r := range roots {
		if math.Abs(r-want) < tol {
			return
		}
	}
	t.Errorf("roots %v do not contain expected root %v", roots, want)
}

func TestSolveQuadratic(t *testing.T) {
	// x^2 - 5x + 6 = (x-2)(x-3)
	roots := Solve([]float64{1, -5, 6}, false)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %v", roots)
	}
	approxContains(t, roots, 2, 1e-6)
	approxContains(t, roots, 3, 1e-6)
}

func TestSolveCubic(t *testing.T) {
	// (x-1)(x-2)(x-3) = x^3 -6x^2+11x-6
	roots := Solve([]float64{1, -6, 11, -6}, false)
	if len(roots) != 3 {
		t.Fatalf("expected 3 roots, got %v", roots)
	}
	for _, want := range []float64{1, 2, 3} {
		approxContains(t, roots, want, 1e-5)
	}
}

func TestSolveQuartic(t *testing.T) {
	// (x-1)(x-2)(x-3)(x-4)
	roots := Solve([]float64{1, -10, 35, -50, 24}, false)
	if len(roots) != 4 {
		t.Fatalf("expected 4 roots, got %v", roots)
	}
	for _, want := range []float64{1, 2, 3, 4} {
		approxContains(t, roots, want, 1e-4)
	}
}

func TestSturmMatchesClosedForm(t *testing.T) {
	coeff := []float64{1, -6, 11, -6}
	closed := Solve(coeff, false)
	sturm := Solve(coeff, true)
	if len(closed) != len(sturm) {
		t.Fatalf("root count mismatch: closed=%v sturm=%v", closed, sturm)
	}
	for _, r := range closed {
		approxContains(t, sturm, r, 1e-6)
	}
}

func TestCompanionSolveHighDegree(t *testing.T) {
	// (x-1)(x-2)(x-3)(x-4)(x-5) degree 5, uses companion-matrix path
	coeff := []float64{1, -15, 85, -225, 274, -120}
	roots := Solve(coeff, false)
	for _, want := range []float64{1, 2, 3, 4, 5} {
		approxContains(t, roots, want, 1e-3)
	}
}

func TestNoRealRoots(t *testing.T) {
	// x^2 + 1 has no real roots
	roots := Solve([]float64{1, 0, 1}, false)
	if len(roots) != 0 {
		t.Fatalf("expected no real roots, got %v", roots)
	}
}
