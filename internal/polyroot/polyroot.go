// Package polyroot is the shared numeric kernel behind every primitive
// that reduces ray intersection to polynomial root finding: Torus,
// Poly, Blob, SoR segments, Prism Bezier segments, and Lathe.
// One Solve entry point serves all of them.
package polyroot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// RootTolerance: roots within this distance of each other collapse to
// one.
const RootTolerance = 1e-9

// MaxIter bounds bisection refinement; exceeding it means "no
// intersection in this interval", never an abort.
const MaxIter = 100

// Solve finds the real roots of the polynomial with coefficients coeff,
// highest degree first (coeff[0] is the leading coefficient), in
// ascending order. sturm selects exact Sturm-sequence isolation;
// otherwise a faster path is used (closed-form for degree <= 4,
// companion-matrix eigenvalues above that). Leading zero coefficients
// are stripped first.
func Solve(coeff []float64, sturm bool) []float64 {
	c := stripLeadingZeros(coeff)
	n := len(c) - 1
	if n < 1 {
		return nil
	}
	var roots []float64
	switch {
	case sturm:
		roots = sturmSolve(c)
	case n == 1:
		roots = solveLinear(c)
	case n == 2:
		roots = solveQuadratic(c)
	case n == 3:
		roots = solveCubic(c)
	case n == 4:
		roots = solveQuartic(c)
	default:
		roots = companionSolve(c)
	}
	return collapse(roots)
}

func stripLeadingZeros(coeff []float64) []float64 {
	i := 0
	for i < len(coeff)-1 && math.Abs(coeff[i]) < 1e-15 {
		i++
	}
	return coeff[i:]
}

func collapse(roots []float64) []float64 {
	if len(roots) == 0 {
		return roots
	}
	sort.Float64s(roots)
	out := roots[:1]
	for _, r := range roots[1:] {
		if r-out[len(out)-1] > RootTolerance {
			out = append(out, r)
		}
	}
	return out
}

func solveLinear(c []float64) []float64 {
	if c[0] == 0 {
		return nil
	}
	return []float64{-c[1] / c[0]}
}

func solveQuadratic(c []float64) []float64 {
	a, b, cc := c[0], c[1], c[2]
	if math.Abs(a) < 1e-15 {
		return solveLinear(c[1:])
	}
	disc := b*b - 4*a*cc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}

// solveCubic uses Cardano's method.
func solveCubic(c []float64) []float64 {
	if math.Abs(c[0]) < 1e-15 {
		return solveQuadratic(c[1:])
	}
	a, b, cc, d := c[0], c[1], c[2], c[3]
	b /= a
	cc /= a
	d /= a

	p := cc - b*b/3
	q := 2*b*b*b/27 - b*cc/3 + d

	if math.Abs(p) < 1e-12 && math.Abs(q) < 1e-12 {
		return []float64{-b / 3}
	}

	disc := q*q/4 + p*p*p/27
	shift := -b / 3
	var roots []float64
	switch {
	case disc > 1e-12:
		sq := math.Sqrt(disc)
		u := cbrt(-q/2 + sq)
		v := cbrt(-q/2 - sq)
		roots = []float64{u + v + shift}
	case disc < -1e-12:
		r := math.Sqrt(-p * p * p / 27)
		phi := math.Acos(clamp(-q/(2*r), -1, 1))
		m := 2 * math.Sqrt(-p/3)
		roots = []float64{
			m*math.Cos(phi/3) + shift,
			m*math.Cos((phi+2*math.Pi)/3) + shift,
			m*math.Cos((phi+4*math.Pi)/3) + shift,
		}
	default:
		u := cbrt(-q / 2)
		roots = []float64{2*u + shift, -u + shift}
	}
	return roots
}

func cbrt(x float64) float64 {
	if x < 0 {
		return -math.Cbrt(-x)
	}
	return math.Cbrt(x)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// solveQuartic uses Ferrari's method, reducing to a resolvent cubic.
func solveQuartic(c []float64) []float64 {
	if math.Abs(c[0]) < 1e-15 {
		return solveCubic(c[1:])
	}
	a, b, cc, d, e := c[0], c[1], c[2], c[3], c[4]
	b /= a
	cc /= a
	d /= a
	e /= a

	p := cc - 3*b*b/8
	q := d - b*cc/2 + b*b*b/8
	r := e - b*d/4 + b*b*cc/16 - 3*b*b*b*b/256
	shift := -b / 4

	if math.Abs(q) < 1e-12 {
		// biquadratic: y^4 + p y^2 + r = 0
		ys := solveQuadratic([]float64{1, p, r})
		var roots []float64
		for _, y2 := range ys {
			if y2 < -1e-9 {
				continue
			}
			if y2 < 0 {
				y2 = 0
			}
			y := math.Sqrt(y2)
			roots = append(roots, y+shift, -y+shift)
		}
		return roots
	}

	// resolvent cubic: 8y^3 + 8p y^2 + (2p^2 - 8r) y - q^2 = 0
	resolvent := solveCubic([]float64{8, 8 * p, 2*p*p - 8*r, -q * q})
	if len(resolvent) == 0 {
		return nil
	}
	y := resolvent[0]
	for _, cand := range resolvent {
		if cand > y {
			y = cand
		}
	}

	radIn := 2*y - p
	if radIn < 0 {
		radIn = 0
	}
	rr := math.Sqrt(radIn)
	var roots []float64
	if rr > 1e-12 {
		s1 := (-2*p - 2*y + 2*q/rr) / 4
		s2 := (-2*p - 2*y - 2*q/rr) / 4
		if s1 >= -1e-9 {
			if s1 < 0 {
				s1 = 0
			}
			sq := math.Sqrt(s1)
			roots = append(roots, rr/2+sq+shift, rr/2-sq+shift)
		}
		if s2 >= -1e-9 {
			if s2 < 0 {
				s2 = 0
			}
			sq := math.Sqrt(s2)
			roots = append(roots, -rr/2+sq+shift, -rr/2-sq+shift)
		}
	}
	return roots
}

// companionSolve finds real roots of degree >= 5 polynomials via the
// companion matrix's eigenvalues (gonum mat.Eigen): the fast, non-Sturm
// path for high-degree Poly/Blob/SoR-segment solves.
func companionSolve(c []float64) []float64 {
	n := len(c) - 1
	lead := c[0]
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		if i > 0 {
			m.Set(i, i-1, 1)
		}
		m.Set(i, n-1, -c[n-i]/lead)
	}
	var eig mat.Eigen
	if !eig.Factorize(m, mat.EigenNone) {
		return nil // numerical failure: "no intersection in this interval"
	}
	vals := eig.Values(nil)
	var roots []float64
	for _, v := range vals {
		if math.Abs(imag(v)) < 1e-7 {
			roots = append(roots, real(v))
		}
	}
	return roots
}
