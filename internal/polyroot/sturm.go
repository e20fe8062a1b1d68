package polyroot

import "math"

// sturmSolve isolates and bisects every real root to RootTolerance using
// a Sturm sequence, the exact path taken when the Sturm flag is set.
// No third-party library provides Sturm sequences, so this is
// hand-rolled against the standard library only.

// poly is coefficients highest-degree-first, same convention as Solve.
type poly []float64

func (p poly) degree() int { return len(p) - 1 }

func (p poly) eval(x float64) float64 {
	v := 0.0
	for _, c := range p {
		v = v*x + c
	}
	return v
}

func (p poly) derivative() poly {
	n := p.degree()
	if n == 0 {
		return poly{0}
	}
	d := make(poly, n)
	for i, c := range p[:n] {
		d[i] = c * float64(n-i)
	}
	return d
}

// polyDivRemainder computes a mod b, the remainder of polynomial long
// division; sturmSequence negates it.
func polyDivRemainder(a, b poly) poly {
	rem := append(poly{}, a...)
	for len(rem) >= len(b) && !allZero(rem) {
		lead := rem[0] / b[0]
		for i, c := range b {
			rem[i] -= lead * c
		}
		rem = rem[1:]
	}
	for len(rem) > 1 && math.Abs(rem[0]) < 1e-13 {
		rem = rem[1:]
	}
	return rem
}

func allZero(p poly) bool {
	for _, c := range p {
		if math.Abs(c) > 1e-13 {
			return false
		}
	}
	return true
}

func negate(p poly) poly {
	out := make(poly, len(p))
	for i, c := range p {
		out[i] = -c
	}
	return out
}

// sturmSequence builds p0=p, p1=p', p_{i+1} = -(p_{i-1} mod p_i), stopping
// at a constant (or zero) remainder.
func sturmSequence(p poly) []poly {
	seq := []poly{p, p.derivative()}
	for {
		prev, cur := seq[len(seq)-2], seq[len(seq)-1]
		if allZero(cur) {
			break
		}
		rem := negate(polyDivRemainder(prev, cur))
		seq = append(seq, rem)
		if len(rem) == 1 {
			break
		}
	}
	return seq
}

// signChanges counts sign changes in the Sturm sequence evaluated at x;
// the difference between the counts at a and b is the number of
// distinct real roots in (a,b].
func signChanges(seq []poly, x float64) int {
	changes := 0
	lastSign := 0
	for _, p := range seq {
		v := p.eval(x)
		if math.Abs(v) < 1e-13 {
			continue
		}
		s := 1
		if v < 0 {
			s = -1
		}
		if lastSign != 0 && s != lastSign {
			changes++
		}
		lastSign = s
	}
	return changes
}

// rootBound returns a value guaranteed to exceed the magnitude of every
// real root (Cauchy's bound).
func rootBound(p poly) float64 {
	lead := math.Abs(p[0])
	if lead < 1e-15 {
		lead = 1e-15
	}
	max := 0.0
	for _, c := range p[1:] {
		if a := math.Abs(c) / lead; a > max {
			max = a
		}
	}
	return 1 + max
}

func sturmSolve(c []float64) []float64 {
	p := poly(c)
	if p.degree() < 1 {
		return nil
	}
	seq := sturmSequence(p)
	bound := rootBound(p)

	var intervals [][2]float64
	var bisect func(lo, hi float64, lowCount, highCount int)
	bisect = func(lo, hi float64, lowCount, highCount int) {
		count := lowCount - highCount
		if count <= 0 {
			return
		}
		if count == 1 {
			intervals = append(intervals, [2]float64{lo, hi})
			return
		}
		mid := (lo + hi) / 2
		if hi-lo < 1e-13 {
			// Collapsed roots too close to separate further; treat as one.
			intervals = append(intervals, [2]float64{lo, hi})
			return
		}
		midCount := signChanges(seq, mid)
		bisect(lo, mid, lowCount, midCount)
		bisect(mid, hi, midCount, highCount)
	}

	loCount := signChanges(seq, -bound)
	hiCount := signChanges(seq, bound)
	bisect(-bound, bound, loCount, hiCount)

	roots := make([]float64, 0, len(intervals))
	for _, iv := range intervals {
		roots = append(roots, bisectRefine(p, iv[0], iv[1]))
	}
	return roots
}

// bisectRefine narrows [lo,hi], known to contain exactly one root, to
// RootTolerance using sign-based bisection, falling back to the midpoint
// after MaxIter (solver failure is "no intersection", never
// an abort — but here we already know a root exists, so degrade
// gracefully to the best estimate instead of dropping it).
func bisectRefine(p poly, lo, hi float64) float64 {
	flo := p.eval(lo)
	for i := 0; i < MaxIter && hi-lo > RootTolerance; i++ {
		mid := (lo + hi) / 2
		fmid := p.eval(mid)
		if fmid == 0 {
			return mid
		}
		if (fmid < 0) == (flo < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
