package shape

import (
	"csgcore/internal/polyroot"
	"csgcore/internal/vecmath"
)

// Term is one coefficient of a trivariate polynomial: coeff * x^Ex *
// y^Ey * z^Ez, total degree n in 2..7.
type Term struct {
	Ex, Ey, Ez int
	Coeff float64
}

// Poly is the general polynomial primitive. Intersection substitutes the
// ray into the polynomial and reduces to a univariate polynomial of the
// same total degree, solved by the shared polyroot
// module.
type Poly struct {
	Base
	Order int
	Terms []Term
	Transform vecmath.Transform
}

func NewPoly(order int, terms []Term) *Poly {
	p := &Poly{Order: order, Terms: terms, Transform: vecmath.Identity()}
	p.AABB = vecmath.Infinite() // unbounded until clipped
	return p
}

// binomPow returns the ascending-degree coefficients of (o + d*t)^e.
func binomPow(o, d float64, e int) []float64 {
	out := make([]float64, e+1)
	binom := 1.0
	for k := 0; k <= e; k++ {
		out[k] = binom * pow(o, e-k) * pow(d, k)
		binom = binom * float64(e-k) / float64(k+1)
	}
	return out
}

func pow(base float64, e int) float64 {
	r := 1.0
	for i := 0; i < e; i++ {
		r *= base
	}
	return r
}

// convolve multiplies two ascending-degree coefficient slices.
func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// substitute returns the ascending-degree coefficients of the univariate
// polynomial f(ray(t)) for this polynomial's terms.
func (p *Poly) substitute(ro, rd vecmath.Vec3) []float64 {
	acc := make([]float64, p.Order+1)
	for _, term := range p.Terms {
		cx := binomPow(ro.X(), rd.X(), term.Ex)
		cy := binomPow(ro.Y(), rd.Y(), term.Ey)
		cz := binomPow(ro.Z(), rd.Z(), term.Ez)
		prod := convolve(convolve(cx, cy), cz)
		for k, v := range prod {
			acc[k] += term.Coeff * v
		}
	}
	return acc
}

func reverseCoeffs(ascending []float64) []float64 {
	n := len(ascending)
	out := make([]float64, n)
	for i, v := range ascending {
		out[n-1-i] = v
	}
	return out
}

func (p *Poly) eval(pt vecmath.Vec3) float64 {
	v := 0.0
	x, y, z := pt.X(), pt.Y(), pt.Z()
	for _, term := range p.Terms {
		v += term.Coeff * pow(x, term.Ex) * pow(y, term.Ey) * pow(z, term.Ez)
	}
	return v
}

func (p *Poly) gradient(pt vecmath.Vec3) vecmath.Vec3 {
	x, y, z := pt.X(), pt.Y(), pt.Z()
	var gx, gy, gz float64
	for _, term := range p.Terms {
		if term.Ex > 0 {
			gx += term.Coeff * float64(term.Ex) * pow(x, term.Ex-1) * pow(y, term.Ey) * pow(z, term.Ez)
		}
		if term.Ey > 0 {
			gy += term.Coeff * pow(x, term.Ex) * float64(term.Ey) * pow(y, term.Ey-1) * pow(z, term.Ez)
		}
		if term.Ez > 0 {
			gz += term.Coeff * pow(x, term.Ex) * pow(y, term.Ey) * float64(term.Ez) * pow(z, term.Ez-1)
		}
	}
	return vecmath.Vec3{gx, gy, gz}
}

func (p *Poly) AllIntersections(ray Ray, stack *IStack) {
	ro := p.Transform.PointForward(ray.Origin)
	rd := p.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()

	ascending := p.substitute(ro, rd)
	coeffs := reverseCoeffs(ascending)
	roots := polyroot.Solve(coeffs, p.Has(Sturm))
	for _, t := range roots {
		wt := t * scale
		if wt <= DepthTol {
			continue
		}
		hit := ray.At(wt)
		if !p.ClipContains(hit) {
			continue
		}
		stack.Push(Intersection{Depth: wt, Point: hit, Shape: p})
	}
}

func (p *Poly) Inside(pt vecmath.Vec3) bool {
	op := p.Transform.PointForward(pt)
	raw := p.eval(op) < 0
	return p.PublicInside(raw)
}

func (p *Poly) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := p.Transform.PointForward(hit)
	return p.Transform.NormalBackward(p.gradient(op))
}

func (p *Poly) ApplyTransform(t vecmath.Transform) {
	p.Transform = p.Transform.Compose(t)
}

func (p *Poly) Invert() { p.ToggleInverted() }

func (p *Poly) Copy() Shape {
	np := *p
	np.Base = p.CopyBase()
	np.Terms = append([]Term(nil), p.Terms...)
	return &np
}

func (p *Poly) Destroy() {}
