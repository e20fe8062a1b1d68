package shape

import (
	"math"

	"csgcore/internal/vecmath"
)

// quat is a minimal quaternion for the Julia-set iteration; mgl64 does
// not export one, and the iteration below needs only multiply/add/norm.
type quat struct{ W, X, Y, Z float64 }

func (q quat) add(o quat) quat {
	return quat{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z}
}

func (q quat) mul(o quat) quat {
	return quat{
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q quat) norm2() float64 { return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z }

// Fractal: a quaternion Julia set, rendered by
// sphere tracing a distance estimate derived from the escape-time
// iteration z -> z^2 + c (the exponent-2 case; higher exponents follow
// the same derivative-chain-rule DE and are a straightforward
// extension not needed by the default catalog entry).
type Fractal struct {
	Base
	C quat
	MaxIter int
	Bailout float64
	BoundRadius float64
	Transform vecmath.Transform
}

func NewFractal(c [4]float64, maxIter int, bailout, boundRadius float64) *Fractal {
	f := &Fractal{
		C: quat{c[0], c[1], c[2], c[3]},
		MaxIter: maxIter,
		Bailout: bailout,
		BoundRadius: boundRadius,
		Transform: vecmath.Identity(),
	}
	r := boundRadius
	f.AABB = vecmath.BBox{Min: vecmath.Vec3{-r, -r, -r}, Max: vecmath.Vec3{r, r, r}}
	return f
}

// distanceEstimate runs the escape-time iteration with running
// derivative magnitude, returning the standard DE = 0.5*|z|*log|z|/|z'|
// bound on distance to the set boundary (0 if the point never escapes
// within MaxIter, meaning it is considered inside).
func (f *Fractal) distanceEstimate(p vecmath.Vec3) (float64, bool) {
	z := quat{0, p.X(), p.Y(), p.Z()}
	dz := quat{1, 0, 0, 0}
	bailout2 := f.Bailout * f.Bailout
	for i := 0; i < f.MaxIter; i++ {
		// d/dz(z^2+c) = 2z, applied to the running derivative.
		dz = quat{2 * (z.W*dz.W - z.X*dz.X - z.Y*dz.Y - z.Z*dz.Z),
			2 * (z.W*dz.X + z.X*dz.W),
			2 * (z.W*dz.Y + z.Y*dz.W),
			2 * (z.W*dz.Z + z.Z*dz.W)}
		z = z.mul(z).add(f.C)
		if z.norm2() > bailout2 {
			r := math.Sqrt(z.norm2())
			dr := math.Sqrt(dz.norm2())
			if dr < vecmath.Epsilon {
				dr = vecmath.Epsilon
			}
			return 0.5 * r * math.Log(r) / dr, true
		}
	}
	return 0, false
}

func (f *Fractal) AllIntersections(ray Ray, stack *IStack) {
	ro := f.Transform.PointForward(ray.Origin)
	rd := f.Transform.DirForward(ray.Dir)
	scale := ray.Dir.Len() / rd.Len()
	dlen := rd.Len()
	dirN := rd.Mul(1 / dlen)

	tMin, tMax, ok := boundingSphereRange(ro, dirN, f.BoundRadius)
	if !ok {
		return
	}
	t := math.Max(tMin, 0)
	const minStep = 1e-5
	for iter := 0; iter < 500 && t < tMax; iter++ {
		p := vecmath.Vec3{ro.X() + t*dirN.X(), ro.Y() + t*dirN.Y(), ro.Z() + t*dirN.Z()}
		de, escaped := f.distanceEstimate(p)
		if !escaped {
			break
		}
		if de < minStep {
			wt := (t / dlen) * scale
			if wt <= DepthTol {
				return
			}
			hit := ray.At(wt)
			if f.ClipContains(hit) {
				stack.Push(Intersection{Depth: wt, Point: hit, Shape: f})
			}
			return
		}
		t += de
	}
}

func boundingSphereRange(ro, dirN vecmath.Vec3, r float64) (float64, float64, bool) {
	b := ro.Dot(dirN)
	c := ro.Dot(ro) - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return -b - sq, -b + sq, true
}

func (f *Fractal) Inside(p vecmath.Vec3) bool {
	op := f.Transform.PointForward(p)
	_, escaped := f.distanceEstimate(op)
	return f.PublicInside(!escaped)
}

func (f *Fractal) Normal(hit vecmath.Vec3, rec Intersection) vecmath.Vec3 {
	op := f.Transform.PointForward(hit)
	const h = 1e-5
	de := func(p vecmath.Vec3) float64 {
		d, _ := f.distanceEstimate(p)
		return d
	}
	gx := de(op.Add(vecmath.Vec3{h, 0, 0})) - de(op.Sub(vecmath.Vec3{h, 0, 0}))
	gy := de(op.Add(vecmath.Vec3{0, h, 0})) - de(op.Sub(vecmath.Vec3{0, h, 0}))
	gz := de(op.Add(vecmath.Vec3{0, 0, h})) - de(op.Sub(vecmath.Vec3{0, 0, h}))
	return f.Transform.NormalBackward(vecmath.SafeNormalize(vecmath.Vec3{gx, gy, gz}))
}

func (f *Fractal) ApplyTransform(t vecmath.Transform) {
	f.Transform = f.Transform.Compose(t)
	r := f.BoundRadius
	f.AABB = vecmath.BBox{Min: vecmath.Vec3{-r, -r, -r}, Max: vecmath.Vec3{r, r, r}}.Transformed(f.Transform)
}

func (f *Fractal) Invert() { f.ToggleInverted() }

func (f *Fractal) Copy() Shape {
	nf := *f
	nf.Base = f.CopyBase()
	return &nf
}

func (f *Fractal) Destroy() {}
