package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform holds a forward matrix and its precomputed inverse; composing
// two transforms multiplies both.
type Transform struct {
	Forward Mat4
	Inverse Mat4
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Forward: mgl64.Ident4(), Inverse: mgl64.Ident4()}
}

// Translate builds a translation transform.
func Translate(v Vec3) Transform {
	return Transform{
		Forward: mgl64.Translate3D(v.X(), v.Y(), v.Z()),
		Inverse: mgl64.Translate3D(-v.X(), -v.Y(), -v.Z()),
	}
}

// Scale builds a non-uniform scale transform. Zero components are not
// checked; the inverse then holds infinite entries.
func Scale(v Vec3) Transform {
	fwd := mgl64.Scale3D(v.X(), v.Y(), v.Z())
	inv := mgl64.Scale3D(1/v.X(), 1/v.Y(), 1/v.Z())
	return Transform{Forward: fwd, Inverse: inv}
}

// RotateDegrees builds a rotation transform from a POV-style rotate
// vector: independent rotations about X, Y, Z in degrees, applied in
// X-then-Y-then-Z order (matching the source renderer's convention).
func RotateDegrees(v Vec3) Transform {
	rx := mgl64.HomogRotate3DX(mgl64.DegToRad(v.X()))
	ry := mgl64.HomogRotate3DY(mgl64.DegToRad(v.Y()))
	rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(v.Z()))
	fwd := rz.Mul4(ry).Mul4(rx)
	inv := fwd.Transpose() // rotation matrices are orthonormal
	return Transform{Forward: fwd, Inverse: inv}
}

// AlignY builds a rotation transform mapping the object-space Y axis
// onto dir, used to reorient the axis-aligned cone and cylinder that the
// scene language specifies by two endpoint vectors rather than by a
// rotate.
func AlignY(dir Vec3) Transform {
	d := SafeNormalize(dir)
	y := Vec3{0, 1, 0}
	c := y.Dot(d)
	if c > 1-1e-12 {
		return Identity()
	}
	if c < -1+1e-12 {
		return RotateDegrees(Vec3{180, 0, 0})
	}
	axis := SafeNormalize(y.Cross(d))
	fwd := mgl64.HomogRotate3D(math.Acos(c), mgl64.Vec3{axis.X(), axis.Y(), axis.Z()})
	return Transform{Forward: fwd, Inverse: fwd.Transpose()}
}

// Compose returns the transform that applies t first, then other:
// equivalent to the source's "transform composition multiplies both"
// forward and inverse matrices.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		Forward: other.Forward.Mul4(t.Forward),
		Inverse: t.Inverse.Mul4(other.Inverse),
	}
}

// InvTranspose returns the inverse-transpose of Forward, used to carry
// normals through a transform.
func (t Transform) InvTranspose() Mat4 {
	return t.Inverse.Transpose()
}

// PointForward maps a world-space point into object space (uses Inverse:
// ray/shape intersection moves the ray into object space to test it).
func (t Transform) PointForward(p Vec3) Vec3 {
	return mulPoint(t.Inverse, p)
}

// PointBackward maps an object-space point back into world space.
func (t Transform) PointBackward(p Vec3) Vec3 {
	return mulPoint(t.Forward, p)
}

// DirForward maps a direction into object space without translation.
func (t Transform) DirForward(d Vec3) Vec3 {
	return mulDir(t.Inverse, d)
}

// DirBackward maps a direction from object space to world space.
func (t Transform) DirBackward(d Vec3) Vec3 {
	return mulDir(t.Forward, d)
}

// NormalBackward maps an object-space normal to world space via the
// inverse-transpose, then re-normalizes .
func (t Transform) NormalBackward(n Vec3) Vec3 {
	it := t.InvTranspose()
	return SafeNormalize(mulDir(it, n))
}

func mulPoint(m Mat4, p Vec3) Vec3 {
	v4 := m.Mul4x1(p.Vec4(1))
	return v4.Vec3()
}

func mulDir(m Mat4, d Vec3) Vec3 {
	v4 := m.Mul4x1(d.Vec4(0))
	return v4.Vec3()
}
