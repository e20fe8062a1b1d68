// Package vecmath provides the double-precision vector and matrix types
// shared by every package in the core. It wraps mgl64 rather than
// reinventing vector algebra, the way the repo reaches for a
// dedicated library instead of hand-rolling one for any well-trodden
// concern.
package vecmath

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is a point or direction in object or world space.
type Vec3 = mgl64.Vec3

// Vec4 is a homogeneous point or direction (w = 1 or 0); it is not used
// for colors.
type Vec4 = mgl64.Vec4

// Mat4 is a 4x4 affine matrix in mgl64's column-major convention,
// multiplied onto column vectors.
type Mat4 = mgl64.Mat4

const Epsilon = 1e-10

// NearZero reports whether a float is within Epsilon of zero.
func NearZero(f float64) bool {
	return f > -Epsilon && f < Epsilon
}

// SafeNormalize normalizes v, falling back to +X for a degenerate
// (near-zero-length) vector instead of propagating NaN, matching the
// "zero-length results fall back to +X" contract on primitive normals.
func SafeNormalize(v Vec3) Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Vec3{1, 0, 0}
	}
	return v.Mul(1.0 / l)
}
