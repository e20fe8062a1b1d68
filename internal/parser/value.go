package parser

import "csgcore/internal/vecmath"

// Value is the result of evaluating a scene-language expression: either
// a scalar or a vector of up to 4 components (covers float, vector, uv,
// 4D vector, and color) — color and vector share the same 4-component
// representation here since shading/pigments are out of scope and color
// is never interpreted.
type Value struct {
	IsVector bool
	Num float64
	Vec [4]float64
	Dim int // number of meaningful components when IsVector
	Str string
	IsString bool
}

func scalar(n float64) Value { return Value{Num: n} }

func vector3(v vecmath.Vec3) Value {
	return Value{IsVector: true, Dim: 3, Vec: [4]float64{v.X(), v.Y(), v.Z(), 0}}
}

func vector4(v [4]float64) Value {
	return Value{IsVector: true, Dim: 4, Vec: v}
}

func (v Value) AsVec3() vecmath.Vec3 {
	if v.IsVector {
		return vecmath.Vec3{v.Vec[0], v.Vec[1], v.Vec[2]}
	}
	return vecmath.Vec3{v.Num, v.Num, v.Num}
}

func (v Value) AsFloat() float64 {
	if v.IsVector {
		return v.Vec[0]
	}
	return v.Num
}
