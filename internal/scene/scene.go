// Package scene is the renderer-facing output of the parser: the root
// object list, light list, camera, and global settings that an
// external renderer consumes.
package scene

import (
	"csgcore/internal/shape"
	"csgcore/internal/vecmath"
)

// CameraKind enumerates the supported camera projections: perspective,
// orthographic, fisheye, ultra_wide_angle, omnimax, panoramic, and
// cylinder (with four sub-types).
type CameraKind int

const (
	Perspective CameraKind = iota
	Orthographic
	Fisheye
	UltraWideAngle
	Omnimax
	Panoramic
	Cylinder
)

// Camera stores the full set of attributes: location, direction, up,
// right, sky, look_at, angle, aperture, blur_samples, focal_point,
// variance, confidence, and normal perturbation.
type Camera struct {
	Kind CameraKind
	CylinderType int // 1..4, meaningful only when Kind == Cylinder

	Location, Direction, Up, Right, Sky vecmath.Vec3

	Angle float64
	Aperture float64
	BlurSamples int
	FocalPoint vecmath.Vec3
	Variance float64
	Confidence float64
	NormalPerturbation bool
}

func NewCamera() *Camera {
	return &Camera{
		Direction: vecmath.Vec3{0, 0, 1},
		Up: vecmath.Vec3{0, 1, 0},
		Right: vecmath.Vec3{1, 0, 0},
		Sky: vecmath.Vec3{0, 1, 0},
		Angle: 90,
		Confidence: 0.9,
		Variance: 1.0 / 128,
	}
}

// LookAt rebuilds Direction, Right, and Up from a look_at target and the
// camera's Sky vector, preserving the handedness of the existing
// Right/Up/Direction frame, measured before the assignment.
func (c *Camera) LookAt(target vecmath.Vec3) {
	handedness := 1.0
	if h := c.Right.Dot(c.Up.Cross(c.Direction)); h < 0 {
		handedness = -1.0
	}

	newDir := target.Sub(c.Location)
	if newDir.Len() < vecmath.Epsilon {
		return
	}
	newDir = vecmath.SafeNormalize(newDir)

	newRight := c.Sky.Cross(newDir)
	if newRight.Len() < vecmath.Epsilon {
		newRight = vecmath.Vec3{1, 0, 0}
	} else {
		newRight = vecmath.SafeNormalize(newRight)
	}
	newUp := vecmath.SafeNormalize(newDir.Cross(newRight))

	if h := newRight.Dot(newUp.Cross(newDir)); (h < 0) != (handedness < 0) {
		newRight = newRight.Mul(-1)
	}

	c.Direction, c.Right, c.Up = newDir, newRight, newUp
}

// AreaLight describes an area light's sample grid: two axes and two
// grid counts defining a 2D grid of sample points.
type AreaLight struct {
	Axis1, Axis2 vecmath.Vec3
	Size1, Size2 int
	Jitter bool
	Adaptive int
	Orient bool
}

// Light is a light source, parsed as an object with its own set of
// special modifiers.
type Light struct {
	Location vecmath.Vec3

	FillLight bool
	Spotlight bool
	Cylinder bool

	PointAt vecmath.Vec3
	Radius float64 // cosine after parsing
	Falloff float64 // cosine after parsing
	Tightness float64

	FadeDistance float64
	FadePower float64

	Area *AreaLight

	// LooksLike attaches a display shape to the light; its presence
	// forces NO_SHADOW on that shape.
	LooksLike shape.Shape

	MediaInteraction bool
	MediaAttenuation bool
}

// OpaqueBlock stores a parsed-but-uninterpreted block (fog, rainbow,
// sky_sphere, radiosity, photons): lighting, shadows, shading, and
// atmospheric/radiosity effects stay external, so these blocks are
// retained as raw key/value data for the renderer to interpret, never
// evaluated here.
type OpaqueBlock struct {
	Kind string
	Raw map[string]float64
}

// GlobalSettings is the sole configuration surface: a single top-level
// global_settings{} block. Defaults mirror the source renderer's
// documented defaults.
type GlobalSettings struct {
	AssumedGamma float64
	AmbientLight vecmath.Vec3
	MaxTraceLevel int
	MaxIntersections int
	AdcBailout float64
	NumberOfWaves int
	IridWavelengths vecmath.Vec3
	Radiosity *OpaqueBlock
	Photons *OpaqueBlock
	HFGray16 bool
}

func NewGlobalSettings() GlobalSettings {
	return GlobalSettings{
		AssumedGamma: 1.0,
		AmbientLight: vecmath.Vec3{1, 1, 1},
		MaxTraceLevel: 5,
		MaxIntersections: 64,
		AdcBailout: 1.0 / 255,
		NumberOfWaves: 10,
	}
}

// Scene is the renderer-facing struct: root object list, light list,
// camera, global settings, and the opaque atmosphere blocks.
type Scene struct {
	Root []shape.Shape
	Lights []*Light
	Camera *Camera
	Global GlobalSettings

	Fog []OpaqueBlock
	Rainbow []OpaqueBlock
	SkySphere []OpaqueBlock
}

func New() *Scene {
	return &Scene{Camera: NewCamera(), Global: NewGlobalSettings()}
}
