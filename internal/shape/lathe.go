package shape

// Lathe revolves a 2D profile about the object-space Y axis exactly like
// SoR and shares its []SorSegment representation, so Lathe is a thin
// constructor over SoR rather than a separate type. The parser builds
// every lathe from straight segments between consecutive points; the
// spline-type keyword is accepted but does not change the fit, so
// quadratic, cubic and Bezier lathes are not curved.
func NewLathe(segments []SorSegment) *SoR {
	return NewSoR(segments)
}
