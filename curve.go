package strata

import "github.com/tanema/gween/ease"

// CurveFunc maps normalized progress [0, 1] to eased progress [0, 1].
// Used with CurveCustom.
type CurveFunc func(progress float64) float64

// Curve selects an easing curve from the built-in catalog. The zero value is
// CurveEaseInOut, the default for animations that never set a curve.
type Curve uint8

const (
	CurveEaseInOut Curve = iota // slow start and end (default)
	CurveEaseIn                 // slow start
	CurveEaseOut                // slow end
	CurveLinear                 // constant rate
	CurveCustom                 // Animation.CustomCurve supplies the function
)

// Ease applies the curve to normalized progress. CurveCustom falls back to
// linear here; animations resolve their custom function before calling.
func (c Curve) Ease(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	var fn ease.TweenFunc
	switch c {
	case CurveEaseIn:
		fn = ease.InQuad
	case CurveEaseOut:
		fn = ease.OutQuad
	case CurveEaseInOut:
		fn = ease.InOutQuad
	default:
		return p
	}
	return float64(fn(float32(p), 0, 1, 1))
}
