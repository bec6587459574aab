package strata

import (
	"math"
	"time"
)

// Fixed is a 16.16 fixed-point value, the sub-pixel value shape for property
// animations on integer-pixel displays.
type Fixed int32

// FixedFromFloat converts a float to 16.16 fixed point.
func FixedFromFloat(f float64) Fixed {
	return Fixed(math.Round(f * 65536))
}

// FixedFromInt converts an integer to 16.16 fixed point.
func FixedFromInt(i int) Fixed {
	return Fixed(i) << 16
}

// Float converts back to a float64.
func (f Fixed) Float() float64 {
	return float64(f) / 65536
}

// Round returns the nearest integer.
func (f Fixed) Round() int {
	return int(math.Round(f.Float()))
}

// LerpFunc interpolates between two values of the same shape at the given
// eased progress. Progress may lie outside [0, 1] for overshooting custom
// curves; lerp implementations extrapolate linearly.
type LerpFunc[T any] func(from, to T, progress float64) T

// LerpFloat interpolates a float64.
func LerpFloat(from, to float64, p float64) float64 {
	return from + (to-from)*p
}

// LerpInt interpolates an int, rounding to nearest.
func LerpInt(from, to int, p float64) int {
	return from + int(math.Round(float64(to-from)*p))
}

// LerpFixed interpolates a 16.16 fixed-point value.
func LerpFixed(from, to Fixed, p float64) Fixed {
	return from + Fixed(math.Round(float64(to-from)*p))
}

// LerpPoint interpolates each coordinate of a point.
func LerpPoint(from, to Point, p float64) Point {
	return Point{
		X: LerpInt(from.X, to.X, p),
		Y: LerpInt(from.Y, to.Y, p),
	}
}

// LerpRect interpolates origin and size of a rectangle.
func LerpRect(from, to Rect, p float64) Rect {
	return Rect{
		X: LerpInt(from.X, to.X, p),
		Y: LerpInt(from.Y, to.Y, p),
		W: LerpInt(from.W, to.W, p),
		H: LerpInt(from.H, to.H, p),
	}
}

// LerpColor interpolates each color component.
func LerpColor(from, to Color, p float64) Color {
	return Color{
		R: LerpFloat(from.R, to.R, p),
		G: LerpFloat(from.G, to.G, p),
		B: LerpFloat(from.B, to.B, p),
		A: LerpFloat(from.A, to.A, p),
	}
}

// LerpAffine interpolates each matrix element.
func LerpAffine(from, to Affine, p float64) Affine {
	var m Affine
	for i := range m {
		m[i] = LerpFloat(from[i], to[i], p)
	}
	return m
}

// PropertyAccess is a typed getter/setter pair for an animated property.
// Because the pair shares one type parameter, a getter and setter cannot
// disagree about the value shape.
type PropertyAccess[T any] struct {
	Get func() T
	Set func(v T)
}

// Animate creates a primitive animation that interpolates from one value to
// another through set. The animation starts unscheduled with the default
// curve; callers set timing fields and schedule it.
func Animate[T any](s *Scheduler, from, to T, lerp LerpFunc[T], set func(T)) *Animation {
	a := s.NewAnimation()
	a.Impl.Update = func(_ *Animation, p float64) {
		set(lerp(from, to, p))
	}
	return a
}

// AnimateProperty creates a primitive animation over a typed accessor pair.
// A nil from pointer captures the property's current value at schedule time
// (in the setup hook); a nil to pointer likewise holds the current value as
// the target.
func AnimateProperty[T any](s *Scheduler, acc PropertyAccess[T], from, to *T, lerp LerpFunc[T]) *Animation {
	a := s.NewAnimation()
	var fromV, toV T
	a.Impl.Setup = func(_ *Animation) {
		if from != nil {
			fromV = *from
		} else {
			fromV = acc.Get()
		}
		if to != nil {
			toV = *to
		} else {
			toV = acc.Get()
		}
	}
	a.Impl.Update = func(_ *Animation, p float64) {
		acc.Set(lerp(fromV, toV, p))
	}
	return a
}

// --- Layer convenience constructors ---

// AnimateFrame animates a layer's frame between two rectangles.
func AnimateFrame(s *Scheduler, l *Layer, from, to Rect, duration time.Duration, curve Curve) *Animation {
	a := Animate(s, from, to, LerpRect, l.SetFrame)
	a.Duration = duration
	a.Curve = curve
	return a
}

// AnimateBounds animates a layer's bounds between two rectangles.
func AnimateBounds(s *Scheduler, l *Layer, from, to Rect, duration time.Duration, curve Curve) *Animation {
	a := Animate(s, from, to, LerpRect, l.SetBounds)
	a.Duration = duration
	a.Curve = curve
	return a
}

// AnimateScrollOffset animates a layer's bounds origin, scrolling its
// content and children.
func AnimateScrollOffset(s *Scheduler, l *Layer, from, to Point, duration time.Duration, curve Curve) *Animation {
	a := Animate(s, from, to, LerpPoint, l.SetScrollOffset)
	a.Duration = duration
	a.Curve = curve
	return a
}
