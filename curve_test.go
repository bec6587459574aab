package strata

import "testing"

func TestCurveEndpoints(t *testing.T) {
	for _, c := range []Curve{CurveEaseInOut, CurveEaseIn, CurveEaseOut, CurveLinear} {
		if got := c.Ease(0); got != 0 {
			t.Errorf("curve %d: Ease(0) = %v, want 0", c, got)
		}
		if got := c.Ease(1); got != 1 {
			t.Errorf("curve %d: Ease(1) = %v, want 1", c, got)
		}
	}
}

func TestCurveClampsOutOfRange(t *testing.T) {
	if got := CurveEaseOut.Ease(-0.5); got != 0 {
		t.Errorf("Ease(-0.5) = %v, want 0", got)
	}
	if got := CurveEaseOut.Ease(1.5); got != 1 {
		t.Errorf("Ease(1.5) = %v, want 1", got)
	}
}

func TestCurveLinearIsIdentity(t *testing.T) {
	for _, p := range []float64{0.1, 0.25, 0.5, 0.9} {
		if got := CurveLinear.Ease(p); got != p {
			t.Errorf("linear Ease(%v) = %v", p, got)
		}
	}
}

func TestCurveEaseShapes(t *testing.T) {
	// Ease-in lags linear in the first half, ease-out leads it.
	if got := CurveEaseIn.Ease(0.5); got >= 0.5 {
		t.Errorf("ease-in Ease(0.5) = %v, want < 0.5", got)
	}
	if got := CurveEaseOut.Ease(0.5); got <= 0.5 || got >= 1 {
		t.Errorf("ease-out Ease(0.5) = %v, want in (0.5, 1)", got)
	}
	// Ease-in-out is symmetric around the midpoint.
	if got := CurveEaseInOut.Ease(0.5); got < 0.499 || got > 0.501 {
		t.Errorf("ease-in-out Ease(0.5) = %v, want 0.5", got)
	}
}

func TestCurveMonotonic(t *testing.T) {
	for _, c := range []Curve{CurveEaseInOut, CurveEaseIn, CurveEaseOut, CurveLinear} {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			p := float64(i) / 100
			got := c.Ease(p)
			if got < prev {
				t.Fatalf("curve %d not monotonic at p=%v: %v < %v", c, p, got, prev)
			}
			prev = got
		}
	}
}

func TestCurveDefaultIsEaseInOut(t *testing.T) {
	var c Curve
	if c != CurveEaseInOut {
		t.Error("zero Curve should be CurveEaseInOut")
	}
}
