package strata

import "time"

// TransitionFactory builds the animation for one direction of a window
// transition. Returning nil substitutes a built-in no-op transition that
// completes on the next scheduler tick.
type TransitionFactory func(ctx *TransitionContext) *Animation

// Transition is a strategy pair: Appear animates a window being pushed over
// a visible one, Disappear animates a popped window leaving the screen. A
// zero Transition means the switch is instant.
type Transition struct {
	Appear    TransitionFactory
	Disappear TransitionFactory
}

// DefaultTransitionDuration is the duration of the built-in transitions.
const DefaultTransitionDuration = 250 * time.Millisecond

// SlideTransition is the default horizontal transition: an incoming window
// slides in from the right edge, a departing window slides back out to it.
func SlideTransition() Transition {
	return Transition{
		Appear:    slideAppear(func(b Rect) Point { return Point{X: b.W} }),
		Disappear: slideDisappear(func(b Rect) Point { return Point{X: b.W} }),
	}
}

// SlideUpTransition slides the incoming window up from the bottom edge and
// the departing window back down to it.
func SlideUpTransition() Transition {
	return Transition{
		Appear:    slideAppear(func(b Rect) Point { return Point{Y: b.H} }),
		Disappear: slideDisappear(func(b Rect) Point { return Point{Y: b.H} }),
	}
}

// slideAppear animates the incoming window's root layer from an offscreen
// offset to its resting frame.
func slideAppear(offset func(bounds Rect) Point) TransitionFactory {
	return func(ctx *TransitionContext) *Animation {
		to := ctx.ToWindow
		if to == nil {
			return nil
		}
		sched := ctx.stack.engine.scheduler
		resting := to.Root().Frame
		start := resting.Offset(offset(ctx.stack.engine.Bounds()))
		a := AnimateFrame(sched, to.Root(), start, resting,
			DefaultTransitionDuration, CurveEaseInOut)
		return a
	}
}

// slideDisappear animates the departing window's root layer from its resting
// frame to an offscreen offset, restoring the frame once the transition has
// settled (the window is no longer drawn by then, and a later re-push must
// find the root at its resting position).
func slideDisappear(offset func(bounds Rect) Point) TransitionFactory {
	return func(ctx *TransitionContext) *Animation {
		from := ctx.FromWindow
		if from == nil {
			return nil
		}
		sched := ctx.stack.engine.scheduler
		resting := from.Root().Frame
		end := resting.Offset(offset(ctx.stack.engine.Bounds()))
		a := AnimateFrame(sched, from.Root(), resting, end,
			DefaultTransitionDuration, CurveEaseInOut)
		a.Impl.Teardown = func(_ *Animation, _ bool) {
			from.Root().Frame = resting
		}
		return a
	}
}
