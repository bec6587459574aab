package strata

import (
	"context"
	"testing"
	"time"
)

// --- Configuration ---

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Config{Logger: discardLogger()})
	if e.Bounds() != MakeRect(0, 0, 180, 180) {
		t.Errorf("Bounds = %v, want 180x180", e.Bounds())
	}
	if e.Scheduler() == nil || e.WindowStack() == nil {
		t.Error("scheduler and window stack should be wired")
	}
	if e.TickDelay() != baseTickInterval {
		t.Errorf("TickDelay = %v, want %v", e.TickDelay(), baseTickInterval)
	}
	if e.Logger() == nil {
		t.Error("Logger should never be nil")
	}
}

func TestNewEngineCustomSize(t *testing.T) {
	e := NewEngine(Config{Width: 64, Height: 32, Logger: discardLogger()})
	if e.Bounds() != MakeRect(0, 0, 64, 32) {
		t.Errorf("Bounds = %v, want 64x32", e.Bounds())
	}
}

// --- Render requests ---

func TestTickRequestsRenderWhileAnimating(t *testing.T) {
	e, clk := newTestEngine()
	e.Render(nil)
	if e.NeedsRender() {
		t.Fatal("render flag should start clear")
	}

	a := e.Scheduler().NewAnimation()
	a.Duration = 100 * time.Millisecond
	e.Scheduler().Schedule(a)

	clk.Advance(10 * time.Millisecond)
	e.Tick()
	if !e.NeedsRender() {
		t.Error("ticking with scheduled animations should request a render")
	}
}

func TestRenderClearsRequestAndCountsFrames(t *testing.T) {
	e, _ := newTestEngine()
	w := NewWindow("w", e.Bounds())
	e.WindowStack().Push(w, false)

	before := e.Stats().Frames
	e.Render(nil)
	if e.NeedsRender() {
		t.Error("Render should clear the request flag")
	}
	if e.Stats().Frames != before+1 {
		t.Error("Render should count a frame")
	}
}

func TestStepRendersOnlyWhenRequested(t *testing.T) {
	e, clk := newTestEngine()
	w := NewWindow("w", e.Bounds())
	e.WindowStack().Push(w, false)
	e.Render(nil)

	frames := e.Stats().Frames
	e.Step(nil) // idle: nothing scheduled, nothing dirty
	if e.Stats().Frames != frames {
		t.Error("idle Step should not render")
	}

	a := e.Scheduler().NewAnimation()
	a.Duration = 100 * time.Millisecond
	e.Scheduler().Schedule(a)
	clk.Advance(10 * time.Millisecond)
	e.Step(nil)
	if e.Stats().Frames != frames+1 {
		t.Error("Step should render while an animation runs")
	}
}

// --- Headless rendering ---

func TestRenderHeadlessInvokesUpdateProcs(t *testing.T) {
	e, _ := newTestEngine()
	w := NewWindow("w", e.Bounds())
	drawn := 0
	content := NewLayer("content", MakeRect(0, 0, 50, 50))
	content.UpdateProc = func(*Layer, *Graphics) { drawn++ }
	w.Root().AddChild(content)
	e.WindowStack().Push(w, false)

	e.Render(nil)
	if drawn != 1 {
		t.Errorf("content drew %d times, want 1", drawn)
	}
}

func TestRenderDuringTransitionDrawsBothWindows(t *testing.T) {
	e, _ := newTestEngine()
	var order []string
	mk := func(name string) *Window {
		w := NewWindow(name, e.Bounds())
		content := NewLayer(name+"-content", MakeRect(0, 0, 10, 10))
		content.UpdateProc = func(*Layer, *Graphics) { order = append(order, name) }
		w.Root().AddChild(content)
		return w
	}
	e.WindowStack().Push(mk("a"), false)
	e.WindowStack().Push(mk("b"), true)

	order = order[:0]
	e.Render(nil)
	// Push transition: the resident window draws under the incoming one.
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("draw order = %v, want [a b]", order)
	}
}

func TestRenderEmptyStack(t *testing.T) {
	e, _ := newTestEngine()
	e.Render(nil) // must not panic
}

// --- Adaptive tick pacing ---

func TestAdaptTickDelayStaysWithinBounds(t *testing.T) {
	e, _ := newTestEngine()
	for i := 0; i < 20; i++ {
		e.adaptTickDelay(time.Second)
	}
	if e.TickDelay() > maxTickInterval {
		t.Errorf("TickDelay = %v, want <= %v", e.TickDelay(), maxTickInterval)
	}
	for i := 0; i < 20; i++ {
		e.adaptTickDelay(0)
	}
	if e.TickDelay() < minTickInterval {
		t.Errorf("TickDelay = %v, want >= %v", e.TickDelay(), minTickInterval)
	}
}

func TestAdaptTickDelayRelaxesTowardBase(t *testing.T) {
	e, _ := newTestEngine()
	for i := 0; i < 10; i++ {
		e.adaptTickDelay(maxTickInterval)
	}
	slow := e.TickDelay()
	for i := 0; i < 30; i++ {
		e.adaptTickDelay(time.Millisecond)
	}
	if e.TickDelay() >= slow {
		t.Error("fast frames should relax the delay back down")
	}
	if diff := e.TickDelay() - baseTickInterval; diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("TickDelay = %v, want near %v", e.TickDelay(), baseTickInterval)
	}
}

// --- Loop ---

func TestRunHeadlessStopsOnContextCancel(t *testing.T) {
	e, _ := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.RunHeadless(ctx, nil); err != context.Canceled {
		t.Errorf("RunHeadless = %v, want context.Canceled", err)
	}
}
