package strata

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Config configures a new Engine.
type Config struct {
	// Width and Height of the display in pixels. Both default to 180.
	Width, Height int
	// Logger receives capacity warnings and transition traces.
	// Defaults to a warn-level stderr logger.
	Logger *log.Logger
	// Clock supplies the engine's notion of now. Defaults to time.Now.
	// Tests inject a manual clock here.
	Clock func() time.Time
}

const (
	defaultDisplaySize = 180

	// Tick pacing bounds for the adaptive frame timer.
	baseTickInterval = 33 * time.Millisecond
	minTickInterval  = 16 * time.Millisecond
	maxTickInterval  = 250 * time.Millisecond
)

// FrameStats is a snapshot of the engine's frame timing.
type FrameStats struct {
	Frames     uint64
	RenderTime time.Duration
	TickDelay  time.Duration
}

// Engine is the per-task UI context: one scheduler, one window stack, one
// renderer, one clock. Construct one per task that owns a display; instances
// share nothing, so independent engines (including test engines) can coexist.
//
// All engine, layer, animation, and stack mutation must happen on the owning
// task, either directly or inside callbacks the engine itself invokes; the
// engine does no locking.
type Engine struct {
	logger    *log.Logger
	clock     func() time.Time
	bounds    Rect
	scheduler *Scheduler
	stack     *WindowStack
	renderer  *Renderer

	needsRender bool
	tickDelay   time.Duration
	stats       FrameStats
}

// NewEngine creates an engine for a display of the configured size.
func NewEngine(cfg Config) *Engine {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = defaultDisplaySize
	}
	if h <= 0 {
		h = defaultDisplaySize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:  log.WarnLevel,
			Prefix: "strata",
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	e := &Engine{
		logger:    logger,
		clock:     clock,
		bounds:    Rect{W: w, H: h},
		tickDelay: baseTickInterval,
	}
	e.scheduler = NewScheduler(logger, clock)
	e.renderer = NewRenderer(logger)
	e.stack = newWindowStack(e)
	return e
}

// Scheduler returns the engine's animation scheduler.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// WindowStack returns the engine's window stack.
func (e *Engine) WindowStack() *WindowStack {
	return e.stack
}

// Bounds returns the display rectangle.
func (e *Engine) Bounds() Rect {
	return e.bounds
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *log.Logger {
	return e.logger
}

// Stats returns a snapshot of the frame timing counters.
func (e *Engine) Stats() FrameStats {
	s := e.stats
	s.TickDelay = e.tickDelay
	return s
}

// TickDelay returns the current adaptive inter-tick delay.
func (e *Engine) TickDelay() time.Duration {
	return e.tickDelay
}

// NeedsRender reports whether a render has been requested since the last
// Render call.
func (e *Engine) NeedsRender() bool {
	return e.needsRender
}

// requestRender defers a repaint to the next loop iteration. Called from
// Layer.MarkDirty through the owning window; never renders synchronously.
func (e *Engine) requestRender() {
	e.needsRender = true
}

// Tick advances the animation scheduler to the current clock reading.
// While animations are scheduled, every tick requests a render.
func (e *Engine) Tick() {
	e.scheduler.Tick(e.clock())
	if e.scheduler.HasScheduled() {
		e.needsRender = true
	}
}

// Render rasterizes the current window state into target (which may be nil
// for a headless run). With a transition in flight both of its windows draw
// in back-to-front order; otherwise only the top window draws.
func (e *Engine) Render(target *ebiten.Image) {
	start := e.clock()
	base := NewGraphics(target, e.bounds)

	if e.stack.inFlight {
		bottom, top := e.stack.transitionDrawOrder()
		e.drawWindow(bottom, base)
		e.drawWindow(top, base)
	} else if w := e.stack.Top(); w != nil {
		e.drawWindow(w, base)
	}

	e.needsRender = false
	elapsed := e.clock().Sub(start)
	e.stats.Frames++
	e.stats.RenderTime = elapsed
	e.adaptTickDelay(elapsed)
}

func (e *Engine) drawWindow(w *Window, base *Graphics) {
	if w == nil || w.root.Hidden {
		return
	}
	base.FillRect(w.root.Frame, w.Background)
	e.renderer.RenderTree(w.root, base)
}

// adaptTickDelay is a small feedback controller on the inter-tick delay:
// slow frames stretch the delay, fast frames let it relax back toward the
// base interval. Smoothed to avoid oscillating on a single outlier frame.
func (e *Engine) adaptTickDelay(renderTime time.Duration) {
	next := baseTickInterval
	if renderTime > baseTickInterval/2 {
		next = renderTime * 2
	}
	if next < minTickInterval {
		next = minTickInterval
	}
	if next > maxTickInterval {
		next = maxTickInterval
	}
	e.tickDelay = (e.tickDelay + next) / 2
}

// Step runs one cooperative loop iteration: advance animations, then render
// if anything requested a repaint.
func (e *Engine) Step(target *ebiten.Image) {
	e.Tick()
	if e.needsRender {
		e.Render(target)
	}
}

// RunHeadless drives the engine loop without a display until ctx is
// canceled, stepping at the adaptive tick delay. target may be nil.
// Returns ctx.Err.
func (e *Engine) RunHeadless(ctx context.Context, target *ebiten.Image) error {
	timer := time.NewTimer(e.tickDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			e.Step(target)
			timer.Reset(e.tickDelay)
		}
	}
}

// RunConfig configures the Run window.
type RunConfig struct {
	Title string
	// WindowScale multiplies the display size for the desktop window.
	// Defaults to 2.
	WindowScale int
}

// engineGame adapts an Engine to ebiten.Game. The screen is cleared every
// frame by ebiten, so Draw always renders.
type engineGame struct {
	engine *Engine
}

func (g *engineGame) Update() error {
	g.engine.Tick()
	return nil
}

func (g *engineGame) Draw(screen *ebiten.Image) {
	g.engine.Render(screen)
}

func (g *engineGame) Layout(_, _ int) (int, int) {
	b := g.engine.bounds
	return b.W, b.H
}

// Run opens a desktop window for the engine's display and blocks until the
// window closes or the game loop fails.
func Run(e *Engine, cfg RunConfig) error {
	scale := cfg.WindowScale
	if scale <= 0 {
		scale = 2
	}
	ebiten.SetWindowSize(e.bounds.W*scale, e.bounds.H*scale)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	return ebiten.RunGame(&engineGame{engine: e})
}
