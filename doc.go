// Package strata is a retained-mode windowed UI engine for small fixed-size
// displays, rendered with [Ebitengine].
//
// Strata provides the layer scene graph, the iterative render traversal, the
// cooperative animation scheduler, and the window navigation stack with
// animated transitions that a watch-style UI needs. Widget types (text,
// bitmaps, scroll chrome) are left to the application: they draw through
// per-layer callbacks against a [Graphics] context whose clip box and drawing
// origin the engine has already set.
//
// # Quick start
//
// Create an [Engine], push a [Window], and hand control to [Run]:
//
//	eng := strata.NewEngine(strata.Config{Width: 180, Height: 180})
//	win := strata.NewWindow("home", eng.Bounds())
//	win.Root().UpdateProc = func(l *strata.Layer, g *strata.Graphics) {
//		g.FillRect(strata.MakeRect(10, 10, 60, 20), strata.ColorWhite)
//	}
//	eng.WindowStack().Push(win, false)
//	strata.Run(eng, strata.RunConfig{Title: "demo"})
//
// For full control, implement [ebiten.Game] yourself and call [Engine.Tick]
// and [Engine.Render] directly, or drive the engine without a display via
// [Engine.RunHeadless].
//
// # Layers
//
// Every drawable region is a [Layer]. Layers form a tree below a window's
// root layer; a layer's Frame positions it in its parent and its Bounds
// origin doubles as a scroll offset for its content and children. Add order
// is paint order.
//
// # Animations
//
// The [Scheduler] owns all animation records. Primitive animations map
// wall-clock time through an easing [Curve] into update callbacks;
// sequence and spawn composites run children in order or simultaneously.
// Property animations ([AnimateFrame], [AnimateScrollOffset], and the generic
// [Animate]) interpolate typed values onto layers. Easing is provided by the
// [gween] ease catalog.
//
// # Windows
//
// A [Window] owns one layer subtree plus load/appear/disappear/unload
// handlers. The [WindowStack] orders windows, drives transitions as
// animations, and guarantees a window's unload handler never runs while a
// transition still references it.
//
// One Engine instance per owning goroutine; the engine does no locking.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package strata
