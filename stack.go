package strata

// stackItem pairs a window with the transition that will be used when the
// window is later popped.
type stackItem struct {
	window *Window
	pop    Transition
}

// TransitionContext describes the one transition that may be in flight on a
// stack. FromWindow and ToWindow are cleared when the transition settles, so
// a late animation update observing nil windows becomes a no-op instead of
// touching a window that is about to unload.
type TransitionContext struct {
	FromWindow *Window
	ToWindow   *Window
	Animation  AnimationHandle

	stack     *WindowStack
	appearing bool
}

// Stack returns the window stack that owns this transition.
func (c *TransitionContext) Stack() *WindowStack {
	return c.stack
}

// WindowStack is an ordered collection of windows; the head is the visible
// top window when no transition is in flight. At most one transition
// animates at a time.
//
// Windows that have been unlinked but may still be referenced by the
// in-flight transition wait on a removed side-list; their unload handlers
// run only after the transition context has released them.
type WindowStack struct {
	engine  *Engine
	items   []*stackItem // items[0] is the top
	removed []*stackItem

	ctx      TransitionContext
	inFlight bool
}

func newWindowStack(e *Engine) *WindowStack {
	ws := &WindowStack{engine: e}
	ws.ctx.stack = ws
	return ws
}

// Top returns the window at the head of the stack, or nil when empty.
func (ws *WindowStack) Top() *Window {
	if len(ws.items) == 0 {
		return nil
	}
	return ws.items[0].window
}

// Len returns the number of windows on the visible stack.
func (ws *WindowStack) Len() int {
	return len(ws.items)
}

// Contains reports whether w is on the visible stack.
func (ws *WindowStack) Contains(w *Window) bool {
	return ws.indexOf(w) >= 0
}

// TransitionInFlight reports whether a transition animation is running.
func (ws *WindowStack) TransitionInFlight() bool {
	return ws.inFlight
}

func (ws *WindowStack) indexOf(w *Window) int {
	for i, it := range ws.items {
		if it.window == w {
			return i
		}
	}
	return -1
}

// unlink removes w's entry from the visible stack, returning it or nil.
func (ws *WindowStack) unlink(w *Window) *stackItem {
	i := ws.indexOf(w)
	if i < 0 {
		return nil
	}
	it := ws.items[i]
	copy(ws.items[i:], ws.items[i+1:])
	ws.items[len(ws.items)-1] = nil
	ws.items = ws.items[:len(ws.items)-1]
	return it
}

// Push places w on top of the stack. With animated=true the default slide
// transition runs; otherwise the switch is instant.
func (ws *WindowStack) Push(w *Window, animated bool) {
	if animated {
		ws.PushTransition(w, SlideTransition())
	} else {
		ws.PushTransition(w, Transition{})
	}
}

// PushTransition places w on top of the stack using t's Appear factory now
// and recording t for w's eventual pop. A transition runs only when there
// was a previously visible top window; the first window on a stack appears
// instantly. Panics if w is nil.
func (ws *WindowStack) PushTransition(w *Window, t Transition) {
	if w == nil {
		panic("strata: cannot push nil window")
	}
	if ws.Top() == w {
		return
	}
	ws.settle()

	prevTop := ws.Top()
	ws.unlink(w) // drop any stale entry for the same window
	w.stack = ws
	ws.items = append([]*stackItem{{window: w, pop: t}}, ws.items...)

	if prevTop == nil {
		// First window on the stack: no transition, appear instantly.
		w.appear()
		ws.engine.requestRender()
		return
	}

	w.load()
	if t.Appear == nil && t.Disappear == nil {
		// Unanimated switch.
		prevTop.disappear()
		w.appear()
		ws.flushRemoved()
		ws.engine.requestRender()
		return
	}
	ws.startTransition(prevTop, w, t.Appear, true)
}

// Pop removes the top window. Its unload handler is deferred until any
// transition referencing it has settled. Returns the popped window, or nil
// when the stack is empty.
func (ws *WindowStack) Pop(animated bool) *Window {
	ws.settle()
	if len(ws.items) == 0 {
		return nil
	}
	it := ws.items[0]
	ws.items = ws.items[1:]
	w := it.window
	ws.removed = append(ws.removed, it)

	newTop := ws.Top()
	if newTop != nil {
		newTop.load()
	}
	wasVisible := w.onScreen
	if animated && wasVisible && (it.pop.Disappear != nil || it.pop.Appear != nil) {
		ws.startTransition(w, newTop, it.pop.Disappear, false)
		return w
	}
	w.disappear()
	if newTop != nil {
		newTop.appear()
	}
	ws.flushRemoved()
	ws.engine.requestRender()
	return w
}

// Remove takes w off the stack wherever it sits. Removing the top window
// behaves like Pop; removing a covered window is always instant.
func (ws *WindowStack) Remove(w *Window, animated bool) {
	ws.settle()
	if ws.Top() == w {
		ws.Pop(animated)
		return
	}
	it := ws.unlink(w)
	if it == nil {
		return
	}
	ws.removed = append(ws.removed, it)
	ws.flushRemoved()
}

// InsertNext places w directly beneath the current top window, so it becomes
// visible after the next pop. On an empty stack this is an instant push.
func (ws *WindowStack) InsertNext(w *Window) {
	if w == nil {
		panic("strata: cannot insert nil window")
	}
	ws.settle()
	if len(ws.items) == 0 {
		ws.Push(w, false)
		return
	}
	if ws.Top() == w {
		return
	}
	ws.unlink(w)
	w.stack = ws
	rest := append([]*stackItem{{window: w, pop: SlideTransition()}}, ws.items[1:]...)
	ws.items = append(ws.items[:1], rest...)
}

// PopAll empties the stack. Every covered window is unlinked first with its
// unload deferred, then a single visible pop runs, so an unload handler that
// pushes a new window never observes a half-emptied stack.
func (ws *WindowStack) PopAll(animated bool) {
	ws.settle()
	if len(ws.items) == 0 {
		return
	}
	for _, it := range ws.items[1:] {
		ws.removed = append(ws.removed, it)
	}
	ws.items = ws.items[:1]
	ws.Pop(animated)
}

// --- Transition machinery ---

// startTransition builds and schedules the transition animation for a
// push (appearing=true) or pop (appearing=false). A nil factory, or a
// factory returning nil, substitutes a no-op animation so the normal
// completion path still runs.
func (ws *WindowStack) startTransition(from, to *Window, factory TransitionFactory, appearing bool) {
	ws.ctx.FromWindow = from
	ws.ctx.ToWindow = to
	ws.ctx.appearing = appearing

	var anim *Animation
	if factory != nil {
		anim = factory(&ws.ctx)
	}
	if anim == nil {
		anim = ws.engine.scheduler.NewAnimation()
	}
	anim.AutoDestroy = true
	prev := anim.Handlers.Stopped
	anim.Handlers.Stopped = func(a *Animation, finished bool) {
		if prev != nil {
			prev(a, finished)
		}
		ws.transitionDidStop()
	}
	ws.ctx.Animation = anim.Handle()
	ws.inFlight = true
	ws.engine.logger.Debug("window transition started",
		"from", windowName(from), "to", windowName(to), "appearing", appearing)
	ws.engine.scheduler.Schedule(anim)
	ws.engine.requestRender()
}

// transitionDidStop releases the transition context: it fires the pending
// disappear/appear pair, clears the window references so stale animation
// updates become no-ops, and only then flushes deferred unloads.
func (ws *WindowStack) transitionDidStop() {
	if !ws.inFlight {
		return
	}
	from, to := ws.ctx.FromWindow, ws.ctx.ToWindow
	ws.ctx.FromWindow = nil
	ws.ctx.ToWindow = nil
	ws.ctx.Animation = AnimationHandle{}
	ws.inFlight = false

	if from != nil {
		from.disappear()
	}
	if to != nil {
		to.appear()
	}
	ws.flushRemoved()
	ws.engine.requestRender()
}

// settle forces any in-flight transition to its end state so that a new
// stack operation never abandons a transition mid-flight.
func (ws *WindowStack) settle() {
	if !ws.inFlight {
		return
	}
	if a, ok := ws.engine.scheduler.Lookup(ws.ctx.Animation); ok {
		ws.engine.scheduler.Finish(a)
		if !ws.inFlight {
			return
		}
	}
	ws.transitionDidStop()
}

// flushRemoved runs deferred unloads. Deferred while a transition is in
// flight; the list is detached before iterating because an unload handler
// may push windows and start a new transition.
func (ws *WindowStack) flushRemoved() {
	if ws.inFlight || len(ws.removed) == 0 {
		return
	}
	list := ws.removed
	ws.removed = nil
	for _, it := range list {
		it.window.unload()
		it.window.stack = nil
	}
}

// transitionDrawOrder returns the two windows of the in-flight transition in
// back-to-front paint order: on a push the incoming window slides over the
// resident one, on a pop the departing window slides off the revealed one.
func (ws *WindowStack) transitionDrawOrder() (bottom, top *Window) {
	if ws.ctx.appearing {
		return ws.ctx.FromWindow, ws.ctx.ToWindow
	}
	return ws.ctx.ToWindow, ws.ctx.FromWindow
}

func windowName(w *Window) string {
	if w == nil {
		return "<none>"
	}
	return w.Name
}
