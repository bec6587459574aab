package strata

// WindowHandlers are the lifecycle callbacks of a window. Per push/pop cycle
// each fires exactly once, in the order Load, Appear, Disappear, Unload.
// Disappear and Unload never run while a transition still references the
// window. All fields are optional.
type WindowHandlers struct {
	Load      func(w *Window)
	Appear    func(w *Window)
	Disappear func(w *Window)
	Unload    func(w *Window)
}

// Window owns one layer subtree plus lifecycle and input-arming hooks. The
// window owns only its root layer's lifecycle linkage; content layers belong
// to whoever created them.
type Window struct {
	Name       string
	Background Color
	Handlers   WindowHandlers

	// ClickConfigProvider re-arms input routing for the window. Dispatch
	// itself lives outside the engine; the window stack invokes this on
	// every appear so the newly visible window owns the click context.
	ClickConfigProvider func(w *Window)

	UserData any

	root     *Layer
	loaded   bool
	onScreen bool
	stack    *WindowStack
}

// NewWindow creates a window whose root layer covers frame. The root layer
// clips its subtree.
func NewWindow(name string, frame Rect) *Window {
	w := &Window{
		Name:       name,
		Background: ColorBlack,
	}
	w.root = NewLayer(name, frame)
	w.root.Clips = true
	w.root.window = w
	return w
}

// Root returns the window's root layer.
func (w *Window) Root() *Layer {
	return w.root
}

// Loaded reports whether the load handler has run and unload has not.
func (w *Window) Loaded() bool {
	return w.loaded
}

// OnScreen reports whether the window is currently the visible top of its
// stack (transitions count their destination as on screen only once they
// settle).
func (w *Window) OnScreen() bool {
	return w.onScreen
}

// Stack returns the window stack this window is on, or nil.
func (w *Window) Stack() *WindowStack {
	return w.stack
}

// MarkDirty schedules a render of the window's stack.
func (w *Window) MarkDirty() {
	w.scheduleRender()
}

func (w *Window) scheduleRender() {
	if w.stack != nil && w.stack.engine != nil {
		w.stack.engine.requestRender()
	}
}

// --- Lifecycle (driven by WindowStack) ---

func (w *Window) load() {
	if w.loaded {
		return
	}
	w.loaded = true
	if w.Handlers.Load != nil {
		w.Handlers.Load(w)
	}
}

func (w *Window) appear() {
	if w.onScreen {
		return
	}
	w.load()
	w.onScreen = true
	if w.Handlers.Appear != nil {
		w.Handlers.Appear(w)
	}
	if w.ClickConfigProvider != nil {
		w.ClickConfigProvider(w)
	}
	w.scheduleRender()
}

func (w *Window) disappear() {
	if !w.onScreen {
		return
	}
	w.onScreen = false
	if w.Handlers.Disappear != nil {
		w.Handlers.Disappear(w)
	}
}

func (w *Window) unload() {
	if !w.loaded {
		return
	}
	w.disappear()
	w.loaded = false
	if w.Handlers.Unload != nil {
		w.Handlers.Unload(w)
	}
}

// LayerAt returns the deepest visible layer containing the screen point p,
// falling back to the root layer when the point lies inside the window but
// no child claims it. Returns nil when p is outside the window's root frame
// or the window is hidden.
func (w *Window) LayerAt(p Point) *Layer {
	root := w.root
	if root.Hidden || !root.Frame.ContainsPoint(p) {
		return nil
	}
	q := Point{
		X: p.X - root.Frame.X - root.Bounds.X,
		Y: p.Y - root.Frame.Y - root.Bounds.Y,
	}
	if hit := root.LayerAt(q); hit != nil {
		return hit
	}
	return root
}
