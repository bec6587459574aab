package strata

// UpdateProc is a layer draw callback. The Graphics context arrives with the
// clip box and drawing origin already set for the layer; implementations must
// not retain the context beyond the call.
type UpdateProc func(l *Layer, g *Graphics)

// PropertyChangedProc fires from Layer.MarkDirty before the owning window is
// asked to schedule a render.
type PropertyChangedProc func(l *Layer)

// Layer is a rectangular node in the scene graph. A layer's Frame positions
// it within its parent's coordinate space; its Bounds describe the layer's
// own coordinate space, with the Bounds origin acting as a scroll offset for
// the layer's content and children.
//
// Transform fields may be set directly for bulk initialization, but the Set*
// methods should be preferred: they skip work when the value is unchanged and
// mark the layer dirty otherwise.
type Layer struct {
	// Identity
	Name string

	// Geometry
	Frame  Rect
	Bounds Rect

	// Visibility
	Clips  bool
	Hidden bool

	// Callbacks (nil by default; zero cost when unused)
	UpdateProc      UpdateProc
	PropertyChanged PropertyChangedProc

	// Metadata
	UserData any

	// Hierarchy
	parent   *Layer
	children []*Layer
	window   *Window
}

// NewLayer creates a layer with the given frame. Bounds start at origin
// (0, 0) with the frame's size.
func NewLayer(name string, frame Rect) *Layer {
	return &Layer{
		Name:   name,
		Frame:  frame,
		Bounds: Rect{W: frame.W, H: frame.H},
	}
}

// Parent returns the layer's parent, or nil for a detached or root layer.
func (l *Layer) Parent() *Layer {
	return l.parent
}

// Window returns the window this layer is attached to, or nil when the layer
// is not reachable from any window's root.
func (l *Layer) Window() *Window {
	return l.window
}

// Children returns the child list in paint order.
// The returned slice MUST NOT be mutated by the caller.
func (l *Layer) Children() []*Layer {
	return l.children
}

// NumChildren returns the number of children.
func (l *Layer) NumChildren() int {
	return len(l.children)
}

// ChildAt returns the child at the given index.
func (l *Layer) ChildAt(index int) *Layer {
	return l.children[index]
}

// --- Tree manipulation ---

// AddChild appends child as the last (topmost-painted) child of this layer.
// If child already has a parent, it is removed from that parent first. The
// child subtree inherits this layer's window reference, and a render is
// scheduled when the layer is attached to a window.
// Panics if child is nil or child is an ancestor of this layer (cycle).
func (l *Layer) AddChild(child *Layer) {
	l.AddChildAt(child, len(l.children))
}

// AddChildAt inserts child at the given paint-order index.
// Same reparenting and cycle-check behavior as AddChild.
func (l *Layer) AddChildAt(child *Layer, index int) {
	if child == nil {
		panic("strata: cannot add nil child layer")
	}
	if isAncestorLayer(child, l) {
		panic("strata: adding child layer would create a cycle")
	}
	if child.parent != nil {
		if child.parent == l {
			// Re-adding under the same parent: unlinking first shifts
			// later siblings down, so clamp the index afterwards.
			child.parent.removeChildByPtr(child)
			if index > len(l.children) {
				index = len(l.children)
			}
		} else {
			child.parent.removeChildByPtr(child)
		}
	}
	if index < 0 || index > len(l.children) {
		panic("strata: child layer index out of range")
	}
	child.parent = l
	l.children = append(l.children, nil)
	copy(l.children[index+1:], l.children[index:])
	l.children[index] = child
	setWindowRecursive(child, l.window)
	l.scheduleRender()
}

// InsertBeforeSibling inserts this layer directly below sibling in paint
// order (drawn before it). Panics if sibling is nil or detached.
func (l *Layer) InsertBeforeSibling(sibling *Layer) {
	p, idx := siblingSlot(sibling)
	if l.parent == p {
		// Unlinking l first may shift the sibling's index down.
		if i := indexOfChild(p, l); i >= 0 && i < idx {
			idx--
		}
	}
	p.AddChildAt(l, idx)
}

// InsertAfterSibling inserts this layer directly above sibling in paint
// order (drawn after it). Panics if sibling is nil or detached.
func (l *Layer) InsertAfterSibling(sibling *Layer) {
	p, idx := siblingSlot(sibling)
	if l.parent == p {
		if i := indexOfChild(p, l); i >= 0 && i < idx {
			idx--
		}
	}
	p.AddChildAt(l, idx+1)
}

func siblingSlot(sibling *Layer) (*Layer, int) {
	if sibling == nil {
		panic("strata: nil sibling layer")
	}
	p := sibling.parent
	if p == nil {
		panic("strata: sibling layer has no parent")
	}
	return p, indexOfChild(p, sibling)
}

func indexOfChild(p *Layer, child *Layer) int {
	for i, c := range p.children {
		if c == child {
			return i
		}
	}
	return -1
}

// RemoveChild detaches child from this layer and clears the window reference
// on the detached subtree. Panics if child's parent is not this layer.
func (l *Layer) RemoveChild(child *Layer) {
	if child == nil || child.parent != l {
		panic("strata: child layer's parent is not this layer")
	}
	l.removeChildByPtr(child)
	child.parent = nil
	setWindowRecursive(child, nil)
	l.scheduleRender()
}

// RemoveFromParent detaches this layer from its parent.
// No-op if the layer has no parent.
func (l *Layer) RemoveFromParent() {
	if l.parent == nil {
		return
	}
	l.parent.RemoveChild(l)
}

// RemoveChildren detaches all children from this layer.
func (l *Layer) RemoveChildren() {
	for _, child := range l.children {
		child.parent = nil
		setWindowRecursive(child, nil)
	}
	l.children = l.children[:0]
	l.scheduleRender()
}

// removeChildByPtr removes child from l.children without clearing
// child.parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (l *Layer) removeChildByPtr(child *Layer) {
	for i, c := range l.children {
		if c == child {
			copy(l.children[i:], l.children[i+1:])
			l.children[len(l.children)-1] = nil
			l.children = l.children[:len(l.children)-1]
			return
		}
	}
}

// isAncestorLayer reports whether candidate is layer or an ancestor of layer.
func isAncestorLayer(candidate, layer *Layer) bool {
	for p := layer; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// setWindowRecursive propagates a window reference through a subtree.
// Called on attach (w = parent's window) and detach (w = nil).
func setWindowRecursive(l *Layer, w *Window) {
	l.window = w
	for _, child := range l.children {
		setWindowRecursive(child, w)
	}
}

// --- Property setters ---

// SetFrame sets the layer's frame. A no-op when the frame is unchanged;
// otherwise the layer is marked dirty.
func (l *Layer) SetFrame(frame Rect) {
	if l.Frame == frame {
		return
	}
	l.Frame = frame
	l.MarkDirty()
}

// SetBounds sets the layer's bounds. A no-op when the bounds are unchanged;
// otherwise the layer is marked dirty.
func (l *Layer) SetBounds(bounds Rect) {
	if l.Bounds == bounds {
		return
	}
	l.Bounds = bounds
	l.MarkDirty()
}

// SetScrollOffset sets the bounds origin, which shifts the layer's content
// and children. A no-op when unchanged.
func (l *Layer) SetScrollOffset(offset Point) {
	b := l.Bounds
	b.X, b.Y = offset.X, offset.Y
	l.SetBounds(b)
}

// ScrollOffset returns the bounds origin.
func (l *Layer) ScrollOffset() Point {
	return Point{l.Bounds.X, l.Bounds.Y}
}

// SetHidden shows or hides the layer and its subtree.
func (l *Layer) SetHidden(hidden bool) {
	if l.Hidden == hidden {
		return
	}
	l.Hidden = hidden
	l.MarkDirty()
}

// SetClips sets whether the layer clips its subtree's drawing to its frame.
func (l *Layer) SetClips(clips bool) {
	if l.Clips == clips {
		return
	}
	l.Clips = clips
	l.MarkDirty()
}

// MarkDirty invokes the layer's PropertyChanged callback, then asks the
// owning window to schedule a render. A no-op when the layer is unattached.
func (l *Layer) MarkDirty() {
	if l.PropertyChanged != nil {
		l.PropertyChanged(l)
	}
	l.scheduleRender()
}

func (l *Layer) scheduleRender() {
	if l.window != nil {
		l.window.scheduleRender()
	}
}

// --- Coordinate conversion ---

// ConvertToScreen converts a point in this layer's coordinate space to
// screen coordinates by accumulating frame and bounds origins up the parent
// chain. A window's root layer contributes no offset.
func (l *Layer) ConvertToScreen(p Point) Point {
	for cur := l; cur != nil; cur = cur.parent {
		if cur.window != nil && cur.window.root == cur {
			break
		}
		p.X += cur.Frame.X + cur.Bounds.X
		p.Y += cur.Frame.Y + cur.Bounds.Y
	}
	return p
}

// --- Hit testing ---

// LayerAt returns the deepest visible descendant whose frame contains p,
// where p is in this layer's coordinate space, or nil when no descendant
// contains it. Among overlapping siblings the last-added (topmost-painted)
// one wins. The layer itself is not considered.
func (l *Layer) LayerAt(p Point) *Layer {
	for i := len(l.children) - 1; i >= 0; i-- {
		child := l.children[i]
		if child.Hidden || !child.Frame.ContainsPoint(p) {
			continue
		}
		q := Point{
			X: p.X - child.Frame.X - child.Bounds.X,
			Y: p.Y - child.Frame.Y - child.Bounds.Y,
		}
		if deep := child.LayerAt(q); deep != nil {
			return deep
		}
		return child
	}
	return nil
}
