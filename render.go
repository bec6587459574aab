package strata

import "github.com/charmbracelet/log"

// MaxTreeDepth is the fixed depth of the render traversal stack. Layer trees
// deeper than this render truncated: the renderer logs a warning and declines
// to descend rather than growing the stack.
const MaxTreeDepth = 16

// renderFrame is one slot of the traversal stack: a layer plus the index of
// its next child to visit.
type renderFrame struct {
	layer *Layer
	next  int
}

// Renderer walks a layer subtree depth-first using an explicit fixed-size
// stack instead of recursion, so a render pass has a hard upper bound on
// stack usage regardless of tree shape. The buffer is owned per renderer,
// never allocated per frame.
type Renderer struct {
	stack  [MaxTreeDepth]renderFrame
	logger *log.Logger
}

// NewRenderer creates a renderer. logger may be nil, in which case warnings
// go to the default logger.
func NewRenderer(logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{logger: logger}
}

// RenderTree draws root and its descendants into base. Layers draw before
// their children, children in add order. Hidden layers are skipped along
// with their subtrees. A layer whose accumulated clip box is empty is not
// drawn, but its subtree is still walked.
func (r *Renderer) RenderTree(root *Layer, base *Graphics) {
	if root == nil || root.Hidden {
		return
	}
	r.stack[0] = renderFrame{layer: root}
	depth := 0
	warned := false

	for depth >= 0 {
		f := &r.stack[depth]

		// First arrival at this layer: draw it.
		if f.next == 0 {
			origin, clip := r.drawState(depth, base)
			if f.layer.UpdateProc != nil && !clip.Empty() {
				g := Graphics{Target: base.Target, ClipBox: clip, Origin: origin}
				f.layer.UpdateProc(f.layer, &g)
			}
		}

		// Descend into the next unvisited child, if any.
		if f.next < len(f.layer.children) {
			child := f.layer.children[f.next]
			f.next++
			if child.Hidden {
				continue
			}
			if depth+1 >= MaxTreeDepth {
				if !warned {
					r.logger.Warn("layer tree exceeds render stack depth, truncating",
						"max_depth", MaxTreeDepth, "layer", child.Name)
					warned = true
				}
				continue
			}
			depth++
			r.stack[depth] = renderFrame{layer: child}
			continue
		}

		// Subtree done: backtrack. Clear the slot so the stack buffer does
		// not retain layer pointers between frames.
		r.stack[depth] = renderFrame{}
		depth--
	}
}

// drawState recomputes the accumulated drawing origin and clip box for the
// layer at the given stack depth by walking the stacked path from the root.
// Recomputing from scratch on every visit keeps the state correct after
// arbitrary tree mutation with no undo pass while backtracking.
//
// TODO: maintain origin/clip incrementally alongside the stack if profiling
// ever shows deep trees spending real time here.
func (r *Renderer) drawState(depth int, base *Graphics) (Point, Rect) {
	origin := base.Origin
	clip := base.ClipBox
	for i := 0; i <= depth; i++ {
		l := r.stack[i].layer
		if l.Clips {
			abs := l.Frame.Offset(origin)
			clip = clip.Intersect(abs)
		}
		origin.X += l.Frame.X + l.Bounds.X
		origin.Y += l.Frame.Y + l.Bounds.Y
	}
	return origin, clip
}
