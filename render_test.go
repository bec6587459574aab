package strata

import (
	"fmt"
	"testing"
)

func testGraphics() *Graphics {
	return NewGraphics(nil, MakeRect(0, 0, 100, 100))
}

// recordDraws wires every layer in the tree to append its name on draw.
func recordDraws(order *[]string, layers ...*Layer) {
	for _, l := range layers {
		l := l
		l.UpdateProc = func(_ *Layer, _ *Graphics) {
			*order = append(*order, l.Name)
		}
	}
}

func assertOrder(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("draw order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw order = %v, want %v", got, want)
		}
	}
}

// --- Traversal order ---

func TestRenderTreeDrawOrder(t *testing.T) {
	root := NewLayer("root", MakeRect(0, 0, 100, 100))
	a := NewLayer("a", MakeRect(0, 0, 10, 10))
	b := NewLayer("b", MakeRect(0, 0, 10, 10))
	a1 := NewLayer("a1", MakeRect(0, 0, 5, 5))
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var order []string
	recordDraws(&order, root, a, b, a1)
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())

	// Parents draw before children; siblings draw in add order.
	assertOrder(t, order, "root", "a", "a1", "b")
}

func TestRenderTreeSkipsHiddenSubtree(t *testing.T) {
	root := NewLayer("root", MakeRect(0, 0, 100, 100))
	a := NewLayer("a", MakeRect(0, 0, 10, 10))
	a1 := NewLayer("a1", MakeRect(0, 0, 5, 5))
	b := NewLayer("b", MakeRect(0, 0, 10, 10))
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)
	a.SetHidden(true)

	var order []string
	recordDraws(&order, root, a, a1, b)
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())
	assertOrder(t, order, "root", "b")
}

func TestRenderTreeNilAndHiddenRoot(t *testing.T) {
	r := NewRenderer(discardLogger())
	r.RenderTree(nil, testGraphics())

	root := NewLayer("root", MakeRect(0, 0, 10, 10))
	drawn := false
	root.UpdateProc = func(_ *Layer, _ *Graphics) { drawn = true }
	root.SetHidden(true)
	r.RenderTree(root, testGraphics())
	if drawn {
		t.Error("hidden root should not draw")
	}
}

// --- Depth limit ---

func TestRenderTreeTruncatesDeepTrees(t *testing.T) {
	root := NewLayer("d0", MakeRect(0, 0, 100, 100))
	cur := root
	layers := []*Layer{root}
	for i := 1; i < MaxTreeDepth+4; i++ {
		next := NewLayer(fmt.Sprintf("d%d", i), MakeRect(0, 0, 100, 100))
		cur.AddChild(next)
		cur = next
		layers = append(layers, next)
	}

	var order []string
	recordDraws(&order, layers...)
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())

	if len(order) != MaxTreeDepth {
		t.Fatalf("drew %d layers, want %d", len(order), MaxTreeDepth)
	}
	if order[len(order)-1] != fmt.Sprintf("d%d", MaxTreeDepth-1) {
		t.Errorf("deepest drawn layer = %s", order[len(order)-1])
	}
}

// --- Clip and origin accumulation ---

func TestRenderTreeClipAccumulates(t *testing.T) {
	root := NewLayer("root", MakeRect(0, 0, 100, 100))
	root.Clips = true
	clipper := NewLayer("clipper", MakeRect(10, 10, 50, 50))
	clipper.Clips = true
	leaf := NewLayer("leaf", MakeRect(5, 5, 10, 10))
	root.AddChild(clipper)
	clipper.AddChild(leaf)

	var gotClip Rect
	var gotOrigin Point
	leaf.UpdateProc = func(_ *Layer, g *Graphics) {
		gotClip = g.ClipBox
		gotOrigin = g.Origin
	}
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())

	if gotClip != MakeRect(10, 10, 50, 50) {
		t.Errorf("leaf ClipBox = %v, want clipper's frame", gotClip)
	}
	// Origin includes the leaf's own frame, so local (0, 0) is the leaf's
	// top-left in screen space.
	if gotOrigin != (Point{15, 15}) {
		t.Errorf("leaf Origin = %v, want (15, 15)", gotOrigin)
	}
}

func TestRenderTreeNonClippingLayerDoesNotClip(t *testing.T) {
	root := NewLayer("root", MakeRect(0, 0, 100, 100))
	root.Clips = true
	loose := NewLayer("loose", MakeRect(80, 80, 60, 60)) // overhangs the root
	root.AddChild(loose)

	var gotClip Rect
	loose.UpdateProc = func(_ *Layer, g *Graphics) { gotClip = g.ClipBox }
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())

	if gotClip != MakeRect(0, 0, 100, 100) {
		t.Errorf("ClipBox = %v, want the root clip untouched", gotClip)
	}
}

func TestRenderTreeEmptyClipSuppressesDraw(t *testing.T) {
	root := NewLayer("root", MakeRect(0, 0, 100, 100))
	offscreen := NewLayer("offscreen", MakeRect(200, 200, 50, 50))
	offscreen.Clips = true
	child := NewLayer("child", MakeRect(0, 0, 10, 10))
	root.AddChild(offscreen)
	offscreen.AddChild(child)

	var order []string
	recordDraws(&order, offscreen, child)
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())
	if len(order) != 0 {
		t.Errorf("offscreen clipped subtree drew %v", order)
	}
}

func TestRenderTreeScrollOffsetShiftsChildren(t *testing.T) {
	root := NewLayer("root", MakeRect(0, 0, 100, 100))
	pane := NewLayer("pane", MakeRect(10, 10, 80, 80))
	item := NewLayer("item", MakeRect(0, 30, 80, 20))
	root.AddChild(pane)
	pane.AddChild(item)
	pane.SetScrollOffset(Point{0, -25})

	var gotOrigin Point
	item.UpdateProc = func(_ *Layer, g *Graphics) { gotOrigin = g.Origin }
	NewRenderer(discardLogger()).RenderTree(root, testGraphics())

	// pane frame (10,10) + scroll (0,-25) + item frame (0,30) = (10, 15).
	if gotOrigin != (Point{10, 15}) {
		t.Errorf("item Origin = %v, want (10, 15)", gotOrigin)
	}
}

// --- Graphics clipping ---

func TestGraphicsClipRect(t *testing.T) {
	g := &Graphics{ClipBox: MakeRect(10, 10, 20, 20), Origin: Point{10, 10}}
	got := g.clipRect(MakeRect(0, 0, 100, 100))
	if got != MakeRect(10, 10, 20, 20) {
		t.Errorf("clipRect = %v, want the clip box", got)
	}
	if !g.clipRect(MakeRect(30, 30, 5, 5)).Empty() {
		t.Error("rect outside the clip box should clip to empty")
	}
}

func TestGraphicsNilTargetIsSafe(t *testing.T) {
	g := testGraphics()
	g.FillRect(MakeRect(0, 0, 10, 10), ColorWhite)
	g.Fill(ColorBlack)
	g.StrokeRect(MakeRect(0, 0, 10, 10), ColorWhite)
	g.DrawImage(nil, Point{})
}
