package strata

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Graphics is the drawing context handed to layer update procs. ClipBox and
// Origin are in screen coordinates and already account for every ancestor's
// frame, bounds offset, and clipping; drawing methods take coordinates local
// to the layer being drawn.
//
// A Graphics with a nil Target is valid and draws nothing, which keeps the
// engine fully drivable in headless runs and tests.
type Graphics struct {
	Target  *ebiten.Image
	ClipBox Rect
	Origin  Point
}

// NewGraphics creates a root context covering bounds of the given target.
// target may be nil for headless rendering.
func NewGraphics(target *ebiten.Image, bounds Rect) *Graphics {
	return &Graphics{Target: target, ClipBox: bounds}
}

// whitePixel is a shared 1x1 white image scaled to draw solid rectangles.
// Created lazily so that headless use never touches the graphics backend.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// FillRect fills a rectangle given in the layer's local coordinates.
func (g *Graphics) FillRect(r Rect, c Color) {
	dst := g.clipRect(r)
	if dst.Empty() || g.Target == nil || c.A <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(dst.W), float64(dst.H))
	op.GeoM.Translate(float64(dst.X), float64(dst.Y))
	// Premultiply at submission time; the source pixel is opaque white.
	op.ColorScale.Scale(
		float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	g.Target.DrawImage(ensureWhitePixel(), &op)
}

// Fill floods the entire clip box with a color.
func (g *Graphics) Fill(c Color) {
	g.FillRect(g.ClipBox.Offset(Point{-g.Origin.X, -g.Origin.Y}), c)
}

// StrokeRect draws a 1px inner border around a rectangle in local coordinates.
func (g *Graphics) StrokeRect(r Rect, c Color) {
	if r.Empty() {
		return
	}
	g.FillRect(Rect{r.X, r.Y, r.W, 1}, c)
	g.FillRect(Rect{r.X, r.Y + r.H - 1, r.W, 1}, c)
	g.FillRect(Rect{r.X, r.Y + 1, 1, r.H - 2}, c)
	g.FillRect(Rect{r.X + r.W - 1, r.Y + 1, 1, r.H - 2}, c)
}

// DrawImage draws an image with its top-left corner at a local-coordinate
// point, clipped to the clip box.
func (g *Graphics) DrawImage(img *ebiten.Image, at Point) {
	if g.Target == nil || img == nil || g.ClipBox.Empty() {
		return
	}
	dst := g.subTarget()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(at.X+g.Origin.X), float64(at.Y+g.Origin.Y))
	dst.DrawImage(img, &op)
}

// clipRect converts a local rect to screen coordinates and intersects it
// with the clip box.
func (g *Graphics) clipRect(r Rect) Rect {
	return r.Offset(g.Origin).Intersect(g.ClipBox)
}

// subTarget returns the target restricted to the clip box. SubImage keeps
// absolute coordinates, so draw positions need no adjustment.
func (g *Graphics) subTarget() *ebiten.Image {
	c := g.ClipBox
	return g.Target.SubImage(image.Rect(c.X, c.Y, c.X+c.W, c.Y+c.H)).(*ebiten.Image)
}
