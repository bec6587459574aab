package strata

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorClear = Color{0, 0, 0, 0}
)

// toRGBA converts to a premultiplied 8-bit RGBA color.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Point is a position in integer device pixels. The coordinate system has its
// origin at the top-left, with Y increasing downward.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Size is a width/height pair in integer device pixels.
type Size struct {
	W, H int
}

// Rect is an axis-aligned rectangle in integer device pixels.
// It covers the half-open span [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// MakeRect is shorthand for constructing a Rect.
func MakeRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point {
	return Point{r.X, r.Y}
}

// Size returns the rectangle's width and height.
func (r Rect) Size() Size {
	return Size{r.W, r.H}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// ContainsPoint reports whether p lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W &&
		p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersect returns the overlap of r and other. The result is empty
// (possibly with negative extent normalized to zero) when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := maxInt(r.X, other.X)
	y0 := maxInt(r.Y, other.Y)
	x1 := minInt(r.X+r.W, other.X+other.W)
	y1 := minInt(r.Y+r.H, other.Y+other.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Intersects reports whether r and other share at least one pixel.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersect(other).Empty()
}

// Offset returns r translated by p.
func (r Rect) Offset(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
