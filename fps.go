package strata

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFrameStatsLayer creates a layer that displays the engine's frame timing
// (render time and adaptive tick delay), refreshed about twice a second.
// Add it near the top of a window's layer tree. It allocates a small
// backing image, so it is only for graphical runs, not headless engines.
func NewFrameStatsLayer(e *Engine, frame Rect) *Layer {
	img := ebiten.NewImage(frame.W, frame.H)

	l := NewLayer("frame_stats", frame)
	var lastRefresh time.Time
	l.UpdateProc = func(_ *Layer, g *Graphics) {
		now := e.clock()
		if now.Sub(lastRefresh) >= 500*time.Millisecond {
			lastRefresh = now
			stats := e.Stats()
			img.Clear()
			// Semi-transparent background for readability.
			img.Fill(color.RGBA{0, 0, 0, 128})
			ebitenutil.DebugPrint(img, fmt.Sprintf("render: %v\ntick: %v",
				stats.RenderTime.Round(time.Microsecond),
				stats.TickDelay.Round(time.Millisecond)))
		}
		g.DrawImage(img, Point{})
	}
	return l
}
