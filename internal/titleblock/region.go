package titleblock

import (
	"math"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

const (
	padXFactor = 6.0
	padXMin    = 250.0
	padXMax    = 1000.0
	padYFactor = 5.0
	padYMin    = 200.0
	padYMax    = 800.0

	// defaults used when a cluster has no members
	defaultMemberWidth  = 100.0
	defaultMemberHeight = 30.0
)

// ExpandRegion grows the cluster box into a crop region for re-extraction.
//
// Padding is proportional to the median member size and bounded. The box is
// expanded symmetrically, its origin clamped to the page, and the far edge
// clamped by shrinking width and height rather than shifting the origin.
func ExpandRegion(c LabelCluster, renderW, renderH float64) geometry.PixelBox {
	medW, medH := defaultMemberWidth, defaultMemberHeight
	if len(c.Members) > 0 {
		widths := make([]float64, len(c.Members))
		heights := make([]float64, len(c.Members))
		for i, m := range c.Members {
			widths[i] = m.BBox.W
			heights[i] = m.BBox.H
		}
		medW = geometry.Median(widths)
		medH = geometry.Median(heights)
	}

	padX := geometry.Clamp(padXFactor*medW, padXMin, padXMax)
	padY := geometry.Clamp(padYFactor*medH, padYMin, padYMax)

	renderW = math.Max(renderW, 0)
	renderH = math.Max(renderH, 0)

	x := math.Max(c.BBox.X-padX, 0)
	y := math.Max(c.BBox.Y-padY, 0)
	w := c.BBox.W + 2*padX
	h := c.BBox.H + 2*padY

	// origin beyond the page leaves nothing to crop
	x = math.Min(x, renderW)
	y = math.Min(y, renderH)
	if x+w > renderW {
		w = renderW - x
	}
	if y+h > renderH {
		h = renderH - y
	}
	return geometry.PixelBox{X: x, Y: y, W: w, H: h}
}
