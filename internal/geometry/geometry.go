// Package geometry provides the pixel-space primitives shared by the
// title-block clustering and region expansion code.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNegativeDimension is returned when a box has a negative width or height.
var ErrNegativeDimension = errors.New("negative box dimension")

// ErrNonFinite is returned when a box coordinate is NaN or infinite.
var ErrNonFinite = errors.New("non-finite box coordinate")

// Point is a position in page-pixel units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelBox is an axis-aligned box in page-pixel units.
// X,Y is the top-left corner.
type PixelBox struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Validate reports whether the box is well formed.
func (b PixelBox) Validate() error {
	for _, v := range []float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %+v", ErrNonFinite, b)
		}
	}
	if b.W < 0 || b.H < 0 {
		return fmt.Errorf("%w: w=%g h=%g", ErrNegativeDimension, b.W, b.H)
	}
	return nil
}

// Center returns the box center.
func (b PixelBox) Center() Point {
	return Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Area returns w*h.
func (b PixelBox) Area() float64 {
	return b.W * b.H
}

// Right returns the x coordinate of the far edge.
func (b PixelBox) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y coordinate of the far edge.
func (b PixelBox) Bottom() float64 {
	return b.Y + b.H
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Union returns the smallest box enclosing all boxes.
// The zero box is returned when no boxes are given.
func Union(boxes ...PixelBox) PixelBox {
	if len(boxes) == 0 {
		return PixelBox{}
	}
	minX, minY := boxes[0].X, boxes[0].Y
	maxX, maxY := boxes[0].Right(), boxes[0].Bottom()
	for _, b := range boxes[1:] {
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.Right())
		maxY = math.Max(maxY, b.Bottom())
	}
	return PixelBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Median returns the median of values without modifying the input.
// Even-length inputs average the two middle values; empty input returns 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
