// Package geom holds the pure 2D math used to place and rotate avatar bitmaps.
package geom

import "math"

// Vec is a 2D vector in surface pixels (Y grows downward)
type Vec struct {
	X float64
	Y float64
}

// Add returns v+o
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul scales both components by f
func (v Vec) Mul(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// IsZero reports whether both components are zero
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Rect is a draw rectangle in floating point surface coordinates
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() Vec {
	return Vec{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Radians converts degrees to radians
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RotatedBounds returns the axis-aligned bounding box of a width x height
// rectangle rotated by degrees about its center. The result is large enough
// that rotation never crops the source.
func RotatedBounds(width, height, degrees float64) (float64, float64) {
	rad := Radians(degrees)
	cos := math.Abs(math.Cos(rad))
	sin := math.Abs(math.Sin(rad))
	newWidth := width*cos + height*sin
	newHeight := width*sin + height*cos
	return newWidth, newHeight
}

// SurfaceSize rounds floating point bounds to whole pixels.
// Values within 1e-6 of an integer snap to it so that quarter turns
// keep exact dimensions.
func SurfaceSize(width, height float64) (int, int) {
	return snap(width), snap(height)
}

func snap(v float64) int {
	r := math.Round(v)
	if math.Abs(v-r) < 1e-6 {
		return int(r)
	}
	n := int(math.Ceil(v))
	if n < 1 {
		n = 1
	}
	return n
}

// Placement centers a bitmapWidth x bitmapHeight bitmap inside a
// targetWidth x targetHeight frame, scaled by scale and displaced by offset.
func Placement(bitmapWidth, bitmapHeight, scale float64, offset Vec, targetWidth, targetHeight float64) Rect {
	drawWidth := bitmapWidth * scale
	drawHeight := bitmapHeight * scale
	return Rect{
		X:      targetWidth/2 - drawWidth/2 + offset.X,
		Y:      targetHeight/2 - drawHeight/2 + offset.Y,
		Width:  drawWidth,
		Height: drawHeight,
	}
}

// ScaleOffset maps a pan offset measured on a viewport of viewportSize pixels
// onto a target of targetSize pixels.
func ScaleOffset(offset Vec, targetSize, viewportSize float64) Vec {
	if viewportSize == 0 {
		return offset
	}
	return offset.Mul(targetSize / viewportSize)
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
