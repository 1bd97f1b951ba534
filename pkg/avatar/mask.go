package avatar

import (
	"image"

	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// circleMask returns a size x size alpha mask holding an anti-aliased disc of
// the given radius centered in the square.
func circleMask(size int, radius float64) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	if size <= 0 || radius <= 0 {
		return mask
	}

	z := vector.NewRasterizer(size, size)
	cx := float32(size) / 2
	cy := float32(size) / 2
	r := float32(radius)
	k := float32(kappa) * r

	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}
