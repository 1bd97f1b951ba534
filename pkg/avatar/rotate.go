package avatar

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

// normalizeDegrees maps degrees into [0, 360)
func normalizeDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// RotateBitmap draws src rotated clockwise by degrees about its center into a
// freshly sized bitmap holding the whole rotated extent. The source is left
// untouched. Quarter turns are exact pixel permutations; other angles are
// resampled bilinearly with transparent corners.
func RotateBitmap(src image.Image, degrees float64) *image.NRGBA {
	switch normalizeDegrees(degrees) {
	case 0:
		return imaging.Clone(src)
	case 90:
		return imaging.Rotate270(src)
	case 180:
		return imaging.Rotate180(src)
	case 270:
		return imaging.Rotate90(src)
	}

	sb := src.Bounds()
	w, h := geom.SurfaceSize(geom.RotatedBounds(float64(sb.Dx()), float64(sb.Dy()), degrees))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	sin, cos := math.Sincos(geom.Radians(degrees))
	cx := float64(sb.Min.X) + float64(sb.Dx())/2
	cy := float64(sb.Min.Y) + float64(sb.Dy())/2
	dx := float64(w) / 2
	dy := float64(h) / 2

	// translate(dst center) * rotate * translate(-src center)
	s2d := f64.Aff3{
		cos, -sin, dx - (cos*cx - sin*cy),
		sin, cos, dy - (sin*cx + cos*cy),
	}
	draw.BiLinear.Transform(dst, s2d, src, sb, draw.Src, nil)
	return dst
}
