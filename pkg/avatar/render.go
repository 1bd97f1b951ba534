package avatar

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

// Frame is the output of one viewport render.
type Frame struct {
	Viewport   *image.RGBA
	Preview    *image.RGBA
	PreviewPNG []byte
	Placement  geom.Rect // where the bitmap was drawn on the viewport
}

// PreviewDataURL returns the preview as a PNG data URL.
func (f *Frame) PreviewDataURL() string {
	return DataURL(FormatPNG.MIME(), f.PreviewPNG)
}

// Renderer draws sessions onto circular surfaces. Masks are computed once per
// renderer since the sizes are fixed by the config.
type Renderer struct {
	cfg Config

	viewportMask *image.Alpha
	previewMask  *image.Alpha
	exportMask   *image.Alpha
}

// NewRenderer prepares clip masks for cfg.
func NewRenderer(cfg Config) *Renderer {
	cfg = cfg.withDefaults()
	return &Renderer{
		cfg:          cfg,
		viewportMask: circleMask(cfg.ViewportSize, cfg.viewportRadius()),
		previewMask:  circleMask(cfg.PreviewSize, float64(cfg.PreviewSize)/2),
		exportMask:   circleMask(cfg.ExportSize, float64(cfg.ExportSize)/2),
	}
}

// RenderViewport clears the viewport, draws the session bitmap clipped to
// the viewport circle and derives the preview from the result. An empty
// session renders a blank frame.
func (r *Renderer) RenderViewport(s *Session) (*Frame, error) {
	size := r.cfg.ViewportSize
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	frame := &Frame{Viewport: dst}
	if s != nil && s.bitmap != nil {
		b := s.bitmap.Bounds()
		frame.Placement = geom.Placement(float64(b.Dx()), float64(b.Dy()), s.scale, s.offset, float64(size), float64(size))
		drawPlaced(dst, s.bitmap, frame.Placement, r.viewportMask, draw.ApproxBiLinear)
	}

	preview, encoded, err := r.RenderPreview(dst)
	if err != nil {
		return nil, err
	}
	frame.Preview = preview
	frame.PreviewPNG = encoded
	return frame, nil
}

// RenderPreview downsamples a rendered viewport into the small circular
// thumbnail. It works from the viewport pixels so preview and viewport can
// never disagree.
func (r *Renderer) RenderPreview(viewport *image.RGBA) (*image.RGBA, []byte, error) {
	size := r.cfg.PreviewSize
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), viewport, viewport.Bounds(), draw.Over, &draw.Options{
		DstMask: r.previewMask,
	})
	encoded, err := encodeBytes(dst, FormatPNG, 0)
	if err != nil {
		return nil, nil, err
	}
	return dst, encoded, nil
}

// ExportImage renders the session at the export resolution, independent of
// the live viewport's pixel size.
func (r *Renderer) ExportImage(s *Session) (*image.RGBA, error) {
	if s == nil || s.bitmap == nil {
		return nil, ErrNoBitmap
	}
	size := r.cfg.ExportSize
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if r.cfg.ExportFormat == FormatJPEG {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(r.cfg.ExportBackground), image.Point{}, draw.Src)
	}

	ratio := r.cfg.exportRatio()
	b := s.bitmap.Bounds()
	place := geom.Placement(
		float64(b.Dx()), float64(b.Dy()),
		s.scale*ratio,
		geom.ScaleOffset(s.offset, float64(size), float64(r.cfg.ViewportSize)),
		float64(size), float64(size),
	)
	drawPlaced(dst, s.bitmap, place, r.exportMask, draw.CatmullRom)
	return dst, nil
}

// Export renders and encodes the session with the configured format and
// quality. It returns ErrNoBitmap when nothing is loaded.
func (r *Renderer) Export(s *Session) ([]byte, error) {
	img, err := r.ExportImage(s)
	if err != nil {
		return nil, err
	}
	return encodeBytes(img, r.cfg.ExportFormat, r.cfg.ExportQuality)
}

// drawPlaced maps src onto the place rectangle of dst, compositing only
// where mask is set.
func drawPlaced(dst draw.Image, src image.Image, place geom.Rect, mask image.Image, interp draw.Transformer) {
	sb := src.Bounds()
	if sb.Empty() || place.Width <= 0 || place.Height <= 0 {
		return
	}
	sx := place.Width / float64(sb.Dx())
	sy := place.Height / float64(sb.Dy())
	s2d := f64.Aff3{
		sx, 0, place.X - sx*float64(sb.Min.X),
		0, sy, place.Y - sy*float64(sb.Min.Y),
	}
	interp.Transform(dst, s2d, src, sb, draw.Over, &draw.Options{DstMask: mask})
}
