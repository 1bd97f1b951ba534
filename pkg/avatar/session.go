package avatar

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

// DragState is the interaction state of a session.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (d DragState) String() string {
	if d == Dragging {
		return "dragging"
	}
	return "idle"
}

// Session is the mutable state of one in-progress edit. It is only touched
// from the editor's loop goroutine.
type Session struct {
	id uint64

	bitmap     image.Image
	generation uint64 // bumped every time bitmap is replaced
	rotation   float64

	offset geom.Vec
	scale  float64

	minScale     float64
	maxScale     float64
	viewportSize int

	state      DragState
	dragAnchor geom.Vec
}

func newSession(id uint64, cfg Config, bitmap image.Image) *Session {
	s := &Session{
		id:           id,
		minScale:     cfg.MinScale,
		maxScale:     cfg.MaxScale,
		viewportSize: cfg.ViewportSize,
	}
	s.replaceBitmap(bitmap)
	s.reset()
	return s
}

// ID identifies the session among all sessions created by one editor.
func (s *Session) ID() uint64 { return s.id }

// Bitmap returns the current bitmap. The returned image must not be modified.
func (s *Session) Bitmap() image.Image { return s.bitmap }

// Generation counts bitmap replacements.
func (s *Session) Generation() uint64 { return s.generation }

// Rotation is the cumulative rotation in degrees baked into the bitmap.
func (s *Session) Rotation() float64 { return s.rotation }

// Offset returns the accumulated pan offset in viewport pixels.
func (s *Session) Offset() geom.Vec { return s.offset }

// Scale returns the zoom factor.
func (s *Session) Scale() float64 { return s.scale }

// ScaleBounds returns the configured zoom range.
func (s *Session) ScaleBounds() (float64, float64) { return s.minScale, s.maxScale }

// ViewportSize returns the interactive surface edge in pixels.
func (s *Session) ViewportSize() int { return s.viewportSize }

// State reports whether a drag is in progress.
func (s *Session) State() DragState { return s.state }

// BitmapSize returns the bitmap dimensions, or zero when empty.
func (s *Session) BitmapSize() image.Point {
	if s == nil || s.bitmap == nil {
		return image.Point{}
	}
	return s.bitmap.Bounds().Size()
}

func (s *Session) setScale(v float64) {
	s.scale = geom.Clamp(v, s.minScale, s.maxScale)
}

func (s *Session) pan(delta geom.Vec) {
	s.offset = s.offset.Add(delta)
}

func (s *Session) reset() {
	s.offset = geom.Vec{}
	s.setScale(1)
}

func (s *Session) replaceBitmap(img image.Image) {
	s.bitmap = img
	s.generation++
}
