package avatar

import (
	"bytes"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

func TestNewRequiresCollaborators(t *testing.T) {
	rec := NewRecorder()
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "nothing"},
		{name: "surface only", opts: []Option{WithSurface(rec)}},
		{name: "preview only", opts: []Option{WithPreview(rec)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, err := New(DefaultConfig(), tt.opts...)
			if !errors.Is(err, ErrMissingCollaborator) {
				t.Fatalf("err = %v, want ErrMissingCollaborator", err)
			}
			if ed != nil {
				t.Fatal("editor returned despite missing collaborators")
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScale = 4
	rec := NewRecorder()
	if _, err := New(cfg, WithSurface(rec), WithPreview(rec)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestFileSelectionCreatesSession(t *testing.T) {
	ed, rec := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 400, 200)

	s := ed.Session()
	if s == nil {
		t.Fatal("no session after load")
	}
	if s.Scale() != 1 || !s.Offset().IsZero() {
		t.Fatalf("new session not reset: scale=%v offset=%+v", s.Scale(), s.Offset())
	}
	if got := s.BitmapSize(); got != image.Pt(400, 200) {
		t.Fatalf("bitmap size %v", got)
	}
	if !ed.Visible() || !rec.Visible || rec.Frames == 0 {
		t.Fatalf("surface not shown: visible=%v frames=%d", rec.Visible, rec.Frames)
	}
	if rec.Placeholder || len(rec.PreviewPNG) == 0 {
		t.Fatal("preview was not updated")
	}
	if ed.Frame() != rec.Last {
		t.Fatal("editor frame and surface frame differ")
	}
}

func TestFileSelectionRejectsUnsupportedType(t *testing.T) {
	ed, rec := newTestEditor(t, DefaultConfig())

	f := FileFromBytes("notes.txt", []byte("hello, this is not an image"))
	err := ed.OnFileSelected(f)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
	if ed.Session() != nil || ed.Pending() != 0 {
		t.Fatal("rejected file started a session")
	}
	if rec.Cleared != 1 || len(rec.Messages) != 1 {
		t.Fatalf("cleared=%d messages=%v", rec.Cleared, rec.Messages)
	}
}

func TestFileSelectionRejectsOversized(t *testing.T) {
	cfg := DefaultConfig()
	ed, rec := newTestEditor(t, cfg)

	f := &File{
		Name: "huge.png",
		Type: "image/png",
		Size: cfg.MaxFileSize + 1,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(nil)), nil },
	}
	err := ed.OnFileSelected(f)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
	if ed.Session() != nil {
		t.Fatal("oversized file started a session")
	}
	if rec.Cleared != 1 {
		t.Fatalf("input cleared %d times, want 1", rec.Cleared)
	}
	if len(rec.Messages) != 1 || rec.Messages[0] != "File size must not exceed 2 MB." {
		t.Fatalf("messages = %q", rec.Messages)
	}
}

func TestFileSizeLimitDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFileSize = 0
	ed, _ := newTestEditor(t, cfg)

	data := pngBytes(t, splitImage(10, 10))
	f := FileFromBytes("big.png", data)
	f.Size = 1 << 30
	if err := ed.LoadFile(testContext(t), f); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ed.Session() == nil {
		t.Fatal("no session with size limit disabled")
	}
}

func TestFileClearedTearsDown(t *testing.T) {
	ed, rec := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 40, 40)

	if err := ed.OnFileSelected(nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if ed.Session() != nil || ed.Controller().Session() != nil {
		t.Fatal("session survived clearing the input")
	}
	if ed.Visible() || rec.Visible {
		t.Fatal("surface still visible")
	}
	if !rec.Placeholder {
		t.Fatal("preview not restored to placeholder")
	}
	if _, err := ed.Export(); !errors.Is(err, ErrNoBitmap) {
		t.Fatalf("export after clear err = %v", err)
	}
}

func TestDecodeFailureTearsDown(t *testing.T) {
	ed, rec := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 40, 40)

	broken := &File{
		Name: "broken.png",
		Type: "image/png",
		Size: 12,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("not an image"))), nil
		},
	}
	err := ed.LoadFile(testContext(t), broken)
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("err = %v, want ErrDecodeFailed", err)
	}
	if ed.Session() != nil {
		t.Fatal("session left behind after decode failure")
	}
	if rec.Visible {
		t.Fatal("surface left visible after decode failure")
	}
	if len(rec.Messages) != 1 {
		t.Fatalf("messages = %q", rec.Messages)
	}
}

func TestStaleDecodeIsDropped(t *testing.T) {
	ed, _ := newTestEditor(t, DefaultConfig())

	first := FileFromBytes("first.png", pngBytes(t, splitImage(30, 10)))
	second := FileFromBytes("second.png", pngBytes(t, splitImage(12, 48)))
	if err := ed.OnFileSelected(first); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := ed.OnFileSelected(second); err != nil {
		t.Fatalf("second: %v", err)
	}
	if ed.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", ed.Pending())
	}
	if err := ed.Settle(testContext(t)); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if got := ed.Session().BitmapSize(); got != image.Pt(12, 48) {
		t.Fatalf("session shows %v, want the second file", got)
	}
	if ed.Session().ID() != 1 {
		t.Fatalf("stale completion created a session: id=%d", ed.Session().ID())
	}
}

func TestConcurrentRotationsAccumulate(t *testing.T) {
	ed, _ := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 400, 200)
	ctrl := ed.Controller()

	ctrl.Rotate(90)
	ctrl.Rotate(90)
	ctrl.Rotate(90)
	if err := ed.Settle(testContext(t)); err != nil {
		t.Fatalf("settle: %v", err)
	}

	s := ed.Session()
	if s.Rotation() != 270 {
		t.Fatalf("rotation = %v, want 270", s.Rotation())
	}
	if got := s.BitmapSize(); got != image.Pt(200, 400) {
		t.Fatalf("bitmap %v, want 200x400", got)
	}
	if s.Generation() != 4 {
		t.Fatalf("generation = %d, want 4 (load + three rotations)", s.Generation())
	}
}

func TestRotationForClosedSessionIsDropped(t *testing.T) {
	ed, _ := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 400, 200)

	ed.Controller().Rotate(90)
	ed.Load(splitImage(50, 60))
	if err := ed.Settle(testContext(t)); err != nil {
		t.Fatalf("settle: %v", err)
	}
	s := ed.Session()
	if got := s.BitmapSize(); got != image.Pt(50, 60) {
		t.Fatalf("bitmap %v, want untouched 50x60", got)
	}
	if s.Rotation() != 0 {
		t.Fatalf("rotation leaked into new session: %v", s.Rotation())
	}
}

func TestRedrawIsIdempotent(t *testing.T) {
	ed, rec := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 400, 200)

	ed.Redraw()
	first := rec.Last
	ed.Redraw()
	second := rec.Last
	if !bytes.Equal(first.Viewport.Pix, second.Viewport.Pix) || !bytes.Equal(first.PreviewPNG, second.PreviewPNG) {
		t.Fatal("redraw without state change produced different output")
	}
}

func TestExportWithoutSession(t *testing.T) {
	ed, _ := newTestEditor(t, DefaultConfig())
	data, err := ed.Export()
	if !errors.Is(err, ErrNoBitmap) || data != nil {
		t.Fatalf("Export() = %d bytes, %v; want nil, ErrNoBitmap", len(data), err)
	}
	if _, err := ed.ExportDataURL(); !errors.Is(err, ErrNoBitmap) {
		t.Fatalf("ExportDataURL err = %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	ed, rec := newTestEditor(t, DefaultConfig())
	loadSplit(t, ed, 400, 200)
	ctrl := ed.Controller()

	ctrl.PointerDown(geom.Vec{X: 100, Y: 100})
	ctrl.PointerMove(geom.Vec{X: 110, Y: 95})
	ctrl.PointerUp()

	ctrl.Wheel(-1)
	if got := ed.Session().Scale(); got < 1.0999 || got > 1.1001 {
		t.Fatalf("scale after zoom in = %v, want 1.1", got)
	}

	ctrl.Rotate(90)
	if err := ed.Settle(testContext(t)); err != nil {
		t.Fatalf("settle: %v", err)
	}

	s := ed.Session()
	if got := s.BitmapSize(); got != image.Pt(200, 400) {
		t.Fatalf("rotated bitmap %v, want 200x400", got)
	}
	if s.Offset() != (geom.Vec{X: 10, Y: -5}) {
		t.Fatalf("offset changed by rotation: %+v", s.Offset())
	}

	data, err := ed.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(200, 200) {
		t.Fatalf("export size %v, want 200x200", got)
	}
	if rec.Frames < 4 {
		t.Fatalf("frames = %d, every mutation should redraw", rec.Frames)
	}
}
