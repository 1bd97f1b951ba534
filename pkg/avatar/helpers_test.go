package avatar

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"
	"time"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// splitImage returns a w x h bitmap, red on the left half and blue on the
// right, with a green marker pixel at the top-left corner.
func splitImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, red)
			} else {
				img.SetNRGBA(x, y, blue)
			}
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{G: 255, A: 255})
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatPNG, 0); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func newTestEditor(t *testing.T, cfg Config) (*Editor, *Recorder) {
	t.Helper()
	rec := NewRecorder()
	ed, err := New(cfg, WithSurface(rec), WithPreview(rec), WithNotifier(rec), WithInput(rec))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(ed.Close)
	return ed, rec
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func loadSplit(t *testing.T, ed *Editor, w, h int) {
	t.Helper()
	f := FileFromBytes("split.png", pngBytes(t, splitImage(w, h)))
	if err := ed.LoadFile(testContext(t), f); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
}
