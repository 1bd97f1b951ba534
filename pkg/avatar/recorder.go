package avatar

import "image"

// Recorder is a headless Surface, PreviewSink, Notifier and Input. It keeps
// the last values it was handed; the CLI and tests use it in place of a
// window.
type Recorder struct {
	Frames      int
	Last        *Frame
	Visible     bool
	Preview     image.Image
	PreviewPNG  []byte
	Placeholder bool
	Messages    []string
	Cleared     int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Placeholder: true}
}

func (r *Recorder) Show(frame *Frame) {
	r.Frames++
	r.Last = frame
	r.Visible = true
}

func (r *Recorder) Hide() {
	r.Visible = false
}

func (r *Recorder) SetPreview(img image.Image, png []byte) {
	r.Preview = img
	r.PreviewPNG = png
	r.Placeholder = false
}

func (r *Recorder) SetPlaceholder() {
	r.Preview = nil
	r.PreviewPNG = nil
	r.Placeholder = true
}

func (r *Recorder) Notify(msg string) {
	r.Messages = append(r.Messages, msg)
}

func (r *Recorder) Clear() {
	r.Cleared++
}
