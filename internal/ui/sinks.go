package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"gioui.org/op/paint"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
)

// canvas is the viewport surface handed to the editor. It is only touched on
// the window goroutine.
type canvas struct {
	visible bool
	frames  int
	img     paint.ImageOp
	size    image.Point
}

func (c *canvas) Show(frame *avatar.Frame) {
	c.visible = true
	c.frames++
	c.img = paint.NewImageOp(frame.Viewport)
	c.size = frame.Viewport.Bounds().Size()
}

func (c *canvas) Hide() {
	c.visible = false
}

// previewPane shows the small round preview or a placeholder.
type previewPane struct {
	ready bool
	img   paint.ImageOp
	size  image.Point
	png   []byte
}

func (p *previewPane) SetPreview(img image.Image, png []byte) {
	p.ready = true
	p.img = paint.NewImageOp(img)
	p.size = img.Bounds().Size()
	p.png = png
}

func (p *previewPane) SetPlaceholder() {
	p.ready = false
	p.img = paint.ImageOp{}
	p.size = image.Point{}
	p.png = nil
}

// stateNotifier surfaces editor messages in the status bar.
type stateNotifier struct {
	state *AppState
}

func (n *stateNotifier) Notify(msg string) {
	n.state.SetStatus(msg)
	n.state.AppendLog("[NOTICE] " + msg)
}

// fileInput is the open button's selection, cleared after a rejected file.
type fileInput struct {
	state *AppState
}

func (in *fileInput) Clear() {
	in.state.SetFile("")
}

// stateWriter feeds encoded log lines into the log pane.
type stateWriter struct {
	state *AppState
}

func (w stateWriter) Write(p []byte) (int, error) {
	w.state.AppendLog(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// paneLogger tees base into the log pane at info level.
func paneLogger(base *zap.Logger, state *AppState) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.Stamp)
	enc.EncodeLevel = func(l zapcore.Level, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(fmt.Sprintf("[%s]", l.CapitalString()))
	}
	enc.CallerKey = ""
	enc.StacktraceKey = ""
	pane := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(stateWriter{state: state}), zapcore.InfoLevel)
	return zap.New(zapcore.NewTee(base.Core(), pane))
}
