package avatar

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"
)

// Surface displays the interactive viewport.
type Surface interface {
	Show(frame *Frame)
	Hide()
}

// PreviewSink receives the small preview after every redraw.
type PreviewSink interface {
	SetPreview(img image.Image, png []byte)
	SetPlaceholder()
}

// Notifier shows a user-visible message.
type Notifier interface {
	Notify(msg string)
}

// Input is the file selection control feeding the editor.
type Input interface {
	Clear()
}

// Option configures an Editor.
type Option func(*Editor)

// WithSurface sets the viewport display. Required.
func WithSurface(s Surface) Option {
	return func(e *Editor) { e.surface = s }
}

// WithPreview sets the preview display. Required.
func WithPreview(p PreviewSink) Option {
	return func(e *Editor) { e.preview = p }
}

// WithNotifier sets where validation and decode messages go.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithInput sets the file input cleared after a rejected selection.
func WithInput(in Input) Option {
	return func(e *Editor) { e.input = in }
}

// WithLoop shares an existing loop instead of creating one.
func WithLoop(l *Loop) Option {
	return func(e *Editor) { e.loop = l }
}

// Editor owns one editing session at a time and its lifecycle in response to
// file selection. All methods must be called from the loop goroutine.
type Editor struct {
	cfg      Config
	log      *zap.Logger
	renderer *Renderer
	ctrl     *Controller

	loop      *Loop
	ownsLoop  bool
	surface   Surface
	preview   PreviewSink
	notifier  Notifier
	input     Input
	visible   bool
	session   *Session
	frame     *Frame
	lastErr   error
	loadSeq   uint64
	sessionID uint64
	pending   int
}

// New builds an editor. A missing surface or preview sink is a fatal
// configuration error.
func New(cfg Config, opts ...Option) (*Editor, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger.Named("avatar")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid editor config", zap.Error(err))
		return nil, err
	}

	e := &Editor{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(e)
	}
	if e.surface == nil || e.preview == nil {
		err := fmt.Errorf("%w: surface and preview are required", ErrMissingCollaborator)
		log.Error("editor construction aborted", zap.Error(err))
		return nil, err
	}
	if e.loop == nil {
		e.loop = NewLoop()
		e.ownsLoop = true
	}

	e.renderer = NewRenderer(cfg)
	e.ctrl = NewController(cfg, e.Redraw)
	e.ctrl.rotate = e.rotateAsync
	return e, nil
}

// Config returns the effective configuration.
func (e *Editor) Config() Config { return e.cfg }

// Controller returns the interaction controller bound to the live session.
func (e *Editor) Controller() *Controller { return e.ctrl }

// Renderer returns the editor's render pipeline.
func (e *Editor) Renderer() *Renderer { return e.renderer }

// Loop returns the loop completions are posted to.
func (e *Editor) Loop() *Loop { return e.loop }

// Session returns the live session or nil.
func (e *Editor) Session() *Session { return e.session }

// Frame returns the last rendered frame or nil.
func (e *Editor) Frame() *Frame { return e.frame }

// Visible reports whether the viewport surface is shown.
func (e *Editor) Visible() bool { return e.visible }

// Pending is the number of decodes or rotations not yet applied.
func (e *Editor) Pending() int { return e.pending }

// Err returns the last load or decode error.
func (e *Editor) Err() error { return e.lastErr }

// OnFileSelected handles a change of the file input. A nil file tears the
// session down and restores the preview placeholder. Rejected files leave no
// session, clear the input and return ErrFileTooLarge or ErrUnsupportedType.
// Accepted files are decoded in the background; the session appears once the
// completion has run on the loop.
func (e *Editor) OnFileSelected(f *File) error {
	if f == nil {
		e.log.Debug("file input cleared")
		e.teardown()
		e.preview.SetPlaceholder()
		return nil
	}

	if err := e.validate(f); err != nil {
		e.lastErr = err
		e.log.Info("file rejected", zap.String("name", f.Name), zap.String("type", f.Type),
			zap.Int64("size", f.Size), zap.Error(err))
		e.notify(userMessage(err, e.cfg))
		if e.input != nil {
			e.input.Clear()
		}
		return err
	}

	e.lastErr = nil
	e.loadSeq++
	seq := e.loadSeq
	e.pending++
	e.log.Info("decoding file", zap.String("name", f.Name), zap.String("type", f.Type), zap.Int64("size", f.Size))

	go func() {
		img, err := decodeFile(f)
		e.loop.Post(func() {
			e.pending--
			e.finishLoad(seq, f.Name, img, err)
		})
	}()
	return nil
}

// LoadFile selects f and waits on the loop until its decode has been
// applied. Intended for headless callers that own the loop goroutine.
func (e *Editor) LoadFile(ctx context.Context, f *File) error {
	if err := e.OnFileSelected(f); err != nil {
		return err
	}
	if err := e.Settle(ctx); err != nil {
		return err
	}
	if e.session == nil && f != nil {
		if e.lastErr != nil {
			return e.lastErr
		}
		return ErrDecodeFailed
	}
	return nil
}

// Load installs an already decoded bitmap as a new session.
func (e *Editor) Load(img image.Image) {
	e.loadSeq++
	e.install(img)
}

// Settle runs loop tasks until no decode or rotation is outstanding.
func (e *Editor) Settle(ctx context.Context) error {
	for e.pending > 0 {
		if err := e.loop.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Redraw renders the viewport and preview for the current session and pushes
// them to the surface and preview sink.
func (e *Editor) Redraw() {
	if e.session == nil {
		return
	}
	frame, err := e.renderer.RenderViewport(e.session)
	if err != nil {
		e.log.Error("render failed", zap.Error(err))
		return
	}
	e.frame = frame
	e.surface.Show(frame)
	e.preview.SetPreview(frame.Preview, frame.PreviewPNG)
}

// Export encodes the current session at the export resolution. It returns
// ErrNoBitmap when no session is live.
func (e *Editor) Export() ([]byte, error) {
	if e.session == nil {
		return nil, ErrNoBitmap
	}
	data, err := e.renderer.Export(e.session)
	if err != nil {
		return nil, err
	}
	e.log.Info("exported avatar", zap.Int("bytes", len(data)), zap.String("format", string(e.cfg.ExportFormat)))
	return data, nil
}

// ExportDataURL is Export wrapped in a data URL for form submission.
func (e *Editor) ExportDataURL() (string, error) {
	data, err := e.Export()
	if err != nil {
		return "", err
	}
	return DataURL(e.cfg.ExportFormat.MIME(), data), nil
}

// Close discards the session and, if the editor created it, the loop.
func (e *Editor) Close() {
	e.teardown()
	if e.ownsLoop {
		e.loop.Close()
	}
}

func (e *Editor) validate(f *File) error {
	if e.cfg.MaxFileSize > 0 && f.Size > e.cfg.MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, f.Name, f.Size, e.cfg.MaxFileSize)
	}
	if !typeAllowed(f.Type, e.cfg.AllowedTypes) {
		return fmt.Errorf("%w: %s has type %q", ErrUnsupportedType, f.Name, f.Type)
	}
	if f.Open == nil {
		return fmt.Errorf("%w: %s cannot be read", ErrDecodeFailed, f.Name)
	}
	return nil
}

func decodeFile(f *File) (image.Image, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	defer rc.Close()
	return Decode(rc)
}

func (e *Editor) finishLoad(seq uint64, name string, img image.Image, err error) {
	if seq != e.loadSeq {
		e.log.Debug("dropping stale decode", zap.String("name", name))
		return
	}
	if err != nil {
		e.lastErr = err
		e.log.Warn("decode failed", zap.String("name", name), zap.Error(err))
		e.notify("The selected image could not be read.")
		e.teardown()
		return
	}
	b := img.Bounds()
	e.log.Info("image loaded", zap.String("name", name), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	e.install(img)
}

func (e *Editor) install(img image.Image) {
	if e.session != nil {
		e.log.Debug("replacing session", zap.Uint64("session", e.session.id))
	}
	e.sessionID++
	s := newSession(e.sessionID, e.cfg, img)
	e.session = s
	e.ctrl.Bind(s)
	e.visible = true
	e.ctrl.Reset()
}

// rotateAsync renders the rotation off the loop and applies it when it comes
// back. A completion for a session that is gone is dropped; one that raced
// another rotation is reapplied on top of the newer bitmap.
func (e *Editor) rotateAsync(s *Session, degrees float64) {
	src := s.bitmap
	gen := s.generation
	id := s.id
	e.pending++
	e.log.Debug("rotating", zap.Float64("degrees", degrees), zap.Uint64("generation", gen))

	go func() {
		rotated := RotateBitmap(src, degrees)
		e.loop.Post(func() {
			e.pending--
			cur := e.session
			switch {
			case cur == nil || cur.id != id:
				e.log.Debug("dropping rotation for closed session", zap.Uint64("session", id))
			case cur.generation != gen:
				e.rotateAsync(cur, degrees)
			default:
				cur.replaceBitmap(rotated)
				cur.rotation += degrees
				e.Redraw()
			}
		})
	}()
}

func (e *Editor) teardown() {
	e.loadSeq++
	e.session = nil
	e.frame = nil
	e.ctrl.Bind(nil)
	if e.visible {
		e.visible = false
		e.surface.Hide()
	}
}

func (e *Editor) notify(msg string) {
	if e.notifier != nil {
		e.notifier.Notify(msg)
		return
	}
	e.log.Warn(msg)
}

func userMessage(err error, cfg Config) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File size must not exceed %s.", humanSize(cfg.MaxFileSize))
	case errors.Is(err, ErrUnsupportedType):
		return "Only PNG, JPG and JPEG images are supported."
	}
	return "The selected file cannot be used."
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	if n >= 1024 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}
