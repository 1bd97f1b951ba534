package avatar

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

// Command names a discrete editor action bound to a button or key.
type Command string

const (
	CommandRotateLeft  Command = "rotate-left"
	CommandRotateRight Command = "rotate-right"
	CommandReset       Command = "reset"
	CommandZoomIn      Command = "zoom-in"
	CommandZoomOut     Command = "zoom-out"
)

// Controller translates pointer, wheel and command input into session
// mutations. Every mutation is followed by a synchronous redraw.
type Controller struct {
	cfg     Config
	session *Session

	redraw func()
	rotate func(s *Session, degrees float64)
}

// NewController returns a controller that rotates synchronously and calls
// redraw after each mutation. Editors wire their own asynchronous rotation.
func NewController(cfg Config, redraw func()) *Controller {
	c := &Controller{cfg: cfg.withDefaults(), redraw: redraw}
	c.rotate = func(s *Session, degrees float64) {
		s.replaceBitmap(RotateBitmap(s.bitmap, degrees))
		s.rotation += degrees
		c.changed()
	}
	return c
}

// Bind points the controller at a session. A nil session detaches it.
func (c *Controller) Bind(s *Session) {
	c.session = s
}

// Session returns the bound session, if any.
func (c *Controller) Session() *Session {
	return c.session
}

func (c *Controller) changed() {
	if c.redraw != nil {
		c.redraw()
	}
}

func (c *Controller) ready() bool {
	return c.session != nil && c.session.bitmap != nil
}

// PointerDown starts a drag anchored at pos.
func (c *Controller) PointerDown(pos geom.Vec) {
	if !c.ready() {
		return
	}
	c.session.state = Dragging
	c.session.dragAnchor = pos
}

// PointerMove pans by the distance since the last pointer position while a
// drag is in progress. Moves outside a drag are ignored.
func (c *Controller) PointerMove(pos geom.Vec) {
	if !c.ready() || c.session.state != Dragging {
		return
	}
	c.session.pan(pos.Sub(c.session.dragAnchor))
	c.session.dragAnchor = pos
	c.changed()
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	if c.session == nil {
		return
	}
	c.session.state = Idle
}

// Wheel zooms out for positive deltaY (wheel forward) and in for negative
// deltaY, clamping to the configured bounds. A zero delta is ignored.
func (c *Controller) Wheel(deltaY float64) {
	if !c.ready() || deltaY == 0 {
		return
	}
	factor := c.cfg.ZoomInFactor
	if deltaY > 0 {
		factor = c.cfg.ZoomOutFactor
	}
	c.session.setScale(c.session.scale * factor)
	c.changed()
}

// Rotate replaces the bitmap with a copy rotated clockwise by degrees.
// Offset and scale are kept. No-op without a bitmap.
func (c *Controller) Rotate(degrees float64) {
	if !c.ready() {
		return
	}
	c.rotate(c.session, degrees)
}

// Reset recenters and unzooms. Rotation stays baked into the bitmap.
func (c *Controller) Reset() {
	if !c.ready() {
		return
	}
	c.session.reset()
	c.changed()
}

// Commands returns the command table used by buttons and shortcuts.
func (c *Controller) Commands() map[Command]func() {
	return map[Command]func(){
		CommandRotateLeft:  func() { c.Rotate(-90) },
		CommandRotateRight: func() { c.Rotate(90) },
		CommandReset:       c.Reset,
		CommandZoomIn:      func() { c.Wheel(-1) },
		CommandZoomOut:     func() { c.Wheel(1) },
	}
}

// CommandNames lists the known commands in stable order.
func (c *Controller) CommandNames() []Command {
	cmds := c.Commands()
	names := make([]Command, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Execute runs a named command.
func (c *Controller) Execute(cmd Command) error {
	fn, ok := c.Commands()[cmd]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	fn()
	return nil
}
