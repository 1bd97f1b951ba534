package script

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed edit script.
type Script struct {
	Pos      lexer.Position
	Commands []*Command `parser:"( @@ ';'? )*"`
}

// Command is one edit step. Exactly one field is set.
type Command struct {
	Pos lexer.Position

	Drag    *Drag    `parser:"  'drag' @@"`
	Zoom    *Zoom    `parser:"| 'zoom' @@"`
	Wheel   *float64 `parser:"| 'wheel' @(Float | Int)"`
	Rotate  *Rotate  `parser:"| 'rotate' @@"`
	Reset   bool     `parser:"| @'reset'"`
	Export  *string  `parser:"| 'export' @String"`
	Preview *string  `parser:"| 'preview' @String"`
}

// Drag pans by DX, DY viewport pixels.
type Drag struct {
	DX float64 `parser:"@(Float | Int) ','?"`
	DY float64 `parser:"@(Float | Int)"`
}

// Zoom applies Steps wheel notches in Direction ("in" or "out").
type Zoom struct {
	Direction string `parser:"@('in' | 'out')"`
	Steps     *int   `parser:"@Int?"`
}

// Count returns the number of notches, defaulting to one.
func (z *Zoom) Count() int {
	if z.Steps == nil {
		return 1
	}
	return *z.Steps
}

// Rotate turns by a named quarter turn or by Degrees clockwise.
type Rotate struct {
	Direction string   `parser:"  @('left' | 'right')"`
	Degrees   *float64 `parser:"| @(Float | Int)"`
}

// Angle resolves the rotation to degrees.
func (r *Rotate) Angle() float64 {
	switch strings.ToLower(r.Direction) {
	case "left":
		return -90
	case "right":
		return 90
	}
	if r.Degrees != nil {
		return *r.Degrees
	}
	return 0
}

func (c *Command) String() string {
	switch {
	case c.Drag != nil:
		return fmt.Sprintf("drag %g %g", c.Drag.DX, c.Drag.DY)
	case c.Zoom != nil:
		return fmt.Sprintf("zoom %s %d", strings.ToLower(c.Zoom.Direction), c.Zoom.Count())
	case c.Wheel != nil:
		return fmt.Sprintf("wheel %g", *c.Wheel)
	case c.Rotate != nil:
		return fmt.Sprintf("rotate %g", c.Rotate.Angle())
	case c.Reset:
		return "reset"
	case c.Export != nil:
		return fmt.Sprintf("export %q", *c.Export)
	case c.Preview != nil:
		return fmt.Sprintf("preview %q", *c.Preview)
	}
	return "<empty>"
}
