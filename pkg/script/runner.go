package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

// Runner replays scripts against an editor. The caller must own the
// editor's loop goroutine.
type Runner struct {
	Editor  *avatar.Editor
	BaseDir string    // relative output paths resolve against this
	Out     io.Writer // optional progress output
	Logger  *zap.Logger
}

// Run executes every command in order, settling pending rotations after
// each one so later commands see their result.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, cmd := range s.Commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug("script step", zap.String("cmd", cmd.String()), zap.String("pos", cmd.Pos.String()))
		if err := r.step(ctx, cmd); err != nil {
			return fmt.Errorf("%s: %s: %w", cmd.Pos, cmd, err)
		}
		if err := r.Editor.Settle(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) step(ctx context.Context, cmd *Command) error {
	ctrl := r.Editor.Controller()
	if r.Editor.Session() == nil && cmd.Export == nil && cmd.Preview == nil {
		return avatar.ErrNoBitmap
	}

	switch {
	case cmd.Drag != nil:
		ctrl.PointerDown(geom.Vec{})
		ctrl.PointerMove(geom.Vec{X: cmd.Drag.DX, Y: cmd.Drag.DY})
		ctrl.PointerUp()
	case cmd.Zoom != nil:
		delta := -1.0
		if strings.EqualFold(cmd.Zoom.Direction, "out") {
			delta = 1
		}
		for i := 0; i < cmd.Zoom.Count(); i++ {
			ctrl.Wheel(delta)
		}
	case cmd.Wheel != nil:
		ctrl.Wheel(*cmd.Wheel)
	case cmd.Rotate != nil:
		ctrl.Rotate(cmd.Rotate.Angle())
	case cmd.Reset:
		ctrl.Reset()
	case cmd.Export != nil:
		data, err := r.Editor.Export()
		if err != nil {
			return err
		}
		return r.write(*cmd.Export, data)
	case cmd.Preview != nil:
		frame := r.Editor.Frame()
		if frame == nil {
			return avatar.ErrNoBitmap
		}
		return r.write(*cmd.Preview, frame.PreviewPNG)
	}
	return nil
}

func (r *Runner) write(path string, data []byte) error {
	if !filepath.IsAbs(path) && r.BaseDir != "" {
		path = filepath.Join(r.BaseDir, path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	if r.Out != nil {
		fmt.Fprintf(r.Out, "✓ Wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}
