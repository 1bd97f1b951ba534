package ui

import (
	"image"
	"image/color"
	"math"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/geom"
)

// viewport is the interactive round crop area. Frames are drawn one image
// pixel per screen pixel so pointer positions map directly onto the editor's
// viewport coordinates.
type viewport struct {
	ctrl   *avatar.Controller
	canvas *canvas
	size   int
}

func (v *viewport) update(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pos := geom.Vec{X: float64(pe.Position.X), Y: float64(pe.Position.Y)}
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				v.ctrl.PointerDown(pos)
			}
		case pointer.Drag:
			// delivered outside the area too while the press grab holds
			v.ctrl.PointerMove(pos)
		case pointer.Release, pointer.Cancel:
			v.ctrl.PointerUp()
		case pointer.Scroll:
			v.ctrl.Wheel(float64(pe.Scroll.Y))
		}
	}
}

func (v *viewport) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	v.update(gtx)

	size := image.Pt(v.size, v.size)
	gtx.Constraints = layout.Exact(size)

	if v.canvas.visible {
		widget.Image{Src: v.canvas.img, Scale: 1 / gtx.Metric.PxPerDp}.Layout(gtx)
	} else {
		paint.FillShape(gtx.Ops, color.NRGBA{R: 226, G: 230, B: 242, A: 255}, clip.Ellipse{Max: size}.Op(gtx.Ops))
		layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Body2(th, "Open an image to start")
			lbl.Color = color.NRGBA{R: 110, G: 116, B: 135, A: 255}
			return lbl.Layout(gtx)
		})
	}

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, v)
	if v.canvas.visible {
		pointer.CursorGrab.Add(gtx.Ops)
	}
	area.Pop()
	return layout.Dimensions{Size: size}
}

func layoutPreview(gtx layout.Context, p *previewPane, edge int) layout.Dimensions {
	size := image.Pt(edge, edge)
	gtx.Constraints = layout.Exact(size)
	if !p.ready {
		paint.FillShape(gtx.Ops, color.NRGBA{R: 200, G: 205, B: 220, A: 255}, clip.Ellipse{Max: size}.Op(gtx.Ops))
		return layout.Dimensions{Size: size}
	}
	widget.Image{Src: p.img, Scale: 1 / gtx.Metric.PxPerDp}.Layout(gtx)
	return layout.Dimensions{Size: size}
}
