// Package avatar implements a circular avatar editor: a decoded bitmap is
// panned, zoomed and rotated inside a fixed-size viewport and composited
// through a circular clip mask.
//
// # Overview
//
// The package is split into four pieces:
//   - Session: the mutable edit state (bitmap, offset, scale)
//   - Renderer: draws the viewport, the small preview and the export image
//   - Controller: turns pointer, wheel and command input into session mutations
//   - Editor: owns the session lifecycle in response to file selection
//
// # Threading
//
// All session mutations happen on a single goroutine driven by a Loop. The
// only asynchronous work is bitmap production (file decode and rotation),
// which runs on its own goroutine and posts its result back to the Loop.
// Results that no longer match the session they were issued for are dropped.
//
// # Usage
//
//	rec := avatar.NewRecorder()
//	ed, err := avatar.New(avatar.DefaultConfig(), avatar.WithSurface(rec), avatar.WithPreview(rec))
//	if err != nil {
//		return err
//	}
//	f, _ := avatar.FileFromPath("me.jpg")
//	if err := ed.LoadFile(ctx, f); err != nil {
//		return err
//	}
//	ctrl := ed.Controller()
//	ctrl.PointerDown(geom.Vec{X: 0, Y: 0})
//	ctrl.PointerMove(geom.Vec{X: 10, Y: -5})
//	ctrl.PointerUp()
//	ctrl.Wheel(-1) // zoom in
//	data, err := ed.Export()
package avatar
