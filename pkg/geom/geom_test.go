package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestRotatedBounds(t *testing.T) {
	tests := []struct {
		name          string
		w, h, degrees float64
		wantW, wantH  float64
	}{
		{name: "identity", w: 400, h: 200, degrees: 0, wantW: 400, wantH: 200},
		{name: "quarter turn", w: 400, h: 200, degrees: 90, wantW: 200, wantH: 400},
		{name: "negative quarter turn", w: 400, h: 200, degrees: -90, wantW: 200, wantH: 400},
		{name: "half turn", w: 400, h: 200, degrees: 180, wantW: 400, wantH: 200},
		{name: "full turn", w: 31, h: 17, degrees: 360, wantW: 31, wantH: 17},
		{name: "square at 45", w: 100, h: 100, degrees: 45, wantW: 100 * math.Sqrt2, wantH: 100 * math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := RotatedBounds(tt.w, tt.h, tt.degrees)
			if !approx(gotW, tt.wantW) || !approx(gotH, tt.wantH) {
				t.Fatalf("RotatedBounds(%v, %v, %v) = (%v, %v), want (%v, %v)",
					tt.w, tt.h, tt.degrees, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSurfaceSize(t *testing.T) {
	w, h := RotatedBounds(400, 200, 90)
	sw, sh := SurfaceSize(w, h)
	if sw != 200 || sh != 400 {
		t.Fatalf("SurfaceSize after quarter turn = %dx%d, want 200x400", sw, sh)
	}

	sw, sh = SurfaceSize(141.42, 0.2)
	if sw != 142 || sh != 1 {
		t.Fatalf("SurfaceSize(141.42, 0.2) = %dx%d, want 142x1", sw, sh)
	}
}

func TestPlacementCentersUnscaledBitmap(t *testing.T) {
	r := Placement(120, 80, 1, Vec{}, 300, 300)
	if !approx(r.X, (300-120)/2.0) || !approx(r.Y, (300-80)/2.0) {
		t.Fatalf("placement origin = (%v, %v), want (%v, %v)", r.X, r.Y, 90.0, 110.0)
	}
	if !approx(r.Width, 120) || !approx(r.Height, 80) {
		t.Fatalf("placement size = %vx%v, want 120x80", r.Width, r.Height)
	}
	c := r.Center()
	if !approx(c.X, 150) || !approx(c.Y, 150) {
		t.Fatalf("placement center = %+v, want (150,150)", c)
	}
}

func TestPlacementScaleAndOffset(t *testing.T) {
	r := Placement(400, 200, 1.5, Vec{X: 10, Y: -5}, 300, 300)
	if !approx(r.Width, 600) || !approx(r.Height, 300) {
		t.Fatalf("scaled size = %vx%v, want 600x300", r.Width, r.Height)
	}
	if !approx(r.X, 150-300+10) || !approx(r.Y, 150-150-5) {
		t.Fatalf("scaled origin = (%v, %v)", r.X, r.Y)
	}
}

func TestPlacementConsistentAcrossTargets(t *testing.T) {
	// The bitmap center lands on the same relative position for every target
	// as long as the offset is pre-scaled.
	offset := Vec{X: 30, Y: -12}
	view := Placement(400, 200, 1.2, offset, 300, 300)

	exportSize := 200.0
	ratio := exportSize / 300
	export := Placement(400*ratio, 200*ratio, 1.2, ScaleOffset(offset, exportSize, 300), exportSize, exportSize)

	vc := view.Center().Mul(1 / 300.0)
	ec := export.Center().Mul(1 / exportSize)
	if !approx(vc.X, ec.X) || !approx(vc.Y, ec.Y) {
		t.Fatalf("relative centers differ: view %+v export %+v", vc, ec)
	}
}

func TestScaleOffset(t *testing.T) {
	got := ScaleOffset(Vec{X: 30, Y: -15}, 200, 300)
	if !approx(got.X, 20) || !approx(got.Y, -10) {
		t.Fatalf("ScaleOffset = %+v, want (20,-10)", got)
	}
	if got := ScaleOffset(Vec{X: 1, Y: 2}, 200, 0); got != (Vec{X: 1, Y: 2}) {
		t.Fatalf("zero viewport should leave offset untouched, got %+v", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0.5, 3); got != 3 {
		t.Fatalf("Clamp high = %v", got)
	}
	if got := Clamp(0.1, 0.5, 3); got != 0.5 {
		t.Fatalf("Clamp low = %v", got)
	}
	if got := Clamp(1.1, 0.5, 3); got != 1.1 {
		t.Fatalf("Clamp inside = %v", got)
	}
}
