package viz

import (
	"math"
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected dots to be set")
	}
	if c.Grid[0][0] != 0x2801 || c.Grid[0][1] != 0x2880 {
		t.Errorf("unexpected runes %U %U", c.Grid[0][0], c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) || c.Grid[0][0] != 0x2800 {
		t.Error("unset did not clear the dot")
	}

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("clear left dots behind")
	}
}

func TestCanvasDrawDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawDisc(10, 10, 2)

	count := 0
	c.Dots(func(x, y int) {
		count++
		if d := (x-10)*(x-10) + (y-10)*(y-10); d > 4 {
			t.Errorf("dot (%d,%d) outside radius", x, y)
		}
	})
	if count != 13 {
		t.Errorf("expected 13 dots in radius-2 disc, got %d", count)
	}

	c.Clear()
	c.DrawDisc(0, 0, 0)
	count = 0
	c.Dots(func(x, y int) { count++ })
	if count != 1 {
		t.Errorf("radius 0 should set one dot, got %d", count)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 1, 9, 1)
	for x := 0; x < 10; x++ {
		if !c.IsSet(x, 1) {
			t.Errorf("dot %d not set", x)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera()
	vp := Viewport{Lo: -10, Hi: 10, Width: 101, Height: 101}

	x, y, ok := cam.Project(Vec3{0, 0, 0}, vp)
	if !ok || x != 50 || y != 50 {
		t.Errorf("origin projected to (%d,%d,%v)", x, y, ok)
	}

	x, y, ok = cam.Project(Vec3{10, 10, 3}, vp)
	if !ok || x != 100 || y != 0 {
		t.Errorf("corner projected to (%d,%d,%v)", x, y, ok)
	}

	if _, _, ok = cam.Project(Vec3{20, 0, 0}, vp); ok {
		t.Error("point outside window reported visible")
	}

	cam.RotateZ(math.Pi / 2)
	x, y, _ = cam.Project(Vec3{10, 0, 0}, vp)
	if x != 50 || y != 0 {
		t.Errorf("rotated point projected to (%d,%d)", x, y)
	}

	cam.Reset()
	cam.ZoomIn()
	if cam.Zoom <= 1 {
		t.Error("zoom in should magnify")
	}
}

func TestNormalizeMass(t *testing.T) {
	uniform := NormalizeMass([]float64{25, 25, 25, 25})
	for _, v := range uniform {
		if v != 225 {
			t.Errorf("uniform masses should map to 225, got %v", v)
		}
	}

	sizes := NormalizeMass([]float64{10, 20, 70})
	if !(sizes[2] > 225 && sizes[0] < 225) {
		t.Errorf("heavier body should be larger: %v", sizes)
	}
	for _, v := range sizes {
		if v < 225-144 {
			t.Errorf("size %v below floor", v)
		}
	}

	if len(NormalizeMass(nil)) != 0 {
		t.Error("expected empty output")
	}
}

func TestMarkerRadius(t *testing.T) {
	if MarkerRadius(225) != 2 {
		t.Errorf("expected radius 2, got %d", MarkerRadius(225))
	}
	if MarkerRadius(81) != 1 {
		t.Errorf("expected radius 1, got %d", MarkerRadius(81))
	}
	if MarkerRadius(-5) != 0 {
		t.Error("negative area should give 0")
	}
}

func TestEnergyBounds(t *testing.T) {
	tests := []struct {
		ke, pe []float64
		want   float64
	}{
		{[]float64{1.5}, []float64{-3.2}, 4},
		{[]float64{10}, []float64{-41}, 60},
		{[]float64{312.5}, []float64{-1250}, 1300},
		{[]float64{120}, []float64{-250}, 300},
		{[]float64{0}, []float64{0}, 1},
	}
	for _, tt := range tests {
		if got := EnergyBounds(tt.ke, tt.pe); got != tt.want {
			t.Errorf("EnergyBounds(%v, %v) = %v, want %v", tt.ke, tt.pe, got, tt.want)
		}
	}
}

func TestViewBounds(t *testing.T) {
	lo, hi := ViewBounds([]Vec3{{1, 2, 0}, {-3, 4, 100}}, 20)
	if lo != -20 || hi != 20 {
		t.Errorf("points inside window should keep it, got [%v, %v]", lo, hi)
	}

	lo, hi = ViewBounds([]Vec3{{100, 0, 0}, {-50, 10, 0}}, 20)
	if math.Abs(hi-110) > 1e-9 || math.Abs(lo+55) > 1e-9 {
		t.Errorf("expected [-55, 110], got [%v, %v]", lo, hi)
	}

	lo, hi = ViewBounds(nil, 5)
	if lo != -5 || hi != 5 {
		t.Errorf("empty input should give default window, got [%v, %v]", lo, hi)
	}
}

func TestEnergyPlot(t *testing.T) {
	if EnergyPlot(nil, nil, 20, 5, 0) != "" {
		t.Error("empty series should render empty")
	}
	plot := EnergyPlot([]float64{1, 2, 3}, []float64{-4, -5, -6}, 20, 5, 10)
	if !strings.Contains(plot, "KE") {
		t.Errorf("missing caption in\n%s", plot)
	}
	if EnergyPlot([]float64{1}, []float64{-1}, 20, 5, 0) == "" {
		t.Error("single record should still plot")
	}
}
