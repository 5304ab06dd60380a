package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 0.01
}

func TestNewFitsBoard(t *testing.T) {
	cam := New(1280, 720, 600, 600)

	if cam.X != 300 || cam.Y != 300 {
		t.Errorf("expected camera at (300, 300), got (%f, %f)", cam.X, cam.Y)
	}
	// Height is the limiting dimension: 720/600
	if !near(cam.Zoom, 1.2) {
		t.Errorf("expected fit zoom 1.2, got %f", cam.Zoom)
	}
	if cam.MinZoom != cam.Zoom {
		t.Errorf("expected MinZoom to equal fit zoom, got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 600, 600)

	sx, sy := cam.WorldToScreen(300, 300)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	// Board corners land inside the viewport at fit zoom
	sx, sy = cam.WorldToScreen(0, 0)
	if !near(sy, 0) || sx < 0 {
		t.Errorf("top-left corner at (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)
	cam.Pan(150, -40)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToBoard(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2) // visible area 640x360

	cam.Pan(-100000, -100000)
	if !near(cam.X, 320) || !near(cam.Y, 180) {
		t.Errorf("expected camera clamped to (320, 180), got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(100000, 100000)
	if !near(cam.X, 2240) || !near(cam.Y, 1260) {
		t.Errorf("expected camera clamped to (2240, 1260), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestPanLockedWhenBoardSmaller(t *testing.T) {
	cam := New(1280, 720, 600, 600)
	cam.Pan(500, 0)

	// At fit zoom the board is narrower than the viewport
	if cam.X != 300 {
		t.Errorf("expected X locked at 300, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.SetZoom(0.1)
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	wx, wy := cam.ScreenToWorld(800, 400)
	cam.ZoomAt(800, 400, 2)
	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 800) || !near(sy, 400) {
		t.Errorf("point under cursor moved to (%f, %f)", sx, sy)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	// Visible range: (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResizeRefits(t *testing.T) {
	cam := New(1280, 720, 600, 600)
	cam.Resize(600, 300)

	if !near(cam.MinZoom, 0.5) {
		t.Errorf("expected MinZoom 0.5 after resize, got %f", cam.MinZoom)
	}
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f", cam.Zoom, cam.MinZoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(3)
	cam.Pan(200, 200)

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected fit zoom 0.5, got %f", cam.Zoom)
	}
}
