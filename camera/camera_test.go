package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Should be centered on world
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsAtEdge(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Panning far left must stop with the view flush against the wall,
	// not wrap to the other side.
	cam.Pan(-100000, 0)

	if cam.X != 640 {
		t.Errorf("expected X clamped to 640 (half viewport), got %f", cam.X)
	}
	minX, _, _, _ := cam.VisibleWorldBounds()
	if minX < 0 {
		t.Errorf("visible area extends past the world edge: minX=%f", minX)
	}
}

func TestFollowClampsAtEdge(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Following a vehicle parked in the corner keeps the view in bounds.
	cam.Follow(10, 10)

	if cam.X != 640 || cam.Y != 360 {
		t.Errorf("expected clamped center (640, 360), got (%f, %f)", cam.X, cam.Y)
	}

	cam.Follow(1280, 720)
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected free center (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// MinZoom should be max(1280/2560, 720/1440) = max(0.5, 0.5) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0) // Above max
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestMinZoomPreventsDeadSpace(t *testing.T) {
	// Test with asymmetric world/viewport ratios
	cam := New(800, 600, 1600, 800)

	// MinZoom should be max(800/1600, 600/800) = max(0.5, 0.75) = 0.75
	if math.Abs(float64(cam.MinZoom-0.75)) > 0.001 {
		t.Errorf("expected MinZoom 0.75, got %f", cam.MinZoom)
	}

	// At min zoom, visible area should exactly fit world in limiting dimension
	cam.SetZoom(cam.MinZoom)
	visibleH := cam.ViewportH / cam.Zoom // 600 / 0.75 = 800 = worldH
	if math.Abs(float64(visibleH-cam.WorldH)) > 0.01 {
		t.Errorf("at min zoom, visible height %f should equal world height %f", visibleH, cam.WorldH)
	}
}

func TestShallowWorldCentersVertically(t *testing.T) {
	// MinZoom = max(640/2560, 640/320) = 2; at that zoom the visible
	// height equals the world height, so Y pins to the center while X
	// still clamps against the side walls.
	cam := New(640, 640, 2560, 320)

	cam.Follow(2500, 300)
	if cam.Y != 160 {
		t.Errorf("expected Y centered at 160, got %f", cam.Y)
	}
	if cam.X != 2400 {
		t.Errorf("expected X clamped to 2400, got %f", cam.X)
	}
}

func TestViewportOffset(t *testing.T) {
	// Right-hand splitscreen pane: 640 wide, starting at x=640.
	cam := New(640, 720, 2560, 1440)
	cam.SetViewportOffset(640, 0)

	// Camera center maps to the pane's center, not the screen's.
	sx, sy := cam.WorldToScreen(cam.X, cam.Y)
	if math.Abs(float64(sx-960)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected pane center (960, 360), got (%f, %f)", sx, sy)
	}

	wx, wy := cam.ScreenToWorld(960, 360)
	if math.Abs(float64(wx-cam.X)) > 0.01 || math.Abs(float64(wy-cam.Y)) > 0.01 {
		t.Errorf("expected world center (%f, %f), got (%f, %f)", cam.X, cam.Y, wx, wy)
	}

	if cam.Contains(100, 100) {
		t.Error("left pane position should not be inside the right pane")
	}
	if !cam.Contains(700, 100) {
		t.Error("right pane position should be inside the right pane")
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Camera centered at (1280, 720), viewport 1280x720
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

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 800
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
