package imaging

import (
	"image"
	"math"
	"testing"
)

func square(x, y, side int) []image.Point {
	return []image.Point{{x, y}, {x, y + side}, {x + side, y + side}, {x + side, y}}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name string
		pts  []image.Point
		want float64
	}{
		{"empty", nil, 0},
		{"two points", []image.Point{{0, 0}, {5, 5}}, 0},
		{"square", square(0, 0, 10), 100},
		{"square reversed", []image.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, 100},
		{"triangle", []image.Point{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"collinear", []image.Point{{0, 0}, {2, 2}, {4, 4}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.pts); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerimeter(t *testing.T) {
	if got := Perimeter(square(3, 3, 10)); got != 40 {
		t.Errorf("square: got %v, want 40", got)
	}
	if got := Perimeter([]image.Point{{0, 0}, {3, 4}}); got != 10 {
		t.Errorf("segment there and back: got %v, want 10", got)
	}
	if got := Perimeter([]image.Point{{1, 1}}); got != 0 {
		t.Errorf("single point: got %v, want 0", got)
	}
}

func TestBoundingBox(t *testing.T) {
	if got := BoundingBox(square(2, 3, 4)); got != image.Rect(2, 3, 7, 8) {
		t.Errorf("square: got %v", got)
	}
	if got := BoundingBox([]image.Point{{5, 5}}); got != image.Rect(5, 5, 6, 6) {
		t.Errorf("single pixel: got %v", got)
	}
	if got := BoundingBox(nil); !got.Empty() {
		t.Errorf("empty: got %v", got)
	}
}

func TestCentroid(t *testing.T) {
	if got := Centroid(square(10, 20, 10)); got != (Point{X: 15, Y: 25}) {
		t.Errorf("square: got %+v", got)
	}

	// A line has no area; the vertex mean is used.
	if got := Centroid([]image.Point{{0, 0}, {10, 0}}); got != (Point{X: 5, Y: 0}) {
		t.Errorf("line: got %+v", got)
	}
	if got := Centroid(nil); got != (Point{}) {
		t.Errorf("empty: got %+v", got)
	}
}

func TestCoverage(t *testing.T) {
	res := Coverage([][]image.Point{square(0, 0, 10), square(20, 20, 10)}, 40, 20)
	if res.BlobArea != 200 || res.FrameArea != 800 {
		t.Errorf("areas: got %+v", res)
	}
	if math.Abs(res.CoveragePercent-25) > 1e-9 {
		t.Errorf("coverage: got %v, want 25", res.CoveragePercent)
	}

	if res := Coverage(nil, 0, 0); res.CoveragePercent != 0 {
		t.Errorf("empty frame: got %+v", res)
	}
}
