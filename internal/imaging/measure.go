package imaging

import (
	"image"
	"math"
)

// Point represents a 2D point
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PolygonArea returns the absolute shoelace area of the closed polygon
// through pts, measured between pixel centers. Fewer than three points give 0.
func PolygonArea(pts []image.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum int
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the length of the closed polyline through pts.
func Perimeter(pts []image.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	var total float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		total += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return total
}

// BoundingBox returns the smallest rectangle holding every point. Max is
// exclusive, so a single pixel has a 1x1 box.
func BoundingBox(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0].Add(image.Pt(1, 1))}
	for _, p := range pts[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return r
}

// Centroid returns the area centroid of the polygon through pts, rounded to
// the nearest pixel. Degenerate polygons fall back to the vertex mean.
func Centroid(pts []image.Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var a, cx, cy float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		cross := float64(p.X*q.Y - q.X*p.Y)
		a += cross
		cx += float64(p.X+q.X) * cross
		cy += float64(p.Y+q.Y) * cross
	}
	if a == 0 {
		var sx, sy int
		for _, p := range pts {
			sx += p.X
			sy += p.Y
		}
		n := float64(len(pts))
		return Point{X: int(math.Round(float64(sx) / n)), Y: int(math.Round(float64(sy) / n))}
	}
	a /= 2
	return Point{X: int(math.Round(cx / (6 * a))), Y: int(math.Round(cy / (6 * a)))}
}

// CoverageResult summarizes how much of a frame a set of blobs occupies.
type CoverageResult struct {
	BlobArea        float64 `json:"blob_area"`
	FrameArea       int     `json:"frame_area"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// Coverage sums the polygon areas of contours relative to a width x height
// frame.
func Coverage(contours [][]image.Point, width, height int) CoverageResult {
	var total float64
	for _, c := range contours {
		total += PolygonArea(c)
	}
	frameArea := width * height
	res := CoverageResult{BlobArea: total, FrameArea: frameArea}
	if frameArea > 0 {
		res.CoveragePercent = math.Round(total/float64(frameArea)*1000) / 10
	}
	return res
}
