package detection

import (
	"math"

	"github.com/ironsheep/color-blob-mcp/internal/imaging"
)

// ShapeKind is a coarse classification of a blob outline.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeIrregular ShapeKind = "irregular"
)

// Classification thresholds. A filled axis-aligned box has extent 1; a
// filled disk has extent pi/4 and circularity close to 1.
const (
	rectangleMinExtent = 0.9
	circleMinExtent    = 0.65
	circleMaxExtent    = 0.85
	circleMinRoundness = 0.75
)

// Shape describes the outline of one blob.
type Shape struct {
	Kind ShapeKind `json:"kind"`

	// Extent is the share of the bounding box covered by blob pixels.
	Extent float64 `json:"extent"`

	// Circularity is 4*pi*area/perimeter^2 of the contour polygon: 1 for a
	// circle, pi/4 for a square, near 0 for a thin sliver.
	Circularity float64 `json:"circularity"`

	// AspectRatio is bounding box width over height.
	AspectRatio float64 `json:"aspect_ratio"`
}

// Shape measures the contour and classifies it. Only axis-aligned
// rectangles are recognized; a rotated box has a lower extent and is
// reported as irregular.
func (c Contour) Shape() Shape {
	b := c.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return Shape{Kind: ShapeIrregular}
	}

	s := Shape{
		Extent:      math.Min(float64(c.PixelCount)/float64(w*h), 1),
		AspectRatio: float64(w) / float64(h),
	}
	if p := imaging.Perimeter(c.Points); p > 0 {
		s.Circularity = math.Min(4*math.Pi*c.Area()/(p*p), 1)
	}

	switch {
	case s.Extent >= rectangleMinExtent:
		s.Kind = ShapeRectangle
	case s.Extent >= circleMinExtent && s.Extent <= circleMaxExtent && s.Circularity >= circleMinRoundness:
		s.Kind = ShapeCircle
	default:
		s.Kind = ShapeIrregular
	}
	return s
}
