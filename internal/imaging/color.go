package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// ColorSample describes one picked color in the representations a client
// needs to select it as a reference color.
//
// BGRA follows the display channel order used by Color and Frame.
type ColorSample struct {
	Hex  string   `json:"hex"`  // "#RRGGBB" (no alpha)
	BGRA [4]uint8 `json:"bgra"` // blue, green, red, alpha
	HSV  HSV      `json:"hsv"`  // 8-bit full-range hue/saturation/value
}

// NewColorSample describes c.
func NewColorSample(c Color) ColorSample {
	return ColorSample{
		Hex:  c.Hex(),
		BGRA: [4]uint8{c.B(), c.G(), c.R(), c.A()},
		HSV:  ToHSV(c),
	}
}

// Color returns the sampled color as a 4-channel display color.
func (s ColorSample) Color() Color {
	return Color{vals: s.BGRA, n: 4}
}

// SampleColor picks the color at (x, y), the way a user clicks on a frame to
// choose what to track.
//
// Coordinates are 0-based with origin at the top-left of img.Bounds().
// Returns an error if (x, y) is outside the image.
func SampleColor(img image.Image, x, y int) (*ColorSample, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	s := NewColorSample(ColorFromRGBA(img.At(x, y)))
	return &s, nil
}

// SampleRegionMean averages the colors in region, which smooths sensor noise
// when picking a reference color from a live frame. The region is clipped to
// the image; an empty intersection is an error.
func SampleRegionMean(img image.Image, region Region) (*ColorSample, error) {
	r := image.Rect(region.X1, region.Y1, region.X2, region.Y2).Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) does not overlap the image",
			region.X1, region.Y1, region.X2, region.Y2)
	}

	var sb, sg, sr, sa, n float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := ColorFromRGBA(img.At(x, y))
			sb += float64(c.B())
			sg += float64(c.G())
			sr += float64(c.R())
			sa += float64(c.A())
			n++
		}
	}
	mean, err := NewColor(sb/n, sg/n, sr/n, sa/n)
	if err != nil {
		return nil, err
	}
	s := NewColorSample(mean)
	return &s, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is inclusive, (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// HueFrequency is one bucket of a hue histogram.
type HueFrequency struct {
	Sample     ColorSample `json:"sample"`     // representative color of the bucket
	Percentage float64     `json:"percentage"` // share of chromatic pixels (0-100)
}

// DominantHuesResult lists the most common hues, most frequent first.
type DominantHuesResult struct {
	Hues []HueFrequency `json:"hues"`
}

// DominantHues buckets the chromatic pixels of img by hue and returns the
// count most populated buckets. It is used to suggest reference colors.
//
// Pixels with low saturation or value carry no reliable hue and are skipped.
// Each bucket spans 16 hue steps and is centered on a multiple of 16, so red
// falls in one bucket on both sides of the wrap point. The representative
// color is the bucket's mean hue at the mean saturation of its pixels and
// full value.
func DominantHues(img image.Image, count int, region *Region) (*DominantHuesResult, error) {
	bounds := img.Bounds()
	if region != nil {
		bounds = region.Rect().Intersect(bounds)
	}

	const (
		bucketWidth = 16
		minChroma   = 40
	)
	type bucket struct {
		n    int
		sumS int
		// sumOff accumulates each hue's signed offset from the bucket center.
		sumOff int
	}
	var buckets [HuePeriod / bucketWidth]bucket
	total := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hsv := ToHSV(ColorFromRGBA(img.At(x, y)))
			if hsv.S < minChroma || hsv.V < minChroma {
				continue
			}
			shifted := (int(hsv.H) + bucketWidth/2) % HuePeriod
			idx := shifted / bucketWidth
			b := &buckets[idx]
			b.n++
			b.sumOff += shifted - idx*bucketWidth - bucketWidth/2
			b.sumS += int(hsv.S)
			total++
		}
	}

	hues := make([]HueFrequency, 0, len(buckets))
	for idx, b := range buckets {
		if b.n == 0 {
			continue
		}
		off := int(math.Round(float64(b.sumOff) / float64(b.n)))
		h := (idx*bucketWidth + off + HuePeriod) % HuePeriod
		sw := Swatch(uint8(h), uint8(b.sumS/b.n))
		hues = append(hues, HueFrequency{
			Sample:     NewColorSample(sw),
			Percentage: float64(b.n) / float64(total) * 100,
		})
	}

	sort.SliceStable(hues, func(i, j int) bool {
		return hues[i].Percentage > hues[j].Percentage
	})
	if count > 0 && len(hues) > count {
		hues = hues[:count]
	}
	return &DominantHuesResult{Hues: hues}, nil
}
