package detection

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/pkg/errors"

	"github.com/ironsheep/color-blob-mcp/internal/imaging"
)

// Mask values.
const (
	MaskOff uint8 = 0
	MaskOn  uint8 = 255
)

// BuildMask thresholds an HSV frame against r. The result has the frame's
// size and holds MaskOn where the pixel lies in r and MaskOff elsewhere.
// Alpha never takes part in the test.
func BuildMask(hsv *imaging.Frame, r HueRange) (*image.Gray, error) {
	if err := hsv.Validate(); err != nil {
		return nil, err
	}
	if hsv.Space != imaging.SpaceHSV {
		return nil, errors.Wrapf(imaging.ErrInvalidFormat, "mask input is %s, want hsv", hsv.Space)
	}
	if r == nil {
		return nil, errors.New("nil hue range")
	}

	var match func(imaging.HSV) bool
	switch rr := r.(type) {
	case SingleRange:
		match = rr.Contains
	case SplitRange:
		match = func(c imaging.HSV) bool { return rr.Low.Contains(c) || rr.High.Contains(c) }
	default:
		match = r.Contains
	}

	mask := image.NewGray(hsv.Bounds())
	parallel.Line(hsv.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := mask.Pix[y*mask.Stride : y*mask.Stride+hsv.Width]
			for x := range row {
				i := hsv.PixOffset(x, y)
				if match(imaging.HSV{H: hsv.Pix[i], S: hsv.Pix[i+1], V: hsv.Pix[i+2]}) {
					row[x] = MaskOn
				}
			}
		}
	})
	return mask, nil
}

// MaskArea counts the set pixels in m.
func MaskArea(m *image.Gray) int {
	n := 0
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[(y-b.Min.Y)*m.Stride : (y-b.Min.Y)*m.Stride+b.Dx()]
		for _, v := range row {
			if v != MaskOff {
				n++
			}
		}
	}
	return n
}
