package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

const (
	// HuePeriod is the number of distinct hue steps on the 8-bit hue circle.
	HuePeriod = 256
	// MaxHue is the largest hue value.
	MaxHue = HuePeriod - 1
	// MaxChannel is the largest saturation or value.
	MaxChannel = 255
)

// HSV is an 8-bit full-range hue/saturation/value triple. Hue is circular:
// 0 and 255 are neighbors.
type HSV struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

func (c HSV) String() string {
	return fmt.Sprintf("hsv(%d,%d,%d)", c.H, c.S, c.V)
}

// ToHSV converts a display color to HSV. Alpha is ignored.
func ToHSV(c Color) HSV {
	return bgrToHSV(c.B(), c.G(), c.R())
}

// FromHSV converts an HSV triple back to a 4-channel display color with the
// given alpha.
func FromHSV(c HSV, alpha uint8) Color {
	b, g, r := hsvToBGR(c.H, c.S, c.V)
	return Color{vals: [4]uint8{b, g, r, alpha}, n: 4}
}

// Swatch returns a viewable display color for a hue/saturation pair at full
// value.
func Swatch(h, s uint8) Color {
	return FromHSV(HSV{H: h, S: s, V: MaxChannel}, 255)
}

// ConvertToHSV converts a display-space frame to HSV.
//
// If dst is nil a fresh 3-channel frame is allocated. If dst is src the
// conversion happens in place and a fourth channel, if any, is left untouched.
// Otherwise dst must have the same size as src and 3 or 4 channels.
func ConvertToHSV(src, dst *Frame) (*Frame, error) {
	return convertFrame(src, dst, SpaceBGR, SpaceHSV, func(p []uint8) {
		hsv := bgrToHSV(p[0], p[1], p[2])
		p[0], p[1], p[2] = hsv.H, hsv.S, hsv.V
	})
}

// ConvertToBGR converts an HSV frame back to the display space. dst follows
// the same rules as in ConvertToHSV.
func ConvertToBGR(src, dst *Frame) (*Frame, error) {
	return convertFrame(src, dst, SpaceHSV, SpaceBGR, func(p []uint8) {
		p[0], p[1], p[2] = hsvToBGR(p[0], p[1], p[2])
	})
}

func convertFrame(src, dst *Frame, from, to ColorSpace, fn func(p []uint8)) (*Frame, error) {
	if src == nil {
		return nil, errors.Wrap(ErrEmptyFrame, "nil source frame")
	}
	if src.Channels != 3 && src.Channels != 4 {
		return nil, errors.Wrapf(ErrInvalidFormat, "source frame has %d channels, want 3 or 4", src.Channels)
	}
	if src.Space != from {
		return nil, errors.Wrapf(ErrInvalidFormat, "source frame is %s, want %s", src.Space, from)
	}
	if len(src.Pix) < src.Width*src.Height*src.Channels {
		return nil, errors.Wrap(ErrInvalidFormat, "source frame buffer too small")
	}

	switch {
	case dst == nil:
		var err error
		dst, err = NewFrame(src.Width, src.Height, 3, to)
		if err != nil {
			return nil, err
		}
	case dst == src:
	default:
		if dst.Channels != 3 && dst.Channels != 4 {
			return nil, errors.Wrapf(ErrInvalidFormat, "destination frame has %d channels, want 3 or 4", dst.Channels)
		}
		if dst.Width != src.Width || dst.Height != src.Height || len(dst.Pix) < dst.Width*dst.Height*dst.Channels {
			return nil, errors.Wrapf(ErrInvalidFormat, "destination frame is %dx%d, want %dx%d",
				dst.Width, dst.Height, src.Width, src.Height)
		}
	}

	inPlace := dst == src
	parallel.Line(src.Height, func(start, end int) {
		var px [3]uint8
		for y := start; y < end; y++ {
			for x := 0; x < src.Width; x++ {
				si := src.PixOffset(x, y)
				if inPlace {
					fn(src.Pix[si : si+3])
					continue
				}
				copy(px[:], src.Pix[si:si+3])
				fn(px[:])
				di := dst.PixOffset(x, y)
				copy(dst.Pix[di:di+3], px[:])
				if dst.Channels == 4 {
					if src.Channels == 4 {
						dst.Pix[di+3] = src.Pix[si+3]
					} else {
						dst.Pix[di+3] = 255
					}
				}
			}
		}
	})
	dst.Space = to
	return dst, nil
}

func bgrToHSV(b, g, r uint8) HSV {
	cc := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, v := cc.Hsv()
	hue := int(math.Round(h*HuePeriod/360.0)) % HuePeriod
	if hue < 0 {
		hue += HuePeriod
	}
	return HSV{
		H: uint8(hue),
		S: clampByte(s * MaxChannel),
		V: clampByte(v * MaxChannel),
	}
}

func hsvToBGR(h, s, v uint8) (uint8, uint8, uint8) {
	cc := colorful.Hsv(float64(h)*360.0/HuePeriod, float64(s)/MaxChannel, float64(v)/MaxChannel)
	r, g, b := cc.Clamped().RGB255()
	return b, g, r
}
