package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidFormat is returned when a color or frame has the wrong number
	// of channels or is in the wrong color space for the requested operation.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyFrame is returned when a frame has a zero dimension.
	ErrEmptyFrame = errors.New("empty frame")
)

// ColorSpace identifies how the channels of a Frame are to be read.
type ColorSpace int

const (
	// SpaceBGR is the display color space: blue, green, red and an optional
	// alpha channel, 8 bits each.
	SpaceBGR ColorSpace = iota
	// SpaceHSV is the 8-bit full-range hue/saturation/value space.
	SpaceHSV
)

func (s ColorSpace) String() string {
	switch s {
	case SpaceBGR:
		return "bgr"
	case SpaceHSV:
		return "hsv"
	default:
		return fmt.Sprintf("ColorSpace(%d)", int(s))
	}
}

// Color is an immutable display-space color: blue, green, red and an
// optional alpha channel. The zero value is not a valid Color; use NewColor.
type Color struct {
	vals [4]uint8
	n    int
}

// NewColor builds a Color from 3 (B, G, R) or 4 (B, G, R, A) channel values.
// Values are rounded and clamped to 0..255. Any other channel count fails
// with ErrInvalidFormat.
func NewColor(vals ...float64) (Color, error) {
	if len(vals) != 3 && len(vals) != 4 {
		return Color{}, errors.Wrapf(ErrInvalidFormat, "color has %d channels, want 3 or 4", len(vals))
	}
	var c Color
	c.n = len(vals)
	for i, v := range vals {
		c.vals[i] = clampByte(v)
	}
	return c, nil
}

// ColorFromRGBA converts any color.Color into an opaque-aware 4-channel Color.
func ColorFromRGBA(c interface{ RGBA() (r, g, b, a uint32) }) Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Color{n: 4}
	}
	// un-premultiply so the stored channels are straight color values
	r = r * 0xffff / a
	g = g * 0xffff / a
	b = b * 0xffff / a
	return Color{vals: [4]uint8{uint8(b >> 8), uint8(g >> 8), uint8(r >> 8), uint8(a >> 8)}, n: 4}
}

// ParseHexColor parses "#RRGGBB" (or "RRGGBB") into an opaque 4-channel Color.
func ParseHexColor(hex string) (Color, error) {
	rgba, err := parseHexColor(hex)
	if err != nil {
		return Color{}, errors.Wrapf(ErrInvalidFormat, "parse %q: %v", hex, err)
	}
	return Color{vals: [4]uint8{rgba.B, rgba.G, rgba.R, rgba.A}, n: 4}, nil
}

// Valid reports whether the color was built with 3 or 4 channels.
func (c Color) Valid() bool { return c.n == 3 || c.n == 4 }

// Channels returns the number of channels (3 or 4).
func (c Color) Channels() int { return c.n }

// B returns the blue channel.
func (c Color) B() uint8 { return c.vals[0] }

// G returns the green channel.
func (c Color) G() uint8 { return c.vals[1] }

// R returns the red channel.
func (c Color) R() uint8 { return c.vals[2] }

// A returns the alpha channel, or 255 for a 3-channel color.
func (c Color) A() uint8 {
	if c.n == 4 {
		return c.vals[3]
	}
	return 255
}

// Values returns the channel values in B, G, R[, A] order.
func (c Color) Values() []uint8 {
	out := make([]uint8, c.n)
	copy(out, c.vals[:c.n])
	return out
}

// Hex returns "#RRGGBB"; alpha is excluded.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
}

// RGBA implements color.Color. Alpha is ignored so swatches stay visible.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R())
	r |= r << 8
	g = uint32(c.G())
	g |= g << 8
	b = uint32(c.B())
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	if c.n == 4 {
		return fmt.Sprintf("bgra(%d,%d,%d,%d)", c.vals[0], c.vals[1], c.vals[2], c.vals[3])
	}
	return fmt.Sprintf("bgr(%d,%d,%d)", c.vals[0], c.vals[1], c.vals[2])
}

// Frame is a dense row-major grid of 8-bit pixels with 3 or 4 channels.
// In SpaceBGR the channels are blue, green, red[, alpha]; in SpaceHSV they are
// hue, saturation, value[, alpha].
type Frame struct {
	Width    int
	Height   int
	Channels int
	Space    ColorSpace
	Pix      []uint8
}

// NewFrame allocates a zeroed frame. Channels must be 3 or 4.
func NewFrame(width, height, channels int, space ColorSpace) (*Frame, error) {
	if channels != 3 && channels != 4 {
		return nil, errors.Wrapf(ErrInvalidFormat, "frame has %d channels, want 3 or 4", channels)
	}
	if width < 0 || height < 0 {
		return nil, errors.Errorf("negative frame size %dx%d", width, height)
	}
	return &Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Space:    space,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// NewSolidFrame allocates a display-space frame filled with c.
func NewSolidFrame(width, height int, c Color) (*Frame, error) {
	if !c.Valid() {
		return nil, errors.Wrap(ErrInvalidFormat, "solid frame color")
	}
	f, err := NewFrame(width, height, c.n, SpaceBGR)
	if err != nil {
		return nil, err
	}
	f.Fill(image.Rect(0, 0, width, height), c)
	return f, nil
}

// FrameFromImage copies img into a 4-channel BGRA display frame.
func FrameFromImage(img image.Image) *Frame {
	src := imaging.Clone(img)
	b := src.Bounds()
	f := &Frame{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 4,
		Space:    SpaceBGR,
		Pix:      make([]uint8, b.Dx()*b.Dy()*4),
	}
	for y := 0; y < f.Height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+f.Width*4]
		out := f.Pix[y*f.Width*4 : (y+1)*f.Width*4]
		for x := 0; x < f.Width; x++ {
			i := x * 4
			out[i], out[i+1], out[i+2], out[i+3] = row[i+2], row[i+1], row[i], row[i+3]
		}
	}
	return f
}

// Validate checks the frame is usable as a detector input.
func (f *Frame) Validate() error {
	if f == nil {
		return errors.Wrap(ErrEmptyFrame, "nil frame")
	}
	if f.Channels != 3 && f.Channels != 4 {
		return errors.Wrapf(ErrInvalidFormat, "frame has %d channels, want 3 or 4", f.Channels)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return errors.Wrapf(ErrEmptyFrame, "frame is %dx%d", f.Width, f.Height)
	}
	if len(f.Pix) < f.Width*f.Height*f.Channels {
		return errors.Wrapf(ErrInvalidFormat, "frame buffer holds %d bytes, want %d",
			len(f.Pix), f.Width*f.Height*f.Channels)
	}
	return nil
}

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// Bounds returns the frame rectangle with its origin at (0,0).
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Stride returns the number of bytes in one row.
func (f *Frame) Stride() int {
	return f.Width * f.Channels
}

// PixOffset returns the index of the first channel of pixel (x, y).
func (f *Frame) PixOffset(x, y int) int {
	return y*f.Width*f.Channels + x*f.Channels
}

// At returns the display color at (x, y). It must only be called on
// SpaceBGR frames.
func (f *Frame) At(x, y int) Color {
	i := f.PixOffset(x, y)
	c := Color{n: f.Channels}
	copy(c.vals[:], f.Pix[i:i+f.Channels])
	return c
}

// Set writes c at (x, y). Missing channels in c are left untouched.
func (f *Frame) Set(x, y int, c Color) {
	i := f.PixOffset(x, y)
	n := min(f.Channels, c.n)
	copy(f.Pix[i:i+n], c.vals[:n])
	if f.Channels == 4 && c.n == 3 {
		f.Pix[i+3] = 255
	}
}

// Fill paints r (clipped to the frame) with c.
func (f *Frame) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(f.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.Set(x, y, c)
		}
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := *f
	out.Pix = make([]uint8, len(f.Pix))
	copy(out.Pix, f.Pix)
	return &out
}

// ToImage renders a display-space frame as an NRGBA image.
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := f.PixOffset(x, y)
			o := img.PixOffset(x, y)
			img.Pix[o] = f.Pix[i+2]
			img.Pix[o+1] = f.Pix[i+1]
			img.Pix[o+2] = f.Pix[i]
			if f.Channels == 4 {
				img.Pix[o+3] = f.Pix[i+3]
			} else {
				img.Pix[o+3] = 255
			}
		}
	}
	return img
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
