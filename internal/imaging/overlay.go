package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
)

// Layout of the feedback widgets drawn over an annotated frame.
const (
	LabelMargin = 4
	LabelSize   = 64
	// SpectrumOffsetX is where the spectrum strip starts, right of the label.
	SpectrumOffsetX = 70
)

// DefaultContourColor is the outline color for detected blobs.
var DefaultContourColor = color.RGBA{R: 255, A: 255}

// OverlayOptions controls what Overlay draws on top of the frame.
type OverlayOptions struct {
	// ContourColor is the outline color. Zero value means DefaultContourColor.
	ContourColor color.RGBA

	// Selected, when valid, is painted as a LabelSize square at
	// (LabelMargin, LabelMargin).
	Selected Color

	// Spectrum, when non-nil, is pasted at (SpectrumOffsetX, LabelMargin).
	Spectrum image.Image

	// NumberContours draws each contour's index next to its first vertex.
	NumberContours bool
}

// Overlay renders a display frame with closed contour outlines, the selected
// color swatch and the spectrum strip. It never modifies f.
func Overlay(f *Frame, contours [][]image.Point, opts OverlayOptions) *image.NRGBA {
	canvas := clone.AsRGBA(f.ToImage())

	outline := opts.ContourColor
	if outline == (color.RGBA{}) {
		outline = DefaultContourColor
	}
	for i, pts := range contours {
		drawPolygon(canvas, pts, outline)
		if opts.NumberContours && len(pts) > 0 {
			drawLabel(canvas, pts[0].X+2, pts[0].Y+2, strconv.Itoa(i),
				color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	out := imaging.Clone(canvas)
	if opts.Selected.Valid() {
		swatch := imaging.New(LabelSize, LabelSize, opts.Selected)
		out = imaging.Paste(out, swatch, image.Pt(LabelMargin, LabelMargin))
	}
	if opts.Spectrum != nil {
		out = imaging.Paste(out, opts.Spectrum, image.Pt(SpectrumOffsetX, LabelMargin))
	}
	return out
}

// EncodedImage is an image returned to a client as base64 PNG.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeImage encodes img for a client.
func EncodeImage(img image.Image) (*EncodedImage, error) {
	data, err := EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: data,
		MimeType:    "image/png",
	}, nil
}

// EncodePNGBase64 encodes img as a base64 PNG string.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drawPolygon draws the closed polyline through pts.
func drawPolygon(img *image.RGBA, pts []image.Point, c color.RGBA) {
	switch len(pts) {
	case 0:
		return
	case 1:
		setClipped(img, pts[0].X, pts[0].Y, c)
		return
	}
	for i := range pts {
		drawLine(img, pts[i], pts[(i+1)%len(pts)], c)
	}
}

// drawLine is Bresenham's line algorithm, clipped to the image.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	for {
		setClipped(img, x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a contour index with a tiny built-in digit font.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	const charWidth, labelHeight = 4, 7
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setClipped(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
