package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropFrame copies a rectangular region of interest out of a frame so that
// detection can be restricted to part of the view. Contours found in the
// result are relative to region's top-left corner.
func CropFrame(f *Frame, region Region) (*Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	r := region.Rect()
	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > f.Width || r.Max.Y > f.Height {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside frame bounds (0,0)-(%d,%d)",
			region.X1, region.Y1, region.X2, region.Y2, f.Width, f.Height)
	}
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	out := &Frame{
		Width:    r.Dx(),
		Height:   r.Dy(),
		Channels: f.Channels,
		Space:    f.Space,
		Pix:      make([]uint8, r.Dx()*r.Dy()*f.Channels),
	}
	rowLen := out.Width * f.Channels
	for y := 0; y < out.Height; y++ {
		si := f.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*rowLen:(y+1)*rowLen], f.Pix[si:si+rowLen])
	}
	return out, nil
}

// PyrDown halves a display frame levels times with a box filter, the same
// reduction the vision library's pyramid step performs before thresholding.
// It returns the reduced frame and the factor to scale coordinates back up.
// A level that would shrink a side below one pixel stops the reduction.
func PyrDown(f *Frame, levels int) (*Frame, int) {
	if levels <= 0 || f.Space != SpaceBGR {
		return f, 1
	}
	img := image.Image(f.ToImage())
	scale := 1
	for i := 0; i < levels; i++ {
		b := img.Bounds()
		if b.Dx() < 2 || b.Dy() < 2 {
			break
		}
		img = imaging.Resize(img, (b.Dx()+1)/2, (b.Dy()+1)/2, imaging.Box)
		scale *= 2
	}
	if scale == 1 {
		return f, 1
	}
	down := FrameFromImage(img)
	if f.Channels == 3 {
		down = dropAlpha(down)
	}
	return down, scale
}

func dropAlpha(f *Frame) *Frame {
	out := &Frame{Width: f.Width, Height: f.Height, Channels: 3, Space: f.Space,
		Pix: make([]uint8, f.Width*f.Height*3)}
	for i, j := 0, 0; i < len(f.Pix); i, j = i+4, j+3 {
		copy(out.Pix[j:j+3], f.Pix[i:i+3])
	}
	return out
}
