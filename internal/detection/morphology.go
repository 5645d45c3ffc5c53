package detection

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
)

// DefaultKernelSize is the side of the square structuring element used for
// mask cleanup.
const DefaultKernelSize = 3

// Erode shrinks the foreground of m with a k x k square structuring element.
// A pixel stays set only if every neighbor inside the frame is set; neighbors
// outside the frame are ignored, so regions touching the border do not erode
// from the border side. An even k is rounded up to the next odd size and
// k <= 1 returns an unchanged copy.
func Erode(m *image.Gray, k int) *image.Gray {
	return morph(m, k, func(a, b uint8) uint8 { return min(a, b) })
}

// Dilate grows the foreground of m with a k x k square structuring element.
// It follows the same kernel and border rules as Erode.
func Dilate(m *image.Gray, k int) *image.Gray {
	return morph(m, k, func(a, b uint8) uint8 { return max(a, b) })
}

// Open is an erosion followed by a dilation. It removes specks smaller than
// the kernel.
func Open(m *image.Gray, k int) *image.Gray {
	return Dilate(Erode(m, k), k)
}

// Close is a dilation followed by an erosion. It fills pinholes smaller than
// the kernel.
func Close(m *image.Gray, k int) *image.Gray {
	return Erode(Dilate(m, k), k)
}

// CleanMask opens then closes m. The input is not modified.
func CleanMask(m *image.Gray, k int) *image.Gray {
	return Close(Open(m, k), k)
}

// morph applies a square min/max filter as a horizontal pass followed by a
// vertical pass; both are exact for a rectangular kernel.
func morph(m *image.Gray, k int, op func(a, b uint8) uint8) *image.Gray {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], m.Pix[y*m.Stride:y*m.Stride+w])
	}
	if k <= 1 || w == 0 || h == 0 {
		return out
	}
	r := k / 2

	tmp := make([]uint8, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			src := out.Pix[y*out.Stride : y*out.Stride+w]
			dst := tmp[y*w : (y+1)*w]
			for x := 0; x < w; x++ {
				v := src[x]
				for i := max(0, x-r); i <= min(w-1, x+r); i++ {
					v = op(v, src[i])
				}
				dst[x] = v
			}
		}
	})

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			dst := out.Pix[y*out.Stride : y*out.Stride+w]
			lo, hi := max(0, y-r), min(h-1, y+r)
			for x := 0; x < w; x++ {
				v := tmp[y*w+x]
				for j := lo; j <= hi; j++ {
					v = op(v, tmp[j*w+x])
				}
				dst[x] = v
			}
		}
	})
	return out
}
