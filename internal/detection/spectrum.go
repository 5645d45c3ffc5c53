package detection

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	cimg "github.com/ironsheep/color-blob-mcp/internal/imaging"
)

// Default spectrum size, in pixels.
const (
	DefaultSpectrumWidth  = 200
	DefaultSpectrumHeight = 64
)

// Spectrum renders the hue band of r as a width x height preview. Columns run
// through the band from its first hue to its last, evenly spaced, each drawn
// at the highest saturation and value the range accepts so that the preview
// itself matches r.
func Spectrum(r HueRange, width, height int) (*image.NRGBA, error) {
	if r == nil {
		return nil, errors.New("nil hue range")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(cimg.ErrInvalidFormat, "spectrum size %dx%d", width, height)
	}

	start, n := r.Band()
	top := r.Segments()[0].Upper

	strip, err := cimg.NewFrame(n, 1, 3, cimg.SpaceHSV)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		strip.Pix[i*3] = uint8((start + i) % cimg.HuePeriod)
		strip.Pix[i*3+1] = top.S
		strip.Pix[i*3+2] = top.V
	}
	if _, err := cimg.ConvertToBGR(strip, strip); err != nil {
		return nil, errors.Wrap(err, "render spectrum strip")
	}

	return imaging.Resize(strip.ToImage(), width, height, imaging.NearestNeighbor), nil
}
