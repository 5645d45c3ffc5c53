package detection

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/color-blob-mcp/internal/imaging"
)

func TestSpectrumSize(t *testing.T) {
	for _, ref := range []imaging.HSV{
		{H: 0, S: 255, V: 255},
		{H: 128, S: 40, V: 90},
		{H: 250, S: 255, V: 10},
	} {
		for _, size := range []image.Point{{200, 64}, {1, 1}, {513, 7}} {
			r := BuildHueRange(ref, DefaultSpread)
			img, err := Spectrum(r, size.X, size.Y)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, size.X, size.Y), img.Bounds(), "ref %v", ref)
		}
	}
}

func TestSpectrumInvalidSize(t *testing.T) {
	r := BuildHueRange(imaging.HSV{H: 10, S: 255, V: 255}, DefaultSpread)
	for _, size := range []image.Point{{0, 64}, {200, 0}, {-1, 5}} {
		_, err := Spectrum(r, size.X, size.Y)
		assert.True(t, errors.Is(err, imaging.ErrInvalidFormat), "size %v", size)
	}
}

func TestSpectrumColumnsFollowBand(t *testing.T) {
	r := BuildHueRange(imaging.HSV{H: 100, S: 255, V: 255}, DefaultSpread)
	img, err := Spectrum(r, 51, 2)
	require.NoError(t, err)

	f := imaging.FrameFromImage(img)
	first := imaging.ToHSV(f.At(0, 0))
	last := imaging.ToHSV(f.At(50, 1))
	assert.InDelta(t, 75, int(first.H), 1)
	assert.InDelta(t, 125, int(last.H), 1)
	assert.Equal(t, uint8(255), first.S)
	assert.Equal(t, uint8(255), first.V)
}

func TestSpectrumMatchesItsOwnRange(t *testing.T) {
	// A pale, dim reference: the preview still lands inside the range.
	ref := imaging.HSV{H: 60, S: 100, V: 120}
	r := BuildHueRange(ref, DefaultSpread)
	img, err := Spectrum(r, DefaultSpectrumWidth, DefaultSpectrumHeight)
	require.NoError(t, err)

	hsv, err := imaging.ConvertToHSV(imaging.FrameFromImage(img), nil)
	require.NoError(t, err)
	m, err := BuildMask(hsv, r)
	require.NoError(t, err)
	assert.Greater(t, MaskArea(m), DefaultSpectrumWidth*DefaultSpectrumHeight*9/10)
}
