package detection

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillDisk(m *image.Gray, c image.Point, r int) {
	for y := c.Y - r; y <= c.Y+r; y++ {
		for x := c.X - r; x <= c.X+r; x++ {
			dx, dy := x-c.X, y-c.Y
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(m.Bounds()) {
				m.Pix[y*m.Stride+x] = MaskOn
			}
		}
	}
}

func TestShapeRectangle(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 100, 60))
	fillRect(m, image.Rect(10, 10, 70, 40))

	cs := FindContours(m)
	require.Len(t, cs, 1)
	s := cs[0].Shape()
	assert.Equal(t, ShapeRectangle, s.Kind)
	assert.Equal(t, 1.0, s.Extent)
	assert.Equal(t, 2.0, s.AspectRatio)
	assert.Less(t, s.Circularity, 0.8)
}

func TestShapeCircle(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 100, 100))
	fillDisk(m, image.Pt(50, 50), 20)

	cs := FindContours(m)
	require.Len(t, cs, 1)
	s := cs[0].Shape()
	assert.Equal(t, ShapeCircle, s.Kind, "shape %+v", s)
	assert.InDelta(t, math.Pi/4, s.Extent, 0.05)
	assert.InDelta(t, 1.0, s.AspectRatio, 1e-9)
}

func TestShapeIrregular(t *testing.T) {
	m := maskFromRows(
		"##########",
		"##########",
		"##........",
		"##........",
		"##........",
		"##........",
		"##........",
		"##........",
		"##########",
		"##########",
	)
	cs := FindContours(m)
	require.Len(t, cs, 1)
	s := cs[0].Shape()
	assert.Equal(t, ShapeIrregular, s.Kind)
	assert.InDelta(t, 0.52, s.Extent, 1e-9)
}

func TestShapeDegenerate(t *testing.T) {
	assert.Equal(t, Shape{Kind: ShapeIrregular}, Contour{}.Shape())

	m := maskFromRows(
		".....",
		".###.",
		".....",
	)
	cs := FindContours(m)
	require.Len(t, cs, 1)
	s := cs[0].Shape()
	assert.Equal(t, ShapeRectangle, s.Kind)
	assert.Zero(t, s.Circularity)
	assert.Equal(t, 3.0, s.AspectRatio)
}
