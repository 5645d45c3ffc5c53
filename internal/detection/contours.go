package detection

import (
	"image"

	"github.com/samber/lo"

	"github.com/ironsheep/color-blob-mcp/internal/imaging"
)

// DefaultMinContourArea is the smallest polygon area, in square pixels, a
// contour must reach to be reported.
const DefaultMinContourArea = 50.0

// Contour is the closed outer boundary of one blob. Points are in frame
// coordinates, ordered along the border, with straight runs compressed to
// their end points.
type Contour struct {
	Points []image.Point `json:"points"`

	// PixelCount is the number of mask pixels in the blob, holes excluded.
	PixelCount int `json:"pixel_count"`

	area   float64
	bounds image.Rectangle
}

func newContour(pts []image.Point, pixels int) Contour {
	return Contour{
		Points:     pts,
		PixelCount: pixels,
		area:       imaging.PolygonArea(pts),
		bounds:     imaging.BoundingBox(pts),
	}
}

// Area returns the shoelace area of the contour polygon, measured between
// pixel centers. A 100x100 solid square therefore has area 99*99.
func (c Contour) Area() float64 { return c.area }

// Bounds returns the bounding rectangle of the contour. Max is exclusive.
func (c Contour) Bounds() image.Rectangle { return c.bounds }

// Centroid returns the area centroid of the contour polygon.
func (c Contour) Centroid() imaging.Point { return imaging.Centroid(c.Points) }

// Scale multiplies every vertex by factor, for contours found on a reduced
// frame. The area grows by factor squared.
func (c Contour) Scale(factor int) Contour {
	if factor == 1 {
		return c
	}
	pts := lo.Map(c.Points, func(p image.Point, _ int) image.Point { return p.Mul(factor) })
	return newContour(pts, c.PixelCount*factor*factor)
}

// Translate shifts every vertex by d, for contours found in a cropped region.
func (c Contour) Translate(d image.Point) Contour {
	if d == (image.Point{}) {
		return c
	}
	pts := lo.Map(c.Points, func(p image.Point, _ int) image.Point { return p.Add(d) })
	return newContour(pts, c.PixelCount)
}

// PruneContours drops every contour whose area is below minArea. Order is
// preserved and the input slice is not modified.
func PruneContours(cs []Contour, minArea float64) []Contour {
	return lo.Filter(cs, func(c Contour, _ int) bool { return c.Area() >= minArea })
}

// PruneRelative keeps contours whose area is at least ratio times the largest
// area in cs. A ratio <= 0 keeps everything.
func PruneRelative(cs []Contour, ratio float64) []Contour {
	if ratio <= 0 || len(cs) == 0 {
		return cs
	}
	largest := lo.MaxBy(cs, func(a, b Contour) bool { return a.Area() > b.Area() }).Area()
	return lo.Filter(cs, func(c Contour, _ int) bool { return c.Area() >= ratio*largest })
}

// Neighbor offsets in counter-clockwise order as seen on screen, starting
// east: E, NE, N, NW, W, SW, S, SE.
var neighbors = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

const dirWest = 4

// direction returns the neighbor index leading from a to the adjacent b.
func direction(a, b image.Point) int {
	d := b.Sub(a)
	for i, n := range neighbors {
		if n == d {
			return i
		}
	}
	return -1
}

// binaryGrid is a mask copy with a one-pixel background frame around it so
// border following never needs bounds checks.
type binaryGrid struct {
	w, h int // padded size
	fg   []bool
}

func newBinaryGrid(m *image.Gray) *binaryGrid {
	b := m.Bounds()
	g := &binaryGrid{w: b.Dx() + 2, h: b.Dy() + 2}
	g.fg = make([]bool, g.w*g.h)
	for y := 0; y < b.Dy(); y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+b.Dx()]
		for x, v := range row {
			g.fg[(y+1)*g.w+x+1] = v != MaskOff
		}
	}
	return g
}

func (g *binaryGrid) at(p image.Point) bool {
	return g.fg[p.Y*g.w+p.X]
}

// FindContours returns the outer boundary of every 8-connected foreground
// region of m that is not nested inside a hole of another region. Regions are
// reported in the raster order of their top-left pixel and each boundary
// starts at that pixel.
//
// Boundaries are followed with the Suzuki-Abe border following rule and then
// compressed so that only the pixels where the chain changes direction
// remain. A one-pixel region yields a single point; a straight one-pixel line
// yields its two end points.
func FindContours(m *image.Gray) []Contour {
	if m == nil || m.Bounds().Empty() {
		return []Contour{}
	}
	g := newBinaryGrid(m)

	labels := make([]int32, len(g.fg))
	outer := g.outerBackground()

	contours := make([]Contour, 0)
	var next int32
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			i := y*g.w + x
			if !g.fg[i] || labels[i] != 0 {
				continue
			}
			next++
			pixels := g.labelComponent(labels, image.Pt(x, y), next)

			// The pixel left of a region's first raster pixel is always
			// background; if that background is enclosed, so is the region.
			if !outer[i-1] {
				continue
			}
			chain := g.traceBorder(image.Pt(x, y))
			pts := compressChain(chain)
			for j := range pts {
				pts[j] = pts[j].Sub(image.Pt(1, 1)).Add(m.Bounds().Min)
			}
			contours = append(contours, newContour(pts, pixels))
		}
	}
	return contours
}

// labelComponent flood-fills the 8-connected region containing start with id
// and returns its size. The fill is iterative so large blobs cannot overflow
// the goroutine stack.
func (g *binaryGrid) labelComponent(labels []int32, start image.Point, id int32) int {
	stack := []image.Point{start}
	labels[start.Y*g.w+start.X] = id
	n := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, d := range neighbors {
			q := p.Add(d)
			j := q.Y*g.w + q.X
			if g.fg[j] && labels[j] == 0 {
				labels[j] = id
				stack = append(stack, q)
			}
		}
	}
	return n
}

// outerBackground marks the background pixels 4-connected to the padding,
// that is, every background pixel not enclosed by a foreground region.
func (g *binaryGrid) outerBackground() []bool {
	seen := make([]bool, len(g.fg))
	stack := []image.Point{{0, 0}}
	seen[0] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]image.Point{{1, 0}, {0, -1}, {-1, 0}, {0, 1}} {
			q := p.Add(d)
			if q.X < 0 || q.Y < 0 || q.X >= g.w || q.Y >= g.h {
				continue
			}
			j := q.Y*g.w + q.X
			if !g.fg[j] && !seen[j] {
				seen[j] = true
				stack = append(stack, q)
			}
		}
	}
	return seen
}

// traceBorder follows the outer border that starts at start, the first raster
// pixel of its region, and returns every border pixel in visiting order.
func (g *binaryGrid) traceBorder(start image.Point) []image.Point {
	// Clockwise search from the west neighbor for the last pixel of the loop.
	var last image.Point
	found := false
	for k := 0; k < 8; k++ {
		q := start.Add(neighbors[(dirWest-k+8)%8])
		if g.at(q) {
			last, found = q, true
			break
		}
	}
	if !found {
		return []image.Point{start}
	}

	chain := []image.Point{start}
	prev, cur := last, start
	for {
		// Counter-clockwise search starting just after the pixel we came from.
		d := direction(cur, prev)
		var nxt image.Point
		for k := 1; k <= 8; k++ {
			q := cur.Add(neighbors[(d+k)%8])
			if g.at(q) {
				nxt = q
				break
			}
		}
		if nxt == start && cur == last {
			return chain
		}
		prev, cur = cur, nxt
		chain = append(chain, cur)
	}
}

// compressChain keeps only the pixels of a closed chain where the step
// direction changes.
func compressChain(chain []image.Point) []image.Point {
	n := len(chain)
	if n <= 2 {
		return append([]image.Point(nil), chain...)
	}
	out := make([]image.Point, 0, n)
	for i, p := range chain {
		in := direction(chain[(i-1+n)%n], p)
		outDir := direction(p, chain[(i+1)%n])
		if in != outDir {
			out = append(out, p)
		}
	}
	return out
}
