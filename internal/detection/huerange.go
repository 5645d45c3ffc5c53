package detection

import (
	"fmt"

	"github.com/ironsheep/color-blob-mcp/internal/imaging"
)

// Spread controls how far from the reference color a pixel may drift and
// still count as a match.
type Spread struct {
	// Hue is the half-width of the hue band, in 8-bit hue steps.
	Hue int `json:"hue" mapstructure:"hue_spread"`
	// Saturation is the half-width of the saturation band.
	Saturation int `json:"saturation" mapstructure:"saturation_spread"`
	// ValueMin and ValueMax are the fixed value band; they do not follow the
	// reference color.
	ValueMin uint8 `json:"value_min" mapstructure:"value_min"`
	ValueMax uint8 `json:"value_max" mapstructure:"value_max"`
}

// DefaultSpread mirrors the picker defaults of the original tool: a hue radius
// of 25 and a saturation radius of 50, with near-black pixels rejected.
var DefaultSpread = Spread{
	Hue:        25,
	Saturation: 50,
	ValueMin:   32,
	ValueMax:   imaging.MaxChannel,
}

// HSVBounds is an inclusive box in HSV space. Lower <= Upper on every channel.
type HSVBounds struct {
	Lower imaging.HSV `json:"lower"`
	Upper imaging.HSV `json:"upper"`
}

// Contains reports whether c lies inside the box.
func (b HSVBounds) Contains(c imaging.HSV) bool {
	return c.H >= b.Lower.H && c.H <= b.Upper.H &&
		c.S >= b.Lower.S && c.S <= b.Upper.S &&
		c.V >= b.Lower.V && c.V <= b.Upper.V
}

func (b HSVBounds) String() string {
	return fmt.Sprintf("[%v..%v]", b.Lower, b.Upper)
}

// HueRange is the set of HSV colors that match the reference color. It is
// either a SingleRange or, when the hue band crosses the wrap point, a
// SplitRange.
type HueRange interface {
	// Contains reports whether c matches.
	Contains(c imaging.HSV) bool
	// Segments returns the one or two boxes making up the range.
	Segments() []HSVBounds
	// Band returns the first hue of the circular band and how many hues it
	// covers.
	Band() (start, width int)

	isHueRange()
}

// SingleRange is a hue band that does not cross the wrap point.
type SingleRange struct {
	HSVBounds
}

func (SingleRange) isHueRange() {}

// Segments implements HueRange.
func (r SingleRange) Segments() []HSVBounds { return []HSVBounds{r.HSVBounds} }

// Band implements HueRange.
func (r SingleRange) Band() (int, int) {
	return int(r.Lower.H), int(r.Upper.H) - int(r.Lower.H) + 1
}

// SplitRange is a hue band that crosses the wrap point. Low always starts at
// hue 0 and High always ends at the maximum hue.
type SplitRange struct {
	Low  HSVBounds
	High HSVBounds
}

func (SplitRange) isHueRange() {}

// Contains implements HueRange.
func (r SplitRange) Contains(c imaging.HSV) bool {
	return r.Low.Contains(c) || r.High.Contains(c)
}

// Segments implements HueRange.
func (r SplitRange) Segments() []HSVBounds { return []HSVBounds{r.Low, r.High} }

// Band implements HueRange.
func (r SplitRange) Band() (int, int) {
	return int(r.High.Lower.H), int(r.Low.Upper.H) + 1 + imaging.MaxHue - int(r.High.Lower.H) + 1
}

// BuildHueRange derives the matching range for a reference color.
//
// The hue band is ref.H +/- spread.Hue on the 256-step circle. When it runs
// past either end it is split into [0, upper] and [lower, 255] after reducing
// the overflowing bound modulo the period, so the union of the segments is
// exactly the band an unbounded hue axis would give. Saturation is
// ref.S +/- spread.Saturation clamped to 0..255; value is the fixed
// [spread.ValueMin, spread.ValueMax] band.
func BuildHueRange(ref imaging.HSV, spread Spread) HueRange {
	hs := max(spread.Hue, 0)
	ss := max(spread.Saturation, 0)

	sLo := clampChannel(int(ref.S) - ss)
	sHi := clampChannel(int(ref.S) + ss)
	vLo, vHi := spread.ValueMin, spread.ValueMax
	if vLo > vHi {
		vLo, vHi = vHi, vLo
	}

	box := func(hLo, hHi int) HSVBounds {
		return HSVBounds{
			Lower: imaging.HSV{H: uint8(hLo), S: sLo, V: vLo},
			Upper: imaging.HSV{H: uint8(hHi), S: sHi, V: vHi},
		}
	}

	if 2*hs+1 >= imaging.HuePeriod {
		return SingleRange{box(0, imaging.MaxHue)}
	}

	lower := int(ref.H) - hs
	upper := int(ref.H) + hs
	switch {
	case lower < 0:
		return SplitRange{
			Low:  box(0, upper),
			High: box(imaging.HuePeriod+lower, imaging.MaxHue),
		}
	case upper > imaging.MaxHue:
		return SplitRange{
			Low:  box(0, upper-imaging.HuePeriod),
			High: box(lower, imaging.MaxHue),
		}
	default:
		return SingleRange{box(lower, upper)}
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > imaging.MaxChannel {
		return imaging.MaxChannel
	}
	return uint8(v)
}
