package imaging

import (
	"errors"
	"testing"
)

func TestToHSV_Primaries(t *testing.T) {
	tests := []struct {
		name string
		bgr  [3]float64
		want HSV
	}{
		{"red", [3]float64{0, 0, 255}, HSV{H: 0, S: 255, V: 255}},
		{"yellow", [3]float64{0, 255, 255}, HSV{H: 43, S: 255, V: 255}},
		{"green", [3]float64{0, 255, 0}, HSV{H: 85, S: 255, V: 255}},
		{"cyan", [3]float64{255, 255, 0}, HSV{H: 128, S: 255, V: 255}},
		{"blue", [3]float64{255, 0, 0}, HSV{H: 171, S: 255, V: 255}},
		{"magenta", [3]float64{255, 0, 255}, HSV{H: 213, S: 255, V: 255}},
		{"gray", [3]float64{128, 128, 128}, HSV{H: 0, S: 0, V: 128}},
		{"black", [3]float64{0, 0, 0}, HSV{H: 0, S: 0, V: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHSV(mustColor(t, tt.bgr[0], tt.bgr[1], tt.bgr[2]))
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHSVRoundTrip(t *testing.T) {
	// Saturated, bright colors survive HSV and back within rounding.
	for h := 0; h < HuePeriod; h += 7 {
		in := HSV{H: uint8(h), S: 255, V: 255}
		out := ToHSV(FromHSV(in, 255))
		d := int(out.H) - int(in.H)
		if d > HuePeriod/2 {
			d -= HuePeriod
		} else if d < -HuePeriod/2 {
			d += HuePeriod
		}
		if d < -1 || d > 1 || out.S != 255 || out.V != 255 {
			t.Errorf("hue %d: got %v", h, out)
		}
	}
}

func TestSwatch(t *testing.T) {
	c := Swatch(0, 255)
	if c.Hex() != "#FF0000" || c.A() != 255 {
		t.Errorf("red swatch: got %v", c)
	}
	if got := ToHSV(Swatch(100, 80)); got.V != 255 {
		t.Errorf("swatch value: got %d, want 255", got.V)
	}
}

func TestConvertToHSV(t *testing.T) {
	src := patternFrame(t, 10, 10)
	hsv, err := ConvertToHSV(src, nil)
	if err != nil {
		t.Fatalf("ConvertToHSV failed: %v", err)
	}
	if hsv.Space != SpaceHSV || hsv.Channels != 3 {
		t.Fatalf("result: %s with %d channels", hsv.Space, hsv.Channels)
	}
	if src.Space != SpaceBGR {
		t.Error("source frame was modified")
	}

	// Top-right quadrant is green.
	i := hsv.PixOffset(7, 2)
	if got := (HSV{H: hsv.Pix[i], S: hsv.Pix[i+1], V: hsv.Pix[i+2]}); got != (HSV{H: 85, S: 255, V: 255}) {
		t.Errorf("green pixel: got %v", got)
	}

	back, err := ConvertToBGR(hsv, nil)
	if err != nil {
		t.Fatalf("ConvertToBGR failed: %v", err)
	}
	// 256 hue steps cannot hold 120 or 240 degrees exactly, so green and
	// blue come back within a couple of levels; red is exact.
	if got, want := back.At(0, 0).Hex(), src.At(0, 0).Hex(); got != want {
		t.Errorf("(0,0): got %s, want %s", got, want)
	}
	for _, p := range [][2]int{{9, 0}, {0, 9}, {9, 9}} {
		got, want := back.At(p[0], p[1]).Values(), src.At(p[0], p[1]).Values()
		for ch := 0; ch < 3; ch++ {
			if d := int(got[ch]) - int(want[ch]); d < -2 || d > 2 {
				t.Errorf("(%d,%d) channel %d: got %d, want %d +/- 2", p[0], p[1], ch, got[ch], want[ch])
			}
		}
	}
}

func TestConvertToHSV_InPlaceKeepsAlpha(t *testing.T) {
	f, err := NewSolidFrame(3, 3, mustColor(t, 255, 0, 0, 77))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ConvertToHSV(f, f)
	if err != nil {
		t.Fatalf("ConvertToHSV failed: %v", err)
	}
	if out != f || f.Space != SpaceHSV {
		t.Fatal("in-place conversion should return and relabel the source frame")
	}
	if got := f.Pix[f.PixOffset(1, 1)+3]; got != 77 {
		t.Errorf("alpha: got %d, want 77", got)
	}
}

func TestConvertToHSV_Destination(t *testing.T) {
	src := patternFrame(t, 4, 4)

	dst, err := NewFrame(4, 4, 4, SpaceBGR)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ConvertToHSV(src, dst); err != nil {
		t.Fatalf("ConvertToHSV failed: %v", err)
	}
	if dst.Space != SpaceHSV || dst.Pix[3] != 255 {
		t.Errorf("destination: space %s alpha %d", dst.Space, dst.Pix[3])
	}

	small, _ := NewFrame(2, 2, 3, SpaceBGR)
	if _, err := ConvertToHSV(src, small); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("size mismatch: got %v, want ErrInvalidFormat", err)
	}
}

func TestConvert_Errors(t *testing.T) {
	if _, err := ConvertToHSV(nil, nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("nil source: got %v, want ErrEmptyFrame", err)
	}

	bad := &Frame{Width: 2, Height: 2, Channels: 2, Pix: make([]uint8, 8)}
	if _, err := ConvertToHSV(bad, nil); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("2 channels: got %v, want ErrInvalidFormat", err)
	}

	bgr := patternFrame(t, 2, 2)
	if _, err := ConvertToBGR(bgr, nil); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("BGR into ConvertToBGR: got %v, want ErrInvalidFormat", err)
	}
}
