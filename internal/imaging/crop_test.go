package imaging

import (
	"image"
	"testing"
)

func TestCropFrame(t *testing.T) {
	f := patternFrame(t, 100, 100)

	out, err := CropFrame(f, Region{X1: 40, Y1: 10, X2: 70, Y2: 30})
	if err != nil {
		t.Fatalf("CropFrame failed: %v", err)
	}
	if out.Width != 30 || out.Height != 20 || out.Channels != f.Channels || out.Space != f.Space {
		t.Fatalf("crop: got %dx%d c=%d %s", out.Width, out.Height, out.Channels, out.Space)
	}

	// Column 9 of the crop is x=49 (red), column 10 is x=50 (green).
	if got := out.At(9, 0).Hex(); got != "#FF0000" {
		t.Errorf("left of seam: got %s, want #FF0000", got)
	}
	if got := out.At(10, 19).Hex(); got != "#00FF00" {
		t.Errorf("right of seam: got %s, want #00FF00", got)
	}
}

func TestCropFrame_CopiesPixels(t *testing.T) {
	f := patternFrame(t, 20, 20)
	out, err := CropFrame(f, Region{X1: 0, Y1: 0, X2: 5, Y2: 5})
	if err != nil {
		t.Fatalf("CropFrame failed: %v", err)
	}
	out.Fill(out.Bounds(), mustColor(t, 0, 0, 0))
	if f.At(0, 0).Hex() != "#FF0000" {
		t.Error("writing to the crop changed the source frame")
	}
}

func TestCropFrame_FullFrame(t *testing.T) {
	f := patternFrame(t, 16, 8)
	out, err := CropFrame(f, Region{X1: 0, Y1: 0, X2: 16, Y2: 8})
	if err != nil {
		t.Fatalf("CropFrame failed: %v", err)
	}
	for i := range f.Pix {
		if out.Pix[i] != f.Pix[i] {
			t.Fatalf("full-frame crop differs at byte %d", i)
		}
	}
}

func TestCropFrame_Invalid(t *testing.T) {
	f := patternFrame(t, 100, 100)

	tests := []struct {
		name   string
		region Region
	}{
		{"x1 negative", Region{X1: -10, Y1: 0, X2: 50, Y2: 50}},
		{"y2 too large", Region{X1: 0, Y1: 0, X2: 50, Y2: 150}},
		{"x1 > x2", Region{X1: 60, Y1: 0, X2: 40, Y2: 50}},
		{"zero height", Region{X1: 0, Y1: 50, X2: 50, Y2: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CropFrame(f, tt.region); err == nil {
				t.Error("CropFrame should fail")
			}
		})
	}

	if _, err := CropFrame(nil, Region{X2: 1, Y2: 1}); err == nil {
		t.Error("CropFrame should fail for a nil frame")
	}
}

func TestPyrDown(t *testing.T) {
	f := patternFrame(t, 101, 60)

	tests := []struct {
		levels    int
		wantScale int
		wantSize  image.Point
	}{
		{0, 1, image.Pt(101, 60)},
		{1, 2, image.Pt(51, 30)},
		{2, 4, image.Pt(26, 15)},
	}

	for _, tt := range tests {
		down, scale := PyrDown(f, tt.levels)
		if scale != tt.wantScale {
			t.Errorf("levels %d: scale %d, want %d", tt.levels, scale, tt.wantScale)
		}
		if down.Width != tt.wantSize.X || down.Height != tt.wantSize.Y {
			t.Errorf("levels %d: size %dx%d, want %v", tt.levels, down.Width, down.Height, tt.wantSize)
		}
		if down.Channels != f.Channels {
			t.Errorf("levels %d: channels %d, want %d", tt.levels, down.Channels, f.Channels)
		}
	}

	// Quadrant colors survive the reduction away from the seams.
	down, _ := PyrDown(f, 1)
	if got := down.At(5, 5).Hex(); got != "#FF0000" {
		t.Errorf("top-left after reduction: got %s", got)
	}
}

func TestPyrDown_StopsAtOnePixel(t *testing.T) {
	f, err := NewSolidFrame(3, 2, mustColor(t, 1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	down, scale := PyrDown(f, 4)
	if scale != 2 || down.Width != 2 || down.Height != 1 {
		t.Errorf("got %dx%d scale %d, want 2x1 scale 2", down.Width, down.Height, scale)
	}
}

func TestPyrDown_LeavesHSVFrames(t *testing.T) {
	f, err := NewFrame(8, 8, 3, SpaceHSV)
	if err != nil {
		t.Fatal(err)
	}
	down, scale := PyrDown(f, 2)
	if down != f || scale != 1 {
		t.Error("HSV frames must not be reduced")
	}
}
