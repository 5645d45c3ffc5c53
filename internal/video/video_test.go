package video

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngStream(t *testing.T, colors ...color.Color) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, c := range colors {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				img.Set(x, y, c)
			}
		}
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	return &buf
}

func TestDecodeFrames(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"all", 0, 3},
		{"limited", 2, 2},
		{"limit above count", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []color.Color
			n, err := decodeFrames(pngStream(t, red, green, blue), tt.limit, func(i int, img image.Image) error {
				if i != len(got) {
					t.Errorf("frame index %d, want %d", i, len(got))
				}
				if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
					t.Errorf("frame %d is %v", i, img.Bounds())
				}
				got = append(got, img.At(0, 0))
				return nil
			})
			if err != nil {
				t.Fatalf("decodeFrames failed: %v", err)
			}
			if n != tt.want || len(got) != tt.want {
				t.Fatalf("decoded %d frames (%d callbacks), want %d", n, len(got), tt.want)
			}
			if r, _, _, _ := got[0].RGBA(); r != 0xffff {
				t.Errorf("first frame is not red: %v", got[0])
			}
		})
	}
}

func TestDecodeFramesEmpty(t *testing.T) {
	n, err := decodeFrames(&bytes.Buffer{}, 0, func(int, image.Image) error {
		t.Fatal("callback on empty stream")
		return nil
	})
	if err != nil || n != 0 {
		t.Fatalf("decodeFrames(empty) = %d, %v", n, err)
	}
}

func TestDecodeFramesGarbage(t *testing.T) {
	stream := pngStream(t, color.White)
	stream.WriteString("not a png")

	n, err := decodeFrames(stream, 0, func(int, image.Image) error { return nil })
	if err == nil {
		t.Fatal("expected decode error")
	}
	if n != 1 {
		t.Errorf("decoded %d frames before the error, want 1", n)
	}
}

func TestDecodeFramesCallbackStops(t *testing.T) {
	stop := errors.New("stop")
	n, err := decodeFrames(pngStream(t, color.White, color.Black), 0, func(i int, _ image.Image) error {
		if i == 1 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want stop", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

func TestParseProbe(t *testing.T) {
	out := `{
	  "streams": [
	    {"codec_type": "audio"},
	    {"codec_type": "video", "width": 1280, "height": 720,
	     "avg_frame_rate": "30000/1001", "duration": "10.01", "nb_frames": "300"}
	  ],
	  "format": {"duration": "10.05"}
	}`
	info, err := parseProbe(out)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.Width != 1280 || info.Height != 720 {
		t.Errorf("size %dx%d, want 1280x720", info.Width, info.Height)
	}
	if info.Frames != 300 {
		t.Errorf("frames %d, want 300", info.Frames)
	}
	if info.FrameRate < 29.9 || info.FrameRate > 30 {
		t.Errorf("frame rate %v, want ~29.97", info.FrameRate)
	}
	if info.Duration != 10.01 {
		t.Errorf("duration %v, want 10.01", info.Duration)
	}
}

func TestParseProbeEstimatesFrames(t *testing.T) {
	out := `{"streams":[{"codec_type":"video","avg_frame_rate":"25/1"}],"format":{"duration":"4"}}`
	info, err := parseProbe(out)
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.Frames != 100 {
		t.Errorf("frames %d, want 100", info.Frames)
	}
}

func TestParseProbeErrors(t *testing.T) {
	if _, err := parseProbe(`{"streams":[{"codec_type":"audio"}]}`); err == nil {
		t.Error("expected error for audio-only probe")
	}
	if _, err := parseProbe(`not json`); err == nil {
		t.Error("expected error for bad json")
	}
}

func TestParseRate(t *testing.T) {
	tests := map[string]float64{
		"25/1": 25,
		"30":   30,
		"0/0":  0,
		"x/1":  0,
		"":     0,
		"50/2": 25,
	}
	for in, want := range tests {
		if got := parseRate(in); got != want {
			t.Errorf("parseRate(%q) = %v, want %v", in, got, want)
		}
	}
}
