// Package video turns a video file into a stream of decoded frames by piping
// ffmpeg's PNG output through the standard image decoders.
//
// The ffmpeg and ffprobe binaries must be on PATH.
package video

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // frames arrive as PNG
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Options controls frame extraction.
type Options struct {
	// FPS is the sampling rate. Values <= 0 mean one frame per second.
	FPS float64
	// MaxWidth scales frames down to this width, keeping the aspect ratio.
	// Zero keeps the original size.
	MaxWidth int
	// MaxFrames stops extraction after this many frames. Zero means no limit.
	MaxFrames int
}

// FrameFunc receives each decoded frame in order. Returning an error stops
// extraction and is returned from ExtractFrames.
type FrameFunc func(index int, img image.Image) error

// ExtractFrames runs ffmpeg on path and calls fn for every sampled frame. It
// returns the number of frames delivered. Cancelling ctx kills ffmpeg.
func ExtractFrames(ctx context.Context, path string, opts Options, fn FrameFunc) (int, error) {
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	fps := opts.FPS
	if fps <= 0 {
		fps = 1
	}
	kw := ffmpeg.KwArgs{
		"format": "image2pipe",
		"vcodec": "png",
		"r":      strconv.FormatFloat(fps, 'f', -1, 64),
	}
	if opts.MaxWidth > 0 {
		kw["vf"] = fmt.Sprintf("scale='min(%d,iw)':-2", opts.MaxWidth)
	}
	if opts.MaxFrames > 0 {
		kw["frames:v"] = strconv.Itoa(opts.MaxFrames)
	}

	pr, pw := io.Pipe()
	var stderr bytes.Buffer
	cmd := ffmpeg.Input(path).
		Output("pipe:1", kw).
		WithOutput(pw).
		WithErrorOutput(&stderr)
	cmd.Context = ctx

	done := make(chan error, 1)
	go func() {
		err := cmd.Run()
		pw.CloseWithError(err)
		done <- err
	}()

	n, decErr := decodeFrames(pr, opts.MaxFrames, fn)
	// Stop ffmpeg if we quit reading before it finished writing.
	pr.Close()
	cancel()
	runErr := <-done

	if err := parent.Err(); err != nil {
		return n, err
	}
	stopped := opts.MaxFrames > 0 && n >= opts.MaxFrames
	switch {
	case decErr != nil && runErr != nil && errors.Is(decErr, runErr):
		return n, errors.Wrapf(runErr, "ffmpeg failed: %s", lastLine(stderr.String()))
	case decErr != nil:
		return n, decErr
	case runErr != nil && !stopped:
		return n, errors.Wrapf(runErr, "ffmpeg failed: %s", lastLine(stderr.String()))
	case n == 0:
		return 0, errors.Errorf("no frames extracted from %s", path)
	}
	return n, nil
}

// decodeFrames reads back-to-back images from r until EOF or until limit frames
// (when limit > 0) have been passed to fn.
func decodeFrames(r io.Reader, limit int, fn FrameFunc) (int, error) {
	reader := bufio.NewReader(r)
	index := 0
	for limit <= 0 || index < limit {
		if _, err := reader.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return index, errors.Wrapf(err, "read frame %d", index)
		}
		img, _, err := image.Decode(reader)
		if err != nil {
			return index, errors.Wrapf(err, "decode frame %d", index)
		}
		if err := fn(index, img); err != nil {
			return index, err
		}
		index++
	}
	return index, nil
}

// Info describes the first video stream of a file.
type Info struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
	Frames    int     `json:"frames"`
	Duration  float64 `json:"duration_seconds"`
}

// Probe runs ffprobe on path.
func Probe(path string) (*Info, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, errors.Wrap(err, "ffprobe failed")
	}
	return parseProbe(out)
}

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbe(out string) (*Info, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return nil, errors.Wrap(err, "parse ffprobe output")
	}
	for _, s := range probe.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := &Info{Width: s.Width, Height: s.Height, FrameRate: parseRate(s.AvgFrameRate)}
		info.Duration, _ = strconv.ParseFloat(s.Duration, 64)
		if info.Duration == 0 {
			info.Duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
		}
		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			info.Frames = n
		} else {
			info.Frames = int(info.FrameRate * info.Duration)
		}
		return info, nil
	}
	return nil, errors.New("no video stream found")
}

// parseRate parses an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
