package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/color-blob-mcp/internal/detection"
	"github.com/ironsheep/color-blob-mcp/internal/imaging"
	"github.com/ironsheep/color-blob-mcp/internal/video"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "blob_process").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the detector or an imaging/video function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information and Color Picking
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_hues":
		return s.handleImageDominantHues(args)

	// Blob Detection
	case "blob_select_color":
		return s.handleBlobSelectColor(args)
	case "blob_status":
		return s.handleBlobStatus()
	case "blob_process":
		return s.handleBlobProcess(args)
	case "blob_mask":
		return s.handleBlobMask()
	case "blob_spectrum":
		return s.handleBlobSpectrum()
	case "blob_overlay":
		return s.handleBlobOverlay(args)

	// Video
	case "video_info":
		return s.handleVideoInfo(args)
	case "blob_process_video":
		return s.handleBlobProcessVideo(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageDominantHuesArgs struct {
	Path   string          `json:"path"`
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region,omitempty"`
}

func (s *Server) handleImageDominantHues(args json.RawMessage) (interface{}, error) {
	var a imageDominantHuesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.DominantHues(img, a.Count, a.Region)
}

// === Blob Detection Handlers ===

// pickRadius is the half-size of the square averaged when a color is picked
// from an image point.
const pickRadius = 4

type blobSelectColorArgs struct {
	Hex string    `json:"hex,omitempty"`
	BGR []float64 `json:"bgr,omitempty"`

	Path string `json:"path,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`

	HueSpread        *int `json:"hue_spread,omitempty"`
	SaturationSpread *int `json:"saturation_spread,omitempty"`
}

type selectColorResult struct {
	Color    imaging.ColorSample   `json:"color"`
	Split    bool                  `json:"split"`
	Segments []detection.HSVBounds `json:"segments"`
	Spread   detection.Spread      `json:"spread"`
	Spectrum *imaging.EncodedImage `json:"spectrum"`
}

func (s *Server) handleBlobSelectColor(args json.RawMessage) (interface{}, error) {
	var a blobSelectColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	c, err := s.referenceColor(a)
	if err != nil {
		return nil, err
	}

	if a.HueSpread != nil || a.SaturationSpread != nil {
		spread := s.detector.Params().Spread
		if a.HueSpread != nil {
			spread.Hue = *a.HueSpread
		}
		if a.SaturationSpread != nil {
			spread.Saturation = *a.SaturationSpread
		}
		if err := s.detector.SelectColorSpread(c, spread.Hue, spread.Saturation); err != nil {
			return nil, err
		}
		return s.selectionResult()
	}

	if err := s.detector.SelectColor(c); err != nil {
		return nil, err
	}
	return s.selectionResult()
}

// referenceColor resolves the color named by a: an explicit hex string, raw
// B, G, R[, A] channel values, or the mean color around a point of an image.
func (s *Server) referenceColor(a blobSelectColorArgs) (imaging.Color, error) {
	switch {
	case a.Hex != "":
		return imaging.ParseHexColor(a.Hex)
	case len(a.BGR) > 0:
		return imaging.NewColor(a.BGR...)
	case a.Path != "":
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return imaging.Color{}, err
		}
		if !image.Pt(a.X, a.Y).In(img.Bounds()) {
			return imaging.Color{}, errors.Errorf("coordinates (%d,%d) outside image bounds", a.X, a.Y)
		}
		sample, err := imaging.SampleRegionMean(img, imaging.Region{
			X1: a.X - pickRadius, Y1: a.Y - pickRadius,
			X2: a.X + pickRadius + 1, Y2: a.Y + pickRadius + 1,
		})
		if err != nil {
			return imaging.Color{}, err
		}
		return sample.Color(), nil
	default:
		return imaging.Color{}, errors.New("one of hex, bgr or path is required")
	}
}

func (s *Server) selectionResult() (*selectColorResult, error) {
	c, _, ok := s.detector.SelectedColor()
	if !ok {
		return nil, errors.New("no color selected")
	}
	rng := s.detector.HueRange()
	spectrum, err := imaging.EncodeImage(s.detector.Spectrum())
	if err != nil {
		return nil, err
	}
	_, split := rng.(detection.SplitRange)
	return &selectColorResult{
		Color:    imaging.NewColorSample(c),
		Split:    split,
		Segments: rng.Segments(),
		Spread:   s.detector.Params().Spread,
		Spectrum: spectrum,
	}, nil
}

type blobStatusResult struct {
	State    string                `json:"state"`
	Color    *imaging.ColorSample  `json:"color,omitempty"`
	Segments []detection.HSVBounds `json:"segments,omitempty"`
	Params   detection.Params      `json:"params"`
	Contours int                   `json:"last_contour_count"`
}

func (s *Server) handleBlobStatus() (interface{}, error) {
	res := &blobStatusResult{
		State:    s.detector.State().String(),
		Params:   s.detector.Params(),
		Contours: len(s.detector.Contours()),
	}
	if c, _, ok := s.detector.SelectedColor(); ok {
		sample := imaging.NewColorSample(c)
		res.Color = &sample
		res.Segments = s.detector.HueRange().Segments()
	}
	return res, nil
}

type blobProcessArgs struct {
	Path   string          `json:"path"`
	Region *imaging.Region `json:"region,omitempty"`
}

// contourResult is the client view of one detected blob.
type contourResult struct {
	Points     []imaging.Point `json:"points"`
	Area       float64         `json:"area"`
	Perimeter  float64         `json:"perimeter"`
	Bounds     imaging.Region  `json:"bounds"`
	Centroid   imaging.Point   `json:"centroid"`
	PixelCount int             `json:"pixel_count"`
	Shape      detection.Shape `json:"shape"`
}

type blobProcessResult struct {
	State    string                 `json:"state"`
	Width    int                    `json:"width"`
	Height   int                    `json:"height"`
	Count    int                    `json:"contour_count"`
	Contours []contourResult        `json:"contours"`
	Coverage imaging.CoverageResult `json:"coverage"`
}

func newContourResult(c detection.Contour) contourResult {
	pts := make([]imaging.Point, len(c.Points))
	for i, p := range c.Points {
		pts[i] = imaging.Point{X: p.X, Y: p.Y}
	}
	b := c.Bounds()
	return contourResult{
		Points:     pts,
		Area:       c.Area(),
		Perimeter:  imaging.Perimeter(c.Points),
		Bounds:     imaging.Region{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y},
		Centroid:   c.Centroid(),
		PixelCount: c.PixelCount,
		Shape:      c.Shape(),
	}
}

// processPath runs the detector on the image at path, optionally restricted
// to region. Contours are returned in full-image coordinates.
func (s *Server) processPath(path string, region *imaging.Region) (*imaging.Frame, []detection.Contour, error) {
	frame, err := s.cache.LoadFrame(path)
	if err != nil {
		return nil, nil, err
	}
	input := frame
	if region != nil {
		if input, err = imaging.CropFrame(frame, *region); err != nil {
			return nil, nil, err
		}
	}
	contours, err := s.detector.Process(input)
	if err != nil {
		return nil, nil, err
	}
	if region != nil {
		offset := image.Pt(region.X1, region.Y1)
		for i := range contours {
			contours[i] = contours[i].Translate(offset)
		}
	}
	return frame, contours, nil
}

func (s *Server) handleBlobProcess(args json.RawMessage) (interface{}, error) {
	var a blobProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, contours, err := s.processPath(a.Path, a.Region)
	if err != nil {
		return nil, err
	}

	res := &blobProcessResult{
		State:    s.detector.State().String(),
		Width:    frame.Width,
		Height:   frame.Height,
		Count:    len(contours),
		Contours: make([]contourResult, len(contours)),
	}
	polys := make([][]image.Point, len(contours))
	for i, c := range contours {
		res.Contours[i] = newContourResult(c)
		polys[i] = c.Points
	}
	res.Coverage = imaging.Coverage(polys, frame.Width, frame.Height)
	return res, nil
}

func (s *Server) handleBlobMask() (interface{}, error) {
	mask := s.detector.LastMask()
	if mask == nil {
		return nil, errors.New("no frame has been processed")
	}
	return imaging.EncodeImage(mask)
}

func (s *Server) handleBlobSpectrum() (interface{}, error) {
	spectrum := s.detector.Spectrum()
	if spectrum == nil {
		return nil, errors.New("no color selected")
	}
	return imaging.EncodeImage(spectrum)
}

type blobOverlayArgs struct {
	Path           string          `json:"path"`
	Region         *imaging.Region `json:"region,omitempty"`
	ContourColor   string          `json:"contour_color"`
	NumberContours bool            `json:"number_contours"`
}

type blobOverlayResult struct {
	imaging.EncodedImage
	Count int `json:"contour_count"`
}

func (s *Server) handleBlobOverlay(args json.RawMessage) (interface{}, error) {
	var a blobOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, contours, err := s.processPath(a.Path, a.Region)
	if err != nil {
		return nil, err
	}

	opts := imaging.OverlayOptions{NumberContours: a.NumberContours}
	if a.ContourColor != "" {
		c, err := imaging.ParseHexColor(a.ContourColor)
		if err != nil {
			return nil, err
		}
		opts.ContourColor.R, opts.ContourColor.G, opts.ContourColor.B, opts.ContourColor.A = c.R(), c.G(), c.B(), 255
	}
	if c, _, ok := s.detector.SelectedColor(); ok {
		opts.Selected = c
		opts.Spectrum = s.detector.Spectrum()
	}

	polys := make([][]image.Point, len(contours))
	for i, c := range contours {
		polys[i] = c.Points
	}
	enc, err := imaging.EncodeImage(imaging.Overlay(frame, polys, opts))
	if err != nil {
		return nil, err
	}
	return &blobOverlayResult{EncodedImage: *enc, Count: len(contours)}, nil
}

// === Video Handlers ===

func (s *Server) handleVideoInfo(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return video.Probe(a.Path)
}

type blobProcessVideoArgs struct {
	Path      string  `json:"path"`
	FPS       float64 `json:"fps"`
	MaxWidth  int     `json:"max_width"`
	MaxFrames int     `json:"max_frames"`
}

type videoFrameResult struct {
	Index        int     `json:"index"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	ContourCount int     `json:"contour_count"`
	TotalArea    float64 `json:"total_area"`
	LargestArea  float64 `json:"largest_area"`
}

type blobProcessVideoResult struct {
	FrameCount int                `json:"frame_count"`
	Frames     []videoFrameResult `json:"frames"`
}

func (s *Server) handleBlobProcessVideo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a blobProcessVideoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.FPS == 0 {
		a.FPS = s.video.FPS
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = s.video.MaxWidth
	}
	if a.MaxFrames == 0 {
		a.MaxFrames = s.video.MaxFrames
	}
	if s.detector.State() != detection.Armed {
		return nil, errors.New("no color selected")
	}

	res := &blobProcessVideoResult{Frames: make([]videoFrameResult, 0)}
	opts := video.Options{FPS: a.FPS, MaxWidth: a.MaxWidth, MaxFrames: a.MaxFrames}
	n, err := video.ExtractFrames(ctx, a.Path, opts, func(index int, img image.Image) error {
		frame := imaging.FrameFromImage(img)
		contours, err := s.detector.Process(frame)
		if err != nil {
			return errors.Wrapf(err, "frame %d", index)
		}
		res.Frames = append(res.Frames, summarizeFrame(index, frame, contours))
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.FrameCount = n
	return res, nil
}

func summarizeFrame(index int, f *imaging.Frame, contours []detection.Contour) videoFrameResult {
	r := videoFrameResult{Index: index, Width: f.Width, Height: f.Height, ContourCount: len(contours)}
	for _, c := range contours {
		r.TotalArea += c.Area()
		r.LargestArea = max(r.LargestArea, c.Area())
	}
	return r
}
