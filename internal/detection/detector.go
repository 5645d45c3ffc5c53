package detection

import (
	"fmt"
	"image"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/color-blob-mcp/internal/imaging"
)

// State is the lifecycle state of a Detector.
type State int

const (
	// Idle means no reference color has been selected; Process is a no-op.
	Idle State = iota
	// Armed means a reference color is set and frames are processed.
	Armed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Params tunes a Detector.
type Params struct {
	Spread Spread `json:"spread" mapstructure:",squash"`

	// KernelSize is the side of the square structuring element used to clean
	// the mask.
	KernelSize int `json:"kernel_size" mapstructure:"kernel_size"`

	// MinContourArea drops contours smaller than this many square pixels.
	MinContourArea float64 `json:"min_contour_area" mapstructure:"min_contour_area"`

	// RelativeMinArea, when positive, also drops contours smaller than this
	// fraction of the largest contour in the frame.
	RelativeMinArea float64 `json:"relative_min_area" mapstructure:"relative_min_area"`

	SpectrumWidth  int `json:"spectrum_width" mapstructure:"spectrum_width"`
	SpectrumHeight int `json:"spectrum_height" mapstructure:"spectrum_height"`

	// PyramidLevels halves the frame this many times before thresholding.
	// Contours are scaled back to full-frame coordinates.
	PyramidLevels int `json:"pyramid_levels" mapstructure:"pyramid_levels"`
}

// DefaultParams returns the detector defaults.
func DefaultParams() Params {
	return Params{
		Spread:         DefaultSpread,
		KernelSize:     DefaultKernelSize,
		MinContourArea: DefaultMinContourArea,
		SpectrumWidth:  DefaultSpectrumWidth,
		SpectrumHeight: DefaultSpectrumHeight,
	}
}

// Validate reports every out-of-range parameter at once.
func (p Params) Validate() error {
	var err error
	if p.Spread.Hue < 0 {
		err = multierr.Append(err, errors.Errorf("hue spread %d is negative", p.Spread.Hue))
	}
	if p.Spread.Saturation < 0 {
		err = multierr.Append(err, errors.Errorf("saturation spread %d is negative", p.Spread.Saturation))
	}
	if p.Spread.ValueMin > p.Spread.ValueMax {
		err = multierr.Append(err, errors.Errorf("value band [%d, %d] is inverted", p.Spread.ValueMin, p.Spread.ValueMax))
	}
	if p.KernelSize < 1 {
		err = multierr.Append(err, errors.Errorf("kernel size %d must be at least 1", p.KernelSize))
	}
	if p.MinContourArea < 0 {
		err = multierr.Append(err, errors.Errorf("min contour area %v is negative", p.MinContourArea))
	}
	if p.RelativeMinArea < 0 || p.RelativeMinArea > 1 {
		err = multierr.Append(err, errors.Errorf("relative min area %v outside [0, 1]", p.RelativeMinArea))
	}
	if p.SpectrumWidth <= 0 || p.SpectrumHeight <= 0 {
		err = multierr.Append(err, errors.Errorf("spectrum size %dx%d must be positive", p.SpectrumWidth, p.SpectrumHeight))
	}
	if p.PyramidLevels < 0 || p.PyramidLevels > 4 {
		err = multierr.Append(err, errors.Errorf("pyramid levels %d outside [0, 4]", p.PyramidLevels))
	}
	return err
}

// Detector finds the blobs of one selected color in a sequence of frames.
//
// A Detector starts Idle. SelectColor arms it; from then on Process
// thresholds each frame around the selected color, cleans the mask and
// returns the outer contours of what is left. The spectrum preview is
// rebuilt only when the color or the spread changes.
//
// All methods are safe for concurrent use. One goroutine may change the
// color while another processes frames; each call sees either the old or the
// new color, never a mix.
type Detector struct {
	mu     sync.Mutex
	logger *zap.Logger
	params Params

	state    State
	color    imaging.Color
	hsv      imaging.HSV
	rng      HueRange
	spectrum *image.NRGBA

	mask     *image.Gray
	contours []Contour
}

// NewDetector creates an Idle detector. A nil logger disables logging.
func NewDetector(params Params, logger *zap.Logger) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid detector params")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		logger: logger,
		params: params,
	}, nil
}

// SelectColor sets the reference color, derives its hue range and spectrum,
// and arms the detector. Re-selecting replaces the previous color. On error
// the detector is left unchanged.
func (d *Detector) SelectColor(c imaging.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectLocked(c, d.params.Spread)
}

// SelectColorSpread selects c and changes the hue and saturation spread in
// one step. On failure neither the color nor the spread changes.
func (d *Detector) SelectColorSpread(c imaging.Color, hue, saturation int) error {
	if hue < 0 || saturation < 0 {
		return errors.Errorf("spread (%d, %d) must not be negative", hue, saturation)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	spread := d.params.Spread
	spread.Hue = hue
	spread.Saturation = saturation
	return d.selectLocked(c, spread)
}

func (d *Detector) selectLocked(c imaging.Color, spread Spread) error {
	if !c.Valid() {
		return errors.Wrap(imaging.ErrInvalidFormat, "select color")
	}

	hsv := imaging.ToHSV(c)
	rng, spectrum, err := d.derive(hsv, spread)
	if err != nil {
		return err
	}

	d.color = c
	d.hsv = hsv
	d.rng = rng
	d.spectrum = spectrum
	d.params.Spread = spread
	d.state = Armed

	d.logger.Debug("color selected",
		zap.Stringer("color", c),
		zap.Stringer("hsv", hsv),
		zap.Int("hue_spread", spread.Hue),
		zap.Int("segments", len(rng.Segments())))
	return nil
}

// SetSpread changes how far from the reference color a pixel may be. When
// armed, the hue range and spectrum are rebuilt at once.
func (d *Detector) SetSpread(hue, saturation int) error {
	if hue < 0 || saturation < 0 {
		return errors.Errorf("spread (%d, %d) must not be negative", hue, saturation)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	spread := d.params.Spread
	spread.Hue = hue
	spread.Saturation = saturation

	if d.state == Armed {
		rng, spectrum, err := d.derive(d.hsv, spread)
		if err != nil {
			return err
		}
		d.rng = rng
		d.spectrum = spectrum
	}
	d.params.Spread = spread

	d.logger.Debug("spread changed", zap.Int("hue", hue), zap.Int("saturation", saturation))
	return nil
}

func (d *Detector) derive(hsv imaging.HSV, spread Spread) (HueRange, *image.NRGBA, error) {
	rng := BuildHueRange(hsv, spread)
	spectrum, err := Spectrum(rng, d.params.SpectrumWidth, d.params.SpectrumHeight)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build spectrum")
	}
	return rng, spectrum, nil
}

// Process finds the blobs of the selected color in f and returns their
// contours in raster discovery order. f may be a display-space frame or an
// HSV frame.
//
// When the detector is Idle, Process returns an empty slice without looking
// at f. When armed, an empty frame fails with imaging.ErrEmptyFrame and a
// frame with a bad channel count fails with imaging.ErrInvalidFormat; a
// failed call leaves the previous mask and contours in place.
func (d *Detector) Process(f *imaging.Frame) ([]Contour, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Idle {
		return []Contour{}, nil
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	scale := 1
	hsv := f
	if f.Space == imaging.SpaceBGR {
		var small *imaging.Frame
		small, scale = imaging.PyrDown(f, d.params.PyramidLevels)
		var err error
		if hsv, err = imaging.ConvertToHSV(small, nil); err != nil {
			return nil, errors.Wrap(err, "convert frame")
		}
	}

	raw, err := BuildMask(hsv, d.rng)
	if err != nil {
		return nil, errors.Wrap(err, "build mask")
	}
	mask := CleanMask(raw, d.params.KernelSize)

	found := FindContours(mask)
	contours := make([]Contour, len(found))
	for i, c := range found {
		contours[i] = c.Scale(scale)
	}
	contours = PruneContours(contours, d.params.MinContourArea)
	contours = PruneRelative(contours, d.params.RelativeMinArea)

	d.mask = mask
	d.contours = contours

	d.logger.Debug("frame processed",
		zap.Int("width", f.Width),
		zap.Int("height", f.Height),
		zap.Int("scale", scale),
		zap.Int("found", len(found)),
		zap.Int("kept", len(contours)))

	return append([]Contour(nil), contours...), nil
}

// ProcessImage converts img to a display frame and processes it.
func (d *Detector) ProcessImage(img image.Image) ([]Contour, error) {
	if img == nil {
		return nil, errors.Wrap(imaging.ErrEmptyFrame, "nil image")
	}
	return d.Process(imaging.FrameFromImage(img))
}

// Spectrum returns a copy of the current spectrum preview, or nil when Idle.
func (d *Detector) Spectrum() *image.NRGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.spectrum == nil {
		return nil
	}
	out := *d.spectrum
	out.Pix = append([]uint8(nil), d.spectrum.Pix...)
	return &out
}

// LastMask returns a copy of the cleaned mask from the last successful
// Process call, or nil. With pyramid levels configured the mask has the
// reduced size.
func (d *Detector) LastMask() *image.Gray {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mask == nil {
		return nil
	}
	out := *d.mask
	out.Pix = append([]uint8(nil), d.mask.Pix...)
	return &out
}

// Contours returns the contours from the last successful Process call.
func (d *Detector) Contours() []Contour {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Contour(nil), d.contours...)
}

// State returns the current lifecycle state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// SelectedColor returns the reference color and its HSV form. ok is false
// while Idle.
func (d *Detector) SelectedColor() (c imaging.Color, hsv imaging.HSV, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.color, d.hsv, d.state == Armed
}

// HueRange returns the current matching range, or nil while Idle.
func (d *Detector) HueRange() HueRange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng
}

// Params returns the current parameters, including any spread change.
func (d *Detector) Params() Params {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params
}
