// Package config loads server settings from defaults, an optional YAML file
// and BLOB_MCP_* environment variables, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/ironsheep/color-blob-mcp/internal/detection"
	"github.com/ironsheep/color-blob-mcp/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g.
// BLOB_MCP_DETECTOR_HUE_SPREAD.
const EnvPrefix = "BLOB_MCP"

type Config struct {
	Log      LogConfig        `mapstructure:"log"`
	Detector detection.Params `mapstructure:"detector"`
	Video    VideoConfig      `mapstructure:"video"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
}

// VideoConfig bounds the work blob_process_video does when a request leaves
// a setting out.
type VideoConfig struct {
	FPS       float64 `mapstructure:"fps"`
	MaxWidth  int     `mapstructure:"max_width"`
	MaxFrames int     `mapstructure:"max_frames"`
}

// Load reads configuration. An empty path skips the file and uses defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Mode: logging.ModeDevelopment},
		Detector: detection.DefaultParams(),
		Video:    VideoConfig{FPS: 2, MaxWidth: 640, MaxFrames: 100},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.mode", d.Log.Mode)

	v.SetDefault("detector.hue_spread", d.Detector.Spread.Hue)
	v.SetDefault("detector.saturation_spread", d.Detector.Spread.Saturation)
	v.SetDefault("detector.value_min", d.Detector.Spread.ValueMin)
	v.SetDefault("detector.value_max", d.Detector.Spread.ValueMax)
	v.SetDefault("detector.kernel_size", d.Detector.KernelSize)
	v.SetDefault("detector.min_contour_area", d.Detector.MinContourArea)
	v.SetDefault("detector.relative_min_area", d.Detector.RelativeMinArea)
	v.SetDefault("detector.spectrum_width", d.Detector.SpectrumWidth)
	v.SetDefault("detector.spectrum_height", d.Detector.SpectrumHeight)
	v.SetDefault("detector.pyramid_levels", d.Detector.PyramidLevels)

	v.SetDefault("video.fps", d.Video.FPS)
	v.SetDefault("video.max_width", d.Video.MaxWidth)
	v.SetDefault("video.max_frames", d.Video.MaxFrames)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, errors.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Mode {
	case logging.ModeDevelopment, logging.ModeProduction:
	default:
		err = multierr.Append(err, errors.Errorf("log.mode %q must be %s or %s",
			c.Log.Mode, logging.ModeDevelopment, logging.ModeProduction))
	}
	if perr := c.Detector.Validate(); perr != nil {
		for _, e := range multierr.Errors(perr) {
			err = multierr.Append(err, errors.Wrap(e, "detector"))
		}
	}
	if c.Video.FPS <= 0 {
		err = multierr.Append(err, errors.Errorf("video.fps %v must be positive", c.Video.FPS))
	}
	if c.Video.MaxWidth < 0 {
		err = multierr.Append(err, errors.Errorf("video.max_width %d is negative", c.Video.MaxWidth))
	}
	if c.Video.MaxFrames <= 0 {
		err = multierr.Append(err, errors.Errorf("video.max_frames %d must be positive", c.Video.MaxFrames))
	}
	return err
}
