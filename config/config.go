package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/windowing"
)

// ResampleMode selects how a signal is rate-converted before analysis
type ResampleMode string

const (
	ResampleNone        ResampleMode = "none"
	ResampleDownsample  ResampleMode = "downsample"
	ResampleUpsample    ResampleMode = "upsample"
	ResampleInterpolate ResampleMode = "interpolate" // cubic, no anti-imaging filter
)

// ResampleConfig configures integer-ratio rate conversion
type ResampleConfig struct {
	Mode          ResampleMode `json:"mode"`
	Ratio         int          `json:"ratio"`          // conversion ratio, >= 1
	ZeroCrossings int          `json:"zero_crossings"` // sinc support per side; ignored by interpolate
}

// RCFilterConfig configures the single-pole RC stage
type RCFilterConfig struct {
	Enabled  bool    `json:"enabled"`
	CutoffHz float64 `json:"cutoff_hz"`
}

// SpectrogramConfig configures the time-frequency transform
type SpectrogramConfig struct {
	WindowSize int            `json:"window_size"` // samples per frame; frames hold WindowSize/2 bins
	Window     windowing.Type `json:"window"`      // taper applied before the FFT; rectangular leaves frames untouched
	Workers    int            `json:"workers"`     // frame workers; 0 picks from CPU count
	CropBins   int            `json:"crop_bins"`   // keep only the first CropBins bins; 0 keeps all
}

// NoiseConfig configures per-frame noise reduction
type NoiseConfig struct {
	SmoothingWindow    int     `json:"smoothing_window"` // moving-average width in bins; 0 disables
	AlphaTrim          bool    `json:"alpha_trim"`
	AlphaTrimWindow    int     `json:"alpha_trim_window"`    // statistics window in bins
	AlphaTrimThreshold float64 `json:"alpha_trim_threshold"` // deviation (in std devs) above which a bin is trimmed
}

// AlignmentConfig configures peak alignment of the secondary signal
type AlignmentConfig struct {
	Enabled bool `json:"enabled"`
}

// PipelineConfig holds the configuration for a complete processing run
type PipelineConfig struct {
	Resample    ResampleConfig    `json:"resample"`
	RCFilter    RCFilterConfig    `json:"rc_filter"`
	Spectrogram SpectrogramConfig `json:"spectrogram"`
	Noise       NoiseConfig       `json:"noise"`
	Alignment   AlignmentConfig   `json:"alignment"`
}

// DefaultResampleConfig returns a pass-through resample configuration
func DefaultResampleConfig() ResampleConfig {
	return ResampleConfig{
		Mode:          ResampleNone,
		Ratio:         1,
		ZeroCrossings: 8,
	}
}

// DefaultSpectrogramConfig returns the device's analysis frame setup
func DefaultSpectrogramConfig() SpectrogramConfig {
	return SpectrogramConfig{
		WindowSize: 256,
		Window:     windowing.TypeRectangular,
	}
}

// DefaultNoiseConfig returns noise reduction disabled with sensible
// parameters ready to switch on
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		SmoothingWindow:    0,
		AlphaTrim:          false,
		AlphaTrimWindow:    8,
		AlphaTrimThreshold: 1.5,
	}
}

// DefaultPipelineConfig returns the default configuration
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Resample: DefaultResampleConfig(),
		RCFilter: RCFilterConfig{
			Enabled:  false,
			CutoffHz: 3000,
		},
		Spectrogram: DefaultSpectrogramConfig(),
		Noise:       DefaultNoiseConfig(),
		Alignment: AlignmentConfig{
			Enabled: true,
		},
	}
}

// Validate checks the resample configuration
func (c ResampleConfig) Validate() error {
	switch c.Mode {
	case ResampleNone, "":
		return nil
	case ResampleDownsample, ResampleUpsample:
		if c.ZeroCrossings < 1 {
			return fmt.Errorf("%w: resample zero_crossings must be >= 1, got %d", common.ErrInvalidArgument, c.ZeroCrossings)
		}
	case ResampleInterpolate:
	default:
		return fmt.Errorf("%w: unknown resample mode %q", common.ErrInvalidArgument, c.Mode)
	}

	if c.Ratio < 1 {
		return fmt.Errorf("%w: resample ratio must be >= 1, got %d", common.ErrInvalidArgument, c.Ratio)
	}
	return nil
}

// Validate checks the RC filter configuration
func (c RCFilterConfig) Validate() error {
	if c.Enabled && c.CutoffHz <= 0 {
		return fmt.Errorf("%w: rc_filter cutoff_hz must be positive, got %v", common.ErrInvalidArgument, c.CutoffHz)
	}
	return nil
}

// Validate checks the spectrogram configuration
func (c SpectrogramConfig) Validate() error {
	if c.WindowSize < 2 {
		return fmt.Errorf("%w: spectrogram window_size must be >= 2, got %d", common.ErrInvalidArgument, c.WindowSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: spectrogram workers must be >= 0, got %d", common.ErrInvalidArgument, c.Workers)
	}
	if c.CropBins < 0 || c.CropBins > c.WindowSize/2 {
		return fmt.Errorf("%w: spectrogram crop_bins must be within [0, %d], got %d",
			common.ErrInvalidArgument, c.WindowSize/2, c.CropBins)
	}
	switch c.Window {
	case "", windowing.TypeRectangular, windowing.TypeHann, windowing.TypeHamming, windowing.TypeBlackman:
	default:
		return fmt.Errorf("%w: unknown spectrogram window %q", common.ErrInvalidArgument, c.Window)
	}
	return nil
}

// Validate checks the noise configuration
func (c NoiseConfig) Validate() error {
	if c.SmoothingWindow < 0 {
		return fmt.Errorf("%w: noise smoothing_window must be >= 0, got %d", common.ErrInvalidArgument, c.SmoothingWindow)
	}
	if c.AlphaTrim && c.AlphaTrimWindow < 0 {
		return fmt.Errorf("%w: noise alpha_trim_window must be >= 0, got %d", common.ErrInvalidArgument, c.AlphaTrimWindow)
	}
	return nil
}

// Validate checks every section
func (c *PipelineConfig) Validate() error {
	if err := c.Resample.Validate(); err != nil {
		return err
	}
	if err := c.RCFilter.Validate(); err != nil {
		return err
	}
	if err := c.Spectrogram.Validate(); err != nil {
		return err
	}
	return c.Noise.Validate()
}

// Load decodes a JSON pipeline configuration on top of the defaults and
// validates the result.
func Load(r io.Reader) (*PipelineConfig, error) {
	cfg := DefaultPipelineConfig()

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode pipeline config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
