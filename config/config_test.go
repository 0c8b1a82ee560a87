package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/windowing"
)

func TestDefaultPipelineConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultPipelineConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Spectrogram.WindowSize != 256 || cfg.Spectrogram.Window != windowing.TypeRectangular {
		t.Fatalf("unexpected spectrogram defaults: %+v", cfg.Spectrogram)
	}
	if cfg.Resample.Mode != ResampleNone || cfg.Resample.ZeroCrossings != 8 {
		t.Fatalf("unexpected resample defaults: %+v", cfg.Resample)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *PipelineConfig)
	}{
		{"unknown resample mode", func(c *PipelineConfig) { c.Resample.Mode = "sideways" }},
		{"zero ratio", func(c *PipelineConfig) { c.Resample = ResampleConfig{Mode: ResampleUpsample, Ratio: 0, ZeroCrossings: 8} }},
		{"zero crossings", func(c *PipelineConfig) { c.Resample = ResampleConfig{Mode: ResampleDownsample, Ratio: 2} }},
		{"interpolate ratio", func(c *PipelineConfig) { c.Resample = ResampleConfig{Mode: ResampleInterpolate} }},
		{"rc cutoff", func(c *PipelineConfig) { c.RCFilter = RCFilterConfig{Enabled: true, CutoffHz: 0} }},
		{"window size", func(c *PipelineConfig) { c.Spectrogram.WindowSize = 1 }},
		{"workers", func(c *PipelineConfig) { c.Spectrogram.Workers = -1 }},
		{"crop beyond bins", func(c *PipelineConfig) { c.Spectrogram.CropBins = 129 }},
		{"window type", func(c *PipelineConfig) { c.Spectrogram.Window = "triangle" }},
		{"smoothing window", func(c *PipelineConfig) { c.Noise.SmoothingWindow = -3 }},
		{"alpha-trim window", func(c *PipelineConfig) { c.Noise.AlphaTrim = true; c.Noise.AlphaTrimWindow = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultPipelineConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestDisabledRCFilterIgnoresCutoff(t *testing.T) {
	t.Parallel()

	if err := (RCFilterConfig{Enabled: false, CutoffHz: -1}).Validate(); err != nil {
		t.Fatalf("disabled filter rejected: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := Load(strings.NewReader(`{
		"resample": {"mode": "downsample", "ratio": 4},
		"rc_filter": {"enabled": true, "cutoff_hz": 1500},
		"spectrogram": {"window_size": 512, "window": "hann"},
		"noise": {"smoothing_window": 3}
	}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Resample.Mode != ResampleDownsample || cfg.Resample.Ratio != 4 {
		t.Fatalf("resample = %+v", cfg.Resample)
	}
	// Omitted fields keep their defaults
	if cfg.Resample.ZeroCrossings != 8 || cfg.Noise.AlphaTrimThreshold != 1.5 || !cfg.Alignment.Enabled {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Spectrogram.WindowSize != 512 || cfg.Spectrogram.Window != windowing.TypeHann {
		t.Fatalf("spectrogram = %+v", cfg.Spectrogram)
	}
	if !cfg.RCFilter.Enabled || cfg.RCFilter.CutoffHz != 1500 {
		t.Fatalf("rc_filter = %+v", cfg.RCFilter)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	if _, err := Load(strings.NewReader(`{"unknown": 1}`)); err == nil {
		t.Fatal("unknown field accepted")
	}
	if _, err := Load(strings.NewReader(`{"spectrogram": {"window_size": 0}}`)); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("invalid value: err = %v", err)
	}
	if _, err := Load(strings.NewReader(`{`)); err == nil {
		t.Fatal("malformed JSON accepted")
	}
}
