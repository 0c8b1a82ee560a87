// Package pipeline chains the analysis stages into one configurable run:
// rate conversion, RC filtering, spectrogram, noise reduction and
// comparison against a second recording.
package pipeline

import (
	"fmt"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/comparison"
	"github.com/RyanBlaney/sonido-piper/algorithms/denoise"
	"github.com/RyanBlaney/sonido-piper/algorithms/filters"
	"github.com/RyanBlaney/sonido-piper/algorithms/resample"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
	"github.com/RyanBlaney/sonido-piper/config"
	"github.com/RyanBlaney/sonido-piper/logging"
)

// Analysis holds the output of a single-signal run
type Analysis struct {
	Signal      common.Signal         `json:"-"`           // signal after rate conversion and filtering
	Spectrogram *spectral.Spectrogram `json:"-"`           // after noise reduction
	Average     []float64             `json:"average"`     // per-bin mean over all frames
	SampleRate  int                   `json:"sample_rate"` // rate the spectrogram was computed at
	FrameCount  int                   `json:"frame_count"`
}

// Comparison holds the output of comparing two signals
type Comparison struct {
	Primary     *Analysis             `json:"primary"`
	Secondary   *Analysis             `json:"secondary"`
	Offset      *comparison.Offset    `json:"offset,omitempty"` // nil when alignment is disabled
	Difference  *spectral.Spectrogram `json:"-"`
	Error       *spectral.Spectrogram `json:"-"`
	Correlation *spectral.Spectrogram `json:"-"`
	Peak        comparison.PeakResult `json:"peak"`
	Similarity  float64               `json:"similarity"`
}

// Processor runs the configured stages. It is safe for concurrent use.
type Processor struct {
	config    config.PipelineConfig
	resampler *resample.Resampler
	engine    *spectral.SpectrogramEngine
	logger    logging.Logger
}

// NewProcessor validates cfg and prepares the stages. A nil cfg selects
// config.DefaultPipelineConfig.
func NewProcessor(cfg *config.PipelineConfig) (*Processor, error) {
	if cfg == nil {
		cfg = config.DefaultPipelineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	engine, err := spectral.NewSpectrogramEngine(cfg.Spectrogram, nil)
	if err != nil {
		return nil, err
	}

	return &Processor{
		config:    *cfg,
		resampler: resample.NewResampler(),
		engine:    engine,
		logger:    logging.WithFields(logging.Fields{"component": "pipeline"}),
	}, nil
}

// Config returns a copy of the processor configuration
func (p *Processor) Config() config.PipelineConfig {
	return p.config
}

// Process runs every enabled stage on sig
func (p *Processor) Process(sig common.Signal) (*Analysis, error) {
	if sig.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrInvalidArgument, sig.SampleRate)
	}

	converted, err := p.convertRate(sig)
	if err != nil {
		return nil, err
	}

	filtered, err := p.filter(converted)
	if err != nil {
		return nil, err
	}

	spec, err := p.engine.ComputeSignal(filtered)
	if err != nil {
		return nil, fmt.Errorf("spectrogram: %w", err)
	}

	spec, err = p.reduceNoise(spec)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Signal:      filtered,
		Spectrogram: spec,
		SampleRate:  filtered.SampleRate,
		FrameCount:  spec.FrameCount(),
	}

	if spec.FrameCount() > 0 {
		avg, err := denoise.Average(spec)
		if err != nil {
			return nil, fmt.Errorf("average: %w", err)
		}
		analysis.Average = avg
	}

	p.logger.Debug("Processed signal", logging.Fields{
		"input_samples": sig.Len(),
		"input_rate":    sig.SampleRate,
		"output_rate":   filtered.SampleRate,
		"frames":        spec.FrameCount(),
		"bins":          spec.Bins(),
	})

	return analysis, nil
}

// Compare aligns secondary to primary (when enabled), processes both and
// builds the comparison maps. If the two spectrograms end up with different
// frame counts, both are truncated to the shorter one.
func (p *Processor) Compare(primary, secondary common.Signal) (*Comparison, error) {
	result := &Comparison{}

	if p.config.Alignment.Enabled {
		offset, err := comparison.PeakOffset(primary.Samples, secondary.Samples, primary.SampleRate, secondary.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("align: %w", err)
		}
		secondary = common.Signal{
			Samples:    comparison.Shift(secondary.Samples, offset.Signed()),
			SampleRate: secondary.SampleRate,
		}
		result.Offset = &offset

		p.logger.Debug("Aligned secondary signal", logging.Fields{
			"offset_samples": offset.Samples,
			"primary_later":  offset.PrimaryLater,
		})
	}

	a, err := p.Process(primary)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	b, err := p.Process(secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary: %w", err)
	}
	result.Primary = a
	result.Secondary = b

	specA, specB := a.Spectrogram, b.Spectrogram
	if specA.FrameCount() != specB.FrameCount() {
		frames := min(specA.FrameCount(), specB.FrameCount())
		p.logger.Warn("Frame counts differ, truncating to the shorter signal", logging.Fields{
			"primary_frames":   specA.FrameCount(),
			"secondary_frames": specB.FrameCount(),
			"frames":           frames,
		})
		specA = truncateFrames(specA, frames)
		specB = truncateFrames(specB, frames)
	}

	if specA.FrameCount() == 0 {
		return nil, fmt.Errorf("%w: signals are shorter than one analysis window", common.ErrDegenerateInput)
	}

	if result.Difference, err = comparison.Subtract(specA, specB); err != nil {
		return nil, fmt.Errorf("subtract: %w", err)
	}
	if result.Error, err = comparison.SpectralError(specA, specB); err != nil {
		return nil, fmt.Errorf("spectral error: %w", err)
	}
	if result.Correlation, err = comparison.CrossCorrelate(specA, specB); err != nil {
		return nil, fmt.Errorf("cross-correlate: %w", err)
	}
	if result.Peak, err = comparison.Peak(result.Correlation); err != nil {
		return nil, fmt.Errorf("correlation peak: %w", err)
	}
	result.Similarity = result.Correlation.Sum()

	p.logger.Info("Compared signals", logging.Fields{
		"frames":     specA.FrameCount(),
		"similarity": result.Similarity,
		"peak_frame": result.Peak.Frame,
		"peak_bin":   result.Peak.Bin,
	})

	return result, nil
}

func (p *Processor) convertRate(sig common.Signal) (common.Signal, error) {
	rc := p.config.Resample
	if rc.Ratio <= 1 {
		return sig, nil
	}

	switch rc.Mode {
	case config.ResampleDownsample:
		return p.resampler.DownsampleSignal(sig, rc.Ratio, rc.ZeroCrossings)
	case config.ResampleUpsample:
		return p.resampler.UpsampleSignal(sig, rc.Ratio, rc.ZeroCrossings)
	case config.ResampleInterpolate:
		interp, err := common.NewCubicInterpolator(rc.Ratio)
		if err != nil {
			return common.Signal{}, err
		}
		out, err := interp.InterpolateSignal(sig)
		if err != nil {
			return common.Signal{}, fmt.Errorf("interpolate: %w", err)
		}
		return out, nil
	default:
		return sig, nil
	}
}

func (p *Processor) filter(sig common.Signal) (common.Signal, error) {
	if !p.config.RCFilter.Enabled {
		return sig, nil
	}

	rc, err := filters.NewRCFilter(sig.SampleRate, p.config.RCFilter.CutoffHz)
	if err != nil {
		return common.Signal{}, fmt.Errorf("rc filter: %w", err)
	}
	if rc.Pole() > 1 {
		p.logger.Warn("RC filter is unstable at this sample rate and cutoff", logging.Fields{
			"sample_rate": sig.SampleRate,
			"cutoff_hz":   p.config.RCFilter.CutoffHz,
			"pole":        rc.Pole(),
		})
	}
	return rc.ApplySignal(sig), nil
}

func (p *Processor) reduceNoise(spec *spectral.Spectrogram) (*spectral.Spectrogram, error) {
	nc := p.config.Noise
	var err error

	if nc.SmoothingWindow > 0 {
		if spec, err = denoise.SmoothFrames(spec, nc.SmoothingWindow); err != nil {
			return nil, fmt.Errorf("smooth: %w", err)
		}
	}
	if nc.AlphaTrim {
		if spec, err = denoise.AlphaTrimFrames(spec, nc.AlphaTrimWindow, nc.AlphaTrimThreshold); err != nil {
			return nil, fmt.Errorf("alpha-trim: %w", err)
		}
	}
	return spec, nil
}

func truncateFrames(s *spectral.Spectrogram, frames int) *spectral.Spectrogram {
	return &spectral.Spectrogram{
		Frames:     s.Frames[:frames],
		SampleRate: s.SampleRate,
		WindowSize: s.WindowSize,
	}
}
