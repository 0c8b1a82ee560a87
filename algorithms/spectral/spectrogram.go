package spectral

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/windowing"
	"github.com/RyanBlaney/sonido-piper/config"
	"github.com/RyanBlaney/sonido-piper/logging"
)

// Spectrogram is a sequence of equal-length magnitude frames, one per
// non-overlapping analysis window.
type Spectrogram struct {
	Frames     [][]float64 `json:"frames"`      // Time x Frequency magnitude matrix
	SampleRate int         `json:"sample_rate"` // Sample rate of the analysed signal
	WindowSize int         `json:"window_size"` // Samples per analysis window
}

// FrameCount returns the number of time frames
func (s *Spectrogram) FrameCount() int {
	return len(s.Frames)
}

// Bins returns the frame length (frequency resolution). An empty
// spectrogram has zero bins.
func (s *Spectrogram) Bins() int {
	if len(s.Frames) == 0 {
		return 0
	}
	return len(s.Frames[0])
}

// BinWidth returns the frequency spacing of adjacent bins in Hz
func (s *Spectrogram) BinWidth() float64 {
	if s.WindowSize <= 0 {
		return 0
	}
	return float64(s.SampleRate) / float64(s.WindowSize)
}

// BinFrequency returns the center frequency of bin i in Hz
func (s *Spectrogram) BinFrequency(i int) float64 {
	return float64(i) * s.BinWidth()
}

// FrameDuration returns the time span of one frame in seconds
func (s *Spectrogram) FrameDuration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(s.WindowSize) / float64(s.SampleRate)
}

// Sum returns the total of every magnitude
func (s *Spectrogram) Sum() float64 {
	total := 0.0
	for _, frame := range s.Frames {
		total += common.Sum(frame)
	}
	return total
}

// Clone returns a deep copy
func (s *Spectrogram) Clone() *Spectrogram {
	frames := make([][]float64, len(s.Frames))
	for i, frame := range s.Frames {
		frames[i] = make([]float64, len(frame))
		copy(frames[i], frame)
	}
	return &Spectrogram{Frames: frames, SampleRate: s.SampleRate, WindowSize: s.WindowSize}
}

// Validate checks that every frame has the same length
func (s *Spectrogram) Validate() error {
	bins := s.Bins()
	for i, frame := range s.Frames {
		if len(frame) != bins {
			return fmt.Errorf("%w: frame %d has %d bins, expected %d", common.ErrInvalidArgument, i, len(frame), bins)
		}
	}
	return nil
}

// Crop returns a copy of s with every frame truncated to cutoff bins.
// Asking for more bins than the frames hold is an error.
func Crop(s *Spectrogram, cutoff int) (*Spectrogram, error) {
	if cutoff < 0 {
		return nil, fmt.Errorf("%w: crop width must be non-negative, got %d", common.ErrInvalidArgument, cutoff)
	}
	if cutoff > s.Bins() {
		return nil, fmt.Errorf("%w: crop width %d exceeds frame length %d", common.ErrInvalidArgument, cutoff, s.Bins())
	}

	frames := make([][]float64, len(s.Frames))
	for i, frame := range s.Frames {
		frames[i] = make([]float64, cutoff)
		copy(frames[i], frame[:cutoff])
	}
	return &Spectrogram{Frames: frames, SampleRate: s.SampleRate, WindowSize: s.WindowSize}, nil
}

// SpectrogramEngine splits a signal into contiguous windows and computes
// the magnitude spectrum of each
type SpectrogramEngine struct {
	transformer Transformer
	config      config.SpectrogramConfig
	logger      logging.Logger
}

// NewSpectrogramEngine creates an engine. A nil transformer selects the
// go-dsp FFT.
func NewSpectrogramEngine(cfg config.SpectrogramConfig, transformer Transformer) (*SpectrogramEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if transformer == nil {
		transformer = NewFFT()
	}

	return &SpectrogramEngine{
		transformer: transformer,
		config:      cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "spectrogram_engine",
		}),
	}, nil
}

// Config returns the engine configuration
func (e *SpectrogramEngine) Config() config.SpectrogramConfig {
	return e.config
}

// Compute builds the spectrogram of samples. The signal yields
// floor(len/WindowSize) frames of WindowSize/2 bins; trailing samples that
// do not fill a window are dropped. Frames are computed in parallel and
// frame i always corresponds to window i.
func (e *SpectrogramEngine) Compute(samples []float64, sampleRate int) (*Spectrogram, error) {
	windowSize := e.config.WindowSize
	numFrames := len(samples) / windowSize
	freqBins := windowSize / 2

	var taper windowing.Window
	if e.config.Window != "" && e.config.Window != windowing.TypeRectangular {
		w, err := windowing.New(e.config.Window, windowSize, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
		}
		taper = w
	}

	frames := make([][]float64, numFrames)
	for i := range frames {
		frames[i] = make([]float64, freqBins)
	}

	if numFrames > 0 {
		e.computeFrames(samples, frames, taper)
	}

	e.logger.Debug("Computed spectrogram", logging.Fields{
		"frames":      numFrames,
		"bins":        freqBins,
		"window_size": windowSize,
		"dropped":     len(samples) - numFrames*windowSize,
	})

	result := &Spectrogram{
		Frames:     frames,
		SampleRate: sampleRate,
		WindowSize: windowSize,
	}

	if e.config.CropBins > 0 && numFrames > 0 {
		return Crop(result, e.config.CropBins)
	}
	return result, nil
}

// ComputeSignal builds the spectrogram of s
func (e *SpectrogramEngine) ComputeSignal(s common.Signal) (*Spectrogram, error) {
	return e.Compute(s.Samples, s.SampleRate)
}

func (e *SpectrogramEngine) computeFrames(samples []float64, frames [][]float64, taper windowing.Window) {
	windowSize := e.config.WindowSize
	numWorkers := e.workerCount(len(frames))

	jobs := make(chan int, len(frames))
	for frameIdx := range frames {
		jobs <- frameIdx
	}
	close(jobs)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range jobs {
				start := frameIdx * windowSize
				copy(frameBuffer, samples[start:start+windowSize])

				if taper != nil {
					// Sizes always match, the taper was built for windowSize
					_ = taper.ApplyInPlace(frameBuffer)
				}

				bins := e.transformer.Forward(frameBuffer)
				Magnitudes(frames[frameIdx], bins)
			}
		}()
	}

	wg.Wait()
}

// workerCount determines the number of frame workers for the workload
func (e *SpectrogramEngine) workerCount(numFrames int) int {
	if e.config.Workers > 0 {
		return min(e.config.Workers, numFrames)
	}

	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}

// Compute builds a spectrogram with a rectangular window and the go-dsp FFT
func Compute(samples []float64, sampleRate, windowSize int) (*Spectrogram, error) {
	cfg := config.DefaultSpectrogramConfig()
	cfg.WindowSize = windowSize

	engine, err := NewSpectrogramEngine(cfg, nil)
	if err != nil {
		return nil, err
	}
	return engine.Compute(samples, sampleRate)
}
