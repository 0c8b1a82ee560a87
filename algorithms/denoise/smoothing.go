package denoise

import (
	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
)

// Smooth returns the moving average of data. Each output is the mean of
// the window around the sample, clipped to the array bounds.
func Smooth(data []float64, windowSize int) ([]float64, error) {
	if err := validateWindow(windowSize); err != nil {
		return nil, err
	}

	n := len(data)
	output := make([]float64, n)
	for i := range data {
		start, end := bounds(i, windowSize, n)
		output[i] = common.Mean(data[start : end+1])
	}
	return output, nil
}

// SmoothFrames applies Smooth to every frame of s
func SmoothFrames(s *spectral.Spectrogram, windowSize int) (*spectral.Spectrogram, error) {
	return mapFrames(s, func(frame []float64) ([]float64, error) {
		return Smooth(frame, windowSize)
	})
}

func mapFrames(s *spectral.Spectrogram, op func([]float64) ([]float64, error)) (*spectral.Spectrogram, error) {
	frames := make([][]float64, len(s.Frames))
	for i, frame := range s.Frames {
		out, err := op(frame)
		if err != nil {
			return nil, err
		}
		frames[i] = out
	}
	return &spectral.Spectrogram{Frames: frames, SampleRate: s.SampleRate, WindowSize: s.WindowSize}, nil
}
