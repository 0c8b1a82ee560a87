package denoise

import (
	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
)

// AlphaTrim isolates outliers in data. For every sample i it takes the
// window around i, and each sample k of that window whose standardized
// deviation (data[k]-mean)/std exceeds threshold is replaced, in a working
// copy, by the mean of the window without k. The result is
// data - working copy: zero where nothing was trimmed, the excess where it
// was.
//
// Windows with zero standard deviation are constant and trim nothing.
func AlphaTrim(data []float64, windowSize int, threshold float64) ([]float64, error) {
	if err := validateWindow(windowSize); err != nil {
		return nil, err
	}

	n := len(data)
	working := make([]float64, n)
	copy(working, data)

	for i := range data {
		start, end := bounds(i, windowSize, n)
		window := data[start : end+1]

		mean, std := common.PopMeanStdDev(window)
		if std == 0 {
			continue
		}

		sum := common.Sum(window)
		for k := start; k <= end; k++ {
			if (data[k]-mean)/std > threshold {
				// std > 0 implies the window has at least two samples
				working[k] = (sum - data[k]) / float64(len(window)-1)
			}
		}
	}

	output := make([]float64, n)
	for i := range data {
		output[i] = data[i] - working[i]
	}
	return output, nil
}

// AlphaTrimFrames applies AlphaTrim to every frame of s
func AlphaTrimFrames(s *spectral.Spectrogram, windowSize int, threshold float64) (*spectral.Spectrogram, error) {
	return mapFrames(s, func(frame []float64) ([]float64, error) {
		return AlphaTrim(frame, windowSize, threshold)
	})
}
