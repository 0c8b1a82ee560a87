package denoise

import (
	"fmt"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
	"gonum.org/v1/gonum/stat"
)

// Average returns the column-wise mean of the spectrogram frames, one
// representative frame for the whole recording.
func Average(s *spectral.Spectrogram) ([]float64, error) {
	if s == nil || s.FrameCount() == 0 {
		return nil, fmt.Errorf("%w: cannot average an empty spectrogram", common.ErrInvalidArgument)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	column := make([]float64, s.FrameCount())
	output := make([]float64, s.Bins())
	for f := range output {
		for t, frame := range s.Frames {
			column[t] = frame[f]
		}
		output[f] = stat.Mean(column, nil)
	}
	return output, nil
}
