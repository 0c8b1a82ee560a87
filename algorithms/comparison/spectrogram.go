package comparison

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
	"gonum.org/v1/gonum/floats"
)

// The comparators never modify their inputs. Energy normalization, where an
// operator applies it, works on private copies.
//
// Both spectrograms must have the same number of frames. Differing bin
// counts are reconciled by cropping the wider one to the narrower.

// Subtract normalizes a and b to unit total energy and returns |a - b|
// elementwise. A zero-energy input produces NaN/Inf values rather than an
// error.
func Subtract(a, b *spectral.Spectrogram) (*spectral.Spectrogram, error) {
	na, nb, err := prepare(a, b, true)
	if err != nil {
		return nil, err
	}

	return elementwise(na, nb, func(x, y float64) float64 {
		return math.Abs(x - y)
	}), nil
}

// SpectralError normalizes a and b to unit total energy and returns the
// percentage deviation |b - a| / a * 100 elementwise. Bins where a is zero
// evaluate to +Inf (or NaN when b is zero too).
func SpectralError(a, b *spectral.Spectrogram) (*spectral.Spectrogram, error) {
	na, nb, err := prepare(a, b, true)
	if err != nil {
		return nil, err
	}

	return elementwise(na, nb, func(x, y float64) float64 {
		return math.Abs(y-x) / x * 100
	}), nil
}

// CrossCorrelate returns the normalized product map
// a*b / (sqrt(sum a^2) * sqrt(sum b^2)). The map sums to the cosine
// similarity of the two spectrograms; its peak marks where they agree most.
func CrossCorrelate(a, b *spectral.Spectrogram) (*spectral.Spectrogram, error) {
	ca, cb, err := prepare(a, b, false)
	if err != nil {
		return nil, err
	}

	norm := math.Sqrt(sumSquares(ca)) * math.Sqrt(sumSquares(cb))
	return elementwise(ca, cb, func(x, y float64) float64 {
		return x * y / norm
	}), nil
}

// Similarity returns the scalar cosine similarity, the sum of the
// CrossCorrelate map.
func Similarity(a, b *spectral.Spectrogram) (float64, error) {
	m, err := CrossCorrelate(a, b)
	if err != nil {
		return 0, err
	}
	return m.Sum(), nil
}

// PeakResult locates the maximum of a comparison map
type PeakResult struct {
	Value float64 `json:"value"`
	Frame int     `json:"frame"`
	Bin   int     `json:"bin"`
}

// Peak returns the largest finite value of s with its position. An empty
// or all-NaN map reports ErrDegenerateInput.
func Peak(s *spectral.Spectrogram) (PeakResult, error) {
	best := PeakResult{Value: math.Inf(-1), Frame: -1, Bin: -1}
	for t, frame := range s.Frames {
		for f, v := range frame {
			if !math.IsNaN(v) && v > best.Value {
				best = PeakResult{Value: v, Frame: t, Bin: f}
			}
		}
	}
	if best.Frame < 0 {
		return PeakResult{}, fmt.Errorf("%w: spectrogram has no comparable values", common.ErrDegenerateInput)
	}
	return best, nil
}

// prepare validates shapes and returns cropped (and optionally
// energy-normalized) copies of both spectrograms.
func prepare(a, b *spectral.Spectrogram, normalize bool) (*spectral.Spectrogram, *spectral.Spectrogram, error) {
	if a == nil || b == nil {
		return nil, nil, fmt.Errorf("%w: nil spectrogram", common.ErrInvalidArgument)
	}
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	if a.FrameCount() != b.FrameCount() {
		return nil, nil, fmt.Errorf("%w: frame counts differ (%d vs %d)",
			common.ErrInvalidArgument, a.FrameCount(), b.FrameCount())
	}

	bins := min(a.Bins(), b.Bins())
	ca, err := spectral.Crop(a, bins)
	if err != nil {
		return nil, nil, err
	}
	cb, err := spectral.Crop(b, bins)
	if err != nil {
		return nil, nil, err
	}

	if normalize {
		// Totals come from the uncropped inputs
		normalizeEnergy(ca, a.Sum())
		normalizeEnergy(cb, b.Sum())
	}
	return ca, cb, nil
}

func normalizeEnergy(s *spectral.Spectrogram, total float64) {
	for _, frame := range s.Frames {
		for i := range frame {
			frame[i] /= total
		}
	}
}

func sumSquares(s *spectral.Spectrogram) float64 {
	total := 0.0
	for _, frame := range s.Frames {
		total += floats.Dot(frame, frame)
	}
	return total
}

func elementwise(a, b *spectral.Spectrogram, op func(x, y float64) float64) *spectral.Spectrogram {
	frames := make([][]float64, len(a.Frames))
	for t := range a.Frames {
		frames[t] = make([]float64, len(a.Frames[t]))
		for f := range frames[t] {
			frames[t][f] = op(a.Frames[t][f], b.Frames[t][f])
		}
	}
	return &spectral.Spectrogram{Frames: frames, SampleRate: a.SampleRate, WindowSize: a.WindowSize}
}
