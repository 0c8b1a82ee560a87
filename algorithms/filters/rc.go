package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
)

// RCFilter is a recursive single-pole realization of an RC network,
// applied to a whole buffer at a time.
//
// With k = fs / (pi * fc) the filter evaluates, for t = 1 .. N-2:
//
//	y[t+1] = (x[t+1] - x[t-1] + 2k*y[t] + (1-k)*x[t-1]) / (k+1)
//
// with y[0] = y[1] = 0. The recursion's pole sits at 2k/(k+1), so the
// output stays bounded only while k < 1 (cutoff above fs/pi); lower cutoffs
// grow with input length.
type RCFilter struct {
	sampleRate int
	cutoffFreq float64
	k          float64
}

// NewRCFilter creates an RC filter for the given sample rate and cutoff.
//
// Parameters:
//   - sampleRate: Sample rate in Hz
//   - cutoffFreq: Cutoff frequency in Hz
func NewRCFilter(sampleRate int, cutoffFreq float64) (*RCFilter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrInvalidArgument, sampleRate)
	}
	if cutoffFreq <= 0 || math.IsNaN(cutoffFreq) || math.IsInf(cutoffFreq, 0) {
		return nil, fmt.Errorf("%w: cutoff frequency must be positive and finite, got %v", common.ErrInvalidArgument, cutoffFreq)
	}

	return &RCFilter{
		sampleRate: sampleRate,
		cutoffFreq: cutoffFreq,
		k:          float64(sampleRate) / (math.Pi * cutoffFreq),
	}, nil
}

// Gain returns k = fs / (pi * fc)
func (rc *RCFilter) Gain() float64 {
	return rc.k
}

// Pole returns the location of the recursion's pole, 2k/(k+1)
func (rc *RCFilter) Pole() float64 {
	return 2 * rc.k / (rc.k + 1)
}

// SampleRate returns the sample rate the filter was designed for
func (rc *RCFilter) SampleRate() int {
	return rc.sampleRate
}

// CutoffFrequency returns the design cutoff in Hz
func (rc *RCFilter) CutoffFrequency() float64 {
	return rc.cutoffFreq
}

// Apply filters input into a new buffer of the same length. The first two
// outputs are zero; inputs shorter than two samples yield all zeros.
func (rc *RCFilter) Apply(input []float64) []float64 {
	output := make([]float64, len(input))
	if len(input) < 2 {
		return output
	}

	k := rc.k
	for t := 1; t < len(input)-1; t++ {
		output[t+1] = (input[t+1] - input[t-1] + 2*k*output[t] + (1-k)*input[t-1]) / (k + 1)
	}

	return output
}

// ApplySignal filters s, keeping its sample rate
func (rc *RCFilter) ApplySignal(s common.Signal) common.Signal {
	return common.Signal{Samples: rc.Apply(s.Samples), SampleRate: s.SampleRate}
}
