package common

import (
	"fmt"
	"time"
)

// Signal is an ordered sequence of real samples together with the rate
// they were captured at. Stages never modify a Signal, they return a new one.
type Signal struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
}

// NewSignal validates the sample rate and wraps samples.
func NewSignal(samples []float64, sampleRate int) (Signal, error) {
	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidArgument, sampleRate)
	}
	return Signal{Samples: samples, SampleRate: sampleRate}, nil
}

// Len returns the number of samples
func (s Signal) Len() int {
	return len(s.Samples)
}

// Duration returns the signal length in time
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy
func (s Signal) Clone() Signal {
	samples := make([]float64, len(s.Samples))
	copy(samples, s.Samples)
	return Signal{Samples: samples, SampleRate: s.SampleRate}
}
