package signal

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
)

// Component is one sinusoid of a synthetic test signal
type Component struct {
	FrequencyHz float64 `json:"frequency_hz"`
	Amplitude   float64 `json:"amplitude"`
	Phase       float64 `json:"phase"` // radians
}

// Tone generates amplitude * sin(2*pi*f/fs * i + phase) for i in [0, n)
func Tone(sampleRate, n int, frequencyHz, amplitude, phase float64) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrInvalidArgument, sampleRate)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: sample count must be non-negative, got %d", common.ErrInvalidArgument, n)
	}

	out := make([]float64, n)
	step := 2.0 * math.Pi * frequencyHz / float64(sampleRate)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i)+phase)
	}
	return out, nil
}

// Tones sums the given components into one signal of n samples
func Tones(sampleRate, n int, components ...Component) (common.Signal, error) {
	if n < 0 {
		return common.Signal{}, fmt.Errorf("%w: sample count must be non-negative, got %d", common.ErrInvalidArgument, n)
	}

	sum := make([]float64, n)
	for _, c := range components {
		tone, err := Tone(sampleRate, n, c.FrequencyHz, c.Amplitude, c.Phase)
		if err != nil {
			return common.Signal{}, err
		}
		for i, v := range tone {
			sum[i] += v
		}
	}
	return common.NewSignal(sum, sampleRate)
}
