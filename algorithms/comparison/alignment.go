package comparison

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
)

// Offset describes how far a secondary signal has to move to put its
// amplitude peak on the primary signal's peak
type Offset struct {
	Samples      int     `json:"samples"`       // shift in secondary-rate samples, always >= 0
	PrimaryLater bool    `json:"primary_later"` // true: delay the secondary, false: advance it
	PrimaryPeak  int     `json:"primary_peak"`  // peak index in the primary signal
	SecondPeak   int     `json:"second_peak"`   // peak index in the secondary signal
	Seconds      float64 `json:"seconds"`       // absolute peak time difference
}

// Signed returns the shift as a signed sample count: positive delays the
// secondary signal, negative advances it
func (o Offset) Signed() int {
	if o.PrimaryLater {
		return o.Samples
	}
	return -o.Samples
}

// PeakIndex returns the index of the largest strictly positive sample.
// Signals with no positive sample report index 0.
func PeakIndex(samples []float64) int {
	peak := 0.0
	idx := 0
	for i, v := range samples {
		if v > peak {
			peak = v
			idx = i
		}
	}
	return idx
}

// PeakOffset computes the shift that aligns the secondary peak with the
// primary peak, expressed at the secondary sample rate
func PeakOffset(primary, secondary []float64, primaryRate, secondaryRate int) (Offset, error) {
	if primaryRate <= 0 || secondaryRate <= 0 {
		return Offset{}, fmt.Errorf("%w: sample rates must be positive, got %d and %d",
			common.ErrInvalidArgument, primaryRate, secondaryRate)
	}

	primaryPeak := PeakIndex(primary)
	secondaryPeak := PeakIndex(secondary)

	primaryTime := float64(primaryPeak) / float64(primaryRate)
	secondaryTime := float64(secondaryPeak) / float64(secondaryRate)
	diff := math.Abs(primaryTime - secondaryTime)

	return Offset{
		Samples:      common.RoundHalfEven(diff * float64(secondaryRate)),
		PrimaryLater: primaryTime > secondaryTime,
		PrimaryPeak:  primaryPeak,
		SecondPeak:   secondaryPeak,
		Seconds:      diff,
	}, nil
}

// Align shifts secondary so its peak lines up in time with the primary
// peak. The result has the secondary's length: when the primary peak is
// later the secondary is delayed (leading zeros, tail dropped), otherwise it
// is advanced (head dropped, trailing zeros).
func Align(primary, secondary []float64, primaryRate, secondaryRate int) ([]float64, error) {
	offset, err := PeakOffset(primary, secondary, primaryRate, secondaryRate)
	if err != nil {
		return nil, err
	}
	return Shift(secondary, offset.Signed()), nil
}

// AlignSignal aligns secondary to primary, keeping the secondary's rate
func AlignSignal(primary, secondary common.Signal) (common.Signal, error) {
	out, err := Align(primary.Samples, secondary.Samples, primary.SampleRate, secondary.SampleRate)
	if err != nil {
		return common.Signal{}, err
	}
	return common.Signal{Samples: out, SampleRate: secondary.SampleRate}, nil
}

// Shift returns a copy of samples moved by n positions, zero-filled, with
// the same length. Positive n delays, negative n advances.
func Shift(samples []float64, n int) []float64 {
	out := make([]float64, len(samples))
	shift := min(abs(n), len(samples))

	if n >= 0 {
		copy(out[shift:], samples[:len(samples)-shift])
	} else {
		copy(out, samples[shift:])
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
