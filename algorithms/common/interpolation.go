package common

import (
	"fmt"
)

// MinCubicSamples is the shortest input the cubic interpolator accepts
const MinCubicSamples = 4

// CubicInterpolator produces ratio sub-samples per source sample using a
// Catmull-Rom cubic through four neighbouring points.
type CubicInterpolator struct {
	ratio int
}

// NewCubicInterpolator creates an interpolator emitting ratio outputs per
// source index step.
func NewCubicInterpolator(ratio int) (*CubicInterpolator, error) {
	if ratio < 1 {
		return nil, fmt.Errorf("%w: interpolation ratio must be >= 1, got %d", ErrInvalidArgument, ratio)
	}
	return &CubicInterpolator{ratio: ratio}, nil
}

// Ratio returns the number of outputs per source sample
func (ci *CubicInterpolator) Ratio() int {
	return ci.ratio
}

// catmullRom holds the cubic a*t^3 + b*t^2 + c*t + d for one segment
type catmullRom struct {
	a, b, c, d float64
}

func newCatmullRom(y0, y1, y2, y3 float64) catmullRom {
	return catmullRom{
		a: -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3,
		b: y0 - 2.5*y1 + 2*y2 - 0.5*y3,
		c: -0.5*y0 + 0.5*y2,
		d: y1,
	}
}

func (cr catmullRom) at(t float64) float64 {
	return cr.a*t*t*t + cr.b*t*t + cr.c*t + cr.d
}

// Interpolate returns (len(samples)-3)*ratio samples. Coefficients are
// recomputed each time the source index advances, so the segment is only
// known after the first advance: the leading ratio-1 outputs are zero. The
// last three source samples only serve as support points.
func (ci *CubicInterpolator) Interpolate(samples []float64) ([]float64, error) {
	if len(samples) < MinCubicSamples {
		return nil, fmt.Errorf("%w: cubic interpolation needs at least %d samples, got %d",
			ErrInvalidArgument, MinCubicSamples, len(samples))
	}

	output := make([]float64, 0, (len(samples)-3)*ci.ratio)

	var segment catmullRom
	count := 0
	idx := 0
	for idx < len(samples)-3 {
		count++
		if count >= ci.ratio {
			count = 0
			idx++
			segment = newCatmullRom(samples[idx-1], samples[idx], samples[idx+1], samples[idx+2])
		}

		t := float64(count) / float64(ci.ratio)
		output = append(output, segment.at(t))
	}

	return output, nil
}

// InterpolateSignal interpolates s and scales its sample rate by the ratio
func (ci *CubicInterpolator) InterpolateSignal(s Signal) (Signal, error) {
	out, err := ci.Interpolate(s.Samples)
	if err != nil {
		return Signal{}, err
	}
	return Signal{Samples: out, SampleRate: s.SampleRate * ci.ratio}, nil
}
