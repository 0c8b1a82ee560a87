package windowing

import (
	"math"
)

// Hann is the raised-cosine window 0.5*(1 - cos(2*pi*n/D))
type Hann struct {
	coefficients
	symmetric bool
}

// NewHann creates a new Hann window
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		coefficients: coefficients{kind: TypeHann, values: make([]float64, size)},
		symmetric:    symmetric,
	}

	d := denominator(size, symmetric)
	for i := range h.values {
		h.values[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/d))
	}
	if symmetric && size == 1 {
		h.values[0] = 1.0
	}
	return h
}
