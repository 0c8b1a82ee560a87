package windowing

import (
	"math"
)

// Hamming represents a Hamming window function
type Hamming struct {
	coefficients
	symmetric bool
}

// NewHamming creates a new Hamming window
func NewHamming(size int, symmetric bool) *Hamming {
	h := &Hamming{
		coefficients: coefficients{kind: TypeHamming, values: make([]float64, size)},
		symmetric:    symmetric,
	}

	d := denominator(size, symmetric)
	for i := range h.values {
		h.values[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/d)
	}
	return h
}
