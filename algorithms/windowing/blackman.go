package windowing

import (
	"math"
)

// Blackman represents a Blackman window function
type Blackman struct {
	coefficients
	symmetric bool
}

// NewBlackman creates a new Blackman window
func NewBlackman(size int, symmetric bool) *Blackman {
	b := &Blackman{
		coefficients: coefficients{kind: TypeBlackman, values: make([]float64, size)},
		symmetric:    symmetric,
	}

	d := denominator(size, symmetric)
	a0, a1, a2 := 0.42, 0.5, 0.08

	for i := range b.values {
		arg := 2 * math.Pi * float64(i) / d
		b.values[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}
	return b
}
