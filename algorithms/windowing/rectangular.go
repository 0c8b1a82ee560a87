package windowing

// Rectangular is the boxcar window, every coefficient is 1
type Rectangular struct {
	coefficients
}

// NewRectangular creates a new rectangular window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{
		coefficients: coefficients{kind: TypeRectangular, values: make([]float64, size)},
	}
	for i := range r.values {
		r.values[i] = 1.0
	}
	return r
}
