package windowing

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Type names an analysis window
type Type string

const (
	TypeRectangular Type = "rectangular"
	TypeHann        Type = "hann"
	TypeHamming     Type = "hamming"
	TypeBlackman    Type = "blackman"
)

// Window is a fixed-size taper applied multiplicatively to a frame
type Window interface {
	Apply(signal []float64) []float64
	ApplyInPlace(signal []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() Type
}

// New builds a window of the given type and size. Symmetric windows are
// zero (or minimal) at both ends, periodic windows repeat cleanly for
// back-to-back frames.
func New(t Type, size int, symmetric bool) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	switch t {
	case TypeRectangular, "":
		return NewRectangular(size), nil
	case TypeHann:
		return NewHann(size, symmetric), nil
	case TypeHamming:
		return NewHamming(size, symmetric), nil
	case TypeBlackman:
		return NewBlackman(size, symmetric), nil
	default:
		return nil, fmt.Errorf("unknown window type %q", t)
	}
}

// coefficients is the shared storage and apply logic behind every window
type coefficients struct {
	kind   Type
	values []float64
}

// Apply returns a windowed copy of signal, or nil on a size mismatch
func (c *coefficients) Apply(signal []float64) []float64 {
	if len(signal) != len(c.values) {
		return nil
	}

	windowed := make([]float64, len(signal))
	vecmath.MulBlock(windowed, signal, c.values)
	return windowed
}

// ApplyInPlace multiplies signal by the window
func (c *coefficients) ApplyInPlace(signal []float64) error {
	if len(signal) != len(c.values) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(c.values))
	}

	vecmath.MulBlockInPlace(signal, c.values)
	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (c *coefficients) GetCoefficients() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// GetSize returns the window size
func (c *coefficients) GetSize() int {
	return len(c.values)
}

// GetType returns the window type
func (c *coefficients) GetType() Type {
	return c.kind
}

// denominator is N-1 for symmetric windows and N for periodic ones
func denominator(size int, symmetric bool) float64 {
	if symmetric && size > 1 {
		return float64(size - 1)
	}
	return float64(size)
}
