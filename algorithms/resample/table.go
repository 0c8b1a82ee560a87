package resample

import (
	"fmt"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/windowing"
)

// Kind selects the conversion direction a table was built for
type Kind int

const (
	Downsampling Kind = iota
	Upsampling
)

func (k Kind) String() string {
	switch k {
	case Downsampling:
		return "downsample"
	case Upsampling:
		return "upsample"
	default:
		return "unknown"
	}
}

// FilterTable is a Hann-windowed sinc kernel for integer-ratio rate
// conversion. Tables are a pure function of (kind, ratio, zero crossings).
type FilterTable struct {
	Coefficients  []float64 `json:"coefficients"`
	Kind          Kind      `json:"kind"`
	Ratio         int       `json:"ratio"`
	ZeroCrossings int       `json:"zero_crossings"`
}

// Len returns the number of taps
func (ft *FilterTable) Len() int {
	return len(ft.Coefficients)
}

// CenterIndex returns the index of the center tap
func (ft *FilterTable) CenterIndex() int {
	return (len(ft.Coefficients) - 1) / 2
}

// Center returns the center tap value
func (ft *FilterTable) Center() float64 {
	return ft.Coefficients[ft.CenterIndex()]
}

// TableLength returns (2*zeroCrossings + 1)*ratio - ratio + 1
func TableLength(ratio, zeroCrossings int) int {
	return (2*zeroCrossings+1)*ratio - ratio + 1
}

// DownsampleTable builds the anti-aliasing kernel for decimation by ratio.
// Taps sit at integer positions over [-zc*ratio, zc*ratio] and evaluate
// sinc(x/ratio)/ratio, so the kernel has unit DC gain at the input rate and
// its center tap is exactly 1/ratio.
func DownsampleTable(ratio, zeroCrossings int) (*FilterTable, error) {
	if err := validateTableParams(ratio, zeroCrossings); err != nil {
		return nil, err
	}

	n := TableLength(ratio, zeroCrossings)
	span := float64(zeroCrossings * ratio)
	positions := common.Linspace(-span, span, n)

	center := (n - 1) / 2
	positions[center] = 1.0

	scale := 1.0 / float64(ratio)
	coeffs := make([]float64, n)
	for i, x := range positions {
		coeffs[i] = scale * common.Sinc(x/float64(ratio))
	}
	coeffs[center] = scale

	applyHann(coeffs)

	return &FilterTable{
		Coefficients:  coeffs,
		Kind:          Downsampling,
		Ratio:         ratio,
		ZeroCrossings: zeroCrossings,
	}, nil
}

// UpsampleTable builds the interpolation kernel for a zero-stuffed signal.
// Taps are spaced 1/ratio apart over [-zc, zc] and evaluate sinc(x), giving
// a center tap of exactly 1.
func UpsampleTable(ratio, zeroCrossings int) (*FilterTable, error) {
	if err := validateTableParams(ratio, zeroCrossings); err != nil {
		return nil, err
	}

	n := TableLength(ratio, zeroCrossings)
	span := float64(zeroCrossings)
	positions := common.Linspace(-span, span, n)

	center := (n - 1) / 2
	positions[center] = 1.0

	coeffs := make([]float64, n)
	for i, x := range positions {
		coeffs[i] = common.Sinc(x)
	}
	coeffs[center] = 1.0

	applyHann(coeffs)

	return &FilterTable{
		Coefficients:  coeffs,
		Kind:          Upsampling,
		Ratio:         ratio,
		ZeroCrossings: zeroCrossings,
	}, nil
}

// BuildTable dispatches on kind
func BuildTable(kind Kind, ratio, zeroCrossings int) (*FilterTable, error) {
	switch kind {
	case Downsampling:
		return DownsampleTable(ratio, zeroCrossings)
	case Upsampling:
		return UpsampleTable(ratio, zeroCrossings)
	default:
		return nil, fmt.Errorf("%w: unknown table kind %d", common.ErrInvalidArgument, int(kind))
	}
}

// applyHann tapers the table with 0.5*(1 - cos(2*pi*t)), t linear on [0, 1]
func applyHann(coeffs []float64) {
	// A symmetric Hann window of length n has exactly that t spacing
	_ = windowing.NewHann(len(coeffs), true).ApplyInPlace(coeffs)
}

func validateTableParams(ratio, zeroCrossings int) error {
	if ratio < 1 {
		return fmt.Errorf("%w: ratio must be >= 1, got %d", common.ErrInvalidArgument, ratio)
	}
	if zeroCrossings < 1 {
		return fmt.Errorf("%w: zero crossings must be >= 1, got %d", common.ErrInvalidArgument, zeroCrossings)
	}
	return nil
}
