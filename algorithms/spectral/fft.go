package spectral

import (
	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"
)

// Transformer is the forward DFT primitive the spectrogram engine depends
// on. Implementations must accept any input length and return the full
// complex spectrum (len(x) bins).
type Transformer interface {
	Forward(x []float64) []complex128
}

// TransformerFunc adapts a plain function to Transformer
type TransformerFunc func(x []float64) []complex128

// Forward calls f(x)
func (f TransformerFunc) Forward(x []float64) []complex128 {
	return f(x)
}

// FFT provides Fast Fourier Transform functionality backed by
// mjibson/go-dsp, which handles non-power-of-two sizes.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Forward computes the DFT of a real input
func (f *FFT) Forward(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// Inverse computes the inverse DFT and returns the real part only
func (f *FFT) Inverse(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))
	for i, val := range result {
		realResult[i] = real(val)
	}
	return realResult
}

// Magnitudes writes |bins[i]| for the first len(dst) bins into dst
func Magnitudes(dst []float64, bins []complex128) {
	n := len(dst)
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range n {
		re[i] = real(bins[i])
		im[i] = imag(bins[i])
	}
	vecmath.Magnitude(dst, re, im)
}
