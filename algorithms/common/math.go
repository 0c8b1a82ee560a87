package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the resampling, spectral and denoise code.

// Sinc returns the normalized sinc sin(pi*x)/(pi*x). The value at x == 0 is
// NaN, callers that evaluate the center tap must overwrite it.
func Sinc(x float64) float64 {
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// Linspace returns n evenly spaced values over [start, stop], both ends
// included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}

	out := make([]float64, n)
	span := stop - start
	for i := range out {
		out[i] = start + span*float64(i)/float64(n-1)
	}
	out[n-1] = stop
	return out
}

// RoundHalfEven rounds to the nearest integer, ties to even.
func RoundHalfEven(x float64) int {
	return int(math.RoundToEven(x))
}

// Sum returns the sum of data
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopMeanStdDev returns the mean and population (biased) standard
// deviation of data.
func PopMeanStdDev(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0.0, 0.0
	}
	mean, variance := stat.PopMeanVariance(data, nil)
	return mean, math.Sqrt(variance)
}

// SumSquares returns the dot product of data with itself
func SumSquares(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Dot(data, data)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
