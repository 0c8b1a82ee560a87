package common

import (
	"gonum.org/v1/gonum/floats"
)

// CircularBuffer is a fixed-length ring of samples used as the delay line of
// a FIR filter. A push always overwrites the oldest sample.
type CircularBuffer struct {
	buffer   []float64
	size     int
	writePos int
}

// NewCircularBuffer creates a zero-filled ring of the given size
func NewCircularBuffer(size int) *CircularBuffer {
	return &CircularBuffer{
		buffer: make([]float64, size),
		size:   size,
	}
}

// Push writes one sample over the oldest slot
func (cb *CircularBuffer) Push(sample float64) {
	if cb.size == 0 {
		return
	}
	cb.buffer[cb.writePos] = sample
	cb.writePos++
	if cb.writePos == cb.size {
		cb.writePos = 0
	}
}

// Dot returns the dot product of the ring, read oldest sample first, with
// coeffs. coeffs must have the same length as the ring.
func (cb *CircularBuffer) Dot(coeffs []float64) float64 {
	if cb.size == 0 {
		return 0.0
	}

	// Oldest samples live at [writePos:], newest at [:writePos]
	split := cb.size - cb.writePos
	return floats.Dot(cb.buffer[cb.writePos:], coeffs[:split]) +
		floats.Dot(cb.buffer[:cb.writePos], coeffs[split:])
}

// Snapshot returns a copy of the ring contents, oldest sample first
func (cb *CircularBuffer) Snapshot() []float64 {
	out := make([]float64, 0, cb.size)
	out = append(out, cb.buffer[cb.writePos:]...)
	out = append(out, cb.buffer[:cb.writePos]...)
	return out
}

// Size returns the ring length
func (cb *CircularBuffer) Size() int {
	return cb.size
}

// Clear zeroes the ring and rewinds the write position
func (cb *CircularBuffer) Clear() {
	for i := range cb.buffer {
		cb.buffer[i] = 0
	}
	cb.writePos = 0
}
