package common

import (
	"testing"

	"github.com/RyanBlaney/sonido-piper/internal/testutil"
)

func TestCircularBufferOverwritesOldest(t *testing.T) {
	t.Parallel()

	cb := NewCircularBuffer(3)
	for _, v := range []float64{1, 2, 3, 4} {
		cb.Push(v)
	}

	testutil.RequireSliceNearlyEqual(t, cb.Snapshot(), []float64{2, 3, 4}, 0)
	if cb.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", cb.Size())
	}
}

func TestCircularBufferDotReadsOldestFirst(t *testing.T) {
	t.Parallel()

	cb := NewCircularBuffer(3)
	for _, v := range []float64{1, 2, 3, 4} {
		cb.Push(v)
	}

	// Oldest (2) meets the first coefficient
	if got := cb.Dot([]float64{1, 10, 100}); got != 432 {
		t.Fatalf("Dot = %v, want 432", got)
	}
}

func TestCircularBufferClear(t *testing.T) {
	t.Parallel()

	cb := NewCircularBuffer(4)
	cb.Push(5)
	cb.Push(6)
	cb.Clear()

	testutil.RequireSliceNearlyEqual(t, cb.Snapshot(), []float64{0, 0, 0, 0}, 0)
	cb.Push(1)
	testutil.RequireSliceNearlyEqual(t, cb.Snapshot(), []float64{0, 0, 0, 1}, 0)
}

func TestCircularBufferEmpty(t *testing.T) {
	t.Parallel()

	cb := NewCircularBuffer(0)
	cb.Push(1)
	if got := cb.Dot(nil); got != 0 {
		t.Fatalf("Dot on empty ring = %v, want 0", got)
	}
}
