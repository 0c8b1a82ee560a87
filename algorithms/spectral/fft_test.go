package spectral

import (
	"testing"

	"github.com/RyanBlaney/sonido-piper/internal/testutil"
)

func TestFFTRoundTrip(t *testing.T) {
	t.Parallel()

	f := NewFFT()
	x := testutil.DeterministicNoise(7, 1, 100)

	bins := f.Forward(x)
	if len(bins) != len(x) {
		t.Fatalf("Forward returned %d bins, want %d", len(bins), len(x))
	}
	testutil.RequireSliceNearlyEqual(t, f.Inverse(bins), x, 1e-9)

	if len(f.Forward(nil)) != 0 || len(f.Inverse(nil)) != 0 {
		t.Fatal("empty transforms must return empty slices")
	}
}

func TestMagnitudes(t *testing.T) {
	t.Parallel()

	dst := make([]float64, 2)
	Magnitudes(dst, []complex128{complex(3, 4), complex(0, -2), complex(100, 0)})
	testutil.RequireSliceNearlyEqual(t, dst, []float64{5, 2}, 1e-12)
}
