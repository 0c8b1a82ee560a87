package filters

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/internal/testutil"
)

func TestRCFilterRecursion(t *testing.T) {
	t.Parallel()

	// fc = fs/pi gives k = 1, so y[t+1] = (x[t+1] - x[t-1] + 2*y[t]) / 2
	rc, err := NewRCFilter(1000, 1000/math.Pi)
	if err != nil {
		t.Fatalf("NewRCFilter: %v", err)
	}
	testutil.RequireNearlyEqual(t, rc.Gain(), 1, 1e-12)

	got := rc.Apply([]float64{1, 2, 3, 4, 5})
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0, 1, 2, 3}, 1e-9)
}

func TestRCFilterGeneralGain(t *testing.T) {
	t.Parallel()

	rc, err := NewRCFilter(8000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	k := 8000 / (math.Pi * 1000)
	testutil.RequireNearlyEqual(t, rc.Gain(), k, 1e-12)
	testutil.RequireNearlyEqual(t, rc.Pole(), 2*k/(k+1), 1e-12)

	x := []float64{0.5, -1, 2}
	want := (x[2] - x[0] + (1-k)*x[0]) / (k + 1)
	got := rc.Apply(x)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0, want}, 1e-12)
}

func TestRCFilterShortInput(t *testing.T) {
	t.Parallel()

	rc, _ := NewRCFilter(8000, 1000)
	for _, in := range [][]float64{nil, {3}} {
		out := rc.Apply(in)
		if len(out) != len(in) {
			t.Fatalf("len = %d, want %d", len(out), len(in))
		}
		for _, v := range out {
			if v != 0 {
				t.Fatalf("short input produced %v, want zeros", out)
			}
		}
	}
}

func TestRCFilterPreservesLengthAndRate(t *testing.T) {
	t.Parallel()

	rc, _ := NewRCFilter(8000, 3000)
	sig := common.Signal{Samples: testutil.DeterministicNoise(3, 1, 512), SampleRate: 8000}

	out := rc.ApplySignal(sig)
	if out.Len() != 512 || out.SampleRate != 8000 {
		t.Fatalf("got len %d rate %d", out.Len(), out.SampleRate)
	}
	testutil.RequireFinite(t, out.Samples)
	if rc.SampleRate() != 8000 || rc.CutoffFrequency() != 3000 {
		t.Fatal("accessors do not report the design parameters")
	}
}

func TestNewRCFilterInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rate   int
		cutoff float64
	}{
		{0, 1000},
		{-8000, 1000},
		{8000, 0},
		{8000, -5},
		{8000, math.NaN()},
		{8000, math.Inf(1)},
	}
	for _, c := range cases {
		if _, err := NewRCFilter(c.rate, c.cutoff); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("NewRCFilter(%d, %v): err = %v", c.rate, c.cutoff, err)
		}
	}
}
