package comparison

import (
	"errors"
	"testing"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/internal/testutil"
)

func TestAlignIdentity(t *testing.T) {
	t.Parallel()

	x := testutil.DeterministicNoise(9, 1, 200)
	got, err := Align(x, x, 8000, 8000)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, x, 0)
}

func TestAlign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                       string
		primary, secondary         []float64
		primaryRate, secondaryRate int
		wantSamples                int
		wantPrimaryLater           bool
		wantPeak                   int
	}{
		{"delay secondary", testutil.Impulse(40, 10), testutil.Impulse(40, 5), 100, 100, 5, true, 10},
		{"advance secondary", testutil.Impulse(40, 3), testutil.Impulse(40, 20), 100, 100, 17, false, 3},
		{"different rates", testutil.Impulse(80, 40), testutil.Impulse(40, 10), 200, 100, 10, true, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offset, err := PeakOffset(tt.primary, tt.secondary, tt.primaryRate, tt.secondaryRate)
			if err != nil {
				t.Fatal(err)
			}
			if offset.Samples != tt.wantSamples || offset.PrimaryLater != tt.wantPrimaryLater {
				t.Fatalf("offset = %+v, want %d samples, primary later %v", offset, tt.wantSamples, tt.wantPrimaryLater)
			}

			aligned, err := Align(tt.primary, tt.secondary, tt.primaryRate, tt.secondaryRate)
			if err != nil {
				t.Fatal(err)
			}
			if len(aligned) != len(tt.secondary) {
				t.Fatalf("len = %d, want %d", len(aligned), len(tt.secondary))
			}
			if got := PeakIndex(aligned); got != tt.wantPeak {
				t.Fatalf("aligned peak at %d, want %d", got, tt.wantPeak)
			}
		})
	}
}

func TestAlignSignalKeepsSecondaryRate(t *testing.T) {
	t.Parallel()

	primary := common.Signal{Samples: testutil.Impulse(20, 8), SampleRate: 100}
	secondary := common.Signal{Samples: testutil.Impulse(10, 2), SampleRate: 50}

	got, err := AlignSignal(primary, secondary)
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleRate != 50 || PeakIndex(got.Samples) != 4 {
		t.Fatalf("got rate %d peak %d, want 50 and 4", got.SampleRate, PeakIndex(got.Samples))
	}
}

func TestPeakOffsetInvalidRate(t *testing.T) {
	t.Parallel()

	if _, err := PeakOffset([]float64{1}, []float64{1}, 0, 100); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestPeakIndex(t *testing.T) {
	t.Parallel()

	if got := PeakIndex([]float64{-1, -5, -0.5}); got != 0 {
		t.Fatalf("no positive sample: got %d, want 0", got)
	}
	if got := PeakIndex([]float64{0, 3, 1, 3}); got != 1 {
		t.Fatalf("ties keep the first maximum: got %d, want 1", got)
	}
	if got := PeakIndex(nil); got != 0 {
		t.Fatalf("empty: got %d, want 0", got)
	}
}

func TestShift(t *testing.T) {
	t.Parallel()

	x := []float64{1, 2, 3}
	testutil.RequireSliceNearlyEqual(t, Shift(x, 1), []float64{0, 1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, Shift(x, -1), []float64{2, 3, 0}, 0)
	testutil.RequireSliceNearlyEqual(t, Shift(x, 5), []float64{0, 0, 0}, 0)
	testutil.RequireSliceNearlyEqual(t, Shift(x, -5), []float64{0, 0, 0}, 0)
	testutil.RequireSliceNearlyEqual(t, Shift(x, 0), x, 0)

	if o := (Offset{Samples: 3}); o.Signed() != -3 {
		t.Fatalf("Signed = %d, want -3", o.Signed())
	}
}
