package denoise

import (
	"errors"
	"testing"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
	"github.com/RyanBlaney/sonido-piper/internal/testutil"
)

func TestSmooth(t *testing.T) {
	t.Parallel()

	data := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		window int
		want   []float64
	}{
		{"even window", 2, []float64{1.5, 2, 3, 4, 4.5}},
		{"odd window reaches further left", 3, []float64{1.5, 2, 2.5, 3.5, 4}},
		{"zero window is identity", 0, data},
		{"window wider than data", 20, []float64{3, 3, 3, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Smooth(data, tt.window)
			if err != nil {
				t.Fatalf("Smooth: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-12)
		})
	}
}

func TestSmoothEdgeCases(t *testing.T) {
	t.Parallel()

	if _, err := Smooth([]float64{1}, -1); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("negative window: err = %v", err)
	}

	got, err := Smooth(nil, 4)
	if err != nil || len(got) != 0 {
		t.Fatalf("Smooth(nil) = %v, %v", got, err)
	}
}

func TestSmoothFrames(t *testing.T) {
	t.Parallel()

	s := &spectral.Spectrogram{
		Frames:     [][]float64{{1, 2, 3, 4, 5}, {5, 5, 5, 5, 5}},
		SampleRate: 8000,
		WindowSize: 10,
	}

	got, err := SmoothFrames(s, 2)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Frames[0], []float64{1.5, 2, 3, 4, 4.5}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, got.Frames[1], s.Frames[1], 1e-12)
	if got.SampleRate != 8000 || got.WindowSize != 10 {
		t.Fatal("SmoothFrames dropped the spectrogram metadata")
	}
	if s.Frames[0][0] != 1 {
		t.Fatal("SmoothFrames modified its input")
	}
}

func TestBounds(t *testing.T) {
	t.Parallel()

	tests := []struct{ i, w, n, start, end int }{
		{0, 2, 5, 0, 1},
		{2, 2, 5, 1, 3},
		{2, 3, 5, 0, 3},
		{4, 3, 5, 2, 4},
		{3, 0, 5, 3, 3},
	}
	for _, tt := range tests {
		start, end := bounds(tt.i, tt.w, tt.n)
		if start != tt.start || end != tt.end {
			t.Errorf("bounds(%d, %d, %d) = [%d, %d], want [%d, %d]", tt.i, tt.w, tt.n, start, end, tt.start, tt.end)
		}
	}
}
