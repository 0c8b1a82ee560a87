package denoise

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
)

// bounds returns the inclusive neighbourhood [start, end] of sample i for a
// window of width w over n samples. The half width is w/2 in real
// arithmetic, so odd widths reach one extra sample to the left.
func bounds(i, w, n int) (start, end int) {
	half := float64(w) / 2
	start = int(math.Floor(math.Max(0, float64(i)-half)))
	end = int(math.Floor(math.Min(float64(n-1), float64(i)+half)))
	return start, end
}

func validateWindow(w int) error {
	if w < 0 {
		return fmt.Errorf("%w: window size must be non-negative, got %d", common.ErrInvalidArgument, w)
	}
	return nil
}
