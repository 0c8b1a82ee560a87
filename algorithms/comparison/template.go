package comparison

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/algorithms/spectral"
)

// TemplateCorrelator scores how well the most recent frames of a
// spectrogram match a template spectrogram inside a frequency band. It is
// the detector used to find a known call in a recording.
type TemplateCorrelator struct {
	template     *spectral.Spectrogram
	lowBin       int
	highBin      int
	templateNorm float64
}

// NewTemplateCorrelator prepares a correlator for template restricted to
// [lowHz, highHz). Band edges are converted to bins with
// round(f * windowSize / sampleRate).
func NewTemplateCorrelator(template *spectral.Spectrogram, lowHz, highHz float64) (*TemplateCorrelator, error) {
	if template == nil || template.FrameCount() == 0 {
		return nil, fmt.Errorf("%w: template spectrogram is empty", common.ErrInvalidArgument)
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	if template.SampleRate <= 0 || template.WindowSize <= 0 {
		return nil, fmt.Errorf("%w: template needs a sample rate and window size", common.ErrInvalidArgument)
	}
	if lowHz < 0 || highHz <= lowHz {
		return nil, fmt.Errorf("%w: frequency band [%v, %v) is empty", common.ErrInvalidArgument, lowHz, highHz)
	}

	width := float64(template.WindowSize) / float64(template.SampleRate)
	lowBin := common.RoundHalfEven(lowHz * width)
	highBin := min(common.RoundHalfEven(highHz*width), template.Bins())
	if lowBin >= highBin {
		return nil, fmt.Errorf("%w: frequency band [%v, %v) covers no bins", common.ErrInvalidArgument, lowHz, highHz)
	}

	tc := &TemplateCorrelator{
		template: template.Clone(),
		lowBin:   lowBin,
		highBin:  highBin,
	}

	sumSq := 0.0
	for _, frame := range tc.template.Frames {
		sumSq += common.SumSquares(frame[lowBin:highBin])
	}
	tc.templateNorm = math.Sqrt(sumSq)
	if tc.templateNorm == 0 {
		return nil, fmt.Errorf("%w: template has no energy in band", common.ErrDegenerateInput)
	}

	return tc, nil
}

// Band returns the bin range [low, high) the correlator looks at
func (tc *TemplateCorrelator) Band() (low, high int) {
	return tc.lowBin, tc.highBin
}

// Frames returns the template length in frames
func (tc *TemplateCorrelator) Frames() int {
	return tc.template.FrameCount()
}

// Correlate returns the normalized correlation coefficient between the
// template and the input frames ending at latestFrame. Frame indices wrap
// around the input, so input may be used as a ring of recent frames. When
// the input window has no energy the coefficient is 0.
func (tc *TemplateCorrelator) Correlate(input *spectral.Spectrogram, latestFrame int) (float64, error) {
	total := input.FrameCount()
	if total < tc.Frames() {
		return 0, fmt.Errorf("%w: input has %d frames, template needs %d", common.ErrInvalidArgument, total, tc.Frames())
	}
	if input.Bins() < tc.highBin {
		return 0, fmt.Errorf("%w: input has %d bins, band needs %d", common.ErrInvalidArgument, input.Bins(), tc.highBin)
	}
	if latestFrame < 0 || latestFrame >= total {
		return 0, fmt.Errorf("%w: frame index %d outside [0, %d)", common.ErrInvalidArgument, latestFrame, total)
	}

	// The oldest input frame lines up with template frame 0
	first := (latestFrame - tc.Frames() + 1 + total) % total

	inputSumSq := 0.0
	dot := 0.0
	for t, tmpl := range tc.template.Frames {
		frame := input.Frames[(first+t)%total]
		for f := tc.lowBin; f < tc.highBin; f++ {
			inputSumSq += frame[f] * frame[f]
			dot += frame[f] * tmpl[f]
		}
	}

	norm := math.Sqrt(inputSumSq) * tc.templateNorm
	if norm == 0 {
		norm = tc.templateNorm
	}
	return dot / norm, nil
}

// Scan correlates the template against every complete run of frames in
// input without wrapping. Element i scores the frames ending at
// i + Frames() - 1.
func (tc *TemplateCorrelator) Scan(input *spectral.Spectrogram) ([]float64, error) {
	positions := input.FrameCount() - tc.Frames() + 1
	if positions < 1 {
		return nil, fmt.Errorf("%w: input has %d frames, template needs %d",
			common.ErrInvalidArgument, input.FrameCount(), tc.Frames())
	}

	scores := make([]float64, positions)
	for i := range scores {
		score, err := tc.Correlate(input, i+tc.Frames()-1)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}
	return scores, nil
}
