package resample

import (
	"fmt"
	"sync"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/logging"
)

type tableKey struct {
	kind          Kind
	ratio         int
	zeroCrossings int
}

// Resampler performs integer-ratio sample-rate conversion by convolving
// the signal with a windowed-sinc table held in a circular delay line.
// Tables are cached per (kind, ratio, zero crossings); a Resampler is safe
// for concurrent use.
type Resampler struct {
	mu     sync.Mutex
	tables map[tableKey]*FilterTable
	logger logging.Logger
}

// NewResampler creates a resampler with an empty table cache
func NewResampler() *Resampler {
	return &Resampler{
		tables: make(map[tableKey]*FilterTable),
		logger: logging.WithFields(logging.Fields{
			"component": "resampler",
		}),
	}
}

// Table returns the cached table for the key, building it on first use
func (r *Resampler) Table(kind Kind, ratio, zeroCrossings int) (*FilterTable, error) {
	key := tableKey{kind: kind, ratio: ratio, zeroCrossings: zeroCrossings}

	r.mu.Lock()
	defer r.mu.Unlock()

	if table, ok := r.tables[key]; ok {
		return table, nil
	}

	table, err := BuildTable(kind, ratio, zeroCrossings)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Built sinc table", logging.Fields{
		"kind":           kind.String(),
		"ratio":          ratio,
		"zero_crossings": zeroCrossings,
		"taps":           table.Len(),
	})

	r.tables[key] = table
	return table, nil
}

// Downsample decimates samples by ratio. Each output sample consumes ratio
// new input samples (zeros once the input runs out) and is the dot product
// of the delay line, oldest sample first, with the table. The output has
// round(len/ratio) samples; slots not reached before the input is
// exhausted stay zero.
func (r *Resampler) Downsample(samples []float64, ratio, zeroCrossings int) ([]float64, error) {
	table, err := r.Table(Downsampling, ratio, zeroCrossings)
	if err != nil {
		return nil, err
	}

	signalLen := len(samples)
	outputLen := common.RoundHalfEven(float64(signalLen) / float64(ratio))
	output := make([]float64, outputLen)
	if outputLen == 0 {
		return output, nil
	}

	delay := common.NewCircularBuffer(table.Len())
	signalIdx := 0

	for outputIdx := 0; outputIdx < outputLen; outputIdx++ {
		for range ratio {
			if signalIdx < signalLen {
				delay.Push(samples[signalIdx])
			} else {
				delay.Push(0)
			}
			signalIdx++
		}

		output[outputIdx] = delay.Dot(table.Coefficients)

		if signalIdx >= signalLen {
			break
		}
	}

	return output, nil
}

// Upsample interpolates samples by ratio. Every output step pushes either
// the next input sample (once per ratio steps) or a stuffed zero, then
// filters the delay line. The output has len*ratio samples; filtering stops
// after the last input sample is pushed, so the final ratio-1 slots stay
// zero.
func (r *Resampler) Upsample(samples []float64, ratio, zeroCrossings int) ([]float64, error) {
	table, err := r.Table(Upsampling, ratio, zeroCrossings)
	if err != nil {
		return nil, err
	}

	signalLen := len(samples)
	output := make([]float64, signalLen*ratio)
	if signalLen == 0 {
		return output, nil
	}

	delay := common.NewCircularBuffer(table.Len())
	signalIdx := 0
	phase := 0

	for outputIdx := range output {
		if phase == 0 {
			delay.Push(samples[signalIdx])
			signalIdx++
		} else {
			delay.Push(0)
		}
		phase++
		if phase == ratio {
			phase = 0
		}

		output[outputIdx] = delay.Dot(table.Coefficients)

		if signalIdx >= signalLen {
			break
		}
	}

	return output, nil
}

// DownsampleSignal decimates s and divides its sample rate by ratio
func (r *Resampler) DownsampleSignal(s common.Signal, ratio, zeroCrossings int) (common.Signal, error) {
	if ratio >= 1 && s.SampleRate%ratio != 0 {
		r.logger.Warn("Sample rate is not a multiple of the ratio, truncating", logging.Fields{
			"sample_rate": s.SampleRate,
			"ratio":       ratio,
		})
	}

	out, err := r.Downsample(s.Samples, ratio, zeroCrossings)
	if err != nil {
		return common.Signal{}, fmt.Errorf("downsample: %w", err)
	}
	return common.Signal{Samples: out, SampleRate: s.SampleRate / ratio}, nil
}

// UpsampleSignal interpolates s and multiplies its sample rate by ratio
func (r *Resampler) UpsampleSignal(s common.Signal, ratio, zeroCrossings int) (common.Signal, error) {
	out, err := r.Upsample(s.Samples, ratio, zeroCrossings)
	if err != nil {
		return common.Signal{}, fmt.Errorf("upsample: %w", err)
	}
	return common.Signal{Samples: out, SampleRate: s.SampleRate * ratio}, nil
}

var defaultResampler = NewResampler()

// Downsample decimates samples using a shared resampler
func Downsample(samples []float64, ratio, zeroCrossings int) ([]float64, error) {
	return defaultResampler.Downsample(samples, ratio, zeroCrossings)
}

// Upsample interpolates samples using a shared resampler
func Upsample(samples []float64, ratio, zeroCrossings int) ([]float64, error) {
	return defaultResampler.Upsample(samples, ratio, zeroCrossings)
}
