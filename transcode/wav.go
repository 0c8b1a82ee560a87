package transcode

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/logging"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ChannelMode selects how multichannel audio is folded to mono
type ChannelMode string

const (
	ChannelMixDown ChannelMode = "mixdown" // average all channels
	ChannelFirst   ChannelMode = "first"   // keep channel 0 only
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	Channels ChannelMode `json:"channels"`
	// MaxSamples truncates the decoded signal; 0 means no limit
	MaxSamples int `json:"max_samples"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		Channels:   ChannelMixDown,
		MaxSamples: 0,
	}
}

// Decoder turns PCM WAV data into mono float signals in [-1, 1)
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "wav_decoder"}),
	}
}

// DecodeFile decodes the WAV file at path
func (d *Decoder) DecodeFile(path string) (common.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.Signal{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sig, err := d.Decode(f)
	if err != nil {
		return common.Signal{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return sig, nil
}

// Decode reads a complete WAV stream
func (d *Decoder) Decode(r io.ReadSeeker) (common.Signal, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return common.Signal{}, ErrNotWavFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return common.Signal{}, fmt.Errorf("read PCM buffer: %w", err)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		return common.Signal{}, ErrNoChannels
	}

	bitDepth := int(dec.BitDepth)
	samples, err := d.toMono(buf.Data, channels, bitDepth)
	if err != nil {
		return common.Signal{}, err
	}

	if d.config.MaxSamples > 0 && len(samples) > d.config.MaxSamples {
		samples = samples[:d.config.MaxSamples]
	}

	d.logger.Debug("Decoded WAV", logging.Fields{
		"sample_rate": dec.SampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
		"samples":     len(samples),
	})

	return common.NewSignal(samples, int(dec.SampleRate))
}

// toMono folds interleaved integer PCM into normalized mono samples
func (d *Decoder) toMono(data []int, channels, bitDepth int) ([]float64, error) {
	scale, offset, err := pcmScale(bitDepth)
	if err != nil {
		return nil, err
	}

	frames := len(data) / channels
	out := make([]float64, frames)

	for i := range frames {
		frame := data[i*channels : (i+1)*channels]
		if d.config.Channels == ChannelFirst || channels == 1 {
			out[i] = (float64(frame[0]) - offset) / scale
			continue
		}

		sum := 0.0
		for _, v := range frame {
			sum += (float64(v) - offset) / scale
		}
		out[i] = sum / float64(channels)
	}

	return out, nil
}

// pcmScale returns the full-scale divisor and zero offset for a bit depth.
// 8-bit WAV is unsigned, every wider depth is signed.
func pcmScale(bitDepth int) (scale, offset float64, err error) {
	switch bitDepth {
	case 8:
		return 128, 128, nil
	case 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), 0, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// Encoder writes mono signals as 16-bit PCM WAV
type Encoder struct {
	BitDepth int
}

func NewEncoder() *Encoder {
	return &Encoder{BitDepth: 16}
}

// EncodeFile writes sig to path, replacing any existing file
func (e *Encoder) EncodeFile(path string, sig common.Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := e.Encode(f, sig); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes sig as PCM WAV; samples outside [-1, 1] are clipped
func (e *Encoder) Encode(w io.WriteSeeker, sig common.Signal) error {
	if len(sig.Samples) == 0 {
		return ErrEmptySignal
	}
	if sig.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", common.ErrInvalidArgument, sig.SampleRate)
	}

	bitDepth := e.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale, offset, err := pcmScale(bitDepth)
	if err != nil {
		return err
	}
	maxCode := scale - 1

	data := make([]int, len(sig.Samples))
	for i, v := range sig.Samples {
		code := math.Round(v * scale)
		code = math.Max(-scale, math.Min(maxCode, code))
		data[i] = int(code + offset)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sig.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	// 1 = PCM format tag
	enc := wav.NewEncoder(w, sig.SampleRate, bitDepth, 1, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize WAV header: %w", err)
	}
	return nil
}

// Decode is shorthand for NewDecoder(nil).Decode
func Decode(r io.ReadSeeker) (common.Signal, error) {
	return NewDecoder(nil).Decode(r)
}

// Encode is shorthand for NewEncoder().Encode
func Encode(w io.WriteSeeker, sig common.Signal) error {
	return NewEncoder().Encode(w, sig)
}
