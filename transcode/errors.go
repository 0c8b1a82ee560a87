package transcode

import "errors"

var (
	// ErrNotWavFile indicates the input has no valid RIFF/WAVE header
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedBitDepth indicates a PCM depth other than 8/16/24/32
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

	// ErrNoChannels indicates a header declaring zero channels
	ErrNoChannels = errors.New("WAV file declares no channels")

	// ErrEmptySignal indicates an attempt to encode a signal with no samples
	ErrEmptySignal = errors.New("signal has no samples")
)
