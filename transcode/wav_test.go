package transcode

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanBlaney/sonido-piper/algorithms/common"
	"github.com/RyanBlaney/sonido-piper/internal/testutil"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	sig := common.Signal{Samples: testutil.DeterministicSine(440, 8000, 0.5, 4000), SampleRate: 8000}

	if err := NewEncoder().EncodeFile(path, sig); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}

	got, err := NewDecoder(nil).DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if got.SampleRate != 8000 {
		t.Fatalf("rate = %d, want 8000", got.SampleRate)
	}
	testutil.RequireSliceNearlyEqual(t, got.Samples, sig.Samples, 1.0/32768)
}

func TestEncodeClips(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "clip.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := Encode(f, common.Signal{Samples: []float64{2, -2, 0}, SampleRate: 100}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	got, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Samples, []float64{32767.0 / 32768, -1, 0}, 1e-12)
}

func writeStereo(t *testing.T, left, right []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	data := make([]int, 0, 2*len(left))
	for i := range left {
		data = append(data, left[i], right[i])
	}

	enc := wav.NewEncoder(f, 1000, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 1000},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeChannelModes(t *testing.T) {
	t.Parallel()

	path := writeStereo(t, []int{16384, -16384, 0}, []int{0, 0, 8192})

	mixed, err := NewDecoder(&DecoderConfig{Channels: ChannelMixDown}).DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, mixed.Samples, []float64{0.25, -0.25, 0.125}, 1e-12)

	first, err := NewDecoder(&DecoderConfig{Channels: ChannelFirst}).DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, first.Samples, []float64{0.5, -0.5, 0}, 1e-12)

	truncated, err := NewDecoder(&DecoderConfig{Channels: ChannelFirst, MaxSamples: 2}).DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if truncated.Len() != 2 {
		t.Fatalf("len = %d, want 2", truncated.Len())
	}
}

func TestDecodeRejectsNonWav(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytes.NewReader([]byte("definitely not a RIFF header")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Fatalf("err = %v, want ErrNotWavFile", err)
	}

	if _, err := NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("missing file decoded")
	}
}

func TestEncodeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if err := NewEncoder().EncodeFile(filepath.Join(dir, "empty.wav"), common.Signal{SampleRate: 8000}); !errors.Is(err, ErrEmptySignal) {
		t.Errorf("empty: err = %v", err)
	}
	if err := NewEncoder().EncodeFile(filepath.Join(dir, "rate.wav"), common.Signal{Samples: []float64{1}}); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("rate 0: err = %v", err)
	}
	bad := &Encoder{BitDepth: 12}
	if err := bad.EncodeFile(filepath.Join(dir, "depth.wav"), common.Signal{Samples: []float64{1}, SampleRate: 10}); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("bit depth: err = %v", err)
	}
}

func TestPCMScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		depth         int
		scale, offset float64
	}{
		{8, 128, 128},
		{16, 32768, 0},
		{24, 8388608, 0},
		{32, 2147483648, 0},
	}
	for _, tt := range tests {
		scale, offset, err := pcmScale(tt.depth)
		if err != nil || scale != tt.scale || offset != tt.offset {
			t.Errorf("pcmScale(%d) = %v, %v, %v", tt.depth, scale, offset, err)
		}
	}
}
