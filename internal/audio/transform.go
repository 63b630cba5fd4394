package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zaf/resample"
)

// Transform converts a drained capture buffer from the device-native format to
// the desired output format: channel reduction first, then rate conversion.
// Steps whose formats already match are skipped, so a native-format buffer
// passes through bit-identical. A resampler failure is reported as an error;
// callers treat it as "no audio" rather than a hard failure.
func Transform(samples []float32, native, desired Format) ([]float32, error) {
	out := downmix(samples, native.Channels, desired.Channels)
	if len(out) == 0 || native.SampleRate == desired.SampleRate {
		return out, nil
	}

	resampled, err := resampleRate(out, native.SampleRate, desired.SampleRate, desired.Channels)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d Hz: %w", native.SampleRate, desired.SampleRate, err)
	}
	return resampled, nil
}

// downmix reduces interleaved multi-channel frames to mono by averaging the
// channels of each frame. An incomplete trailing frame is discarded. Anything
// other than a reduction to mono is passed through unchanged.
func downmix(samples []float32, nativeCh, desiredCh int) []float32 {
	if nativeCh <= 1 || nativeCh == desiredCh || desiredCh != 1 {
		return samples
	}

	frames := len(samples) / nativeCh
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < nativeCh; c++ {
			sum += samples[i*nativeCh+c]
		}
		out[i] = sum / float32(nativeCh)
	}
	return out
}

// resampleRate runs the buffer through soxr's band-limited resampler. The
// library consumes and produces raw little-endian float32 frames.
func resampleRate(in []float32, from, to, channels int) ([]float32, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("sample rates must be positive, got %d and %d", from, to)
	}

	var buf bytes.Buffer
	res, err := resample.New(&buf, float64(from), float64(to), channels, resample.F32, resample.HighQ)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, len(in)*4)
	for i, s := range in {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(s))
	}
	if _, err := res.Write(raw); err != nil {
		res.Close()
		return nil, err
	}
	// Close flushes the filter tail.
	if err := res.Close(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}
