// Package audio implements the push-to-talk capture engine: device selection,
// the real-time ingestion callback with silence filtering, the retained-sample
// buffer, an optional per-session WAV sink, and the post-capture downmix and
// resample step applied when the buffer is drained.
package audio

import "errors"

var (
	// ErrDeviceEnumeration indicates the audio subsystem could not be queried.
	ErrDeviceEnumeration = errors.New("device enumeration failed")
	// ErrDeviceNotFound indicates no input device matches the requested name.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDeviceOpen indicates the native input stream could not be opened.
	ErrDeviceOpen = errors.New("failed to open input stream")
)

// Format describes the rate and channel layout of a PCM sample sequence.
// Multi-channel data is interleaved, one frame per sample period.
type Format struct {
	SampleRate int
	Channels   int
}

// Device represents an audio input device.
type Device struct {
	Name    string
	Default bool
}
