package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// sink persists retained samples for one capture session. WriteBlock is called
// from the real-time callback under the sink lock; Close finalizes the file.
type sink interface {
	WriteBlock(samples []float32) error
	Close() error
	Path() string
}

// wavSink writes retained samples incrementally to a 16-bit PCM WAV file named
// by the session's capture start timestamp.
type wavSink struct {
	file *os.File
	enc  *wav.Encoder
	buf  *gaudio.IntBuffer
	path string
}

func newWAVSink(dir string, format Format, start time.Time) (sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, fmt.Sprintf("rec-%s.wav", start.Format("20060102-150405")))
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &wavSink{
		file: file,
		enc:  wav.NewEncoder(file, format.SampleRate, 16, format.Channels, 1),
		buf: &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			SourceBitDepth: 16,
		},
		path: path,
	}, nil
}

func (w *wavSink) WriteBlock(samples []float32) error {
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		w.buf.Data[i] = int(s * 32767)
	}
	return w.enc.Write(w.buf)
}

func (w *wavSink) Close() error {
	// Encoder.Close rewrites the header with the final data length.
	if err := w.enc.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func (w *wavSink) Path() string {
	return w.path
}
