package whisper

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/whisprhq/whispr/internal/config"
)

// Transcriber converts a captured mono float buffer into timed text segments.
type Transcriber interface {
	Transcribe(samples []float32) ([]Segment, error)
	Close() error
}

// Segment is one recognized span of speech.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type localTranscriber struct {
	model whisper.Model
	cfg   config.WhisperConfig
	mu    sync.Mutex
}

// New loads the ggml model at the configured path. The model is expected to be
// provisioned out of band; there is no download or management here.
func New(cfg config.WhisperConfig) (Transcriber, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("whisper model not found at %s: %w", cfg.ModelPath, err)
	}

	model, err := whisper.New(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	return &localTranscriber{
		model: model,
		cfg:   cfg,
	}, nil
}

// Transcribe runs a single greedy pass over the whole buffer, which must be
// 16 kHz mono. Dictionary terms from the config bias the decoder via the
// initial prompt.
func (t *localTranscriber) Transcribe(samples []float32) ([]Segment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx, err := t.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	if t.cfg.Language != "" && t.cfg.Language != "auto" {
		if err := ctx.SetLanguage(t.cfg.Language); err != nil {
			return nil, fmt.Errorf("failed to set language %q: %w", t.cfg.Language, err)
		}
	}
	ctx.SetTranslate(t.cfg.Translate)

	if len(t.cfg.Dictionary) > 0 {
		prompt := fmt.Sprintf(
			"This audio uses specialized terms including: %s. Please use their exact writing.",
			strings.Join(t.cfg.Dictionary, ", "))
		ctx.SetInitialPrompt(prompt)
	}

	if err := ctx.Process(samples, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper process failed: %w", err)
	}

	var segments []Segment
	for {
		seg, err := ctx.NextSegment()
		if err != nil {
			break // EOF
		}
		segments = append(segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return segments, nil
}

func (t *localTranscriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.model != nil {
		t.model.Close()
		t.model = nil
	}
	return nil
}
