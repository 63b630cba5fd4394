package inject

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/whisprhq/whispr/internal/whisper"
)

// SegmentPaster is the downstream consumer of a finished session: it joins the
// recognized segments into one string and hands it to the focused application
// via the platform injector.
type SegmentPaster struct {
	inj         Injector
	appendSpace bool
	log         zerolog.Logger
}

func NewSegmentPaster(inj Injector, appendSpace bool, log zerolog.Logger) *SegmentPaster {
	return &SegmentPaster{
		inj:         inj,
		appendSpace: appendSpace,
		log:         log,
	}
}

// WriteSegments formats and injects the transcript. An empty transcript is not
// an error; there is simply nothing to paste.
func (s *SegmentPaster) WriteSegments(segments []whisper.Segment) error {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		s.log.Info().Msg("empty transcript; nothing to inject")
		return nil
	}

	text = s.applyFilters(text)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.inj.PasteOrType(ctx, text); err != nil {
		return err
	}
	s.log.Info().Str("text", text).Msg("injected transcript")
	return nil
}

func (s *SegmentPaster) applyFilters(text string) string {
	// Auto-capitalize first letter
	if text[0] >= 'a' && text[0] <= 'z' {
		text = string(text[0]-32) + text[1:]
	}
	if s.appendSpace {
		text += " "
	}
	return text
}
