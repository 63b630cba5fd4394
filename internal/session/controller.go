// Package session implements the push-to-talk state machine: it gates
// concurrent sessions behind a single permit, enforces a minimum recording
// duration, and sequences capture, post-processing, and the hand-off to the
// transcriber.
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/whisprhq/whispr/internal/whisper"
)

// Status values emitted to UI observers as a session progresses.
type Status string

const (
	StatusListening    Status = "Listening"
	StatusTranscribing Status = "Transcribing"
	StatusReady        Status = "Ready"
)

// Notifier receives status transitions (tray icon, overlay window).
type Notifier interface {
	Notify(Status)
}

// Engine is the capture surface the controller drives. Start and Stop must
// return quickly; Drain hands back the transformed session buffer, nil when
// nothing usable was captured.
type Engine interface {
	Start() error
	Stop()
	Drain(sampleRate, channels int) []float32
}

// SegmentWriter consumes the recognized segments of a finished session.
type SegmentWriter interface {
	WriteSegments(segments []whisper.Segment) error
}

// Config carries the session parameters read from settings.
type Config struct {
	MinDuration    time.Duration
	TargetRate     int
	TargetChannels int
}

// Controller is the push-to-talk state machine, driven by hotkey press and
// release events. It is Idle or Recording; duplicate events are no-ops.
type Controller struct {
	engine Engine
	stt    whisper.Transcriber
	out    SegmentWriter // optional
	notify Notifier      // optional
	permit *Permit
	log    zerolog.Logger
	cfg    Config

	// mu guards the state transition only. It is never held across Drain or
	// the transcription call, so status reads stay responsive while a long
	// transcription holds the permit.
	mu        sync.Mutex
	recording bool
	startedAt time.Time
}

type Deps struct {
	Engine      Engine
	Transcriber whisper.Transcriber
	Output      SegmentWriter
	Notifier    Notifier
	Permit      *Permit
	Logger      zerolog.Logger
	Config      Config
}

func New(deps Deps) *Controller {
	permit := deps.Permit
	if permit == nil {
		permit = &Permit{}
	}
	return &Controller{
		engine: deps.Engine,
		stt:    deps.Transcriber,
		out:    deps.Output,
		notify: deps.Notifier,
		permit: permit,
		log:    deps.Logger,
		cfg:    deps.Config,
	}
}

// OnHotkey drives the state machine from the global hotkey monitor.
func (c *Controller) OnHotkey(pressed bool) {
	if pressed {
		c.press()
	} else {
		c.release()
	}
}

// Recording reports whether a session is in progress.
func (c *Controller) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

func (c *Controller) press() {
	c.mu.Lock()
	if c.recording {
		// Duplicate press
		c.mu.Unlock()
		return
	}

	if !c.permit.TryAcquire() {
		c.mu.Unlock()
		c.log.Warn().Msg("recording permit unavailable; ignoring press")
		return
	}

	if err := c.engine.Start(); err != nil {
		c.permit.Release()
		c.mu.Unlock()
		c.log.Error().Err(err).Msg("failed to start capture")
		return
	}

	c.recording = true
	c.startedAt = time.Now()
	c.mu.Unlock()

	c.log.Info().Msg("session started")
	c.emit(StatusListening)
}

func (c *Controller) release() {
	c.mu.Lock()
	if !c.recording {
		// Spurious release
		c.mu.Unlock()
		return
	}
	c.recording = false
	startedAt := c.startedAt
	c.startedAt = time.Time{}
	c.mu.Unlock()

	c.engine.Stop()

	elapsed := time.Since(startedAt)
	if elapsed < c.cfg.MinDuration {
		c.log.Info().Dur("elapsed", elapsed).Msg("recording too short; discarding")
		c.emit(StatusReady)
		c.permit.Release()
		return
	}

	c.emit(StatusTranscribing)

	samples := c.engine.Drain(c.cfg.TargetRate, c.cfg.TargetChannels)
	if samples == nil {
		c.log.Info().Msg("no audio captured")
		c.emit(StatusReady)
		c.permit.Release()
		return
	}

	// Runs on the hotkey goroutine with no lock held; a hang here holds the
	// permit, which is the documented trade-off.
	segments, err := c.stt.Transcribe(samples)
	if err != nil {
		c.log.Error().Err(err).Msg("transcription failed")
	} else {
		c.log.Info().Int("segments", len(segments)).Dur("audio", elapsed).Msg("session transcribed")
		if c.out != nil {
			if err := c.out.WriteSegments(segments); err != nil {
				c.log.Error().Err(err).Msg("failed to deliver transcript")
			}
		}
	}

	c.emit(StatusReady)
	c.permit.Release()
}

func (c *Controller) emit(s Status) {
	if c.notify != nil {
		c.notify.Notify(s)
	}
}
