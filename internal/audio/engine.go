package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// stream is the open native input stream. The backend invokes the engine's
// process callback once per delivered hardware buffer until Stop.
type stream interface {
	Start() error
	Stop() error
	Close() error
}

type openStreamFunc func(deviceName string, process func([]float32)) (stream, Format, error)
type listDevicesFunc func() ([]Device, error)
type newSinkFunc func(dir string, format Format, start time.Time) (sink, error)

// Engine owns the input device and the retained-sample buffer for one
// push-to-talk session at a time. Start and Stop return quickly; the heavy
// work (transforming, transcribing) happens after Drain on the caller's side.
type Engine struct {
	log zerolog.Logger

	// Session defaults, read fresh at the next Start. Guarded by cfgMu so the
	// tray thread can update them while a session runs without tearing the
	// active gate's counters.
	cfgMu      sync.Mutex
	silence    SilenceConfig
	deviceName string
	saveDir    string // empty disables the per-session sink

	capturing atomic.Bool

	// Retained samples, appended by the callback under bufMu, cleared by Start,
	// moved out by Drain. Survives Stop so the caller can still decide to
	// discard or drain.
	bufMu sync.Mutex
	buf   []float32

	sinkMu sync.Mutex
	sink   sink

	// Callback-exclusive while capturing; rebuilt by Start.
	gate    Gate
	scratch []float32

	format Format
	stream stream

	open      openStreamFunc
	list      listDevicesFunc
	newSink   newSinkFunc
	terminate func()
}

// NewEngine initializes the audio subsystem and returns an engine bound to the
// system default input device.
func NewEngine(log zerolog.Logger) (*Engine, error) {
	open, list, terminate, err := initPortAudio()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceEnumeration, err)
	}
	return &Engine{
		log:       log,
		open:      open,
		list:      list,
		newSink:   newWAVSink,
		terminate: terminate,
	}, nil
}

// ListDevices returns the names of all input-capable devices, in backend order.
func (e *Engine) ListDevices() ([]Device, error) {
	devices, err := e.list()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceEnumeration, err)
	}
	return devices, nil
}

// SelectDevice sets the input device used by the next session. The name must
// match an enumerated device exactly; an empty name selects the system default.
func (e *Engine) SelectDevice(name string) error {
	if name != "" {
		devices, err := e.list()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDeviceEnumeration, err)
		}
		found := false
		for _, d := range devices {
			if d.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
		}
	}

	e.cfgMu.Lock()
	e.deviceName = name
	e.cfgMu.Unlock()
	return nil
}

// CurrentDeviceName returns the configured device name; empty means default.
func (e *Engine) CurrentDeviceName() string {
	e.cfgMu.Lock()
	defer e.cfgMu.Unlock()
	return e.deviceName
}

// ConfigureSilenceRemoval updates the gate settings used by the next session.
// Safe to call while capturing; the running session keeps its gate.
func (e *Engine) ConfigureSilenceRemoval(cfg SilenceConfig) {
	e.cfgMu.Lock()
	e.silence = cfg
	e.cfgMu.Unlock()
}

// SetSaveRecordings enables or disables the per-session WAV sink. An empty dir
// disables it.
func (e *Engine) SetSaveRecordings(dir string) {
	e.cfgMu.Lock()
	e.saveDir = dir
	e.cfgMu.Unlock()
}

// Start opens the native stream and begins capturing. Any residual buffer from
// a prior session is cleared, even if it was never drained.
func (e *Engine) Start() error {
	if e.capturing.Load() {
		return fmt.Errorf("capture already running")
	}

	e.cfgMu.Lock()
	silence := e.silence
	deviceName := e.deviceName
	saveDir := e.saveDir
	e.cfgMu.Unlock()

	stream, format, err := e.open(deviceName, e.process)
	if err != nil {
		return err
	}

	e.gate = NewGate(silence)
	e.format = format

	e.bufMu.Lock()
	e.buf = e.buf[:0]
	e.bufMu.Unlock()

	if saveDir != "" {
		start := time.Now()
		s, err := e.newSink(saveDir, format, start)
		if err != nil {
			// Persistence is best-effort; capture proceeds without it.
			e.log.Warn().Err(err).Msg("failed to open recording sink")
		} else {
			e.log.Debug().Str("path", s.Path()).Msg("recording session to file")
			e.sinkMu.Lock()
			e.sink = s
			e.sinkMu.Unlock()
		}
	}

	e.stream = stream
	e.capturing.Store(true)

	if err := stream.Start(); err != nil {
		e.capturing.Store(false)
		stream.Close()
		e.stream = nil
		e.closeSink()
		return fmt.Errorf("%w: %v", ErrDeviceOpen, err)
	}

	e.log.Debug().
		Int("sample_rate", format.SampleRate).
		Int("channels", format.Channels).
		Msg("capture started")
	return nil
}

// Stop halts the callback and finalizes the sink. Idempotent. The retained
// buffer is left intact for a subsequent Drain; only the next Start clears it.
func (e *Engine) Stop() {
	if !e.capturing.Swap(false) {
		return
	}

	if e.stream != nil {
		if err := e.stream.Stop(); err != nil {
			e.log.Warn().Err(err).Msg("error stopping input stream")
		}
		if err := e.stream.Close(); err != nil {
			e.log.Warn().Err(err).Msg("error closing input stream")
		}
		e.stream = nil
	}

	e.closeSink()
	e.log.Debug().Msg("capture stopped")
}

// Drain atomically takes ownership of the retained buffer and converts it to
// the desired rate and channel count. Returns nil when nothing was captured or
// the conversion produced nothing.
func (e *Engine) Drain(sampleRate, channels int) []float32 {
	e.bufMu.Lock()
	buf := e.buf
	e.buf = nil
	e.bufMu.Unlock()

	if len(buf) == 0 {
		return nil
	}

	out, err := Transform(buf, e.format, Format{SampleRate: sampleRate, Channels: channels})
	if err != nil {
		e.log.Warn().Err(err).Msg("audio transform failed; treating session as empty")
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Close stops any running session and releases the audio subsystem.
func (e *Engine) Close() {
	e.Stop()
	if e.terminate != nil {
		e.terminate()
	}
}

// process is the real-time callback, run once per delivered hardware buffer on
// the audio thread. It must only ever block on the two short-lived locks: the
// per-sample filtering loop runs outside both of them.
func (e *Engine) process(in []float32) {
	if !e.capturing.Load() {
		return
	}

	scratch := e.scratch[:0]
	for _, s := range in {
		if e.gate.Keep(s) {
			scratch = append(scratch, s)
		}
	}
	e.scratch = scratch

	if len(scratch) == 0 {
		return
	}

	e.bufMu.Lock()
	e.buf = append(e.buf, scratch...)
	e.bufMu.Unlock()

	e.sinkMu.Lock()
	if e.sink != nil {
		if err := e.sink.WriteBlock(scratch); err != nil {
			// A failing sink never costs in-memory audio. Persistence is
			// abandoned for the rest of the session rather than retried at
			// audio rate.
			e.log.Warn().Err(err).Msg("recording sink write failed; disabling persistence for this session")
			e.sink.Close()
			e.sink = nil
		}
	}
	e.sinkMu.Unlock()
}

func (e *Engine) closeSink() {
	e.sinkMu.Lock()
	s := e.sink
	e.sink = nil
	e.sinkMu.Unlock()

	if s != nil {
		if err := s.Close(); err != nil {
			e.log.Warn().Err(err).Str("path", s.Path()).Msg("error finalizing recording file")
		} else {
			e.log.Info().Str("path", s.Path()).Msg("saved recording")
		}
	}
}
