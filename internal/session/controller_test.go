package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/whisprhq/whispr/internal/whisper"
)

// Mock implementations for testing

type mockEngine struct {
	mu       sync.Mutex
	startErr error
	starts   int
	stops    int
	drains   int
	samples  []float32
}

func (m *mockEngine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	return m.startErr
}

func (m *mockEngine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

func (m *mockEngine) Drain(sampleRate, channels int) []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drains++
	return m.samples
}

type mockTranscriber struct {
	mu       sync.Mutex
	calls    int
	got      []float32
	segments []whisper.Segment
	err      error
}

func (m *mockTranscriber) Transcribe(samples []float32) ([]whisper.Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.got = samples
	return m.segments, m.err
}

func (m *mockTranscriber) Close() error { return nil }

type mockNotifier struct {
	mu       sync.Mutex
	statuses []Status
}

func (m *mockNotifier) Notify(s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, s)
}

func (m *mockNotifier) all() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Status(nil), m.statuses...)
}

type mockWriter struct {
	mu     sync.Mutex
	writes [][]whisper.Segment
	err    error
}

func (m *mockWriter) WriteSegments(segments []whisper.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, segments)
	return m.err
}

func newTestController(engine *mockEngine, stt *mockTranscriber, cfg Config) (*Controller, *mockNotifier, *mockWriter) {
	notifier := &mockNotifier{}
	writer := &mockWriter{}
	c := New(Deps{
		Engine:      engine,
		Transcriber: stt,
		Output:      writer,
		Notifier:    notifier,
		Logger:      zerolog.Nop(),
		Config:      cfg,
	})
	return c, notifier, writer
}

func TestPressStartsSession(t *testing.T) {
	engine := &mockEngine{}
	c, notifier, _ := newTestController(engine, &mockTranscriber{}, Config{TargetRate: 16000, TargetChannels: 1})

	c.OnHotkey(true)

	if engine.starts != 1 {
		t.Fatalf("engine started %d times, want 1", engine.starts)
	}
	if !c.Recording() {
		t.Error("controller should be recording after press")
	}
	statuses := notifier.all()
	if len(statuses) != 1 || statuses[0] != StatusListening {
		t.Errorf("statuses = %v, want [Listening]", statuses)
	}
}

func TestDuplicatePressIsNoop(t *testing.T) {
	engine := &mockEngine{}
	c, _, _ := newTestController(engine, &mockTranscriber{}, Config{})

	c.OnHotkey(true)
	c.OnHotkey(true)

	if engine.starts != 1 {
		t.Fatalf("engine started %d times after duplicate press, want 1", engine.starts)
	}
}

func TestSpuriousReleaseIsNoop(t *testing.T) {
	engine := &mockEngine{}
	stt := &mockTranscriber{}
	c, notifier, _ := newTestController(engine, stt, Config{})

	c.OnHotkey(false)

	if engine.stops != 0 || stt.calls != 0 {
		t.Error("release while idle must not touch engine or transcriber")
	}
	if len(notifier.all()) != 0 {
		t.Error("release while idle must not emit status")
	}
}

func TestShortSessionDiscardsWithoutTranscribing(t *testing.T) {
	engine := &mockEngine{samples: []float32{0.1, 0.2}}
	stt := &mockTranscriber{}
	c, notifier, _ := newTestController(engine, stt, Config{
		MinDuration:    time.Second,
		TargetRate:     16000,
		TargetChannels: 1,
	})

	c.OnHotkey(true)
	c.OnHotkey(false) // well under the 1s minimum

	if stt.calls != 0 {
		t.Fatalf("transcriber called %d times for a discarded session, want 0", stt.calls)
	}
	if engine.drains != 0 {
		t.Errorf("discarded session must not drain, drained %d times", engine.drains)
	}
	statuses := notifier.all()
	if len(statuses) != 2 || statuses[1] != StatusReady {
		t.Errorf("statuses = %v, want [Listening Ready]", statuses)
	}
	if c.permit.Held() {
		t.Error("permit must be released after discard")
	}
}

func TestSuccessfulSessionFlow(t *testing.T) {
	segments := []whisper.Segment{{Start: 0, End: time.Second, Text: "hello world"}}
	engine := &mockEngine{samples: []float32{0.1, 0.2, 0.3}}
	stt := &mockTranscriber{segments: segments}
	c, notifier, writer := newTestController(engine, stt, Config{
		TargetRate:     16000,
		TargetChannels: 1,
	})

	c.OnHotkey(true)
	c.OnHotkey(false)

	if engine.stops != 1 || engine.drains != 1 {
		t.Fatalf("engine stops=%d drains=%d, want 1/1", engine.stops, engine.drains)
	}
	if stt.calls != 1 {
		t.Fatalf("transcriber called %d times, want 1", stt.calls)
	}
	if len(stt.got) != 3 {
		t.Errorf("transcriber received %d samples, want 3", len(stt.got))
	}
	if len(writer.writes) != 1 || writer.writes[0][0].Text != "hello world" {
		t.Errorf("writer got %v", writer.writes)
	}
	want := []Status{StatusListening, StatusTranscribing, StatusReady}
	statuses := notifier.all()
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status %d = %v, want %v", i, statuses[i], want[i])
		}
	}
	if c.permit.Held() {
		t.Error("permit must be released after a completed session")
	}
	if c.Recording() {
		t.Error("controller must return to idle")
	}
}

func TestEmptyDrainSkipsTranscription(t *testing.T) {
	engine := &mockEngine{samples: nil}
	stt := &mockTranscriber{}
	c, notifier, _ := newTestController(engine, stt, Config{TargetRate: 16000, TargetChannels: 1})

	c.OnHotkey(true)
	c.OnHotkey(false)

	if stt.calls != 0 {
		t.Fatalf("transcriber called %d times for an empty drain, want 0", stt.calls)
	}
	statuses := notifier.all()
	if statuses[len(statuses)-1] != StatusReady {
		t.Errorf("final status = %v, want Ready", statuses[len(statuses)-1])
	}
	if c.permit.Held() {
		t.Error("permit must be released after an empty session")
	}
}

func TestTranscriptionErrorStillReleases(t *testing.T) {
	engine := &mockEngine{samples: []float32{0.1}}
	stt := &mockTranscriber{err: errors.New("model exploded")}
	c, notifier, writer := newTestController(engine, stt, Config{TargetRate: 16000, TargetChannels: 1})

	c.OnHotkey(true)
	c.OnHotkey(false)

	if len(writer.writes) != 0 {
		t.Error("failed transcription must not reach the writer")
	}
	statuses := notifier.all()
	if statuses[len(statuses)-1] != StatusReady {
		t.Errorf("final status = %v, want Ready", statuses[len(statuses)-1])
	}
	if c.permit.Held() {
		t.Error("permit must be released after a failed transcription")
	}
}

func TestEngineStartFailureReleasesPermit(t *testing.T) {
	engine := &mockEngine{startErr: errors.New("device busy")}
	c, notifier, _ := newTestController(engine, &mockTranscriber{}, Config{})

	c.OnHotkey(true)

	if c.Recording() {
		t.Error("controller must stay idle when the engine fails to start")
	}
	if c.permit.Held() {
		t.Error("permit must be released when the engine fails to start")
	}
	if len(notifier.all()) != 0 {
		t.Error("no status should be emitted for a failed start")
	}
}

func TestHeldPermitBlocksSecondSession(t *testing.T) {
	permit := &Permit{}
	engineA := &mockEngine{samples: []float32{0.1}}
	engineB := &mockEngine{}

	a := New(Deps{
		Engine:      engineA,
		Transcriber: &mockTranscriber{},
		Permit:      permit,
		Logger:      zerolog.Nop(),
		Config:      Config{TargetRate: 16000, TargetChannels: 1},
	})
	b := New(Deps{
		Engine:      engineB,
		Transcriber: &mockTranscriber{},
		Permit:      permit,
		Logger:      zerolog.Nop(),
		Config:      Config{TargetRate: 16000, TargetChannels: 1},
	})

	a.OnHotkey(true)
	b.OnHotkey(true) // permit held by a: ignored

	if engineB.starts != 0 {
		t.Fatalf("second session started %d times while permit held, want 0", engineB.starts)
	}

	a.OnHotkey(false)

	// First session ran to completion untouched by the rejected press.
	if engineA.stops != 1 || engineA.drains != 1 {
		t.Errorf("first session stops=%d drains=%d, want 1/1", engineA.stops, engineA.drains)
	}
	if permit.Held() {
		t.Error("permit must be free after the first session finishes")
	}

	b.OnHotkey(true)
	if engineB.starts != 1 {
		t.Error("second session should start once the permit is free")
	}
}
