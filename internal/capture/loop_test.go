package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javier/voice-cv/internal/audio"
	"github.com/javier/voice-cv/internal/stt"
)

type fakeCapturer struct {
	samples  chan audio.Sample
	errs     chan error
	startErr error
	mu       sync.Mutex
	running  bool
}

func newFakeCapturer() *fakeCapturer {
	return &fakeCapturer{
		samples: make(chan audio.Sample, 16),
		errs:    make(chan error, 4),
	}
}

func (f *fakeCapturer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.running = true
	f.mu.Unlock()
	return nil
}

func (f *fakeCapturer) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
	return nil
}

func (f *fakeCapturer) Samples() <-chan audio.Sample { return f.samples }
func (f *fakeCapturer) Errors() <-chan error         { return f.errs }

func (f *fakeCapturer) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeCapturer) feed() {
	f.samples <- audio.Sample{Data: []byte{0, 0}, Timestamp: time.Now(), Frames: 1}
}

// scriptedEngine returns pre-programmed results, one per ProcessAudio call.
type scriptedEngine struct {
	mu      sync.Mutex
	script  []stt.Result
	calls   int
	final   stt.Result
	initErr error
}

func (s *scriptedEngine) Initialize(stt.Config) error { return s.initErr }

func (s *scriptedEngine) ProcessAudio(_ context.Context, _ []byte) (*stt.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.script) {
		s.calls++
		return &stt.Result{Partial: true}, nil
	}
	r := s.script[s.calls]
	s.calls++
	return &r, nil
}

func (s *scriptedEngine) FinalResult() (*stt.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.final
	s.final = stt.Result{}
	return &r, nil
}

func (s *scriptedEngine) Reset() error        { return nil }
func (s *scriptedEngine) Close() error        { return nil }
func (s *scriptedEngine) IsInitialized() bool { return true }

func (s *scriptedEngine) processCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func shortConfig() Config {
	return Config{
		SilenceTimeout: 150 * time.Millisecond,
		RestartDelay:   time.Millisecond,
		MinConfidence:  0.6,
	}
}

func collectEvents(l *Loop) []Event {
	var events []Event
	for ev := range l.Events() {
		events = append(events, ev)
	}
	return events
}

func TestRun_DeviceUnavailable(t *testing.T) {
	capturer := newFakeCapturer()
	capturer.startErr = errors.New("no capture devices found")
	loop := NewLoop(capturer, &scriptedEngine{}, shortConfig())

	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}

func TestRun_AccumulatesAcceptedFragments(t *testing.T) {
	capturer := newFakeCapturer()
	engine := &scriptedEngine{script: []stt.Result{
		{Text: "me llamo", Partial: true},
		{Text: "me llamo juan pérez", Partial: false, Confidence: 0.9},
		{Text: "trabajé en ventas", Partial: false, Confidence: 0.8},
	}}
	loop := NewLoop(capturer, engine, shortConfig())

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	capturer.feed()
	capturer.feed()
	time.Sleep(20 * time.Millisecond) // let the restart pause lapse
	capturer.feed()

	require.Eventually(t, func() bool {
		return loop.Transcript() == "me llamo juan pérez trabajé en ventas"
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	require.NoError(t, <-done)
	assert.Equal(t, "me llamo juan pérez trabajé en ventas", loop.Transcript())

	events := collectEvents(loop)
	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, EventPartial)
	assert.Contains(t, kinds, EventFragment)
	assert.Equal(t, EventSessionEnded, events[len(events)-1].Kind)
	assert.Equal(t, "me llamo juan pérez trabajé en ventas", events[len(events)-1].Transcript)
}

func TestRun_RejectsLowConfidenceFragments(t *testing.T) {
	capturer := newFakeCapturer()
	engine := &scriptedEngine{script: []stt.Result{
		{Text: "ruido de fondo", Partial: false, Confidence: 0.3},
	}}
	loop := NewLoop(capturer, engine, shortConfig())

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	capturer.feed()

	require.Eventually(t, func() bool {
		return engine.processCalls() >= 1
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSpeech)
	assert.Empty(t, loop.Transcript())
}

func TestRun_AcceptsUnknownConfidence(t *testing.T) {
	capturer := newFakeCapturer()
	engine := &scriptedEngine{script: []stt.Result{
		{Text: "hola", Partial: false, Confidence: 0},
	}}
	loop := NewLoop(capturer, engine, shortConfig())

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	capturer.feed()

	require.Eventually(t, func() bool {
		return loop.Transcript() == "hola"
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	require.NoError(t, <-done)
	assert.Equal(t, "hola", loop.Transcript())
}

func TestRun_StopBeforeRunNeverStartsCapture(t *testing.T) {
	capturer := newFakeCapturer()
	loop := NewLoop(capturer, &scriptedEngine{}, shortConfig())

	loop.Stop()
	err := loop.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSpeech)
	assert.False(t, capturer.IsRunning())
}

func TestRun_StopWithEmptyTranscriptReturnsNoSpeech(t *testing.T) {
	capturer := newFakeCapturer()
	loop := NewLoop(capturer, &scriptedEngine{}, shortConfig())

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	loop.Stop()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSpeech)
}

// Silence commits the pending phrase and restarts recognition; the session
// keeps running and later speech still lands in the transcript.
func TestRun_SilenceRestartsWithoutEndingSession(t *testing.T) {
	capturer := newFakeCapturer()
	engine := &scriptedEngine{
		final:  stt.Result{Text: "frase pendiente", Confidence: 0.9},
		script: []stt.Result{{Text: "frase nueva", Partial: false, Confidence: 0.9}},
	}
	loop := NewLoop(capturer, engine, shortConfig())

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	// No audio: the 150ms silence timer fires and flushes the engine.
	require.Eventually(t, func() bool {
		return loop.Transcript() == "frase pendiente"
	}, time.Second, 5*time.Millisecond)

	capturer.feed()
	require.Eventually(t, func() bool {
		return loop.Transcript() == "frase pendiente frase nueva"
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	require.NoError(t, <-done)
}

func TestRun_StopEndsSessionCleanly(t *testing.T) {
	capturer := newFakeCapturer()
	engine := &scriptedEngine{script: []stt.Result{
		{Text: "primera frase completa", Partial: false, Confidence: 0.9},
	}}
	cfg := shortConfig()
	cfg.SilenceTimeout = 5 * time.Second // only Stop can end this session
	loop := NewLoop(capturer, engine, cfg)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	capturer.feed()

	// Wait until the fragment is committed, then stop mid-session
	require.Eventually(t, func() bool {
		return loop.Transcript() != ""
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	require.NoError(t, <-done)
	assert.Equal(t, "primera frase completa", loop.Transcript())

	events := collectEvents(loop)
	assert.Equal(t, EventSessionEnded, events[len(events)-1].Kind)
}

func TestRun_RestartPauseDiscardsAudio(t *testing.T) {
	capturer := newFakeCapturer()
	engine := &scriptedEngine{script: []stt.Result{
		{Text: "frase uno", Partial: false, Confidence: 0.9},
		{Text: "frase dos", Partial: false, Confidence: 0.9},
	}}
	cfg := shortConfig()
	cfg.RestartDelay = 80 * time.Millisecond
	loop := NewLoop(capturer, engine, cfg)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	capturer.feed()
	time.Sleep(20 * time.Millisecond)
	capturer.feed() // lands inside the restart pause

	require.Eventually(t, func() bool {
		return loop.Transcript() == "frase uno"
	}, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond) // let the paused sample drain
	loop.Stop()

	require.NoError(t, <-done)
	assert.Equal(t, "frase uno", loop.Transcript())
	assert.Equal(t, 1, engine.processCalls())
}

func TestRun_ContextCancellation(t *testing.T) {
	capturer := newFakeCapturer()
	cfg := shortConfig()
	cfg.SilenceTimeout = 5 * time.Second
	loop := NewLoop(capturer, &scriptedEngine{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_UninitializedEngine(t *testing.T) {
	capturer := newFakeCapturer()
	loop := NewLoop(capturer, &uninitializedEngine{}, shortConfig())

	err := loop.Run(context.Background())
	assert.Error(t, err)
}

type uninitializedEngine struct{ scriptedEngine }

func (u *uninitializedEngine) IsInitialized() bool { return false }
