// Package capture runs the dictation session: it pumps microphone audio
// through a recognition engine and accumulates accepted fragments into the
// session transcript. Sustained silence restarts the recognition engine
// without ending the session; only Stop or context cancellation tears the
// session down. Low confidence fragments are discarded so mumbled noise
// does not pollute the résumé draft.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/javier/voice-cv/internal/audio"
	"github.com/javier/voice-cv/internal/stt"
)

// EventKind identifies what a session Event reports.
type EventKind int

const (
	// EventPartial reports interim text while a phrase is in progress.
	EventPartial EventKind = iota
	// EventFragment reports a final accepted fragment.
	EventFragment
	// EventSessionEnded reports that the session finished.
	EventSessionEnded
)

// Event is a dictation session notification.
type Event struct {
	Kind       EventKind
	Text       string
	Confidence float64
	// Transcript is the accumulated session transcript at emit time.
	Transcript string
}

// Config tunes the session loop. Zero values take the defaults.
type Config struct {
	// SilenceTimeout restarts recognition after this much continuous
	// silence, committing any pending phrase. It never ends the session.
	SilenceTimeout time.Duration

	// RestartDelay pauses recognition after each completed phrase before
	// the engine accepts the next one.
	RestartDelay time.Duration

	// MinConfidence rejects final fragments at or below this confidence.
	// Fragments with unknown confidence (0) are accepted.
	MinConfidence float64
}

const (
	defaultSilenceTimeout = 4 * time.Second
	defaultRestartDelay   = 120 * time.Millisecond
	defaultMinConfidence  = 0.6
)

func (c Config) withDefaults() Config {
	if c.SilenceTimeout <= 0 {
		c.SilenceTimeout = defaultSilenceTimeout
	}
	if c.RestartDelay <= 0 {
		c.RestartDelay = defaultRestartDelay
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = defaultMinConfidence
	}
	return c
}

// errSessionComplete signals a normal end of session inside the loop.
var errSessionComplete = errors.New("session complete")

// Loop drives one dictation session. A Loop is single-use: create a new one
// for each session.
type Loop struct {
	capturer audio.Capturer
	engine   stt.Engine
	config   Config
	events   chan Event
	buffer   TranscriptBuffer

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewLoop creates a dictation session over the given capturer and engine.
func NewLoop(capturer audio.Capturer, engine stt.Engine, config Config) *Loop {
	return &Loop{
		capturer: capturer,
		engine:   engine,
		config:   config.withDefaults(),
		events:   make(chan Event, 64),
	}
}

// Events returns the session event channel. It is closed when Run returns.
func (l *Loop) Events() <-chan Event {
	return l.events
}

// Transcript returns the accumulated transcript so far.
func (l *Loop) Transcript() string {
	return l.buffer.String()
}

// Stop ends the session. Any pending phrase restart is cancelled; no further
// fragments are accepted after Stop returns and the loop observes it.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Run captures and recognizes speech until Stop is called or ctx is
// cancelled. Silence only restarts the underlying recognition. Returns
// ErrNoSpeech when the session ends with an empty transcript and
// ErrDeviceUnavailable when capture cannot start. The final transcript is
// available via Transcript.
func (l *Loop) Run(ctx context.Context) error {
	if l.engine == nil || !l.engine.IsInitialized() {
		return fmt.Errorf("recognition engine not initialized")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	l.cancel = cancel
	stopped := l.stopped
	l.mu.Unlock()

	defer close(l.events)

	// Stop may land before Run registers its cancel func.
	if stopped {
		return ErrNoSpeech
	}

	if err := l.capturer.Start(runCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer func() { _ = l.capturer.Stop() }()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return l.processSamples(gctx) })
	g.Go(func() error {
		l.drainCaptureErrors(gctx)
		return nil
	})

	err := g.Wait()
	switch {
	case errors.Is(err, errSessionComplete),
		errors.Is(err, context.Canceled) && l.wasStopped():
		if l.buffer.Len() == 0 {
			return ErrNoSpeech
		}
		return nil
	default:
		return err
	}
}

func (l *Loop) processSamples(ctx context.Context) error {
	silence := time.NewTimer(l.config.SilenceTimeout)
	defer silence.Stop()

	// During the restart pause after a completed phrase, audio is discarded.
	var pauseUntil time.Time

	for {
		select {
		case <-ctx.Done():
			l.flushPending()
			l.emitSessionEnded()
			return ctx.Err()

		case <-silence.C:
			// Soft stop: commit the pending phrase and restart
			// recognition. Only Stop ends the session.
			l.flushPending()
			_ = l.engine.Reset()
			pauseUntil = time.Now().Add(l.config.RestartDelay)
			silence.Reset(l.config.SilenceTimeout)

		case sample, ok := <-l.capturer.Samples():
			if !ok {
				l.flushPending()
				l.emitSessionEnded()
				return errSessionComplete
			}

			if time.Now().Before(pauseUntil) {
				continue
			}

			result, err := l.engine.ProcessAudio(ctx, sample.Data)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				return fmt.Errorf("recognition failed: %w", err)
			}

			if result.Partial {
				if result.Text != "" {
					l.resetTimer(silence)
					l.emit(ctx, Event{
						Kind:       EventPartial,
						Text:       result.Text,
						Transcript: l.buffer.String(),
					})
				}
				continue
			}

			// Phrase complete: commit it and pause before the next one
			if result.Text != "" {
				l.resetTimer(silence)
				if l.accepts(result.Confidence) {
					l.buffer.Append(result.Text)
					l.emit(ctx, Event{
						Kind:       EventFragment,
						Text:       result.Text,
						Confidence: result.Confidence,
						Transcript: l.buffer.String(),
					})
				}
			}
			_ = l.engine.Reset()
			pauseUntil = time.Now().Add(l.config.RestartDelay)
		}
	}
}

// flushPending commits whatever the engine still holds for the current
// phrase. Best effort: a session end must not fail on a flush error.
func (l *Loop) flushPending() {
	result, err := l.engine.FinalResult()
	if err != nil || result == nil {
		return
	}
	if result.Text != "" && l.accepts(result.Confidence) {
		l.buffer.Append(result.Text)
		l.emitNonBlocking(Event{
			Kind:       EventFragment,
			Text:       result.Text,
			Confidence: result.Confidence,
			Transcript: l.buffer.String(),
		})
	}
}

func (l *Loop) drainCaptureErrors(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-l.capturer.Errors():
			if !ok {
				return
			}
			log.Printf("capture: %v", err)
		}
	}
}

func (l *Loop) accepts(confidence float64) bool {
	return confidence == 0 || confidence > l.config.MinConfidence
}

func (l *Loop) resetTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(l.config.SilenceTimeout)
}

func (l *Loop) emit(ctx context.Context, ev Event) {
	select {
	case l.events <- ev:
	case <-ctx.Done():
	}
}

func (l *Loop) emitNonBlocking(ev Event) {
	select {
	case l.events <- ev:
	default:
	}
}

func (l *Loop) emitSessionEnded() {
	l.emitNonBlocking(Event{
		Kind:       EventSessionEnded,
		Transcript: l.buffer.String(),
	})
}

func (l *Loop) wasStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}
