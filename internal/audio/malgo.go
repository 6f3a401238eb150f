package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

// MalgoCapturer implements Capturer using the default system input device.
type MalgoCapturer struct {
	config   CaptureConfig
	device   *malgo.Device
	malgoCtx *malgo.AllocatedContext
	samples  chan Sample
	errors   chan error
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewMalgoCapturer creates a malgo-based audio capturer.
func NewMalgoCapturer(config CaptureConfig) (*MalgoCapturer, error) {
	return &MalgoCapturer{
		config:   config,
		samples:  make(chan Sample, config.SampleBufferSize),
		errors:   make(chan error, 10),
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins audio capture.
func (m *MalgoCapturer) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("capturer is already running")
	}
	m.running = true
	m.mu.Unlock()

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		m.setStopped()
		return fmt.Errorf("failed to initialize audio context: %w", err)
	}
	m.malgoCtx = malgoCtx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = m.config.Channels
	deviceConfig.SampleRate = m.config.SampleRate
	deviceConfig.PeriodSizeInFrames = m.config.BufferFrames

	var callbacks malgo.DeviceCallbacks
	callbacks.Data = func(_, pInputSamples []byte, framecount uint32) {
		// Copy out of the device buffer before handing off
		dataCopy := make([]byte, len(pInputSamples))
		copy(dataCopy, pInputSamples)

		sample := Sample{
			Data:      dataCopy,
			Timestamp: time.Now(),
			Frames:    framecount,
		}

		select {
		case m.samples <- sample:
		default:
			select {
			case m.errors <- fmt.Errorf("sample buffer overflow, dropping frames"):
			default:
			}
		}
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		m.malgoCtx.Uninit()
		m.malgoCtx.Free()
		m.setStopped()
		return fmt.Errorf("failed to initialize input device: %w", err)
	}
	m.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		m.malgoCtx.Uninit()
		m.malgoCtx.Free()
		m.setStopped()
		return fmt.Errorf("failed to start input device: %w", err)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		select {
		case <-ctx.Done():
			_ = m.Stop()
		case <-m.stopChan:
		}
	}()

	return nil
}

// Stop stops audio capture and closes the sample channel.
func (m *MalgoCapturer) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopChan)

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			return fmt.Errorf("failed to stop input device: %w", err)
		}
		m.device.Uninit()
	}

	if m.malgoCtx != nil {
		m.malgoCtx.Uninit()
		m.malgoCtx.Free()
	}

	m.wg.Wait()

	close(m.samples)
	close(m.errors)

	return nil
}

// Samples returns the channel that receives captured audio.
func (m *MalgoCapturer) Samples() <-chan Sample {
	return m.samples
}

// Errors returns the channel that receives capture errors.
func (m *MalgoCapturer) Errors() <-chan error {
	return m.errors
}

// IsRunning reports whether capture is currently active.
func (m *MalgoCapturer) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *MalgoCapturer) setStopped() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}
