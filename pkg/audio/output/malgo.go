//go:build !headless

// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a data callback draining the sample queue
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	opts       Options
	q          *queue
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	ready      bool
	mu         sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo(opts Options) *Malgo {
	return &Malgo{opts: opts}
}

// Open initializes the output device
func (m *Malgo) Open(sampleRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil && m.sampleRate == sampleRate {
		log.Printf("Audio output already initialized with same format, reusing device")
		return nil
	}

	if m.device != nil {
		log.Printf("Format change detected (%dHz -> %dHz), reinitializing device", m.sampleRate, sampleRate)
		m.closeDevice()
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	m.q = newQueue(sampleRate, m.opts)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	q := m.q
	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			q.fill16(pOutputSample[:int(frameCount)*2])
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.sampleRate = sampleRate
	m.ready = true

	log.Printf("Audio output initialized: %dHz, mono (malgo/S16)", sampleRate)

	return nil
}

func (m *Malgo) Write(s audio.Sample) {
	if !m.ready {
		return
	}
	m.q.write(s)
}

func (m *Malgo) Dropped() uint64 {
	if m.q == nil {
		return 0
	}
	return m.q.dropped.Load()
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.q != nil {
		m.q.closed.Store(true)
	}
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
		m.ready = false
	}
}
