//go:build !headless

// ABOUTME: Microphone ADC using malgo capture
// ABOUTME: The capture callback queues samples; each conversion takes the oldest
package input

import (
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// Microphone captures mono 16-bit audio from the default input device
type Microphone struct {
	malgoCtx  *malgo.AllocatedContext
	device    *malgo.Device
	ring      *audio.RingBuffer
	overflows atomic.Uint64
	underruns atomic.Uint64

	mu     sync.Mutex
	result audio.Sample
}

// NewMicrophone creates an unopened microphone input
func NewMicrophone() *Microphone {
	return &Microphone{result: audio.MidScale}
}

// Open starts capture at sampleRate
func (m *Microphone) Open(sampleRate int) error {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	// 100ms of slack between the device and the sample clock
	m.ring = audio.NewRingBuffer(sampleRate / 10)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	ring := m.ring
	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			for i := 0; i < int(frameCount) && i*2+1 < len(pInputSamples); i++ {
				v := int16(binary.LittleEndian.Uint16(pInputSamples[i*2:]))
				if !ring.Push(audio.SampleFromInt16(v)) {
					m.overflows.Add(1)
				}
			}
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device

	log.Printf("Audio input initialized: %dHz, mono (malgo/S16)", sampleRate)
	return nil
}

func (m *Microphone) Trigger() {
	if m.ring == nil {
		return
	}
	s, ok := m.ring.Pop()
	if !ok {
		m.underruns.Add(1)
		return
	}
	m.mu.Lock()
	m.result = s
	m.mu.Unlock()
}

func (m *Microphone) Busy() bool { return false }

func (m *Microphone) Result() audio.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Underruns returns how many conversions found no captured sample
func (m *Microphone) Underruns() uint64 {
	return m.underruns.Load()
}

// Close stops capture
func (m *Microphone) Close() error {
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: capture device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
	}
	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	if n := m.overflows.Load(); n > 0 {
		log.Printf("Microphone dropped %d samples while the pipeline was behind", n)
	}
	return nil
}
