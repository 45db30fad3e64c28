//go:build headless

// ABOUTME: Microphone placeholder for builds without audio libraries
// ABOUTME: Open always fails; conversions return mid-scale
package input

import (
	"errors"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// ErrHeadless is returned when opening a capture device in a headless build
var ErrHeadless = errors.New("audio capture not available in headless build")

// Microphone is unavailable in headless builds
type Microphone struct{}

// NewMicrophone creates a placeholder microphone
func NewMicrophone() *Microphone { return &Microphone{} }

func (m *Microphone) Open(sampleRate int) error { return ErrHeadless }
func (m *Microphone) Trigger()                  {}
func (m *Microphone) Busy() bool                { return false }
func (m *Microphone) Result() audio.Sample      { return audio.MidScale }
func (m *Microphone) Underruns() uint64         { return 0 }
func (m *Microphone) Close() error              { return nil }
