//go:build headless

// ABOUTME: Device backends for builds without audio libraries
// ABOUTME: Oto and Malgo fail to open so callers fall back to the null output
package output

import (
	"errors"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// ErrHeadless is returned by device backends in headless builds
var ErrHeadless = errors.New("audio devices not available in headless build")

// Oto is unavailable in headless builds
type Oto struct{}

// NewOto creates a placeholder Oto output
func NewOto(opts Options) *Oto { return &Oto{} }

func (o *Oto) Open(sampleRate int) error { return ErrHeadless }
func (o *Oto) Write(s audio.Sample)      {}
func (o *Oto) Dropped() uint64           { return 0 }
func (o *Oto) Close() error              { return nil }

// Malgo is unavailable in headless builds
type Malgo struct{}

// NewMalgo creates a placeholder Malgo output
func NewMalgo(opts Options) *Malgo { return &Malgo{} }

func (m *Malgo) Open(sampleRate int) error { return ErrHeadless }
func (m *Malgo) Write(s audio.Sample)      {}
func (m *Malgo) Dropped() uint64           { return 0 }
func (m *Malgo) Close() error              { return nil }
