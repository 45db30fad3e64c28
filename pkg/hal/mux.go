// ABOUTME: Input multiplexer routing the selected source to a converter
// ABOUTME: Maps the primary and auxiliary channels onto host sample sources
package hal

import (
	"fmt"
	"sync/atomic"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// Mux is an ADC that forwards to the converter wired to the selected input
type Mux struct {
	Inputs map[audio.InputSource]ADC

	selected atomic.Pointer[ADC]
}

// Select routes conversions to the converter for source
func (m *Mux) Select(source audio.InputSource) error {
	if err := source.Validate(); err != nil {
		return err
	}
	adc, ok := m.Inputs[source]
	if !ok || adc == nil {
		return fmt.Errorf("no converter wired to %v input", source)
	}
	m.selected.Store(&adc)
	return nil
}

func (m *Mux) current() ADC {
	if p := m.selected.Load(); p != nil {
		return *p
	}
	return nil
}

func (m *Mux) Trigger() {
	if adc := m.current(); adc != nil {
		adc.Trigger()
	}
}

func (m *Mux) Busy() bool {
	if adc := m.current(); adc != nil {
		return adc.Busy()
	}
	return false
}

func (m *Mux) Result() audio.Sample {
	if adc := m.current(); adc != nil {
		return adc.Result()
	}
	return audio.MidScale
}
