// ABOUTME: Hardware collaborator interfaces for the sampling pipeline
// ABOUTME: Converters, telemetry pins, and the sample timing source
package hal

import (
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
)

// ADC is the analog-to-digital converter
type ADC interface {
	// Trigger starts one conversion. Timer-driven modes call it once per tick.
	Trigger()

	// Busy reports whether the triggered conversion is still running
	Busy() bool

	// Result returns the most recently completed conversion
	Result() audio.Sample
}

// Selector is implemented by converters that can switch analog channels
type Selector interface {
	Select(source audio.InputSource) error
}

// DAC is the digital-to-analog converter
type DAC interface {
	// Write emits one sample. It must not block when called from a tick.
	Write(s audio.Sample)
}

// Pin is a single digital output used for telemetry
type Pin interface {
	High()
	Low()
}

// Clock is the periodic sample timing source
type Clock interface {
	// Start invokes tick once per interval until Stop is called
	Start(interval time.Duration, tick func()) error

	// Stop halts tick delivery and waits for the dispatcher to exit
	Stop()
}

// NopPin discards all transitions
type NopPin struct{}

func (NopPin) High() {}
func (NopPin) Low()  {}
