// ABOUTME: Fatal fault state for the pipeline
// ABOUTME: A faulted controller signals on its error pin until cancelled and never processes audio
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xlaudio/xlaudio-go/pkg/hal"
)

var (
	// ErrConfig wraps every configuration failure
	ErrConfig = errors.New("configuration error")

	// ErrFault matches any FaultError
	ErrFault = errors.New("pipeline fault")
)

// FaultError is the unrecoverable state entered on a configuration error
type FaultError struct {
	Cause error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("pipeline fault: %v", e.Cause)
}

func (e *FaultError) Is(target error) bool {
	return target == ErrFault
}

func (e *FaultError) Unwrap() error {
	return e.Cause
}

// halt blinks pin until ctx is done. The pin is left low.
func halt(ctx context.Context, pin hal.Pin, halfPeriod time.Duration) {
	if halfPeriod <= 0 {
		halfPeriod = DefaultFaultBlink
	}

	ticker := time.NewTicker(halfPeriod)
	defer ticker.Stop()

	on := true
	pin.High()
	for {
		select {
		case <-ctx.Done():
			pin.Low()
			return
		case <-ticker.C:
			on = !on
			if on {
				pin.High()
			} else {
				pin.Low()
			}
		}
	}
}
