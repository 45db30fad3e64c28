// ABOUTME: Audio output interface definition
// ABOUTME: DAC backends that play pipeline samples on a host audio device
package output

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xlaudio/xlaudio-go/pkg/hal"
)

// Output is a DAC backed by a host playback device
type Output interface {
	hal.DAC

	// Open starts the device at the pipeline sample rate. Samples are mono.
	Open(sampleRate int) error

	// Close releases output resources
	Close() error

	// Dropped returns how many samples were discarded because the device fell behind
	Dropped() uint64
}

// Options tunes a backend
type Options struct {
	// Pace makes Write wait for room instead of dropping. Polling mode has no clock and
	// relies on this to run at the device rate.
	Pace bool

	// BufferMillis is the queue length between the pipeline and the device
	BufferMillis int
}

// DefaultBufferMillis is the queue length used when Options leaves it unset
const DefaultBufferMillis = 100

// Backends lists the names New accepts
var Backends = []string{"oto", "malgo", "null"}

// IsBackend reports whether New accepts name
func IsBackend(name string) bool {
	return slices.Contains(Backends, name)
}

// New creates an output by backend name
func New(backend string, opts Options) (Output, error) {
	switch backend {
	case "oto":
		return NewOto(opts), nil
	case "malgo":
		return NewMalgo(opts), nil
	case "null":
		return NewNull(opts), nil
	default:
		return nil, fmt.Errorf("unknown output backend %q (available: %s)", backend, strings.Join(Backends, ", "))
	}
}
