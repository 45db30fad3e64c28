// ABOUTME: Observable telemetry pin
// ABOUTME: Tracks level and transition count so status can be displayed remotely
package hal

import "sync/atomic"

// LED is a Pin whose level can be observed from another goroutine
type LED struct {
	level   atomic.Bool
	toggles atomic.Uint64
}

func (l *LED) High() {
	if !l.level.Swap(true) {
		l.toggles.Add(1)
	}
}

func (l *LED) Low() {
	if l.level.Swap(false) {
		l.toggles.Add(1)
	}
}

// Level reports whether the pin is currently high
func (l *LED) Level() bool {
	return l.level.Load()
}

// Toggles returns how many level changes have occurred
func (l *LED) Toggles() uint64 {
	return l.toggles.Load()
}
