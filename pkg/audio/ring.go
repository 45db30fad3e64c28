// ABOUTME: Thread-safe circular buffer for samples
// ABOUTME: Decouples tick-paced converters from host audio device callbacks
package audio

import "sync"

// RingBuffer is a fixed-capacity FIFO of samples
type RingBuffer struct {
	buffer   []Sample
	readPos  int
	writePos int
	size     int
	count    int // Number of samples currently in buffer
	mu       sync.Mutex
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{
		buffer: make([]Sample, capacity),
		size:   capacity,
	}
}

// Push appends one sample, returning false when full
func (rb *RingBuffer) Push(s Sample) bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == rb.size {
		return false
	}
	rb.buffer[rb.writePos] = s
	rb.writePos = (rb.writePos + 1) % rb.size
	rb.count++
	return true
}

// Pop removes the oldest sample, returning false when empty
func (rb *RingBuffer) Pop() (Sample, bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.count == 0 {
		return 0, false
	}
	s := rb.buffer[rb.readPos]
	rb.readPos = (rb.readPos + 1) % rb.size
	rb.count--
	return s, true
}

// Write adds samples to the ring buffer and returns how many fit
func (rb *RingBuffer) Write(samples []Sample) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for i := 0; i < len(samples) && rb.count < rb.size; i++ {
		rb.buffer[rb.writePos] = samples[i]
		rb.writePos = (rb.writePos + 1) % rb.size
		rb.count++
		written++
	}
	return written
}

// Read retrieves samples from the ring buffer. Slots left over on underrun are set to fill.
func (rb *RingBuffer) Read(samples []Sample, fill Sample) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for i := 0; i < len(samples) && rb.count > 0; i++ {
		samples[i] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}

	for i := read; i < len(samples); i++ {
		samples[i] = fill
	}

	return read
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Free returns the number of free slots in the buffer
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size - rb.count
}
