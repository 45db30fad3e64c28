// ABOUTME: Fixed-capacity sample buffer
// ABOUTME: Zero-initialised block storage sized once at configuration time
package audio

// SampleBuffer holds one block of samples. Its length never changes after creation.
type SampleBuffer struct {
	samples []Sample
}

// NewSampleBuffer returns a zero-filled buffer of n samples
func NewSampleBuffer(n int) *SampleBuffer {
	if n < 0 {
		n = 0
	}
	return &SampleBuffer{samples: make([]Sample, n)}
}

// Samples returns the backing slice; callers mutate it in place
func (b *SampleBuffer) Samples() []Sample {
	return b.samples
}

// Len returns the capacity fixed at creation
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// Zero clears every sample
func (b *SampleBuffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// CopyFrom copies as many samples from src as fit and returns the count
func (b *SampleBuffer) CopyFrom(src []Sample) int {
	return copy(b.samples, src)
}

// Snapshot returns a copy of the contents
func (b *SampleBuffer) Snapshot() []Sample {
	s := make([]Sample, len(b.samples))
	copy(s, b.samples)
	return s
}
