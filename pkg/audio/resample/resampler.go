// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Streams mono 16-bit PCM in chunks with seamless chunk boundaries
package resample

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64
	position   float64
	last       int16 // final input sample of the previous chunk
	primed     bool
	scratch    []int16
}

// New creates a new resampler
func New(inputRate, outputRate int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts input samples to the output rate and returns how many were written.
// Size output with OutputSamplesNeeded; input that does not fit is discarded.
func (r *Resampler) Resample(input []int16, output []int16) int {
	if len(input) == 0 {
		return 0
	}

	// Interpolation continues from the last sample of the previous chunk
	src := input
	if r.primed {
		r.scratch = append(r.scratch[:0], r.last)
		r.scratch = append(r.scratch, input...)
		src = r.scratch
	}

	outIdx := 0
	for outIdx < len(output) {
		inputIdx := int(r.position)
		if inputIdx >= len(src)-1 {
			break
		}

		frac := r.position - float64(inputIdx)
		interpolated := float64(src[inputIdx])*(1.0-frac) + float64(src[inputIdx+1])*frac
		output[outIdx] = int16(interpolated)

		outIdx++
		r.position += r.ratio
	}

	// Rebase onto the last input sample, which starts the next chunk
	r.position -= float64(len(src) - 1)
	if r.position < 0 {
		r.position = 0
	}
	r.last = src[len(src)-1]
	r.primed = true

	return outIdx
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0
	r.last = 0
	r.primed = false
}

// Ratio returns input samples consumed per output sample
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// OutputSamplesNeeded returns an output size that always fits the result for inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	return int(float64(inputSamples+1)/r.ratio) + 2
}
