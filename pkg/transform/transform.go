// ABOUTME: Example sample and block transforms
// ABOUTME: Gain, inversion, DC blocking, and moving average on offset-binary samples
package transform

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/pipeline"
)

// Identity passes samples through unchanged
func Identity() pipeline.SampleTransform {
	return func(s audio.Sample) audio.Sample { return s }
}

// Copy is the identity block transform
func Copy(in, out []audio.Sample) {
	copy(out, in)
}

// Gain scales around mid-scale and clips to the converter range
func Gain(g float64) pipeline.SampleTransform {
	return func(s audio.Sample) audio.Sample {
		return audio.SampleFromFloat(audio.SampleToFloat(s) * g)
	}
}

// Invert mirrors samples around mid-scale
func Invert() pipeline.SampleTransform {
	return func(s audio.Sample) audio.Sample {
		v := -int32(audio.SampleToInt16(s))
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		return audio.SampleFromInt16(int16(v))
	}
}

// DCBlocker removes the constant offset with a one-pole high-pass: y = x - x1 + pole*y1.
// The returned transform keeps state and must not be shared between pipelines.
func DCBlocker(pole float64) pipeline.SampleTransform {
	var x1, y1 float64
	return func(s audio.Sample) audio.Sample {
		x := audio.SampleToFloat(s)
		y := x - x1 + pole*y1
		x1, y1 = x, y
		return audio.SampleFromFloat(y)
	}
}

// MovingAverage averages the last n samples. The returned transform keeps state.
func MovingAverage(n int) pipeline.SampleTransform {
	if n < 1 {
		n = 1
	}
	window := make([]int32, n)
	var sum int32
	var pos int
	return func(s audio.Sample) audio.Sample {
		v := int32(audio.SampleToInt16(s))
		sum += v - window[pos]
		window[pos] = v
		pos = (pos + 1) % n
		return audio.SampleFromInt16(int16(sum / int32(n)))
	}
}

// Block applies a sample transform to every sample of a block
func Block(fn pipeline.SampleTransform) pipeline.BlockTransform {
	return func(in, out []audio.Sample) {
		for i, s := range in {
			out[i] = fn(s)
		}
	}
}

// constructors builds a fresh transform for each name so stateful transforms are never shared
var constructors = map[string]func() pipeline.SampleTransform{
	"identity": Identity,
	"gain":     func() pipeline.SampleTransform { return Gain(2) },
	"half":     func() pipeline.SampleTransform { return Gain(0.5) },
	"invert":   Invert,
	"dcblock":  func() pipeline.SampleTransform { return DCBlocker(0.995) },
	"average":  func() pipeline.SampleTransform { return MovingAverage(8) },
}

// Names lists the registered transforms in order
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a new sample transform by name
func Lookup(name string) (pipeline.SampleTransform, error) {
	ctor, ok := constructors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown transform %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// LookupBlock returns a new block transform by name. Identity maps to a plain copy.
func LookupBlock(name string) (pipeline.BlockTransform, error) {
	if strings.ToLower(name) == "identity" {
		return Copy, nil
	}
	fn, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return Block(fn), nil
}
