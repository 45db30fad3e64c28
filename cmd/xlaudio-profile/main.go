// ABOUTME: Transform profiler command
// ABOUTME: Prints the median cost of each transform against the per-sample and per-block budget
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/xlaudio/xlaudio-go/pkg/audio"
	"github.com/xlaudio/xlaudio-go/pkg/profile"
	"github.com/xlaudio/xlaudio-go/pkg/transform"
)

var (
	rate      = flag.Int("rate", 8000, "Sample rate in Hz for the budget column")
	length    = flag.Int("length", 32, "Block length in samples")
	trials    = flag.Int("trials", profile.DefaultTrials, "Trials per measurement (median is reported)")
	calibrate = flag.Uint("calibrate", 0, "Also measure a busy-wait of this many counter ticks")
)

func main() {
	flag.Parse()

	sampleRate, err := audio.ParseSampleRate(*rate)
	if err != nil {
		log.Fatalf("Invalid rate: %v", err)
	}
	if _, err := audio.ParseBufferLength(*length); err != nil {
		log.Fatalf("Invalid length: %v", err)
	}

	p := profile.New(profile.NewHostCounter())
	p.Trials = *trials

	sampleBudget := sampleRate.Interval().Nanoseconds()
	blockBudget := sampleBudget * int64(*length)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "transform\tsample ns\tload\tblock ns\tload\n")

	for _, name := range transform.Names() {
		fn, err := transform.Lookup(name)
		if err != nil {
			log.Fatalf("Lookup %s: %v", name, err)
		}
		sample, err := p.MeasureSample(fn)
		if err != nil {
			log.Fatalf("Measure %s: %v", name, err)
		}

		blockFn, err := transform.LookupBlock(name)
		if err != nil {
			log.Fatalf("Lookup %s: %v", name, err)
		}
		block, err := p.MeasureBlock(blockFn, *length)
		if err != nil {
			log.Fatalf("Measure %s: %v", name, err)
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", name,
			sample, percent(int64(sample), sampleBudget),
			block, percent(int64(block), blockBudget))
	}

	if *calibrate > 0 {
		ticks := uint32(*calibrate)
		got, err := p.MeasureSample(func(s audio.Sample) audio.Sample {
			p.Delay(ticks)
			return s
		})
		if err != nil {
			log.Fatalf("Calibrate: %v", err)
		}
		fmt.Fprintf(w, "delay(%d)\t%d\t%s\t\t\n", ticks, got, percent(int64(got), sampleBudget))
	}
	w.Flush()

	fmt.Printf("\nbudget: %dns per sample, %dns per %d-sample block at %v\n",
		sampleBudget, blockBudget, *length, sampleRate)
}

func percent(cost, budget int64) string {
	if budget <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(cost)/float64(budget))
}
