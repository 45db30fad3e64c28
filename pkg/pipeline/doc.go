// ABOUTME: Package pipeline moves samples from an ADC to a DAC through a user transform
// ABOUTME: Provides the polling, interrupt, and block-DMA modes with a ping-pong handshake
// Package pipeline implements the sampling pipeline controller.
//
// A Controller is built once with Configure and then driven with Run. Three modes trade CPU
// involvement for throughput:
//
//   - Polling converts, transforms, and writes one sample at a time with no timing source.
//   - Interrupt runs a SampleTransform on every tick of the sample clock and flags overruns
//     when a tick arrives before the previous transform has returned.
//   - BlockDMA fills one capture buffer while the consumer transforms the other, and drains
//     one playback buffer while the consumer writes the other.
//
// Example:
//
//	ctrl, err := pipeline.Configure(pipeline.Config{
//		Mode:   pipeline.BlockDMA,
//		Rate:   audio.FS16000,
//		Length: audio.Length32,
//		Block:  func(in, out []audio.Sample) { copy(out, in) },
//		Hardware: pipeline.Hardware{
//			ADC:   adc,
//			DAC:   dac,
//			Clock: &hal.TickerClock{},
//		},
//	})
//	if err != nil {
//		log.Printf("Configuration failed: %v", err)
//	}
//	ctrl.Run(ctx) // a faulted controller blinks its error pin until ctx is done
package pipeline
