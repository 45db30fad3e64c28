// ABOUTME: Host ADC implementations for the sampling pipeline
// ABOUTME: Tone and noise generators, file playback, and microphone capture
// Package input provides ADCs that stand in for the board's converters on a host.
//
// Every input produces one sample per Trigger. Generators compute the sample directly,
// File decodes and resamples ahead in chunks, and Microphone drains a capture device
// queue. Build with -tags headless to leave out microphone capture.
package input
