// ABOUTME: Hardware abstraction package for the sampling pipeline
// ABOUTME: Collaborator interfaces plus host and in-memory implementations
// Package hal defines the collaborators the pipeline drives: an ADC, a DAC, telemetry pins
// and a sample clock. Peripheral bring-up lives behind these interfaces.
//
// Host implementations are provided for running the pipeline on a desktop:
//
//	clock := &hal.TickerClock{}
//	dac := &hal.MemoryDAC{}
//	adc := &hal.Mux{Inputs: map[audio.InputSource]hal.ADC{audio.Primary: tone}}
package hal
