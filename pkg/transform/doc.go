// ABOUTME: Package transform provides example callbacks for the sampling pipeline
// ABOUTME: Sample transforms, block adapters, and a name registry for the CLI
// Package transform holds small callbacks used by the xlaudio tools to exercise the
// pipeline. They are examples of the opaque user transforms the pipeline runs, not a DSP
// library.
package transform
